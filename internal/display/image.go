// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package display

// ImageType classifies a supporting image and says whether its owner may
// carry more than one active image of that type.
type ImageType struct {
	Name   string
	Unique bool
}

// Built-in image types.
var (
	ImageTypeIndiciaScan   = ImageType{Name: "indicia_scan", Unique: true}
	ImageTypeSoOScan       = ImageType{Name: "soo_scan", Unique: true}
	ImageTypeBrandEmblem   = ImageType{Name: "brand_emblem", Unique: true}
	ImageTypeCreatorPortrait = ImageType{Name: "creator_portrait", Unique: false}
)

// ImageTypeByName resolves a stored type name. ok is false for unknown names.
func ImageTypeByName(name string) (ImageType, bool) {
	for _, t := range []ImageType{
		ImageTypeIndiciaScan,
		ImageTypeSoOScan,
		ImageTypeBrandEmblem,
		ImageTypeCreatorPortrait,
	} {
		if t.Name == name {
			return t, true
		}
	}
	return ImageType{}, false
}

// Image is a supporting image (indicia scan, brand emblem, ...) attached to
// an arbitrary owner row.
type Image struct {
	ID int64

	OwnerKind Kind
	OwnerID   int64

	TypeName string
	Marked   bool

	Reserved bool
}

func (img *Image) Kind() Kind                { return KindImage }
func (img *Image) EntityID() int64           { return img.ID }
func (img *Image) SetReserved(reserved bool) { img.Reserved = reserved }
