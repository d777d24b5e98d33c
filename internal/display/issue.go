// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package display

// # Issue

// Issue is a single published item inside a series. SortCode positions it
// among its siblings; the revision engine owns all sort-code arithmetic and
// display code never mutates it directly.
type Issue struct {
	ID int64

	SeriesID int64
	SortCode int

	Number                  string
	Title                   string
	NoTitle                 bool
	Volume                  string
	NoVolume                bool
	DisplayVolumeWithNumber bool

	// VariantOfID is 0 for base issues.
	VariantOfID int64
	VariantName string

	PublicationDate string
	KeyDate         string

	// OnSaleDate is a partial ISO date (YYYY[-MM[-DD]]).
	OnSaleDate          string
	OnSaleDateUncertain bool

	IndiciaFrequency   string
	NoIndiciaFrequency bool

	Price              string
	PageCount          float64
	PageCountUncertain bool

	Editing   string
	NoEditing bool

	IndiciaPublisherID   int64
	IndiciaPubNotPrinted bool
	BrandID              int64
	NoBrand              bool

	ISBN      string
	NoISBN    bool
	ValidISBN string

	Barcode   string
	NoBarcode bool

	Rating   string
	NoRating bool

	Notes    string
	Keywords []string

	// IsIndexed is recomputed from active stories after each story commit.
	IsIndexed bool

	Reserved bool
}

func (i *Issue) Kind() Kind                { return KindIssue }
func (i *Issue) EntityID() int64           { return i.ID }
func (i *Issue) SetReserved(reserved bool) { i.Reserved = reserved }

// IsVariant reports whether the issue is a variant of another issue.
func (i *Issue) IsVariant() bool { return i.VariantOfID != 0 }
