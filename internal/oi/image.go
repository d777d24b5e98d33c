// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"

	"github.com/inkdex/inkdex/internal/display"
)

// # Image Revisions

// ImageRevision stages an edit to one [display.Image]. Unique image types
// (indicia scans, brand emblems) allow at most one active image per owner;
// the add path enforces that before anything is written.
type ImageRevision struct {
	Revision

	ImageID int64

	OwnerKind display.Kind
	OwnerID   int64

	TypeName string
	Marked   bool
}

func (r *ImageRevision) Base() *Revision            { return &r.Revision }
func (r *ImageRevision) Kind() display.Kind         { return display.KindImage }
func (r *ImageRevision) SourceID() int64            { return r.ImageID }
func (r *ImageRevision) attach(id int64)            { r.ImageID = id }
func (r *ImageRevision) newDisplay() display.Entity { return &display.Image{} }

func (r *ImageRevision) hooks(e *Engine) commitHooks {
	return &imageHooks{engine: e, rev: r}
}

func (r *ImageRevision) counts(context.Context, *Engine, display.Entity) (Counts, error) {
	return Counts{}, nil
}

func (r *ImageRevision) tracked(*Engine, display.Entity) []trackedField { return nil }

func (r *ImageRevision) parents(*Engine, display.Entity) []parentRef { return nil }

func (r *ImageRevision) statKeys(context.Context, *Engine, display.Entity) (CategoryKey, CategoryKey, error) {
	return CategoryKey{}, CategoryKey{}, nil
}

// CloneImage reserves an image and stages its pending revision.
func (e *Engine) CloneImage(ctx context.Context, src *display.Image, changeset *Changeset) (*ImageRevision, error) {
	rev := &ImageRevision{}
	var ent display.Entity
	if src != nil {
		ent = src
	}
	if err := e.Clone(ctx, rev, ent, changeset); err != nil {
		return nil, err
	}
	return rev, nil
}

type imageHooks struct {
	noopHooks

	engine *Engine
	rev    *ImageRevision
}

func (h *imageHooks) preCommitCheck(ctx context.Context) error {
	imageType, ok := display.ImageTypeByName(h.rev.TypeName)
	if !ok {
		return Preconditionf("unknown image type %q", h.rev.TypeName)
	}
	if !h.rev.Added() || !imageType.Unique {
		return nil
	}
	count, err := h.engine.store.Images().CountActive(ctx, h.rev.OwnerKind, h.rev.OwnerID, h.rev.TypeName)
	if err != nil {
		return err
	}
	if count > 0 {
		return Preconditionf("%s %d already has an active %s image",
			string(h.rev.OwnerKind), h.rev.OwnerID, h.rev.TypeName)
	}
	return nil
}

var _ = register(&revisionKind{
	kind: display.KindImage,
	displayFields: []string{
		"owner_kind", "owner_id", "type_name", "marked",
	},
	fields: []fieldSpec{
		single("owner_kind",
			func(r *ImageRevision, img *display.Image) { img.OwnerKind = r.OwnerKind },
			func(r *ImageRevision, img *display.Image) { r.OwnerKind = img.OwnerKind }),
		single("owner_id",
			func(r *ImageRevision, img *display.Image) { img.OwnerID = r.OwnerID },
			func(r *ImageRevision, img *display.Image) { r.OwnerID = img.OwnerID }),
		single("type_name",
			func(r *ImageRevision, img *display.Image) { img.TypeName = r.TypeName },
			func(r *ImageRevision, img *display.Image) { r.TypeName = img.TypeName }),
		single("marked",
			func(r *ImageRevision, img *display.Image) { img.Marked = r.Marked },
			func(r *ImageRevision, img *display.Image) { r.Marked = img.Marked }),
	},
})
