// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"

	"github.com/inkdex/inkdex/internal/display"
)

// # Brand Group Revisions

// BrandGroupRevision stages an edit to one [display.BrandGroup]. Adding a
// group also creates its first emblem, staged and committed as a cascade.
type BrandGroupRevision struct {
	Revision

	BrandGroupID int64

	ParentID int64

	Name               string
	YearBegan          int
	YearBeganUncertain bool
	YearEnded          int
	YearEndedUncertain bool
	URL                string
	Notes              string
	Keywords           string
}

func (r *BrandGroupRevision) Base() *Revision            { return &r.Revision }
func (r *BrandGroupRevision) Kind() display.Kind         { return display.KindBrandGroup }
func (r *BrandGroupRevision) SourceID() int64            { return r.BrandGroupID }
func (r *BrandGroupRevision) attach(id int64)            { r.BrandGroupID = id }
func (r *BrandGroupRevision) newDisplay() display.Entity { return &display.BrandGroup{} }

func (r *BrandGroupRevision) hooks(e *Engine) commitHooks {
	return &brandGroupHooks{engine: e, rev: r}
}

func (r *BrandGroupRevision) counts(context.Context, *Engine, display.Entity) (Counts, error) {
	return Counts{"brand groups": 1}, nil
}

func (r *BrandGroupRevision) tracked(_ *Engine, old display.Entity) []trackedField {
	oldBG, _ := old.(*display.BrandGroup)
	return []trackedField{{
		name: "publisher",
		kind: trackedValue,
		old: func(context.Context) (any, error) {
			if oldBG == nil {
				return nil, nil
			}
			return oldBG.ParentID, nil
		},
		new: staticValue(r.ParentID),
	}}
}

func (r *BrandGroupRevision) parents(e *Engine, old display.Entity) []parentRef {
	oldBG, _ := old.(*display.BrandGroup)
	return []parentRef{{
		name: "publisher",
		old: func(ctx context.Context) ([]display.Counted, error) {
			if oldBG == nil {
				return nil, nil
			}
			return countedPublisher(ctx, e, oldBG.ParentID)
		},
		new: func(ctx context.Context) ([]display.Counted, error) {
			return countedPublisher(ctx, e, r.ParentID)
		},
	}}
}

func (r *BrandGroupRevision) statKeys(ctx context.Context, e *Engine, old display.Entity) (CategoryKey, CategoryKey, error) {
	// Brand groups count under their publisher's country.
	var oldKey, newKey CategoryKey
	if oldBG, ok := old.(*display.BrandGroup); ok {
		pub, err := getAs[*display.Publisher](ctx, e, display.KindPublisher, oldBG.ParentID)
		if err != nil {
			return oldKey, newKey, err
		}
		if pub != nil {
			oldKey = CategoryKey{CountryID: pub.CountryID}
		}
	}
	pub, err := getAs[*display.Publisher](ctx, e, display.KindPublisher, r.ParentID)
	if err != nil {
		return oldKey, newKey, err
	}
	if pub != nil {
		newKey = CategoryKey{CountryID: pub.CountryID}
	}
	return oldKey, newKey, nil
}

// CloneBrandGroup reserves a brand group and stages its pending revision.
func (e *Engine) CloneBrandGroup(ctx context.Context, src *display.BrandGroup, changeset *Changeset) (*BrandGroupRevision, error) {
	rev := &BrandGroupRevision{}
	var ent display.Entity
	if src != nil {
		ent = src
	}
	if err := e.Clone(ctx, rev, ent, changeset); err != nil {
		return nil, err
	}
	return rev, nil
}

type brandGroupHooks struct {
	noopHooks
	engine *Engine
	rev    *BrandGroupRevision
}

// postAdjustStats cascades the group's first emblem on an add: a brand
// with the same name and lifespan, member of exactly this group.
func (h *brandGroupHooks) postAdjustStats(ctx context.Context, obj display.Entity, _ ChangeSet) error {
	if !h.rev.Added() {
		return nil
	}
	group := obj.(*display.BrandGroup)
	cascade := &BrandRevision{
		Name:               h.rev.Name,
		YearBegan:          h.rev.YearBegan,
		YearBeganUncertain: h.rev.YearBeganUncertain,
		YearEnded:          h.rev.YearEnded,
		YearEndedUncertain: h.rev.YearEndedUncertain,
		Keywords:           h.rev.Keywords,
		GroupIDs:           []int64{group.ID},
	}
	changeset, err := h.engine.data.Changesets().Get(ctx, h.rev.ChangesetID)
	if err != nil {
		return err
	}
	if err := h.engine.Add(ctx, cascade, changeset); err != nil {
		return err
	}
	return h.engine.commitRevision(ctx, cascade)
}

var _ = register(&revisionKind{
	kind: display.KindBrandGroup,
	displayFields: []string{
		"parent", "name", "year_began", "year_began_uncertain", "year_ended",
		"year_ended_uncertain", "url", "notes", "keywords", "issue_count",
	},
	fields: []fieldSpec{
		single("parent",
			func(r *BrandGroupRevision, bg *display.BrandGroup) { bg.ParentID = r.ParentID },
			func(r *BrandGroupRevision, bg *display.BrandGroup) { r.ParentID = bg.ParentID }),
		single("name",
			func(r *BrandGroupRevision, bg *display.BrandGroup) { bg.Name = r.Name },
			func(r *BrandGroupRevision, bg *display.BrandGroup) { r.Name = bg.Name }),
		single("year_began",
			func(r *BrandGroupRevision, bg *display.BrandGroup) { bg.YearBegan = r.YearBegan },
			func(r *BrandGroupRevision, bg *display.BrandGroup) { r.YearBegan = bg.YearBegan }),
		single("year_began_uncertain",
			func(r *BrandGroupRevision, bg *display.BrandGroup) { bg.YearBeganUncertain = r.YearBeganUncertain },
			func(r *BrandGroupRevision, bg *display.BrandGroup) { r.YearBeganUncertain = bg.YearBeganUncertain }),
		single("year_ended",
			func(r *BrandGroupRevision, bg *display.BrandGroup) { bg.YearEnded = r.YearEnded },
			func(r *BrandGroupRevision, bg *display.BrandGroup) { r.YearEnded = bg.YearEnded }),
		single("year_ended_uncertain",
			func(r *BrandGroupRevision, bg *display.BrandGroup) { bg.YearEndedUncertain = r.YearEndedUncertain },
			func(r *BrandGroupRevision, bg *display.BrandGroup) { r.YearEndedUncertain = bg.YearEndedUncertain }),
		single("url",
			func(r *BrandGroupRevision, bg *display.BrandGroup) { bg.URL = r.URL },
			func(r *BrandGroupRevision, bg *display.BrandGroup) { r.URL = bg.URL }),
		single("notes",
			func(r *BrandGroupRevision, bg *display.BrandGroup) { bg.Notes = r.Notes },
			func(r *BrandGroupRevision, bg *display.BrandGroup) { r.Notes = bg.Notes }),
		keywords(
			func(r *BrandGroupRevision) *string { return &r.Keywords },
			func(bg *display.BrandGroup) *[]string { return &bg.Keywords }),
	},
	irregular: []string{"issue_count"},
})

// # Brand Revisions

// BrandRevision stages an edit to one [display.Brand]. Group membership is
// the only collection field in the catalogue.
type BrandRevision struct {
	Revision

	BrandID int64

	Name               string
	YearBegan          int
	YearBeganUncertain bool
	YearEnded          int
	YearEndedUncertain bool
	URL                string
	Notes              string
	Keywords           string

	GroupIDs []int64
}

func (r *BrandRevision) Base() *Revision            { return &r.Revision }
func (r *BrandRevision) Kind() display.Kind         { return display.KindBrand }
func (r *BrandRevision) SourceID() int64            { return r.BrandID }
func (r *BrandRevision) attach(id int64)            { r.BrandID = id }
func (r *BrandRevision) newDisplay() display.Entity { return &display.Brand{} }

func (r *BrandRevision) hooks(e *Engine) commitHooks {
	return &brandHooks{engine: e, rev: r}
}

func (r *BrandRevision) counts(context.Context, *Engine, display.Entity) (Counts, error) {
	return Counts{"brands": 1}, nil
}

func (r *BrandRevision) tracked(_ *Engine, old display.Entity) []trackedField {
	oldBrand, _ := old.(*display.Brand)
	return []trackedField{{
		name: "group",
		kind: trackedMulti,
		old: func(context.Context) (any, error) {
			if oldBrand == nil {
				return nil, nil
			}
			return oldBrand.GroupIDs, nil
		},
		new: staticValue(r.GroupIDs),
	}}
}

func (r *BrandRevision) parents(e *Engine, old display.Entity) []parentRef {
	oldBrand, _ := old.(*display.Brand)
	return []parentRef{{
		name: "group",
		old: func(ctx context.Context) ([]display.Counted, error) {
			if oldBrand == nil {
				return nil, nil
			}
			return countedGroups(ctx, e, oldBrand.GroupIDs)
		},
		new: func(ctx context.Context) ([]display.Counted, error) {
			return countedGroups(ctx, e, r.GroupIDs)
		},
	}}
}

func (r *BrandRevision) statKeys(context.Context, *Engine, display.Entity) (CategoryKey, CategoryKey, error) {
	// Brands have no single country; they count under the none bucket.
	return CategoryKey{}, CategoryKey{}, nil
}

// CloneBrand reserves a brand emblem and stages its pending revision.
func (e *Engine) CloneBrand(ctx context.Context, src *display.Brand, changeset *Changeset) (*BrandRevision, error) {
	rev := &BrandRevision{}
	var ent display.Entity
	if src != nil {
		ent = src
	}
	if err := e.Clone(ctx, rev, ent, changeset); err != nil {
		return nil, err
	}
	return rev, nil
}

func countedGroups(ctx context.Context, e *Engine, ids []int64) ([]display.Counted, error) {
	var groups []display.Counted
	for _, id := range ids {
		bg, err := getAs[*display.BrandGroup](ctx, e, display.KindBrandGroup, id)
		if err != nil {
			return nil, err
		}
		if bg != nil {
			groups = append(groups, bg)
		}
	}
	return groups, nil
}

type brandHooks struct {
	noopHooks
	engine *Engine
	rev    *BrandRevision
}

// preCommitCheck rejects multi-group creation. The editing UI only offers
// a single group on an add; anything else reaching the engine is a fault.
func (h *brandHooks) preCommitCheck(context.Context) error {
	if h.rev.Added() && len(h.rev.GroupIDs) != 1 {
		return Faultf("brand creation with %d groups is not supported, want exactly one", len(h.rev.GroupIDs))
	}
	return nil
}

func (h *brandHooks) postAdjustStats(ctx context.Context, obj display.Entity, changes ChangeSet) error {
	if h.rev.Deleted {
		return nil
	}
	brand := obj.(*display.Brand)

	// Group membership changes move the brand's cached issue total between
	// the groups it left and the groups it joined.
	if !h.rev.Added() && changes.Changed("group") && brand.IssueCount != 0 {
		oldIDs := asIDs(changes.Old("group"))
		newIDs := asIDs(changes.New("group"))
		if err := h.moveIssueTotal(ctx, setMinus(oldIDs, newIDs), -brand.IssueCount); err != nil {
			return err
		}
		if err := h.moveIssueTotal(ctx, setMinus(newIDs, oldIDs), brand.IssueCount); err != nil {
			return err
		}
	}

	// A new emblem cascades its first use record at the group's publisher.
	if h.rev.Added() {
		group, err := getAs[*display.BrandGroup](ctx, h.engine, display.KindBrandGroup, h.rev.GroupIDs[0])
		if err != nil {
			return err
		}
		if group == nil {
			return Faultf("brand %d references missing group %d", brand.ID, h.rev.GroupIDs[0])
		}
		changeset, err := h.engine.data.Changesets().Get(ctx, h.rev.ChangesetID)
		if err != nil {
			return err
		}
		use := &BrandUseRevision{
			EmblemID:           brand.ID,
			PublisherID:        group.ParentID,
			YearBegan:          h.rev.YearBegan,
			YearBeganUncertain: h.rev.YearBeganUncertain,
			YearEnded:          h.rev.YearEnded,
			YearEndedUncertain: h.rev.YearEndedUncertain,
		}
		if err := h.engine.Add(ctx, use, changeset); err != nil {
			return err
		}
		return h.engine.commitRevision(ctx, use)
	}
	return nil
}

func (h *brandHooks) moveIssueTotal(ctx context.Context, groupIDs []int64, delta int) error {
	groups, err := countedGroups(ctx, h.engine, groupIDs)
	if err != nil {
		return err
	}
	return h.engine.applyToParents(ctx, groups, Counts{"issues": delta})
}

// setMinus returns the ids in a that are not in b, preserving order.
func setMinus(a, b []int64) []int64 {
	drop := make(map[int64]bool, len(b))
	for _, id := range b {
		drop[id] = true
	}
	var out []int64
	for _, id := range a {
		if !drop[id] {
			out = append(out, id)
		}
	}
	return out
}

var _ = register(&revisionKind{
	kind: display.KindBrand,
	displayFields: []string{
		"name", "year_began", "year_began_uncertain", "year_ended",
		"year_ended_uncertain", "url", "notes", "keywords", "group",
		"issue_count",
	},
	fields: []fieldSpec{
		single("name",
			func(r *BrandRevision, b *display.Brand) { b.Name = r.Name },
			func(r *BrandRevision, b *display.Brand) { r.Name = b.Name }),
		single("year_began",
			func(r *BrandRevision, b *display.Brand) { b.YearBegan = r.YearBegan },
			func(r *BrandRevision, b *display.Brand) { r.YearBegan = b.YearBegan }),
		single("year_began_uncertain",
			func(r *BrandRevision, b *display.Brand) { b.YearBeganUncertain = r.YearBeganUncertain },
			func(r *BrandRevision, b *display.Brand) { r.YearBeganUncertain = b.YearBeganUncertain }),
		single("year_ended",
			func(r *BrandRevision, b *display.Brand) { b.YearEnded = r.YearEnded },
			func(r *BrandRevision, b *display.Brand) { r.YearEnded = b.YearEnded }),
		single("year_ended_uncertain",
			func(r *BrandRevision, b *display.Brand) { b.YearEndedUncertain = r.YearEndedUncertain },
			func(r *BrandRevision, b *display.Brand) { r.YearEndedUncertain = b.YearEndedUncertain }),
		single("url",
			func(r *BrandRevision, b *display.Brand) { b.URL = r.URL },
			func(r *BrandRevision, b *display.Brand) { r.URL = b.URL }),
		single("notes",
			func(r *BrandRevision, b *display.Brand) { b.Notes = r.Notes },
			func(r *BrandRevision, b *display.Brand) { r.Notes = b.Notes }),
		multi("group",
			func(r *BrandRevision, b *display.Brand) { b.GroupIDs = append([]int64(nil), r.GroupIDs...) },
			func(r *BrandRevision, b *display.Brand) { r.GroupIDs = append([]int64(nil), b.GroupIDs...) }),
		keywords(
			func(r *BrandRevision) *string { return &r.Keywords },
			func(b *display.Brand) *[]string { return &b.Keywords }),
	},
	irregular: []string{"issue_count"},
})

// # Brand Use Revisions

// BrandUseRevision stages an edit to one [display.BrandUse].
type BrandUseRevision struct {
	Revision

	BrandUseID int64

	EmblemID    int64
	PublisherID int64

	YearBegan          int
	YearBeganUncertain bool
	YearEnded          int
	YearEndedUncertain bool
	Notes              string
}

func (r *BrandUseRevision) Base() *Revision            { return &r.Revision }
func (r *BrandUseRevision) Kind() display.Kind         { return display.KindBrandUse }
func (r *BrandUseRevision) SourceID() int64            { return r.BrandUseID }
func (r *BrandUseRevision) attach(id int64)            { r.BrandUseID = id }
func (r *BrandUseRevision) newDisplay() display.Entity { return &display.BrandUse{} }

func (r *BrandUseRevision) hooks(*Engine) commitHooks { return noopHooks{} }

func (r *BrandUseRevision) counts(context.Context, *Engine, display.Entity) (Counts, error) {
	return Counts{}, nil
}

func (r *BrandUseRevision) tracked(*Engine, display.Entity) []trackedField { return nil }

func (r *BrandUseRevision) parents(*Engine, display.Entity) []parentRef { return nil }

func (r *BrandUseRevision) statKeys(context.Context, *Engine, display.Entity) (CategoryKey, CategoryKey, error) {
	return CategoryKey{}, CategoryKey{}, nil
}

// CloneBrandUse reserves a brand use record and stages its pending revision.
func (e *Engine) CloneBrandUse(ctx context.Context, src *display.BrandUse, changeset *Changeset) (*BrandUseRevision, error) {
	rev := &BrandUseRevision{}
	var ent display.Entity
	if src != nil {
		ent = src
	}
	if err := e.Clone(ctx, rev, ent, changeset); err != nil {
		return nil, err
	}
	return rev, nil
}

var _ = register(&revisionKind{
	kind: display.KindBrandUse,
	displayFields: []string{
		"emblem", "publisher", "year_began", "year_began_uncertain",
		"year_ended", "year_ended_uncertain", "notes",
	},
	fields: []fieldSpec{
		single("emblem",
			func(r *BrandUseRevision, bu *display.BrandUse) { bu.EmblemID = r.EmblemID },
			func(r *BrandUseRevision, bu *display.BrandUse) { r.EmblemID = bu.EmblemID }),
		single("publisher",
			func(r *BrandUseRevision, bu *display.BrandUse) { bu.PublisherID = r.PublisherID },
			func(r *BrandUseRevision, bu *display.BrandUse) { r.PublisherID = bu.PublisherID }),
		single("year_began",
			func(r *BrandUseRevision, bu *display.BrandUse) { bu.YearBegan = r.YearBegan },
			func(r *BrandUseRevision, bu *display.BrandUse) { r.YearBegan = bu.YearBegan }),
		single("year_began_uncertain",
			func(r *BrandUseRevision, bu *display.BrandUse) { bu.YearBeganUncertain = r.YearBeganUncertain },
			func(r *BrandUseRevision, bu *display.BrandUse) { r.YearBeganUncertain = bu.YearBeganUncertain }),
		single("year_ended",
			func(r *BrandUseRevision, bu *display.BrandUse) { bu.YearEnded = r.YearEnded },
			func(r *BrandUseRevision, bu *display.BrandUse) { r.YearEnded = bu.YearEnded }),
		single("year_ended_uncertain",
			func(r *BrandUseRevision, bu *display.BrandUse) { bu.YearEndedUncertain = r.YearEndedUncertain },
			func(r *BrandUseRevision, bu *display.BrandUse) { r.YearEndedUncertain = bu.YearEndedUncertain }),
		single("notes",
			func(r *BrandUseRevision, bu *display.BrandUse) { bu.Notes = r.Notes },
			func(r *BrandUseRevision, bu *display.BrandUse) { r.Notes = bu.Notes }),
	},
})
