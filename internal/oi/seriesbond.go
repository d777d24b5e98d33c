// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"

	"github.com/inkdex/inkdex/internal/display"
)

// # Series Bond Revisions

// SeriesBondRevision stages an edit to one [display.SeriesBond]. Bonds
// carry no statistics; deleting one detaches the sibling revisions still
// pointing at the row so they stay loadable as history.
type SeriesBondRevision struct {
	Revision

	SeriesBondID int64

	OriginID      int64
	OriginIssueID int64
	TargetID      int64
	TargetIssueID int64

	BondType display.BondType
	Notes    string
}

func (r *SeriesBondRevision) Base() *Revision            { return &r.Revision }
func (r *SeriesBondRevision) Kind() display.Kind         { return display.KindSeriesBond }
func (r *SeriesBondRevision) SourceID() int64            { return r.SeriesBondID }
func (r *SeriesBondRevision) attach(id int64)            { r.SeriesBondID = id }
func (r *SeriesBondRevision) newDisplay() display.Entity { return &display.SeriesBond{} }

func (r *SeriesBondRevision) hooks(e *Engine) commitHooks {
	return &seriesBondHooks{engine: e, rev: r}
}

func (r *SeriesBondRevision) counts(context.Context, *Engine, display.Entity) (Counts, error) {
	return Counts{}, nil
}

func (r *SeriesBondRevision) tracked(*Engine, display.Entity) []trackedField { return nil }

func (r *SeriesBondRevision) parents(*Engine, display.Entity) []parentRef { return nil }

func (r *SeriesBondRevision) statKeys(context.Context, *Engine, display.Entity) (CategoryKey, CategoryKey, error) {
	return CategoryKey{}, CategoryKey{}, nil
}

// CloneSeriesBond reserves a series bond and stages its pending revision.
func (e *Engine) CloneSeriesBond(ctx context.Context, src *display.SeriesBond, changeset *Changeset) (*SeriesBondRevision, error) {
	rev := &SeriesBondRevision{}
	var ent display.Entity
	if src != nil {
		ent = src
	}
	if err := e.Clone(ctx, rev, ent, changeset); err != nil {
		return nil, err
	}
	return rev, nil
}

type seriesBondHooks struct {
	noopHooks

	engine *Engine
	rev    *SeriesBondRevision
}

// preDelete detaches every other revision bound to the bond row. A deleted
// bond leaves its revision history readable without a dangling source id.
func (h *seriesBondHooks) preDelete(ctx context.Context, obj display.Entity) error {
	siblings, err := h.engine.data.Revisions().BySource(ctx, display.KindSeriesBond, obj.EntityID())
	if err != nil {
		return err
	}
	for _, sibling := range siblings {
		bondRev, ok := sibling.(*SeriesBondRevision)
		if !ok || bondRev.ID == h.rev.ID {
			continue
		}
		bondRev.SeriesBondID = 0
		if err := h.engine.data.Revisions().Save(ctx, bondRev); err != nil {
			return err
		}
	}
	return nil
}

var _ = register(&revisionKind{
	kind: display.KindSeriesBond,
	displayFields: []string{
		"origin", "origin_issue", "target", "target_issue", "bond_type",
		"notes",
	},
	fields: []fieldSpec{
		single("origin",
			func(r *SeriesBondRevision, sb *display.SeriesBond) { sb.OriginID = r.OriginID },
			func(r *SeriesBondRevision, sb *display.SeriesBond) { r.OriginID = sb.OriginID }),
		single("origin_issue",
			func(r *SeriesBondRevision, sb *display.SeriesBond) { sb.OriginIssueID = r.OriginIssueID },
			func(r *SeriesBondRevision, sb *display.SeriesBond) { r.OriginIssueID = sb.OriginIssueID }),
		single("target",
			func(r *SeriesBondRevision, sb *display.SeriesBond) { sb.TargetID = r.TargetID },
			func(r *SeriesBondRevision, sb *display.SeriesBond) { r.TargetID = sb.TargetID }),
		single("target_issue",
			func(r *SeriesBondRevision, sb *display.SeriesBond) { sb.TargetIssueID = r.TargetIssueID },
			func(r *SeriesBondRevision, sb *display.SeriesBond) { r.TargetIssueID = sb.TargetIssueID }),
		single("bond_type",
			func(r *SeriesBondRevision, sb *display.SeriesBond) { sb.BondType = r.BondType },
			func(r *SeriesBondRevision, sb *display.SeriesBond) { r.BondType = sb.BondType }),
		single("notes",
			func(r *SeriesBondRevision, sb *display.SeriesBond) { sb.Notes = r.Notes },
			func(r *SeriesBondRevision, sb *display.SeriesBond) { r.Notes = sb.Notes }),
	},
})
