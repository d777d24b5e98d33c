// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"
	"time"

	"github.com/inkdex/inkdex/internal/display"
)

// # Cover Revisions

// CoverRevision stages an edit to one [display.Cover]. A cover may only
// change issues inside a changeset built for it (variant add or issue
// split), where the destination issue is unambiguous.
type CoverRevision struct {
	Revision

	CoverID int64

	IssueID int64

	Marked       bool
	IsWraparound bool

	FrontLeft   int
	FrontRight  int
	FrontTop    int
	FrontBottom int
}

func (r *CoverRevision) Base() *Revision            { return &r.Revision }
func (r *CoverRevision) Kind() display.Kind         { return display.KindCover }
func (r *CoverRevision) SourceID() int64            { return r.CoverID }
func (r *CoverRevision) attach(id int64)            { r.CoverID = id }
func (r *CoverRevision) newDisplay() display.Entity { return &display.Cover{} }

func (r *CoverRevision) hooks(e *Engine) commitHooks {
	return &coverHooks{engine: e, rev: r}
}

func (r *CoverRevision) counts(context.Context, *Engine, display.Entity) (Counts, error) {
	return Counts{"covers": 1}, nil
}

func (r *CoverRevision) tracked(_ *Engine, old display.Entity) []trackedField {
	oldCover, _ := old.(*display.Cover)
	return []trackedField{
		{
			name: "issue",
			kind: trackedValue,
			old: func(context.Context) (any, error) {
				if oldCover == nil {
					return nil, nil
				}
				return oldCover.IssueID, nil
			},
			new: staticValue(r.IssueID),
		},
	}
}

func (r *CoverRevision) parents(*Engine, display.Entity) []parentRef { return nil }

func (r *CoverRevision) statKeys(ctx context.Context, e *Engine, old display.Entity) (CategoryKey, CategoryKey, error) {
	var oldKey, newKey CategoryKey
	if oldCover, ok := old.(*display.Cover); ok {
		key, err := issueCategoryKey(ctx, e, oldCover.IssueID)
		if err != nil {
			return oldKey, newKey, err
		}
		oldKey = key
	}
	key, err := issueCategoryKey(ctx, e, r.IssueID)
	if err != nil {
		return oldKey, newKey, err
	}
	newKey = key
	return oldKey, newKey, nil
}

// CloneCover reserves a cover and stages its pending revision.
func (e *Engine) CloneCover(ctx context.Context, src *display.Cover, changeset *Changeset) (*CoverRevision, error) {
	rev := &CoverRevision{}
	var ent display.Entity
	if src != nil {
		ent = src
	}
	if err := e.Clone(ctx, rev, ent, changeset); err != nil {
		return nil, err
	}
	return rev, nil
}

type coverHooks struct {
	noopHooks

	engine *Engine
	rev    *CoverRevision
}

// preCommitCheck rejects cover moves outside the two changeset shapes that
// carry them, and moves whose destination issue is ambiguous.
func (h *coverHooks) preCommitCheck(ctx context.Context) error {
	if h.rev.Added() || h.rev.Deleted {
		return nil
	}
	oldCover, err := getAs[*display.Cover](ctx, h.engine, display.KindCover, h.rev.CoverID)
	if err != nil {
		return err
	}
	if oldCover == nil || oldCover.IssueID == h.rev.IssueID {
		return nil
	}

	changeset, err := h.engine.data.Changesets().Get(ctx, h.rev.ChangesetID)
	if err != nil {
		return err
	}
	if changeset.ChangeType != ChangeTypeVariantAdd && changeset.ChangeType != ChangeTypeTwoIssues {
		return Faultf("cover %d cannot change issues in a %s changeset", h.rev.CoverID, changeset.ChangeType)
	}
	issueRevs, err := h.engine.data.Revisions().ByChangesetKind(ctx, changeset.ID, display.KindIssue)
	if err != nil {
		return err
	}
	if len(issueRevs) > 2 {
		return Faultf("cover move has %d candidate issue revisions, want at most two", len(issueRevs))
	}
	return nil
}

func (h *coverHooks) postAssignFields(_ context.Context, obj display.Entity) error {
	cover := obj.(*display.Cover)
	if h.rev.Added() {
		cover.LastUpload = time.Now().UTC()
	}
	return nil
}

// postAdjustStats refreshes the gallery flag of every series the commit
// touched.
func (h *coverHooks) postAdjustStats(ctx context.Context, obj display.Entity, changes ChangeSet) error {
	touched := make([]int64, 0, 2)
	if cover, ok := obj.(*display.Cover); ok && cover != nil {
		touched = append(touched, cover.IssueID)
	}
	if changes.Changed("issue") {
		if oldID, ok := changes.Old("issue").(int64); ok {
			touched = append(touched, oldID)
		}
	}
	seen := make(map[int64]bool, len(touched))
	for _, issueID := range touched {
		if issueID == 0 || seen[issueID] {
			continue
		}
		seen[issueID] = true
		if err := h.refreshGallery(ctx, issueID); err != nil {
			return err
		}
	}
	return nil
}

// refreshGallery re-derives Series.HasGallery from the active cover count.
func (h *coverHooks) refreshGallery(ctx context.Context, issueID int64) error {
	issue, err := getAs[*display.Issue](ctx, h.engine, display.KindIssue, issueID)
	if err != nil || issue == nil {
		return err
	}
	series, err := getAs[*display.Series](ctx, h.engine, display.KindSeries, issue.SeriesID)
	if err != nil || series == nil {
		return err
	}
	count, err := h.engine.store.Covers().CountForSeries(ctx, series.ID)
	if err != nil {
		return err
	}
	has := count > 0
	if has == series.HasGallery {
		return nil
	}
	series.HasGallery = has
	return h.engine.store.Save(ctx, series)
}

var _ = register(&revisionKind{
	kind: display.KindCover,
	displayFields: []string{
		"issue", "marked", "is_wraparound", "front_left", "front_right",
		"front_top", "front_bottom", "last_upload",
	},
	fields: []fieldSpec{
		single("issue",
			func(r *CoverRevision, c *display.Cover) { c.IssueID = r.IssueID },
			func(r *CoverRevision, c *display.Cover) { r.IssueID = c.IssueID }),
		single("marked",
			func(r *CoverRevision, c *display.Cover) { c.Marked = r.Marked },
			func(r *CoverRevision, c *display.Cover) { r.Marked = c.Marked }),
		single("is_wraparound",
			func(r *CoverRevision, c *display.Cover) { c.IsWraparound = r.IsWraparound },
			func(r *CoverRevision, c *display.Cover) { r.IsWraparound = c.IsWraparound }),
		single("front_left",
			func(r *CoverRevision, c *display.Cover) { c.FrontLeft = r.FrontLeft },
			func(r *CoverRevision, c *display.Cover) { r.FrontLeft = c.FrontLeft }),
		single("front_right",
			func(r *CoverRevision, c *display.Cover) { c.FrontRight = r.FrontRight },
			func(r *CoverRevision, c *display.Cover) { r.FrontRight = c.FrontRight }),
		single("front_top",
			func(r *CoverRevision, c *display.Cover) { c.FrontTop = r.FrontTop },
			func(r *CoverRevision, c *display.Cover) { r.FrontTop = c.FrontTop }),
		single("front_bottom",
			func(r *CoverRevision, c *display.Cover) { c.FrontBottom = r.FrontBottom },
			func(r *CoverRevision, c *display.Cover) { r.FrontBottom = c.FrontBottom }),
	},
	irregular: []string{"last_upload"},
})
