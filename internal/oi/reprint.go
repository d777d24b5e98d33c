// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"

	"github.com/inkdex/inkdex/internal/display"
)

// # Reprint Revisions

/*
ReprintRevision stages an edit to one [display.ReprintLink].

A reprint revision edits the four endpoint ids directly; the link shape is
derived from which endpoints are populated when the revision commits, never
stored ahead of time. When a commit changes the shape of an existing link
the old row is retired and a fresh row takes its place, so a row id never
means two different shapes across history. Sibling revisions bound to the
retired row are redirected to the replacement.

Endpoints may also name story revisions instead of display stories. That is
how a changeset links a reprint to a story it is adding in the same breath:
stories commit before reprints, so by the time the reprint commits the
story revision carries the display id the endpoint resolves to.
*/
type ReprintRevision struct {
	Revision

	ReprintID int64

	OriginStoryID int64
	OriginIssueID int64
	TargetStoryID int64
	TargetIssueID int64

	// OriginRevisionID and TargetRevisionID reference story revisions in
	// the same changeset whose display rows do not exist yet. They resolve
	// into the story endpoint ids at commit.
	OriginRevisionID int64
	TargetRevisionID int64

	Notes string
}

func (r *ReprintRevision) Base() *Revision            { return &r.Revision }
func (r *ReprintRevision) Kind() display.Kind         { return display.KindReprint }
func (r *ReprintRevision) SourceID() int64            { return r.ReprintID }
func (r *ReprintRevision) attach(id int64)            { r.ReprintID = id }
func (r *ReprintRevision) newDisplay() display.Entity { return &display.ReprintLink{} }

func (r *ReprintRevision) hooks(e *Engine) commitHooks {
	return &reprintHooks{engine: e, rev: r}
}

func (r *ReprintRevision) counts(context.Context, *Engine, display.Entity) (Counts, error) {
	return Counts{}, nil
}

func (r *ReprintRevision) tracked(*Engine, display.Entity) []trackedField { return nil }

func (r *ReprintRevision) parents(*Engine, display.Entity) []parentRef { return nil }

func (r *ReprintRevision) statKeys(context.Context, *Engine, display.Entity) (CategoryKey, CategoryKey, error) {
	return CategoryKey{}, CategoryKey{}, nil
}

// CloneReprint reserves a reprint link and stages its pending revision.
func (e *Engine) CloneReprint(ctx context.Context, src *display.ReprintLink, changeset *Changeset) (*ReprintRevision, error) {
	rev := &ReprintRevision{}
	var ent display.Entity
	if src != nil {
		ent = src
	}
	if err := e.Clone(ctx, rev, ent, changeset); err != nil {
		return nil, err
	}
	return rev, nil
}

type reprintHooks struct {
	noopHooks

	engine *Engine
	rev    *ReprintRevision

	// Captured before fields are copied, so a shape change can retire the
	// old row during the same commit.
	oldRowID int64
	oldKind  display.ReprintKind
}

// preCommitCheck resolves story-revision endpoints into display ids and
// snapshots the current row shape.
func (h *reprintHooks) preCommitCheck(ctx context.Context) error {
	if h.rev.OriginRevisionID != 0 && h.rev.OriginStoryID == 0 {
		id, err := h.resolveStoryEndpoint(ctx, h.rev.OriginRevisionID)
		if err != nil {
			return err
		}
		h.rev.OriginStoryID = id
	}
	if h.rev.TargetRevisionID != 0 && h.rev.TargetStoryID == 0 {
		id, err := h.resolveStoryEndpoint(ctx, h.rev.TargetRevisionID)
		if err != nil {
			return err
		}
		h.rev.TargetStoryID = id
	}

	if h.rev.Added() {
		return nil
	}
	old, err := getAs[*display.ReprintLink](ctx, h.engine, display.KindReprint, h.rev.ReprintID)
	if err != nil {
		return err
	}
	if old != nil {
		h.oldRowID = old.ID
		h.oldKind = old.LinkKind
	}
	return nil
}

func (h *reprintHooks) resolveStoryEndpoint(ctx context.Context, revisionID int64) (int64, error) {
	rev, err := h.engine.data.Revisions().Get(ctx, display.KindStory, revisionID)
	if err != nil {
		return 0, err
	}
	storyRev, ok := rev.(*StoryRevision)
	if !ok {
		return 0, Faultf("reprint endpoint revision %d is not a story revision", revisionID)
	}
	if !storyRev.CommittedToDisplay() || storyRev.StoryID == 0 {
		return 0, Faultf("reprint endpoint story revision %d has not committed", revisionID)
	}
	return storyRev.StoryID, nil
}

func (h *reprintHooks) postAssignFields(_ context.Context, obj display.Entity) error {
	link := obj.(*display.ReprintLink)
	link.LinkKind = display.KindFor(link.OriginStoryID, link.OriginIssueID, link.TargetStoryID, link.TargetIssueID)
	return nil
}

// preSaveObject retires the old row when the commit changes the link shape.
// Zeroing the id makes the save insert a replacement row.
func (h *reprintHooks) preSaveObject(ctx context.Context, obj display.Entity, _ ChangeSet) error {
	link := obj.(*display.ReprintLink)
	if h.oldRowID == 0 || link.LinkKind == h.oldKind {
		return nil
	}
	if err := h.engine.store.Delete(ctx, display.KindReprint, h.oldRowID); err != nil {
		return err
	}
	link.ID = 0
	return nil
}

// postSaveObject finishes a shape change: the revision re-binds to the
// replacement row and every sibling revision follows it.
func (h *reprintHooks) postSaveObject(ctx context.Context, obj display.Entity, _ ChangeSet) error {
	link := obj.(*display.ReprintLink)
	if h.oldRowID == 0 || link.ID == h.oldRowID {
		return nil
	}
	h.rev.ReprintID = link.ID
	return h.rebindSiblings(ctx, h.oldRowID, link.ID)
}

// preDelete detaches sibling revisions from a fully deleted link.
func (h *reprintHooks) preDelete(ctx context.Context, obj display.Entity) error {
	return h.rebindSiblings(ctx, obj.EntityID(), 0)
}

func (h *reprintHooks) rebindSiblings(ctx context.Context, fromID, toID int64) error {
	siblings, err := h.engine.data.Revisions().BySource(ctx, display.KindReprint, fromID)
	if err != nil {
		return err
	}
	for _, sibling := range siblings {
		reprintRev, ok := sibling.(*ReprintRevision)
		if !ok || reprintRev.ID == h.rev.ID {
			continue
		}
		reprintRev.ReprintID = toID
		if err := h.engine.data.Revisions().Save(ctx, reprintRev); err != nil {
			return err
		}
	}
	return nil
}

var _ = register(&revisionKind{
	kind: display.KindReprint,
	displayFields: []string{
		"origin_story", "origin_issue", "target_story", "target_issue",
		"notes", "link_kind",
	},
	fields: []fieldSpec{
		single("origin_story",
			func(r *ReprintRevision, l *display.ReprintLink) { l.OriginStoryID = r.OriginStoryID },
			func(r *ReprintRevision, l *display.ReprintLink) { r.OriginStoryID = l.OriginStoryID }),
		single("origin_issue",
			func(r *ReprintRevision, l *display.ReprintLink) { l.OriginIssueID = r.OriginIssueID },
			func(r *ReprintRevision, l *display.ReprintLink) { r.OriginIssueID = l.OriginIssueID }),
		single("target_story",
			func(r *ReprintRevision, l *display.ReprintLink) { l.TargetStoryID = r.TargetStoryID },
			func(r *ReprintRevision, l *display.ReprintLink) { r.TargetStoryID = l.TargetStoryID }),
		single("target_issue",
			func(r *ReprintRevision, l *display.ReprintLink) { l.TargetIssueID = r.TargetIssueID },
			func(r *ReprintRevision, l *display.ReprintLink) { r.TargetIssueID = l.TargetIssueID }),
		single("notes",
			func(r *ReprintRevision, l *display.ReprintLink) { l.Notes = r.Notes },
			func(r *ReprintRevision, l *display.ReprintLink) { r.Notes = l.Notes }),
	},
	irregular: []string{"link_kind"},
})
