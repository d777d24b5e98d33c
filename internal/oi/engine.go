// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/inkdex/inkdex/internal/display"
)

// # Engine

// RecentsSink receives a note whenever an issue gains or refreshes its
// index after approval. The production sink feeds the public
// recently-indexed feed; a nil-safe no-op is installed by default.
type RecentsSink interface {
	IssueIndexed(context context.Context, issueID int64, at time.Time) error
}

type noopRecents struct{}

func (noopRecents) IssueIndexed(context.Context, int64, time.Time) error { return nil }

// Engine drives the revision workflow: reserving rows, cloning revisions,
// and committing approved changesets to display.
type Engine struct {
	store display.Store
	data  Store
	stats StatsSink

	recents RecentsSink
	log     *slog.Logger
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithRecents installs the recently-indexed feed sink.
func WithRecents(sink RecentsSink) Option {
	return func(e *Engine) { e.recents = sink }
}

// WithLogger installs the engine logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New assembles an engine around its three required collaborators.
func New(store display.Store, data Store, stats StatsSink, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		data:    data,
		stats:   stats,
		recents: noopRecents{},
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// getAs fetches a display row and narrows it to a concrete type. An id of
// 0 resolves to the typed zero value, matching the missing-reference
// convention used throughout the revision tables.
func getAs[D display.Entity](ctx context.Context, e *Engine, kind display.Kind, id int64) (D, error) {
	var zero D
	if id == 0 {
		return zero, nil
	}
	ent, err := e.store.Get(ctx, kind, id)
	if err != nil {
		return zero, err
	}
	d, ok := ent.(D)
	if !ok {
		return zero, Faultf("display row %s/%d has unexpected concrete type %T", kind, id, ent)
	}
	return d, nil
}

// # Changeset Lifecycle

// NewChangeset opens an editing session.
func (e *Engine) NewChangeset(ctx context.Context, indexer string, changeType ChangeType) (*Changeset, error) {
	now := time.Now().UTC()
	cs := &Changeset{
		State:      StateOpen,
		ChangeType: changeType,
		Indexer:    indexer,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if err := e.data.Changesets().Save(ctx, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

/*
Clone reserves a display row for a changeset and stages rev as its pending
revision.

The row lock is acquired first; a row already held by another changeset
aborts with a [PreconditionError]. Single-value fields (and the keywords
join) are copied from src onto the revision, the revision is persisted,
then collection fields are copied. The previous-revision back-reference is
resolved from the committed chain; any cardinality other than exactly one
chain head is a [FaultError].

A nil src stages a brand-new row: no lock, no field copy, no chain lookup.

Parameters:
  - context: context.Context
  - rev: EntityRevision (freshly constructed, zero id)
  - src: display.Entity (nil for adds)
  - changeset: *Changeset

Returns:
  - error: Lock contention, chain inconsistency, or store failures
*/
func (e *Engine) Clone(ctx context.Context, rev EntityRevision, src display.Entity, changeset *Changeset) error {
	base := rev.Base()
	now := time.Now().UTC()
	base.ChangesetID = changeset.ID
	base.CreatedAt = now
	base.ModifiedAt = now

	hooks := rev.hooks(e)
	table := kindTable(rev.Kind())

	if src != nil && src.EntityID() != 0 {
		if _, err := e.data.Locks().Acquire(ctx, rev.Kind(), src.EntityID(), changeset.ID); err != nil {
			return err
		}
		rev.attach(src.EntityID())

		heads, err := e.data.Revisions().LatestCommitted(ctx, rev.Kind(), src.EntityID())
		if err != nil {
			return err
		}
		if len(heads) != 1 {
			return Faultf("%s %d has %d latest committed revisions, want exactly one",
				rev.Kind(), src.EntityID(), len(heads))
		}
		base.PreviousRevisionID = heads[0].Base().ID

		for _, f := range table.fields {
			if f.kind != MultiValue {
				f.resync(rev, src)
			}
		}

		src.SetReserved(true)
		if err := e.store.Save(ctx, src); err != nil {
			return err
		}
	}

	if err := hooks.preInitialSave(ctx, src); err != nil {
		return err
	}
	if err := e.data.Revisions().Save(ctx, rev); err != nil {
		return err
	}

	if src != nil && src.EntityID() != 0 {
		for _, f := range table.fields {
			if f.kind == MultiValue {
				f.resync(rev, src)
			}
		}
	}
	if err := hooks.postClonePopulate(ctx, src); err != nil {
		return err
	}
	if err := e.data.Revisions().Save(ctx, rev); err != nil {
		return err
	}

	e.log.InfoContext(ctx, "revision_staged",
		"kind", string(rev.Kind()),
		"revision_id", base.ID,
		"changeset_id", changeset.ID,
		"source_id", rev.SourceID(),
		"deleted", base.Deleted,
	)
	return nil
}

// Add stages a revision for a brand-new display row.
func (e *Engine) Add(ctx context.Context, rev EntityRevision, changeset *Changeset) error {
	return e.Clone(ctx, rev, nil, changeset)
}

/*
Approve commits every revision of a changeset to display.

Revisions commit in dependency order: non-deleting revisions walk the kind
order containers-first, deleting revisions walk it in reverse, content
first. Each revision is its own unit of work; a failure mid-sequence stops
the approval and leaves earlier revisions committed.

Parameters:
  - context: context.Context
  - changesetID: int64
  - approver: string
  - comment: string

Returns:
  - error: PreconditionError for editor-repairable states, FaultError for
    structural inconsistencies, store failures otherwise
*/
func (e *Engine) Approve(ctx context.Context, changesetID int64, approver, comment string) error {
	cs, err := e.data.Changesets().Get(ctx, changesetID)
	if err != nil {
		return err
	}
	if cs.State != StateReviewing {
		return Preconditionf("changeset %d cannot be approved from state %q", cs.ID, cs.State)
	}

	revisions, err := e.data.Revisions().ByChangeset(ctx, cs.ID)
	if err != nil {
		return err
	}

	for _, rev := range orderForCommit(revisions) {
		if err := e.commitRevision(ctx, rev); err != nil {
			e.log.ErrorContext(ctx, "revision_commit_failed",
				"kind", string(rev.Kind()),
				"revision_id", rev.Base().ID,
				"changeset_id", cs.ID,
				"error", err,
			)
			return err
		}
	}

	cs.transition(StateApproved, approver, comment)
	if err := e.data.Changesets().Save(ctx, cs); err != nil {
		return err
	}
	if err := e.data.Locks().ReleaseChangeset(ctx, cs.ID); err != nil {
		return err
	}

	e.log.InfoContext(ctx, "changeset_approved",
		"changeset_id", cs.ID,
		"change_type", string(cs.ChangeType),
		"revisions", len(revisions),
	)
	return nil
}

// Discard abandons a changeset: every open revision is marked discarded,
// reservations are cleared, and all locks release. Display rows are never
// touched beyond the reservation flag.
func (e *Engine) Discard(ctx context.Context, changesetID int64, author, comment string) error {
	cs, err := e.data.Changesets().Get(ctx, changesetID)
	if err != nil {
		return err
	}
	if !cs.State.Active() {
		return Preconditionf("changeset %d cannot be discarded from state %q", cs.ID, cs.State)
	}

	revisions, err := e.data.Revisions().ByChangeset(ctx, cs.ID)
	if err != nil {
		return err
	}
	for _, rev := range revisions {
		if !rev.Base().Open() {
			continue
		}
		rev.Base().markCommitted(false)
		if err := e.data.Revisions().Save(ctx, rev); err != nil {
			return err
		}
		if id := rev.SourceID(); id != 0 {
			obj, err := e.store.Get(ctx, rev.Kind(), id)
			if err != nil && !errors.Is(err, display.ErrNotFound) {
				return err
			}
			if obj != nil {
				obj.SetReserved(false)
				if err := e.store.Save(ctx, obj); err != nil {
					return err
				}
			}
		}
	}

	cs.transition(StateDiscarded, author, comment)
	if err := e.data.Changesets().Save(ctx, cs); err != nil {
		return err
	}
	if err := e.data.Locks().ReleaseChangeset(ctx, cs.ID); err != nil {
		return err
	}

	e.log.InfoContext(ctx, "changeset_discarded", "changeset_id", cs.ID)
	return nil
}

// ChangesetAction classifies what a changeset does to display rows: a
// changeset of nothing but deletions is a delete, one staging any new row
// is an add, anything else is a modification.
func (e *Engine) ChangesetAction(ctx context.Context, changesetID int64) (Action, error) {
	revisions, err := e.data.Revisions().ByChangeset(ctx, changesetID)
	if err != nil {
		return "", err
	}
	allDeleted := len(revisions) > 0
	anyAdded := false
	for _, rev := range revisions {
		if !rev.Base().Deleted {
			allDeleted = false
		}
		if rev.Base().PreviousRevisionID == 0 && !rev.Base().Deleted {
			anyAdded = true
		}
	}
	switch {
	case allDeleted:
		return ActionDelete, nil
	case anyAdded:
		return ActionAdd, nil
	default:
		return ActionModify, nil
	}
}

// orderForCommit sequences a changeset's revisions: non-deleting revisions
// containers-first, then deleting revisions content-first.
func orderForCommit(revisions []EntityRevision) []EntityRevision {
	byKind := func(kind display.Kind, deleted bool) []EntityRevision {
		var out []EntityRevision
		for _, rev := range revisions {
			if rev.Kind() == kind && rev.Base().Deleted == deleted {
				out = append(out, rev)
			}
		}
		return out
	}

	ordered := make([]EntityRevision, 0, len(revisions))
	for _, kind := range commitOrder {
		ordered = append(ordered, byKind(kind, false)...)
	}
	for i := len(commitOrder) - 1; i >= 0; i-- {
		ordered = append(ordered, byKind(commitOrder[i], true)...)
	}
	return ordered
}
