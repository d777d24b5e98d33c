// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

/*
Package oi implements the revision layer of the Inkdex catalogue.

Nothing edits a display row directly. An editor reserves the row, which
clones its current values into a pending revision inside a changeset. The
revision is edited freely; when the changeset is approved the engine copies
the pending values back onto the display row, adjusts every cached counter
and statistics bucket, and records the revision as committed.

Core Responsibility:

  - Locking: one advisory lock per display row, held by one changeset.
  - Revisions: typed pending copies of every editable display kind.
  - Commit: the ordered pipeline that applies a changeset to display.
  - Accounting: cached child counts and the global statistics ledger.

The engine is deliberately conservative. Recoverable problems surface as
[PreconditionError] and leave the changeset open; structural inconsistencies
surface as [FaultError] and abort the approval.
*/
package oi

import (
	"context"
	"time"

	"github.com/inkdex/inkdex/internal/display"
)

// # Revision Base

// Revision carries the bookkeeping shared by every revision kind. The
// Committed pointer is tri-state: nil while the revision is open, true once
// applied to display, false once discarded.
type Revision struct {
	ID          int64
	ChangesetID int64

	// PreviousRevisionID chains edits of the same display row; 0 for the
	// first revision of a row.
	PreviousRevisionID int64

	Committed *bool
	Deleted   bool

	// KeepReservation leaves the display row marked reserved after commit.
	// Used when a follow-up changeset takes over the row immediately.
	KeepReservation bool

	CreatedAt  time.Time
	ModifiedAt time.Time
}

// Open reports whether the revision is still pending.
func (r *Revision) Open() bool { return r.Committed == nil }

// CommittedToDisplay reports whether the revision was applied.
func (r *Revision) CommittedToDisplay() bool { return r.Committed != nil && *r.Committed }

// Discarded reports whether the revision was abandoned.
func (r *Revision) Discarded() bool { return r.Committed != nil && !*r.Committed }

// Added reports whether committing creates a new display row.
func (r *Revision) Added() bool { return r.PreviousRevisionID == 0 && !r.Deleted }

// Edited reports whether committing updates an existing display row.
func (r *Revision) Edited() bool { return r.PreviousRevisionID != 0 && !r.Deleted }

func (r *Revision) markCommitted(committed bool) {
	v := committed
	r.Committed = &v
	r.ModifiedAt = time.Now().UTC()
}

// EntityRevision is the engine-facing surface of every typed revision. The
// unexported methods keep the set of revision kinds closed to this package.
type EntityRevision interface {
	Base() *Revision
	Kind() display.Kind

	// SourceID returns the display row this revision edits, 0 while an add
	// has not been committed yet.
	SourceID() int64

	// attach binds a freshly inserted display row id to an add revision.
	attach(id int64)

	// newDisplay returns an empty display row of the right concrete type.
	newDisplay() display.Entity

	// hooks returns the kind-specific commit behaviour.
	hooks(engine *Engine) commitHooks

	// counts measures the statistics contributed by obj in its current
	// state (see [Counts]).
	counts(ctx context.Context, engine *Engine, obj display.Entity) (Counts, error)

	// tracked lists the fields whose transitions feed the change summary.
	// old is nil when the revision adds a row.
	tracked(engine *Engine, old display.Entity) []trackedField

	// parents lists the count-caching rows above this entity.
	parents(engine *Engine, old display.Entity) []parentRef

	// statKeys resolves the (country, language) buckets the entity counted
	// under before the commit and will count under after it.
	statKeys(ctx context.Context, engine *Engine, old display.Entity) (oldKey, newKey CategoryKey, err error)
}

// # Commit Hooks

// commitHooks are the kind-specific extension points of the commit
// pipeline. Every revision kind supplies an implementation, usually by
// embedding [noopHooks] and overriding the steps it cares about.
type commitHooks interface {

	// preCommitCheck validates cross-revision preconditions. Returning an
	// error aborts the commit before anything is touched.
	preCommitCheck(ctx context.Context) error

	// preInitialSave runs while cloning, before the revision row exists.
	preInitialSave(ctx context.Context, src display.Entity) error

	// postClonePopulate runs after the revision row exists, for bookkeeping
	// that needs the revision id.
	postClonePopulate(ctx context.Context, src display.Entity) error

	// preStatsMeasurement runs before old statistics are sampled. Ordering
	// prerequisites (other revisions that must commit first) resolve here.
	preStatsMeasurement(ctx context.Context, changes ChangeSet) error

	// preDelete runs before a display row is removed, while it still exists.
	preDelete(ctx context.Context, obj display.Entity) error

	// postCreateForAdd runs right after the empty display row is built.
	postCreateForAdd(ctx context.Context, obj display.Entity) error

	// postAssignFields runs after regular fields are copied, for derived
	// display values.
	postAssignFields(ctx context.Context, obj display.Entity) error

	// preSaveObject runs just before the display row is written.
	preSaveObject(ctx context.Context, obj display.Entity, changes ChangeSet) error

	// postSaveObject runs after the row is written, when it has an id.
	postSaveObject(ctx context.Context, obj display.Entity, changes ChangeSet) error

	// postAdjustStats runs after counters are settled, for cached pointers
	// that depend on the committed state.
	postAdjustStats(ctx context.Context, obj display.Entity, changes ChangeSet) error

	// postCommit runs last, after the revision is marked committed.
	postCommit(ctx context.Context, obj display.Entity, changes ChangeSet) error
}

// noopHooks is the do-nothing [commitHooks] base.
type noopHooks struct{}

func (noopHooks) preCommitCheck(context.Context) error                             { return nil }
func (noopHooks) preInitialSave(context.Context, display.Entity) error             { return nil }
func (noopHooks) postClonePopulate(context.Context, display.Entity) error          { return nil }
func (noopHooks) preStatsMeasurement(context.Context, ChangeSet) error             { return nil }
func (noopHooks) preDelete(context.Context, display.Entity) error                  { return nil }
func (noopHooks) postCreateForAdd(context.Context, display.Entity) error           { return nil }
func (noopHooks) postAssignFields(context.Context, display.Entity) error           { return nil }
func (noopHooks) preSaveObject(context.Context, display.Entity, ChangeSet) error   { return nil }
func (noopHooks) postSaveObject(context.Context, display.Entity, ChangeSet) error  { return nil }
func (noopHooks) postAdjustStats(context.Context, display.Entity, ChangeSet) error { return nil }
func (noopHooks) postCommit(context.Context, display.Entity, ChangeSet) error      { return nil }
