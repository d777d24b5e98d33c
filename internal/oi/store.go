// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"

	"github.com/inkdex/inkdex/internal/display"
)

// # Revision Data Access

// Store bundles the persistence contracts of the revision layer.
type Store interface {
	Changesets() ChangesetStore
	Locks() LockStore
	Revisions() RevisionStore
}

// ChangesetStore persists changesets and their review trail.
type ChangesetStore interface {
	Get(context context.Context, id int64) (*Changeset, error)

	// Save inserts or updates a changeset. Changesets with ID 0 are
	// inserted and assigned a fresh id.
	Save(context context.Context, changeset *Changeset) error
}

// LockStore enforces the one-active-revision-per-row invariant through a
// uniqueness constraint on (kind, target id).
type LockStore interface {

	/*
		Acquire takes the lock on one display row for a changeset.

		Parameters:
		  - context: context.Context
		  - kind: display.Kind
		  - targetID: int64
		  - changesetID: int64 (0 for a provisional pre-changeset hold)

		Returns:
		  - *RevisionLock: The created lock
		  - error: PreconditionError if another changeset holds the row
	*/
	Acquire(context context.Context, kind display.Kind, targetID, changesetID int64) (*RevisionLock, error)

	// Holder returns the lock on a row, or nil when the row is free.
	Holder(context context.Context, kind display.Kind, targetID int64) (*RevisionLock, error)

	// Release frees one row.
	Release(context context.Context, kind display.Kind, targetID int64) error

	// ReleaseChangeset frees every row a changeset holds.
	ReleaseChangeset(context context.Context, changesetID int64) error
}

// RevisionStore persists typed revisions. Implementations store all kinds
// behind one interface; callers narrow with type assertions.
type RevisionStore interface {

	// Save inserts or updates a revision. Revisions with ID 0 are inserted
	// and assigned a fresh id.
	Save(context context.Context, revision EntityRevision) error

	Get(context context.Context, kind display.Kind, id int64) (EntityRevision, error)

	// ByChangeset returns every revision of a changeset in a stable order:
	// commit kind order first, then revision id.
	ByChangeset(context context.Context, changesetID int64) ([]EntityRevision, error)

	// ByChangesetKind narrows ByChangeset to one kind.
	ByChangesetKind(context context.Context, changesetID int64, kind display.Kind) ([]EntityRevision, error)

	/*
		LatestCommitted returns the committed revisions of one display row
		that have no committed successor.

		The revision chain invariant says exactly one such revision exists
		for any row that has been through an approved changeset; callers
		treat any other cardinality as a data-integrity fault.

		Parameters:
		  - context: context.Context
		  - kind: display.Kind
		  - sourceID: int64

		Returns:
		  - []EntityRevision: Chain heads, ideally one
		  - error: Store failures
	*/
	LatestCommitted(context context.Context, kind display.Kind, sourceID int64) ([]EntityRevision, error)

	// BySource returns every revision, in any state, bound to one display
	// row. Used to detach references when the row is deleted or replaced.
	BySource(context context.Context, kind display.Kind, sourceID int64) ([]EntityRevision, error)
}
