// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"time"

	"github.com/inkdex/inkdex/internal/display"
)

// RevisionLock is the advisory write lock on one display row. At most one
// lock may exist per (kind, id) pair; the store enforces that uniqueness.
// Locks for brand-new rows do not exist, since the row has no identity yet.
type RevisionLock struct {
	ID int64

	Kind     display.Kind
	TargetID int64

	// ChangesetID is 0 while the lock is held without an editing session,
	// which happens in the short window between a reserve click and the
	// changeset row being created.
	ChangesetID int64

	LockedAt time.Time
}
