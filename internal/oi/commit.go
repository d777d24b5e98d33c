// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"

	"github.com/inkdex/inkdex/internal/display"
)

// # Commit Pipeline
//
// One revision commits through a single linear stage sequence. Every stage
// either succeeds or returns an error that aborts the whole commit; there
// is no branching and no retry. Kind-specific behaviour enters only
// through the named [commitHooks] stages.

/*
commitRevision applies one open revision to its display row.

Stage order:

 1. preCommitCheck
 2. change classification over the tracked fields
 3. preStatsMeasurement (ordering prerequisites commit here)
 4. sample old counts
 5. deletes: preDelete, remove row, settle stats, postAdjustStats, done
 6. adds: build bare row, postCreateForAdd
 7. copy single-value fields, resyncing inactive conditional fields
 8. postAssignFields
 9. clear the reservation flag unless KeepReservation
10. preSaveObject, save the row
11. adds: bind the generated id back onto the revision
12. transfer keywords
13. replace collection fields
14. postSaveObject
15. sample new counts, settle stats
16. postAdjustStats, mark committed, postCommit

Already-settled revisions return nil immediately, which makes recursive
prerequisite commits idempotent.
*/
func (e *Engine) commitRevision(ctx context.Context, rev EntityRevision) error {
	base := rev.Base()
	if !base.Open() {
		return nil
	}

	hooks := rev.hooks(e)
	table := kindTable(rev.Kind())

	if err := hooks.preCommitCheck(ctx); err != nil {
		return err
	}

	var oldObj display.Entity
	if base.Deleted || base.Edited() {
		obj, err := e.store.Get(ctx, rev.Kind(), rev.SourceID())
		if err != nil {
			return err
		}
		oldObj = obj
	}

	changes, err := buildChanges(ctx, rev.tracked(e, oldObj), base.Added() || base.Deleted)
	if err != nil {
		return err
	}

	if err := hooks.preStatsMeasurement(ctx, changes); err != nil {
		return err
	}

	oldCounts := Counts{}
	if oldObj != nil {
		if oldCounts, err = rev.counts(ctx, e, oldObj); err != nil {
			return err
		}
	}

	if base.Deleted {
		return e.commitDelete(ctx, rev, hooks, oldObj, changes, oldCounts)
	}

	obj := oldObj
	if obj == nil {
		obj = rev.newDisplay()
		if err := hooks.postCreateForAdd(ctx, obj); err != nil {
			return err
		}
	}

	for _, f := range table.fields {
		if f.kind != SingleValue {
			continue
		}
		if f.enabled != nil {
			on, err := f.enabled(ctx, e, rev)
			if err != nil {
				return err
			}
			if !on {
				// Inactive fields resync display-to-revision so the edit
				// cannot smuggle a value through a disabled flag.
				f.resync(rev, obj)
				continue
			}
		}
		f.assign(rev, obj)
	}

	if err := hooks.postAssignFields(ctx, obj); err != nil {
		return err
	}

	if !base.KeepReservation {
		obj.SetReserved(false)
	}

	if err := hooks.preSaveObject(ctx, obj, changes); err != nil {
		return err
	}
	if err := e.store.Save(ctx, obj); err != nil {
		return err
	}

	if base.Added() && rev.SourceID() == 0 {
		rev.attach(obj.EntityID())
		if err := e.data.Revisions().Save(ctx, rev); err != nil {
			return err
		}
	}

	deferred := false
	for _, f := range table.fields {
		if f.kind == KeywordsValue || f.kind == MultiValue {
			f.assign(rev, obj)
			deferred = true
		}
	}
	if err := hooks.postSaveObject(ctx, obj, changes); err != nil {
		return err
	}
	if deferred {
		if err := e.store.Save(ctx, obj); err != nil {
			return err
		}
	}

	newCounts, err := rev.counts(ctx, e, obj)
	if err != nil {
		return err
	}
	if err := e.adjustStats(ctx, rev, changes, oldObj, obj, oldCounts, newCounts); err != nil {
		return err
	}

	if err := hooks.postAdjustStats(ctx, obj, changes); err != nil {
		return err
	}

	base.markCommitted(true)
	if err := e.data.Revisions().Save(ctx, rev); err != nil {
		return err
	}

	e.log.InfoContext(ctx, "revision_committed",
		"kind", string(rev.Kind()),
		"revision_id", base.ID,
		"changeset_id", base.ChangesetID,
		"source_id", rev.SourceID(),
	)
	return hooks.postCommit(ctx, obj, changes)
}

func (e *Engine) commitDelete(
	ctx context.Context,
	rev EntityRevision,
	hooks commitHooks,
	oldObj display.Entity,
	changes ChangeSet,
	oldCounts Counts,
) error {
	base := rev.Base()

	if err := hooks.preDelete(ctx, oldObj); err != nil {
		return err
	}
	if err := e.store.Delete(ctx, rev.Kind(), oldObj.EntityID()); err != nil {
		return err
	}
	if err := e.adjustStats(ctx, rev, changes, oldObj, nil, oldCounts, Counts{}); err != nil {
		return err
	}
	if err := hooks.postAdjustStats(ctx, oldObj, changes); err != nil {
		return err
	}

	base.markCommitted(true)
	if err := e.data.Revisions().Save(ctx, rev); err != nil {
		return err
	}

	e.log.InfoContext(ctx, "revision_committed",
		"kind", string(rev.Kind()),
		"revision_id", base.ID,
		"changeset_id", base.ChangesetID,
		"source_id", rev.SourceID(),
		"deleted", true,
	)
	return hooks.postCommit(ctx, oldObj, changes)
}
