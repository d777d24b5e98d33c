// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import "context"

// # Change Classification
//
// Before a commit touches anything, the engine summarises how the revision
// differs from the current display row across a declared set of tracked
// field paths: parent references, major boolean flags, and the fields
// keying the global statistics buckets.

// ChangeSet is the named-fact summary of one pending commit.
//
// Keys follow a fixed shape per tracked field f:
//
//	"<f> changed"        bool, always present
//	"to <f>" / "from <f>" bool, boolean-valued paths only
//	"old <f>" / "new <f>" raw values, all other paths
type ChangeSet map[string]any

// Changed reports whether the named tracked field differs.
func (c ChangeSet) Changed(name string) bool {
	b, _ := c[name+" changed"].(bool)
	return b
}

// To reports a false-to-true transition of a boolean tracked field.
func (c ChangeSet) To(name string) bool {
	b, _ := c["to "+name].(bool)
	return b
}

// From reports a true-to-false transition of a boolean tracked field.
func (c ChangeSet) From(name string) bool {
	b, _ := c["from "+name].(bool)
	return b
}

// Old returns the pre-commit value of a tracked field, nil when the path's
// root was absent (the revision adds the row).
func (c ChangeSet) Old(name string) any { return c["old "+name] }

// New returns the proposed value of a tracked field, nil when absent.
func (c ChangeSet) New(name string) any { return c["new "+name] }

// trackedKind selects the comparison and output shape of a tracked field.
type trackedKind int

const (
	trackedValue trackedKind = iota
	trackedBool
	trackedMulti
)

// resolveFunc walks one side of a tracked path. A missing root (no display
// row on an add, no surviving row on a delete) resolves to nil, never an
// error.
type resolveFunc func(ctx context.Context) (any, error)

// trackedField is one declared path in a revision kind's change summary.
type trackedField struct {
	name string
	kind trackedKind
	old  resolveFunc
	new  resolveFunc
}

// staticValue wraps an already-known value as a resolver.
func staticValue(v any) resolveFunc {
	return func(context.Context) (any, error) { return v, nil }
}

// nilValue resolves to the missing-root sentinel.
func nilValue(context.Context) (any, error) { return nil, nil }

/*
buildChanges evaluates every tracked field and assembles the [ChangeSet].

forced marks every field as changed regardless of value comparison; adds
and deletes pass true, since one side of each path legitimately has no
value.

Returns:
  - ChangeSet: The assembled summary
  - error: Resolver failures (store lookups on path hops)
*/
func buildChanges(ctx context.Context, fields []trackedField, forced bool) (ChangeSet, error) {
	changes := make(ChangeSet, len(fields)*3)
	for _, f := range fields {
		oldV, err := f.old(ctx)
		if err != nil {
			return nil, err
		}
		newV, err := f.new(ctx)
		if err != nil {
			return nil, err
		}

		changed := forced || !trackedEqual(f.kind, oldV, newV)
		changes[f.name+" changed"] = changed

		switch f.kind {
		case trackedBool:
			// An absent boolean counts as false, so "to" and "from" can
			// both be false even when the path changed.
			oldB, _ := oldV.(bool)
			newB, _ := newV.(bool)
			changes["to "+f.name] = newB && !oldB
			changes["from "+f.name] = oldB && !newB
		default:
			changes["old "+f.name] = oldV
			changes["new "+f.name] = newV
		}
	}
	return changes, nil
}

// trackedEqual compares one tracked path's sides. Multi-valued paths use
// set equality over id collections; everything else compares directly.
func trackedEqual(kind trackedKind, oldV, newV any) bool {
	if kind == trackedMulti {
		return idSetEqual(asIDs(oldV), asIDs(newV))
	}
	if oldV == nil || newV == nil {
		return oldV == nil && newV == nil
	}
	return oldV == newV
}

func asIDs(v any) []int64 {
	ids, _ := v.([]int64)
	return ids
}

func idSetEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[int64]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	for _, id := range b {
		if !set[id] {
			return false
		}
	}
	return true
}
