// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"
	"sort"

	"github.com/inkdex/inkdex/internal/display"
)

// # Statistics Accounting
//
// Each entity contributes named counts ({"issues": 1}, {"series": 1, ...})
// to a global per-(country, language) ledger and to the cached counters of
// its parents. Counts are sampled before and after a commit; the bucket
// updates and parent adjustments derive from the two samples and the
// change summary, in one pass per commit.

// Counts is a named-integer measurement of one entity's contribution.
type Counts map[string]int

// Equal reports whether two measurements agree on the union of their keys.
func (c Counts) Equal(other Counts) bool {
	for k, v := range c {
		if other[k] != v {
			return false
		}
	}
	for k, v := range other {
		if c[k] != v {
			return false
		}
	}
	return true
}

// diffCounts returns new minus old over the union of keys, dropping zeros.
func diffCounts(newCounts, oldCounts Counts) Counts {
	d := Counts{}
	for k, v := range newCounts {
		if delta := v - oldCounts[k]; delta != 0 {
			d[k] = delta
		}
	}
	for k, v := range oldCounts {
		if _, seen := newCounts[k]; !seen && v != 0 {
			d[k] = -v
		}
	}
	return d
}

func negate(c Counts) Counts {
	n := make(Counts, len(c))
	for k, v := range c {
		n[k] = -v
	}
	return n
}

func sortedCategories(c Counts) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CategoryKey is the global ledger bucket an entity counts under. Zero ids
// mean the dimension does not apply (publishers have no language).
type CategoryKey struct {
	CountryID  int64
	LanguageID int64
}

// StatDelta is one signed ledger entry.
type StatDelta struct {
	Category   string
	CountryID  int64
	LanguageID int64
	Delta      int
}

// StatsSink receives the ledger entries of one commit as a single batch.
type StatsSink interface {
	Apply(context context.Context, deltas []StatDelta) error
}

// statsLedger builds the global bucket updates for one commit as a pure
// function of the two samples and their bucket keys. When either the
// totals or the bucket key changed, the old sample is retracted in full
// and the new sample applied in full; a plain delta would land in the
// wrong bucket on a key change.
func statsLedger(oldCounts, newCounts Counts, oldKey, newKey CategoryKey) []StatDelta {
	if oldCounts.Equal(newCounts) && oldKey == newKey {
		return nil
	}
	var ledger []StatDelta
	for _, cat := range sortedCategories(oldCounts) {
		if n := oldCounts[cat]; n != 0 {
			ledger = append(ledger, StatDelta{cat, oldKey.CountryID, oldKey.LanguageID, -n})
		}
	}
	for _, cat := range sortedCategories(newCounts) {
		if n := newCounts[cat]; n != 0 {
			ledger = append(ledger, StatDelta{cat, newKey.CountryID, newKey.LanguageID, n})
		}
	}
	return ledger
}

// parentRef declares one count-caching ancestor of a revision kind. The
// resolvers return every parent on their side of the commit; to-one and
// to-many parents are handled uniformly as slices.
type parentRef struct {
	// name matches the tracked field carrying this reference, so the
	// change summary decides between the move and in-place branches.
	name string

	old func(ctx context.Context) ([]display.Counted, error)
	new func(ctx context.Context) ([]display.Counted, error)
}

/*
adjustStats settles all counter side effects of one commit.

Ledger buckets are updated first (retract+reapply, see [statsLedger]), then
every declared parent: a parent whose reference changed has the old sample
retracted from the old parents and the new sample applied to the new ones,
while an unchanged parent absorbs the in-place delta. Finally the entity's
own cached counters absorb the delta. newObj is nil for deletes.

Returns:
  - error: Sink or store failures
*/
func (e *Engine) adjustStats(
	ctx context.Context,
	rev EntityRevision,
	changes ChangeSet,
	oldObj, newObj display.Entity,
	oldCounts, newCounts Counts,
) error {
	oldKey, newKey, err := rev.statKeys(ctx, e, oldObj)
	if err != nil {
		return err
	}

	if ledger := statsLedger(oldCounts, newCounts, oldKey, newKey); len(ledger) > 0 {
		if err := e.stats.Apply(ctx, ledger); err != nil {
			return err
		}
	}

	deltas := diffCounts(newCounts, oldCounts)

	for _, parent := range rev.parents(e, oldObj) {
		switch {
		case changes.Changed(parent.name):
			oldParents, err := parent.old(ctx)
			if err != nil {
				return err
			}
			if err := e.applyToParents(ctx, oldParents, negate(oldCounts)); err != nil {
				return err
			}
			newParents, err := parent.new(ctx)
			if err != nil {
				return err
			}
			if err := e.applyToParents(ctx, newParents, newCounts); err != nil {
				return err
			}
		case len(deltas) > 0:
			current, err := parent.new(ctx)
			if err != nil {
				return err
			}
			if err := e.applyToParents(ctx, current, deltas); err != nil {
				return err
			}
		}
	}

	if counted, ok := newObj.(display.Counted); ok && len(deltas) > 0 {
		if counted.ApplyCountDeltas(deltas) {
			if err := e.store.Save(ctx, counted); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) applyToParents(ctx context.Context, parents []display.Counted, deltas Counts) error {
	for _, parent := range parents {
		if parent == nil {
			continue
		}
		if parent.ApplyCountDeltas(deltas) {
			if err := e.store.Save(ctx, parent); err != nil {
				return err
			}
		}
	}
	return nil
}
