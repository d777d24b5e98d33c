// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"
	"sort"
	"sync"

	"github.com/inkdex/inkdex/internal/display"
)

// # In-Memory Store

/*
MemoryStore is a map-backed [Store] for tests and local tooling.

Unlike the display-side memory store it hands out the stored instances
themselves: the commit pipeline marks revisions committed through whichever
reference it holds, and every later lookup must observe that state. Copies
would let a prerequisite commit go unnoticed and the same revision commit
twice.
*/
type MemoryStore struct {
	mu sync.Mutex

	changesets map[int64]*Changeset
	revisions  map[int64]EntityRevision
	locks      map[lockKey]*RevisionLock

	nextChangesetID int64
	nextRevisionID  int64
	nextLockID      int64
}

type lockKey struct {
	kind     display.Kind
	targetID int64
}

// NewMemoryStore returns an empty in-memory revision store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		changesets: make(map[int64]*Changeset),
		revisions:  make(map[int64]EntityRevision),
		locks:      make(map[lockKey]*RevisionLock),
	}
}

func (m *MemoryStore) Changesets() ChangesetStore { return memoryChangesets{m} }
func (m *MemoryStore) Locks() LockStore           { return memoryLocks{m} }
func (m *MemoryStore) Revisions() RevisionStore   { return memoryRevisions{m} }

// # Changesets

type memoryChangesets struct{ s *MemoryStore }

func (c memoryChangesets) Get(_ context.Context, id int64) (*Changeset, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cs, ok := c.s.changesets[id]
	if !ok {
		return nil, ErrChangesetNotFound
	}
	return cs, nil
}

func (c memoryChangesets) Save(_ context.Context, changeset *Changeset) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if changeset.ID == 0 {
		c.s.nextChangesetID++
		changeset.ID = c.s.nextChangesetID
	}
	c.s.changesets[changeset.ID] = changeset
	return nil
}

// # Locks

type memoryLocks struct{ s *MemoryStore }

func (l memoryLocks) Acquire(_ context.Context, kind display.Kind, targetID, changesetID int64) (*RevisionLock, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	key := lockKey{kind: kind, targetID: targetID}
	if held, ok := l.s.locks[key]; ok {
		if held.ChangesetID != 0 && held.ChangesetID == changesetID {
			return held, nil
		}
		return nil, Preconditionf("%s %d is reserved by changeset %d", string(kind), targetID, held.ChangesetID)
	}
	l.s.nextLockID++
	lock := &RevisionLock{
		ID:          l.s.nextLockID,
		Kind:        kind,
		TargetID:    targetID,
		ChangesetID: changesetID,
	}
	l.s.locks[key] = lock
	return lock, nil
}

func (l memoryLocks) Holder(_ context.Context, kind display.Kind, targetID int64) (*RevisionLock, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.locks[lockKey{kind: kind, targetID: targetID}], nil
}

func (l memoryLocks) Release(_ context.Context, kind display.Kind, targetID int64) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	delete(l.s.locks, lockKey{kind: kind, targetID: targetID})
	return nil
}

func (l memoryLocks) ReleaseChangeset(_ context.Context, changesetID int64) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	for key, lock := range l.s.locks {
		if lock.ChangesetID == changesetID {
			delete(l.s.locks, key)
		}
	}
	return nil
}

// # Revisions

type memoryRevisions struct{ s *MemoryStore }

func (r memoryRevisions) Save(_ context.Context, revision EntityRevision) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	base := revision.Base()
	if base.ID == 0 {
		r.s.nextRevisionID++
		base.ID = r.s.nextRevisionID
	}
	r.s.revisions[base.ID] = revision
	return nil
}

func (r memoryRevisions) Get(_ context.Context, kind display.Kind, id int64) (EntityRevision, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rev, ok := r.s.revisions[id]
	if !ok || rev.Kind() != kind {
		return nil, ErrRevisionNotFound
	}
	return rev, nil
}

func (r memoryRevisions) ByChangeset(_ context.Context, changesetID int64) ([]EntityRevision, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []EntityRevision
	for _, rev := range r.s.revisions {
		if rev.Base().ChangesetID == changesetID {
			out = append(out, rev)
		}
	}
	sortRevisions(out)
	return out, nil
}

func (r memoryRevisions) ByChangesetKind(ctx context.Context, changesetID int64, kind display.Kind) ([]EntityRevision, error) {
	all, err := r.ByChangeset(ctx, changesetID)
	if err != nil {
		return nil, err
	}
	var out []EntityRevision
	for _, rev := range all {
		if rev.Kind() == kind {
			out = append(out, rev)
		}
	}
	return out, nil
}

func (r memoryRevisions) LatestCommitted(_ context.Context, kind display.Kind, sourceID int64) ([]EntityRevision, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	succeeded := make(map[int64]bool)
	for _, rev := range r.s.revisions {
		if rev.Kind() == kind && rev.Base().CommittedToDisplay() {
			succeeded[rev.Base().PreviousRevisionID] = true
		}
	}

	var out []EntityRevision
	for _, rev := range r.s.revisions {
		base := rev.Base()
		if rev.Kind() == kind && rev.SourceID() == sourceID &&
			base.CommittedToDisplay() && !succeeded[base.ID] {
			out = append(out, rev)
		}
	}
	sortRevisions(out)
	return out, nil
}

func (r memoryRevisions) BySource(_ context.Context, kind display.Kind, sourceID int64) ([]EntityRevision, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []EntityRevision
	for _, rev := range r.s.revisions {
		if rev.Kind() == kind && rev.SourceID() == sourceID {
			out = append(out, rev)
		}
	}
	sortRevisions(out)
	return out, nil
}

// sortRevisions orders by commit kind order, then revision id.
func sortRevisions(revs []EntityRevision) {
	rank := make(map[display.Kind]int, len(commitOrder))
	for i, kind := range commitOrder {
		rank[kind] = i
	}
	sort.Slice(revs, func(i, j int) bool {
		ri, rj := rank[revs[i].Kind()], rank[revs[j].Kind()]
		if ri != rj {
			return ri < rj
		}
		return revs[i].Base().ID < revs[j].Base().ID
	})
}

// # Stats Recorder

// MemoryStats is a [StatsSink] that accumulates deltas per category and
// bucket. Tests read totals back through Total.
type MemoryStats struct {
	mu     sync.Mutex
	totals map[string]map[CategoryKey]int
}

// NewMemoryStats returns an empty stats recorder.
func NewMemoryStats() *MemoryStats {
	return &MemoryStats{totals: make(map[string]map[CategoryKey]int)}
}

func (m *MemoryStats) Apply(_ context.Context, deltas []StatDelta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range deltas {
		key := CategoryKey{CountryID: d.CountryID, LanguageID: d.LanguageID}
		if m.totals[d.Category] == nil {
			m.totals[d.Category] = make(map[CategoryKey]int)
		}
		m.totals[d.Category][key] += d.Delta
	}
	return nil
}

// Total returns the accumulated count of one category in one bucket.
func (m *MemoryStats) Total(category string, key CategoryKey) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals[category][key]
}
