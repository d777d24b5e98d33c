// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkdex/inkdex/internal/display"
)

/*
TestMemoryLocks verifies the advisory lock semantics: first acquire wins,
re-acquiring for the same changeset is idempotent, and a different
changeset is refused with a precondition error.
*/
func TestMemoryLocks(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	lock, err := store.Locks().Acquire(ctx, display.KindIssue, 7, 100)
	require.NoError(t, err)
	require.NotNil(t, lock)

	// Same changeset gets the existing lock back
	again, err := store.Locks().Acquire(ctx, display.KindIssue, 7, 100)
	require.NoError(t, err)
	assert.Equal(t, lock.ID, again.ID)

	// Another changeset is refused
	_, err = store.Locks().Acquire(ctx, display.KindIssue, 7, 200)
	require.Error(t, err)
	assert.True(t, IsPrecondition(err))

	// Another row of the same kind is independent
	_, err = store.Locks().Acquire(ctx, display.KindIssue, 8, 200)
	require.NoError(t, err)

	require.NoError(t, store.Locks().Release(ctx, display.KindIssue, 7))
	holder, err := store.Locks().Holder(ctx, display.KindIssue, 7)
	require.NoError(t, err)
	assert.Nil(t, holder)
}

func TestMemoryLocks_ReleaseChangeset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Locks().Acquire(ctx, display.KindSeries, 1, 100)
	require.NoError(t, err)
	_, err = store.Locks().Acquire(ctx, display.KindIssue, 2, 100)
	require.NoError(t, err)
	_, err = store.Locks().Acquire(ctx, display.KindIssue, 3, 200)
	require.NoError(t, err)

	require.NoError(t, store.Locks().ReleaseChangeset(ctx, 100))

	holder, err := store.Locks().Holder(ctx, display.KindSeries, 1)
	require.NoError(t, err)
	assert.Nil(t, holder)

	// The other changeset's lock survives
	holder, err = store.Locks().Holder(ctx, display.KindIssue, 3)
	require.NoError(t, err)
	require.NotNil(t, holder)
	assert.Equal(t, int64(200), holder.ChangesetID)
}

/*
TestMemoryRevisions_LivePointers verifies the identity contract of the
revision store: lookups return the stored instances, so a commit marked
through one reference is visible through every other.
*/
func TestMemoryRevisions_LivePointers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	rev := &IssueRevision{SeriesID: 1, Number: "1"}
	rev.ChangesetID = 5
	require.NoError(t, store.Revisions().Save(ctx, rev))
	require.NotZero(t, rev.ID)

	got, err := store.Revisions().Get(ctx, display.KindIssue, rev.ID)
	require.NoError(t, err)
	assert.Same(t, EntityRevision(rev), got)

	rev.markCommitted(true)
	byCS, err := store.Revisions().ByChangeset(ctx, 5)
	require.NoError(t, err)
	require.Len(t, byCS, 1)
	assert.True(t, byCS[0].Base().CommittedToDisplay())
}

func TestMemoryRevisions_GetWrongKind(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	rev := &IssueRevision{SeriesID: 1}
	require.NoError(t, store.Revisions().Save(ctx, rev))

	_, err := store.Revisions().Get(ctx, display.KindSeries, rev.ID)
	assert.ErrorIs(t, err, ErrRevisionNotFound)
}

/*
TestMemoryRevisions_LatestCommitted verifies head detection along a
revision chain: only the committed revision without a committed successor
is a head, and open successors do not hide it.
*/
func TestMemoryRevisions_LatestCommitted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := &IssueRevision{IssueID: 9}
	first.markCommitted(true)
	require.NoError(t, store.Revisions().Save(ctx, first))

	second := &IssueRevision{IssueID: 9}
	second.PreviousRevisionID = first.ID
	second.markCommitted(true)
	require.NoError(t, store.Revisions().Save(ctx, second))

	// An open successor does not displace the committed head
	third := &IssueRevision{IssueID: 9}
	third.PreviousRevisionID = second.ID
	require.NoError(t, store.Revisions().Save(ctx, third))

	heads, err := store.Revisions().LatestCommitted(ctx, display.KindIssue, 9)
	require.NoError(t, err)
	require.Len(t, heads, 1)
	assert.Equal(t, second.ID, heads[0].Base().ID)
}

/*
TestMemoryRevisions_ByChangesetOrdering verifies that a changeset's
revisions come back containers before content.
*/
func TestMemoryRevisions_ByChangesetOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	story := &StoryRevision{IssueID: 1}
	story.ChangesetID = 3
	require.NoError(t, store.Revisions().Save(ctx, story))

	issue := &IssueRevision{SeriesID: 1}
	issue.ChangesetID = 3
	require.NoError(t, store.Revisions().Save(ctx, issue))

	series := &SeriesRevision{PublisherID: 1}
	series.ChangesetID = 3
	require.NoError(t, store.Revisions().Save(ctx, series))

	revs, err := store.Revisions().ByChangeset(ctx, 3)
	require.NoError(t, err)
	require.Len(t, revs, 3)
	assert.Equal(t, display.KindSeries, revs[0].Kind())
	assert.Equal(t, display.KindIssue, revs[1].Kind())
	assert.Equal(t, display.KindStory, revs[2].Kind())
}

func TestMemoryChangesets(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Changesets().Get(ctx, 1)
	assert.ErrorIs(t, err, ErrChangesetNotFound)

	cs := &Changeset{State: StateOpen, ChangeType: ChangeTypeIssue, Indexer: "x"}
	require.NoError(t, store.Changesets().Save(ctx, cs))
	require.NotZero(t, cs.ID)

	got, err := store.Changesets().Get(ctx, cs.ID)
	require.NoError(t, err)
	assert.Same(t, cs, got)
}
