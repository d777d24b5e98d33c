// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package display

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestMemoryStore_SaveAssignsIDs verifies id assignment on first save and
id stability on re-save.
*/
func TestMemoryStore_SaveAssignsIDs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	pub := &Publisher{Name: "One"}
	require.NoError(t, store.Save(ctx, pub))
	require.NotZero(t, pub.ID)

	series := &Series{Name: "Two", PublisherID: pub.ID}
	require.NoError(t, store.Save(ctx, series))
	assert.NotEqual(t, pub.ID, series.ID)

	id := series.ID
	series.Name = "Two, renamed"
	require.NoError(t, store.Save(ctx, series))
	assert.Equal(t, id, series.ID)

	got, err := store.Get(ctx, KindSeries, id)
	require.NoError(t, err)
	assert.Equal(t, "Two, renamed", got.(*Series).Name)
}

/*
TestMemoryStore_GetReturnsCopies verifies the aliasing contract: rows
handed out by Get never share memory with the stored row, including
keyword slices.
*/
func TestMemoryStore_GetReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	series := &Series{Name: "Original", Keywords: []string{"alpha"}}
	require.NoError(t, store.Save(ctx, series))

	// Mutating the saved instance does not leak into the store
	series.Name = "Mutated"
	series.Keywords[0] = "mutated"

	got, err := store.Get(ctx, KindSeries, series.ID)
	require.NoError(t, err)
	stored := got.(*Series)
	assert.Equal(t, "Original", stored.Name)
	assert.Equal(t, []string{"alpha"}, stored.Keywords)

	// Mutating a fetched copy does not leak either
	stored.Name = "Another mutation"
	again, err := store.Get(ctx, KindSeries, series.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.(*Series).Name)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), KindIssue, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	issue := &Issue{SeriesID: 1, Number: "1"}
	require.NoError(t, store.Save(ctx, issue))
	require.NoError(t, store.Delete(ctx, KindIssue, issue.ID))

	_, err := store.Get(ctx, KindIssue, issue.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, KindIssue, issue.ID), ErrNotFound)
}

/*
TestMemoryIssues_BySeriesOrdering verifies sort-code ordering and series
filtering of the issue facet.
*/
func TestMemoryIssues_BySeriesOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, spec := range []struct {
		series int64
		number string
		code   int
	}{
		{1, "3", 2},
		{1, "1", 0},
		{2, "1", 0},
		{1, "2", 1},
	} {
		require.NoError(t, store.Save(ctx, &Issue{
			SeriesID: spec.series, Number: spec.number, SortCode: spec.code,
		}))
	}

	issues, err := store.Issues().BySeries(ctx, 1)
	require.NoError(t, err)
	require.Len(t, issues, 3)
	assert.Equal(t, []string{"1", "2", "3"},
		[]string{issues[0].Number, issues[1].Number, issues[2].Number})
}

func TestMemoryIssues_MaxSortCode(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, ok, err := store.Issues().MaxSortCode(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, &Issue{SeriesID: 1, SortCode: 4}))
	require.NoError(t, store.Save(ctx, &Issue{SeriesID: 1, SortCode: 9}))

	maxCode, ok, err := store.Issues().MaxSortCode(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 9, maxCode)
}

func TestMemoryIssues_CountActive(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Save(ctx, &Issue{SeriesID: 1, SortCode: 0}))
	require.NoError(t, store.Save(ctx, &Issue{SeriesID: 1, SortCode: 1}))
	require.NoError(t, store.Save(ctx, &Issue{SeriesID: 1, SortCode: 2, VariantOfID: 1}))

	base, variant, err := store.Issues().CountActive(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, base)
	assert.Equal(t, 1, variant)
}

/*
TestMemoryReservations verifies the one-reservation-per-series upsert and
the nil result for unreserved series.
*/
func TestMemoryReservations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	got, err := store.Reservations().ForSeries(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Reservations().Save(ctx, &OngoingReservation{SeriesID: 1, Indexer: "a"}))
	require.NoError(t, store.Reservations().Save(ctx, &OngoingReservation{SeriesID: 1, Indexer: "b"}))

	got, err = store.Reservations().ForSeries(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "b", got.Indexer)

	require.NoError(t, store.Reservations().Delete(ctx, 1))
	got, err = store.Reservations().ForSeries(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}
