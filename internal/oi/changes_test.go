// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestBuildChanges_ValueField verifies the summary shape of a plain tracked
value: the changed flag plus old/new snapshots.
*/
func TestBuildChanges_ValueField(t *testing.T) {
	fields := []trackedField{
		{name: "publisher", kind: trackedValue, old: staticValue(int64(3)), new: staticValue(int64(7))},
		{name: "country", kind: trackedValue, old: staticValue(int64(1)), new: staticValue(int64(1))},
	}

	changes, err := buildChanges(context.Background(), fields, false)
	require.NoError(t, err)

	assert.True(t, changes.Changed("publisher"))
	assert.Equal(t, int64(3), changes.Old("publisher"))
	assert.Equal(t, int64(7), changes.New("publisher"))

	assert.False(t, changes.Changed("country"))
	assert.Equal(t, int64(1), changes.Old("country"))
}

/*
TestBuildChanges_BoolTransitions verifies the to/from flags of boolean
tracked fields, including the absent-counts-as-false convention on adds.
*/
func TestBuildChanges_BoolTransitions(t *testing.T) {
	fields := []trackedField{
		{name: "is_current", kind: trackedBool, old: staticValue(false), new: staticValue(true)},
		{name: "is_singleton", kind: trackedBool, old: staticValue(true), new: staticValue(false)},
		{name: "is_comics_publication", kind: trackedBool, old: nilValue, new: staticValue(false)},
	}

	changes, err := buildChanges(context.Background(), fields, false)
	require.NoError(t, err)

	assert.True(t, changes.To("is_current"))
	assert.False(t, changes.From("is_current"))

	assert.False(t, changes.To("is_singleton"))
	assert.True(t, changes.From("is_singleton"))

	// nil old and false new: the path changed but neither transition fired
	assert.True(t, changes.Changed("is_comics_publication"))
	assert.False(t, changes.To("is_comics_publication"))
	assert.False(t, changes.From("is_comics_publication"))
}

/*
TestBuildChanges_MultiSetEquality verifies that collection paths compare as
id sets, ignoring order.
*/
func TestBuildChanges_MultiSetEquality(t *testing.T) {
	same := []trackedField{{
		name: "credits", kind: trackedMulti,
		old: staticValue([]int64{2, 1, 3}),
		new: staticValue([]int64{3, 2, 1}),
	}}
	changes, err := buildChanges(context.Background(), same, false)
	require.NoError(t, err)
	assert.False(t, changes.Changed("credits"))

	differ := []trackedField{{
		name: "credits", kind: trackedMulti,
		old: staticValue([]int64{1, 2}),
		new: staticValue([]int64{1, 4}),
	}}
	changes, err = buildChanges(context.Background(), differ, false)
	require.NoError(t, err)
	assert.True(t, changes.Changed("credits"))
}

/*
TestBuildChanges_Forced verifies that adds and deletes mark every field
changed regardless of value comparison.
*/
func TestBuildChanges_Forced(t *testing.T) {
	fields := []trackedField{
		{name: "series", kind: trackedValue, old: staticValue(int64(5)), new: staticValue(int64(5))},
	}
	changes, err := buildChanges(context.Background(), fields, true)
	require.NoError(t, err)
	assert.True(t, changes.Changed("series"))
}

func TestIDSetEqual(t *testing.T) {
	assert.True(t, idSetEqual(nil, nil))
	assert.True(t, idSetEqual([]int64{1, 2}, []int64{2, 1}))
	assert.False(t, idSetEqual([]int64{1}, []int64{1, 1, 2}))
	assert.False(t, idSetEqual([]int64{1, 2}, []int64{1, 3}))
}
