// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountsEqual(t *testing.T) {
	assert.True(t, Counts{}.Equal(Counts{}))
	assert.True(t, Counts{"issues": 0}.Equal(Counts{}))
	assert.True(t, Counts{"issues": 2}.Equal(Counts{"issues": 2}))
	assert.False(t, Counts{"issues": 2}.Equal(Counts{"issues": 3}))
	assert.False(t, Counts{"series": 1}.Equal(Counts{"issues": 1}))
}

/*
TestDiffCounts verifies the union-of-keys delta, including keys that only
exist on one side.
*/
func TestDiffCounts(t *testing.T) {
	diff := diffCounts(
		Counts{"issues": 5, "covers": 2},
		Counts{"issues": 3, "stories": 4},
	)
	assert.Equal(t, Counts{"issues": 2, "covers": 2, "stories": -4}, diff)

	assert.Empty(t, diffCounts(Counts{"issues": 1}, Counts{"issues": 1}))
}

/*
TestStatsLedger_NoChange verifies that identical samples under the same
bucket produce no ledger entries at all.
*/
func TestStatsLedger_NoChange(t *testing.T) {
	key := CategoryKey{CountryID: 1, LanguageID: 2}
	ledger := statsLedger(Counts{"issues": 4}, Counts{"issues": 4}, key, key)
	assert.Nil(t, ledger)
}

/*
TestStatsLedger_InPlaceDelta verifies a count change inside one bucket:
the old sample is retracted in full and the new one applied in full.
*/
func TestStatsLedger_InPlaceDelta(t *testing.T) {
	key := CategoryKey{CountryID: 1, LanguageID: 2}
	ledger := statsLedger(Counts{"issues": 4}, Counts{"issues": 5}, key, key)

	assert.Equal(t, []StatDelta{
		{Category: "issues", CountryID: 1, LanguageID: 2, Delta: -4},
		{Category: "issues", CountryID: 1, LanguageID: 2, Delta: 5},
	}, ledger)
}

/*
TestStatsLedger_BucketMove verifies a key change with unchanged counts:
every category retracts from the old bucket and reapplies to the new one,
so a plain delta can never land in the wrong bucket.
*/
func TestStatsLedger_BucketMove(t *testing.T) {
	oldKey := CategoryKey{CountryID: 1, LanguageID: 2}
	newKey := CategoryKey{CountryID: 9, LanguageID: 2}
	ledger := statsLedger(
		Counts{"issues": 3, "series": 1},
		Counts{"issues": 3, "series": 1},
		oldKey, newKey,
	)

	assert.Equal(t, []StatDelta{
		{Category: "issues", CountryID: 1, LanguageID: 2, Delta: -3},
		{Category: "series", CountryID: 1, LanguageID: 2, Delta: -1},
		{Category: "issues", CountryID: 9, LanguageID: 2, Delta: 3},
		{Category: "series", CountryID: 9, LanguageID: 2, Delta: 1},
	}, ledger)
}

/*
TestStatsLedger_DropsZeroCategories verifies that zero-valued categories
never emit entries, on either side.
*/
func TestStatsLedger_DropsZeroCategories(t *testing.T) {
	key := CategoryKey{CountryID: 1}
	ledger := statsLedger(
		Counts{"issues": 0, "series": 1},
		Counts{"issues": 0},
		key, key,
	)
	assert.Equal(t, []StatDelta{
		{Category: "series", CountryID: 1, Delta: -1},
	}, ledger)
}

func TestNegate(t *testing.T) {
	assert.Equal(t, Counts{"issues": -2, "series": 1}, negate(Counts{"issues": 2, "series": -1}))
}
