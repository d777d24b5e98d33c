// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkdex/inkdex/internal/display"
)

/*
TestVerifyClassifications audits the live registry: every persisted display
field of every revision kind must be classified exactly once. A failure
here means a display field was added without deciding how it transfers.
*/
func TestVerifyClassifications(t *testing.T) {
	require.NoError(t, VerifyClassifications())
}

/*
TestClassificationFor_Issue verifies the issue partition: the bespoke
hook-managed fields are acknowledged as irregular and the identity fields
stay excluded.
*/
func TestClassificationFor_Issue(t *testing.T) {
	c, ok := ClassificationFor(display.KindIssue)
	require.True(t, ok)

	assert.Equal(t, display.KindIssue, c.Kind)
	assert.ElementsMatch(t, []string{"is_indexed", "on_sale_date", "sort_code", "valid_isbn"}, c.Irregular)
	assert.Contains(t, c.Excluded, "id")
	assert.Contains(t, c.Excluded, "reserved")

	assert.Equal(t, SingleValue, c.Regular["number"])
	assert.Equal(t, KeywordsValue, c.Regular["keywords"])
	assert.NotContains(t, c.Regular, "sort_code")
}

func TestClassificationFor_UnknownKind(t *testing.T) {
	_, ok := ClassificationFor(display.Kind("nonsense"))
	assert.False(t, ok)
}

/*
TestClassificationFieldLists verifies the sorted accessor views used by the
admin surface.
*/
func TestClassificationFieldLists(t *testing.T) {
	c, ok := ClassificationFor(display.KindSeries)
	require.True(t, ok)

	singles := c.SingleValueFields()
	assert.Contains(t, singles, "name")
	assert.Contains(t, singles, "keywords")
	assert.IsIncreasing(t, singles)

	for _, name := range c.MultiValueFields() {
		assert.Equal(t, MultiValue, c.Regular[name])
	}
}
