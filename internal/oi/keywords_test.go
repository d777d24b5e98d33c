// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitKeywords(t *testing.T) {
	assert.Equal(t, []string{"horror", "mystery", "noir"},
		SplitKeywords("noir; horror;mystery"))

	// Duplicates collapse, blanks drop
	assert.Equal(t, []string{"noir"}, SplitKeywords("noir;; noir ;"))

	assert.Nil(t, SplitKeywords(""))
	assert.Nil(t, SplitKeywords(" ; ; "))
}

func TestJoinKeywords(t *testing.T) {
	assert.Equal(t, "horror; mystery; noir",
		JoinKeywords([]string{"noir", "horror", "mystery"}))
	assert.Equal(t, "", JoinKeywords(nil))

	// The input slice is not reordered in place
	tags := []string{"zebra", "apple"}
	JoinKeywords(tags)
	assert.Equal(t, []string{"zebra", "apple"}, tags)
}
