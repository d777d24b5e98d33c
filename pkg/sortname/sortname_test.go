// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package sortname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasLeadingArticle(t *testing.T) {
	assert.True(t, HasLeadingArticle("The Avengers"))
	assert.True(t, HasLeadingArticle("la bande dessinée"))
	assert.True(t, HasLeadingArticle("Die Abrafaxe"))

	// A lone article is a title, not an article
	assert.False(t, HasLeadingArticle("The"))
	assert.False(t, HasLeadingArticle("Thunderbolts"))
	assert.False(t, HasLeadingArticle(""))
}

func TestFrom(t *testing.T) {
	assert.Equal(t, "Avengers, The", From("The Avengers"))
	assert.Equal(t, "Abrafaxe, Die", From("Die Abrafaxe"))
	assert.Equal(t, "Spirou", From("Spirou"))
	assert.Equal(t, "Avengers, The", From("  The Avengers  "))
	assert.Equal(t, "The", From("The"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "Asterix", Fold("Astérix"))
	assert.Equal(t, "Donald Duck & Co", Fold("Donald Duck & Co"))
	assert.Equal(t, "Gaston", Fold("Gastón"))
}
