// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package isbn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_ISBN13(t *testing.T) {
	normalized, ok := Validate("978-0-306-40615-7")
	assert.True(t, ok)
	assert.Equal(t, "9780306406157", normalized)

	// Wrong check digit
	_, ok = Validate("978-0-306-40615-8")
	assert.False(t, ok)
}

func TestValidate_ISBN10(t *testing.T) {
	normalized, ok := Validate("0-306-40615-2")
	assert.True(t, ok)
	assert.Equal(t, "0306406152", normalized)

	// X check digit is only legal in the last position
	normalized, ok = Validate("080442957X")
	assert.True(t, ok)
	assert.Equal(t, "080442957X", normalized)

	_, ok = Validate("0X0442957X")
	assert.False(t, ok)
}

func TestValidate_Rejects(t *testing.T) {
	cases := []string{
		"",
		"not an isbn",
		"12345",
		"978030640615",    // 12 digits
		"97803064061579",  // 14 digits
		"0-306-40615-3",   // bad ISBN-10 check digit
	}
	for _, raw := range cases {
		_, ok := Validate(raw)
		assert.False(t, ok, "expected %q to be rejected", raw)
	}
}

func TestValidate_IgnoresSeparators(t *testing.T) {
	withHyphens, ok := Validate("978-0-306-40615-7")
	assert.True(t, ok)
	withSpaces, ok2 := Validate("978 0 306 40615 7")
	assert.True(t, ok2)
	assert.Equal(t, withHyphens, withSpaces)
}
