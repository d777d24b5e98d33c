// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

// Package isbn validates ISBN-10 and ISBN-13 identifiers.
//
// # Usage
//
// Issue records carry the ISBN as printed, hyphens and all. Validate
// normalises and check-digit-verifies it, yielding the canonical digit
// string stored alongside the raw value.
package isbn

import "strings"

// Validate checks raw as an ISBN-10 or ISBN-13. It returns the normalised
// digit string and true on success, or "" and false.
func Validate(raw string) (string, bool) {
	normalized := normalize(raw)
	switch len(normalized) {
	case 10:
		if checkISBN10(normalized) {
			return normalized, true
		}
	case 13:
		if checkISBN13(normalized) {
			return normalized, true
		}
	}
	return "", false
}

func normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'x' || r == 'X':
			b.WriteByte('X')
		case r == '-' || r == ' ':
			// separators
		default:
			return ""
		}
	}
	return b.String()
}

func checkISBN10(s string) bool {
	sum := 0
	for i, r := range s {
		var v int
		switch {
		case r >= '0' && r <= '9':
			v = int(r - '0')
		case r == 'X' && i == 9:
			v = 10
		default:
			return false
		}
		sum += (10 - i) * v
	}
	return sum%11 == 0
}

func checkISBN13(s string) bool {
	sum := 0
	for i, r := range s {
		if r < '0' || r > '9' {
			return false
		}
		v := int(r - '0')
		if i%2 == 1 {
			v *= 3
		}
		sum += v
	}
	return sum%10 == 0
}
