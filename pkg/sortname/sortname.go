// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

// Package sortname derives sortable forms of catalogue titles.
//
// # Usage
//
// Series are ordered alphabetically by a derived sort name (e.g., "The
// Avengers" sorts under "Avengers, The"). This package handles article
// detection, accent folding, and the derived form itself.
package sortname

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// articles are the leading words ignored for sorting, lowercased. The set
// covers the languages most common in the catalogue.
var articles = map[string]bool{
	"the": true, "a": true, "an": true,
	"le": true, "la": true, "les": true, "l'": true,
	"der": true, "die": true, "das": true, "ein": true, "eine": true,
	"el": true, "los": true, "las": true, "un": true, "una": true,
	"il": true, "lo": true, "gli": true,
	"de": true, "het": true, "een": true,
	"o": true, "os": true, "as": true, "um": true, "uma": true,
}

// HasLeadingArticle reports whether the first word of name is an article.
func HasLeadingArticle(name string) bool {
	first, rest := splitFirstWord(name)
	return rest != "" && articles[strings.ToLower(first)]
}

// From derives the sort name of a title: a leading article is moved to the
// end ("The Avengers" becomes "Avengers, The").
func From(name string) string {
	name = strings.TrimSpace(name)
	if !HasLeadingArticle(name) {
		return name
	}
	first, rest := splitFirstWord(name)
	return rest + ", " + first
}

// Fold strips accents so diacritic variants collate together
// ("Astérix" folds to "Asterix").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

func splitFirstWord(name string) (first, rest string) {
	name = strings.TrimSpace(name)
	i := strings.IndexFunc(name, unicode.IsSpace)
	if i < 0 {
		return name, ""
	}
	return name[:i], strings.TrimSpace(name[i:])
}

// isMn reports whether r is a nonspacing combining mark.
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
