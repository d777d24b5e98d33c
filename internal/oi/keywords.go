// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"sort"
	"strings"
)

// Keywords are stored as a tag list on display rows but edited as one
// delimited string on revisions. The separator is "; ".

// SplitKeywords parses a revision's keyword string into a sorted,
// deduplicated tag list. Empty segments are dropped.
func SplitKeywords(joined string) []string {
	var tags []string
	seen := map[string]bool{}
	for _, part := range strings.Split(joined, ";") {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// JoinKeywords renders a tag list back into the canonical edit string.
func JoinKeywords(tags []string) string {
	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)
	return strings.Join(sorted, "; ")
}
