// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

/*
Package display defines the public-facing catalogue entities of the Inkdex
database.

Rows in this package are what visitors see. They are never edited in place
by hand: every change arrives through the oi package, which copies pending
field values onto a display row when a changeset is approved.

Core Responsibility:

  - Catalogue: Publishers, brands, series, issues, stories, covers.
  - Linking: Series bonds, reprint links and supporting images.
  - Caching: Denormalised child counts kept current by the revision engine.

This package acts as the source of truth for all published content models.
*/
package display

import "errors"

// ErrNotFound is returned by stores when no row matches the given identity.
var ErrNotFound = errors.New("display: not found")

// # Entity Kinds

// Kind identifies one display table.
type Kind string

const (
	KindPublisher        Kind = "publisher"
	KindIndiciaPublisher Kind = "indicia_publisher"
	KindBrandGroup       Kind = "brand_group"
	KindBrand            Kind = "brand"
	KindBrandUse         Kind = "brand_use"
	KindSeries           Kind = "series"
	KindSeriesBond       Kind = "series_bond"
	KindIssue            Kind = "issue"
	KindStory            Kind = "story"
	KindCover            Kind = "cover"
	KindReprint          Kind = "reprint"
	KindImage            Kind = "image"
)

// IsValid reports whether k is a recognised [Kind] value.
func (k Kind) IsValid() bool {
	switch k {
	case
		KindPublisher,
		KindIndiciaPublisher,
		KindBrandGroup,
		KindBrand,
		KindBrandUse,
		KindSeries,
		KindSeriesBond,
		KindIssue,
		KindStory,
		KindCover,
		KindReprint,
		KindImage:
		return true
	}
	return false
}

// # Entity Contracts

// Entity is the minimal surface every display row exposes to the revision
// engine. EntityID returns 0 for rows that have not been saved yet.
type Entity interface {
	Kind() Kind
	EntityID() int64

	// SetReserved flips the edit-lock marker shown in the public UI.
	SetReserved(reserved bool)
}

// Counted is implemented by entities that cache counts of active children.
// ApplyCountDeltas folds a map of signed category deltas into the cached
// counters and reports whether any counter actually moved.
type Counted interface {
	Entity
	ApplyCountDeltas(deltas map[string]int) bool
}
