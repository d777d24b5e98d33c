// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package display

import "context"

// # Display Data Access

// Store defines the data access contract for display rows. The revision
// engine is the only writer; read paths elsewhere use the same contract.
type Store interface {

	/*
		Get returns the display row of the given kind and id.

		Parameters:
		  - context: context.Context
		  - kind: Kind
		  - id: int64

		Returns:
		  - Entity: The hydrated display row
		  - error: ErrNotFound if missing
	*/
	Get(context context.Context, kind Kind, id int64) (Entity, error)

	/*
		Save inserts or updates a display row. A row with EntityID 0 is
		inserted and assigned a fresh id.

		Parameters:
		  - context: context.Context
		  - entity: Entity

		Returns:
		  - error: Persistence failures
	*/
	Save(context context.Context, entity Entity) error

	/*
		Delete removes a display row permanently.

		Parameters:
		  - context: context.Context
		  - kind: Kind
		  - id: int64

		Returns:
		  - error: ErrNotFound if missing
	*/
	Delete(context context.Context, kind Kind, id int64) error

	Issues() IssueQueries
	Stories() StoryQueries
	Covers() CoverQueries
	Images() ImageQueries
	Reservations() ReservationQueries
}

// IssueQueries groups the series-scoped issue lookups the revision engine
// needs for ordering and cached-pointer maintenance.
type IssueQueries interface {

	// BySeries returns the active issues of a series ordered by ascending
	// sort code.
	BySeries(context context.Context, seriesID int64) ([]*Issue, error)

	// LaterInSeries returns the issues of a series with sort code strictly
	// greater than after, ordered by descending sort code.
	LaterInSeries(context context.Context, seriesID int64, after int) ([]*Issue, error)

	// MaxSortCode returns the highest sort code in a series. ok is false
	// when the series has no issues.
	MaxSortCode(context context.Context, seriesID int64) (code int, ok bool, err error)

	// CountActive returns the number of active base and variant issues.
	CountActive(context context.Context, seriesID int64) (base, variant int, err error)

	// CountIndexed returns the number of active indexed issues in a series.
	CountIndexed(context context.Context, seriesID int64) (int, error)
}

// StoryQueries exposes issue-scoped sequence lookups.
type StoryQueries interface {

	// ActiveByIssue returns the active stories of an issue ordered by
	// sequence number.
	ActiveByIssue(context context.Context, issueID int64) ([]*Story, error)

	// CountForSeries returns the number of active stories across a series.
	CountForSeries(context context.Context, seriesID int64) (int, error)
}

// CoverQueries exposes scan lookups used for gallery flags and counters.
type CoverQueries interface {

	// ActiveByIssue returns the active covers of an issue.
	ActiveByIssue(context context.Context, issueID int64) ([]*Cover, error)

	// CountForSeries returns the number of active covers across a series.
	CountForSeries(context context.Context, seriesID int64) (int, error)
}

// ImageQueries exposes owner-scoped image lookups.
type ImageQueries interface {

	// CountActive returns the number of active images of one type attached
	// to an owner row.
	CountActive(context context.Context, ownerKind Kind, ownerID int64, typeName string) (int, error)
}

// ReservationQueries manages ongoing series reservations.
type ReservationQueries interface {

	// ForSeries returns the ongoing reservation of a series, or nil when
	// the series has none.
	ForSeries(context context.Context, seriesID int64) (*OngoingReservation, error)

	Save(context context.Context, reservation *OngoingReservation) error
	Delete(context context.Context, seriesID int64) error
}
