// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package display

// # Series

// Series groups issues published under one title. The Has* flags control
// which issue-level fields are meaningful for this title; the revision
// engine refuses to copy a gated field when its flag is off.
type Series struct {
	ID int64

	Name     string
	SortName string

	// LeadingArticle marks titles whose first word is ignored when sorting.
	LeadingArticle bool

	YearBegan          int
	YearBeganUncertain bool
	YearEnded          int
	YearEndedUncertain bool
	IsCurrent          bool

	PublicationType  string
	Format           string
	Color            string
	Dimensions       string
	PaperStock       string
	Binding          string
	PublishingFormat string

	PublicationNotes string
	TrackingNotes    string
	Notes            string
	Keywords         []string

	HasBarcode          bool
	HasIndiciaFrequency bool
	HasISBN             bool
	HasIssueTitle       bool
	HasVolume           bool
	HasRating           bool

	IsComicsPublication bool
	IsSingleton         bool

	PublisherID int64
	CountryID   int64
	LanguageID  int64

	// Cached issue bookkeeping.
	IssueCount   int
	FirstIssueID int64
	LastIssueID  int64
	HasGallery   bool

	Reserved bool
}

func (s *Series) Kind() Kind                { return KindSeries }
func (s *Series) EntityID() int64           { return s.ID }
func (s *Series) SetReserved(reserved bool) { s.Reserved = reserved }

func (s *Series) ApplyCountDeltas(deltas map[string]int) bool {
	if d := deltas["issues"]; d != 0 {
		s.IssueCount += d
		return true
	}
	return false
}

// BondType describes how two series relate across a [SeriesBond].
type BondType string

const (
	BondTrackingNumbering BondType = "tracking_numbering"
	BondTrackingMerge     BondType = "tracking_merge"
	BondTrackingSplit     BondType = "tracking_split"
	BondTranslation       BondType = "translation"
)

// SeriesBond links two series, optionally pinned to specific issues.
// Issue ids are 0 when the bond covers the whole series.
type SeriesBond struct {
	ID int64

	OriginID      int64
	OriginIssueID int64
	TargetID      int64
	TargetIssueID int64

	BondType BondType
	Notes    string

	Reserved bool
}

func (sb *SeriesBond) Kind() Kind                { return KindSeriesBond }
func (sb *SeriesBond) EntityID() int64           { return sb.ID }
func (sb *SeriesBond) SetReserved(reserved bool) { sb.Reserved = reserved }

// OngoingReservation grants one indexer the standing right to add the next
// issue of a series without opening a fresh reservation each time.
type OngoingReservation struct {
	ID       int64
	SeriesID int64
	Indexer  string
}
