package schema

// OIRevisionTable represents the 'oi.revision' table. Bookkeeping columns
// drive the chain and changeset queries; the editable fields live in the
// JSONB payload, one codec per revision kind.
type OIRevisionTable struct {
	Table              string
	ID                 string
	Kind               string
	ChangesetID        string
	SourceID           string
	PreviousRevisionID string
	Committed          string
	Deleted            string
	KeepReservation    string
	Payload            string
	CreatedAt          string
	ModifiedAt         string
}

// OIRevision is the schema definition for oi.revision
var OIRevision = OIRevisionTable{
	Table:              "oi.revision",
	ID:                 "id",
	Kind:               "kind",
	ChangesetID:        "changeset_id",
	SourceID:           "source_id",
	PreviousRevisionID: "previous_revision_id",
	Committed:          "committed",
	Deleted:            "deleted",
	KeepReservation:    "keep_reservation",
	Payload:            "payload",
	CreatedAt:          "created_at",
	ModifiedAt:         "modified_at",
}

func (t OIRevisionTable) Columns() []string {
	return []string{
		t.ID, t.Kind, t.ChangesetID, t.SourceID, t.PreviousRevisionID,
		t.Committed, t.Deleted, t.KeepReservation, t.Payload, t.CreatedAt, t.ModifiedAt,
	}
}

// OIRevisionLockTable represents the 'oi.revision_lock' table
type OIRevisionLockTable struct {
	Table       string
	ID          string
	Kind        string
	TargetID    string
	ChangesetID string
	LockedAt    string
}

// OIRevisionLock is the schema definition for oi.revision_lock
var OIRevisionLock = OIRevisionLockTable{
	Table:       "oi.revision_lock",
	ID:          "id",
	Kind:        "kind",
	TargetID:    "target_id",
	ChangesetID: "changeset_id",
	LockedAt:    "locked_at",
}

func (t OIRevisionLockTable) Columns() []string {
	return []string{t.ID, t.Kind, t.TargetID, t.ChangesetID, t.LockedAt}
}

// OIOngoingReservationTable represents the 'oi.ongoing_reservation' table
type OIOngoingReservationTable struct {
	Table    string
	ID       string
	SeriesID string
	Indexer  string
}

// OIOngoingReservation is the schema definition for oi.ongoing_reservation
var OIOngoingReservation = OIOngoingReservationTable{
	Table:    "oi.ongoing_reservation",
	ID:       "id",
	SeriesID: "series_id",
	Indexer:  "indexer",
}

func (t OIOngoingReservationTable) Columns() []string {
	return []string{t.ID, t.SeriesID, t.Indexer}
}

// OIStatCountTable represents the 'oi.stat_count' table
type OIStatCountTable struct {
	Table      string
	Category   string
	CountryID  string
	LanguageID string
	Count      string
}

// OIStatCount is the schema definition for oi.stat_count
var OIStatCount = OIStatCountTable{
	Table:      "oi.stat_count",
	Category:   "category",
	CountryID:  "country_id",
	LanguageID: "language_id",
	Count:      "count",
}

func (t OIStatCountTable) Columns() []string {
	return []string{t.Category, t.CountryID, t.LanguageID, t.Count}
}
