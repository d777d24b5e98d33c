// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkdex/inkdex/internal/display"
)

// PostgresStore implements [Store] using a pgxpool.
//
// Revisions of every kind share the oi.revision table: the chain and
// changeset bookkeeping live in dedicated columns, the editable fields in
// a JSONB payload decoded into the concrete revision type by kind.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore returns a fully wired postgres implementation.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (store *PostgresStore) Changesets() ChangesetStore { return postgresChangesets{store} }
func (store *PostgresStore) Locks() LockStore           { return postgresLocks{store} }
func (store *PostgresStore) Revisions() RevisionStore   { return postgresRevisions{store} }

// newRevisionFor returns the zero revision of a kind for payload decoding.
func newRevisionFor(kind display.Kind) (EntityRevision, error) {
	switch kind {
	case display.KindPublisher:
		return &PublisherRevision{}, nil
	case display.KindIndiciaPublisher:
		return &IndiciaPublisherRevision{}, nil
	case display.KindBrandGroup:
		return &BrandGroupRevision{}, nil
	case display.KindBrand:
		return &BrandRevision{}, nil
	case display.KindBrandUse:
		return &BrandUseRevision{}, nil
	case display.KindSeries:
		return &SeriesRevision{}, nil
	case display.KindSeriesBond:
		return &SeriesBondRevision{}, nil
	case display.KindIssue:
		return &IssueRevision{}, nil
	case display.KindStory:
		return &StoryRevision{}, nil
	case display.KindCover:
		return &CoverRevision{}, nil
	case display.KindReprint:
		return &ReprintRevision{}, nil
	case display.KindImage:
		return &ImageRevision{}, nil
	default:
		return nil, fmt.Errorf("oi: unknown revision kind %q", kind)
	}
}

// # Changesets

type postgresChangesets struct{ store *PostgresStore }

/*
Get returns a changeset with its full review trail.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Changeset: The changeset with comments in creation order
  - error: ErrChangesetNotFound if missing
*/
func (c postgresChangesets) Get(context context.Context, id int64) (*Changeset, error) {
	// 1. Fetch the changeset row
	const query = `
		SELECT id, state, change_type, indexer, approver, created_at, modified_at
		FROM oi.changeset
		WHERE id = $1;
	`
	cs := &Changeset{}
	var state, changeType string
	err := c.store.db.QueryRow(context, query, id).Scan(
		&cs.ID, &state, &changeType, &cs.Indexer, &cs.Approver, &cs.CreatedAt, &cs.ModifiedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrChangesetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("oi: get changeset %d: %w", id, err)
	}
	cs.State = State(state)
	cs.ChangeType = ChangeType(changeType)

	// 2. Fetch the review trail
	const trail = `
		SELECT author, text, old_state, new_state, created_at
		FROM oi.changeset_comment
		WHERE changeset_id = $1
		ORDER BY id ASC;
	`
	rows, err := c.store.db.Query(context, trail, id)
	if err != nil {
		return nil, fmt.Errorf("oi: changeset comments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var comment Comment
		var oldState, newState string
		if err := rows.Scan(&comment.Author, &comment.Text, &oldState, &newState, &comment.At); err != nil {
			return nil, fmt.Errorf("oi: scan comment: %w", err)
		}
		comment.OldState = State(oldState)
		comment.NewState = State(newState)
		cs.Comments = append(cs.Comments, comment)
	}
	return cs, rows.Err()
}

/*
Save inserts or updates a changeset. The review trail is append-only:
comments already persisted are left untouched and any new tail entries
are inserted.

Parameters:
  - context: context.Context
  - changeset: *Changeset

Returns:
  - error: Persistence failures
*/
func (c postgresChangesets) Save(context context.Context, changeset *Changeset) error {
	tx, err := c.store.db.Begin(context)
	if err != nil {
		return fmt.Errorf("oi: begin save changeset: %w", err)
	}
	defer tx.Rollback(context)

	// 1. Upsert the changeset row
	if changeset.ID == 0 {
		now := time.Now().UTC()
		changeset.CreatedAt = now
		changeset.ModifiedAt = now
		const insert = `
			INSERT INTO oi.changeset (state, change_type, indexer, approver, created_at, modified_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id;
		`
		err = tx.QueryRow(context, insert,
			string(changeset.State), string(changeset.ChangeType),
			changeset.Indexer, changeset.Approver,
			changeset.CreatedAt, changeset.ModifiedAt,
		).Scan(&changeset.ID)
		if err != nil {
			return fmt.Errorf("oi: insert changeset: %w", err)
		}
	} else {
		const update = `
			UPDATE oi.changeset
			SET state = $2, change_type = $3, indexer = $4, approver = $5, modified_at = $6
			WHERE id = $1;
		`
		_, err = tx.Exec(context, update,
			changeset.ID, string(changeset.State), string(changeset.ChangeType),
			changeset.Indexer, changeset.Approver, changeset.ModifiedAt,
		)
		if err != nil {
			return fmt.Errorf("oi: update changeset %d: %w", changeset.ID, err)
		}
	}

	// 2. Append new trail entries
	var persisted int
	const count = `SELECT COUNT(*) FROM oi.changeset_comment WHERE changeset_id = $1;`
	if err := tx.QueryRow(context, count, changeset.ID).Scan(&persisted); err != nil {
		return fmt.Errorf("oi: count comments: %w", err)
	}
	const insertComment = `
		INSERT INTO oi.changeset_comment (changeset_id, author, text, old_state, new_state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, comment := range changeset.Comments[min(persisted, len(changeset.Comments)):] {
		_, err := tx.Exec(context, insertComment,
			changeset.ID, comment.Author, comment.Text,
			string(comment.OldState), string(comment.NewState), comment.At,
		)
		if err != nil {
			return fmt.Errorf("oi: insert comment: %w", err)
		}
	}

	return tx.Commit(context)
}

// # Locks

type postgresLocks struct{ store *PostgresStore }

/*
Acquire takes the lock on one display row for a changeset. The uniqueness
constraint on (kind, target_id) arbitrates concurrent reservations.

Parameters:
  - context: context.Context
  - kind: display.Kind
  - targetID: int64
  - changesetID: int64 (0 for a provisional pre-changeset hold)

Returns:
  - *RevisionLock: The created lock, or the existing one when the same
    changeset already holds the row
  - error: PreconditionError if another changeset holds the row
*/
func (l postgresLocks) Acquire(context context.Context, kind display.Kind, targetID, changesetID int64) (*RevisionLock, error) {
	// 1. Optimistic insert; a conflicting holder leaves us empty-handed
	const insert = `
		INSERT INTO oi.revision_lock (kind, target_id, changeset_id, locked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (kind, target_id) DO NOTHING
		RETURNING id, locked_at;
	`
	lock := &RevisionLock{Kind: kind, TargetID: targetID, ChangesetID: changesetID}
	err := l.store.db.QueryRow(context, insert, string(kind), targetID, changesetID, time.Now().UTC()).
		Scan(&lock.ID, &lock.LockedAt)
	if err == nil {
		return lock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("oi: acquire lock %s/%d: %w", kind, targetID, err)
	}

	// 2. Row already held; the same changeset keeps its existing lock
	held, err := l.Holder(context, kind, targetID)
	if err != nil {
		return nil, err
	}
	if held != nil && held.ChangesetID != 0 && held.ChangesetID == changesetID {
		return held, nil
	}
	var holder int64
	if held != nil {
		holder = held.ChangesetID
	}
	return nil, Preconditionf("%s %d is reserved by changeset %d", string(kind), targetID, holder)
}

func (l postgresLocks) Holder(context context.Context, kind display.Kind, targetID int64) (*RevisionLock, error) {
	const query = `
		SELECT id, kind, target_id, changeset_id, locked_at
		FROM oi.revision_lock
		WHERE kind = $1 AND target_id = $2;
	`
	lock := &RevisionLock{}
	var k string
	err := l.store.db.QueryRow(context, query, string(kind), targetID).
		Scan(&lock.ID, &k, &lock.TargetID, &lock.ChangesetID, &lock.LockedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("oi: lock holder %s/%d: %w", kind, targetID, err)
	}
	lock.Kind = display.Kind(k)
	return lock, nil
}

func (l postgresLocks) Release(context context.Context, kind display.Kind, targetID int64) error {
	const query = `DELETE FROM oi.revision_lock WHERE kind = $1 AND target_id = $2;`
	if _, err := l.store.db.Exec(context, query, string(kind), targetID); err != nil {
		return fmt.Errorf("oi: release lock %s/%d: %w", kind, targetID, err)
	}
	return nil
}

func (l postgresLocks) ReleaseChangeset(context context.Context, changesetID int64) error {
	const query = `DELETE FROM oi.revision_lock WHERE changeset_id = $1;`
	if _, err := l.store.db.Exec(context, query, changesetID); err != nil {
		return fmt.Errorf("oi: release changeset locks %d: %w", changesetID, err)
	}
	return nil
}

// # Revisions

type postgresRevisions struct{ store *PostgresStore }

/*
Save inserts or updates a revision. The full revision is encoded into the
payload; the bookkeeping columns are synced from it on every write so the
chain queries never consult JSON.

Parameters:
  - context: context.Context
  - revision: EntityRevision

Returns:
  - error: Persistence failures
*/
func (r postgresRevisions) Save(context context.Context, revision EntityRevision) error {
	base := revision.Base()

	// 1. Assign a fresh id first so the payload carries its final id
	if base.ID == 0 {
		now := time.Now().UTC()
		base.CreatedAt = now
		base.ModifiedAt = now
		const insert = `
			INSERT INTO oi.revision
				(kind, changeset_id, source_id, previous_revision_id,
				 committed, deleted, keep_reservation, payload, created_at, modified_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, '{}'::jsonb, $8, $9)
			RETURNING id;
		`
		err := r.store.db.QueryRow(context, insert,
			string(revision.Kind()), base.ChangesetID, revision.SourceID(),
			base.PreviousRevisionID, base.Committed, base.Deleted, base.KeepReservation,
			base.CreatedAt, base.ModifiedAt,
		).Scan(&base.ID)
		if err != nil {
			return fmt.Errorf("oi: insert revision: %w", err)
		}
	}

	payload, err := json.Marshal(revision)
	if err != nil {
		return fmt.Errorf("oi: encode revision %d: %w", base.ID, err)
	}

	// 2. Write the payload and sync the bookkeeping columns
	const update = `
		UPDATE oi.revision
		SET source_id = $2, previous_revision_id = $3, committed = $4,
		    deleted = $5, keep_reservation = $6, payload = $7, modified_at = $8
		WHERE id = $1;
	`
	_, err = r.store.db.Exec(context, update,
		base.ID, revision.SourceID(), base.PreviousRevisionID, base.Committed,
		base.Deleted, base.KeepReservation, payload, base.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("oi: save revision %d: %w", base.ID, err)
	}
	return nil
}

func (r postgresRevisions) Get(context context.Context, kind display.Kind, id int64) (EntityRevision, error) {
	const query = `
		SELECT kind, payload
		FROM oi.revision
		WHERE id = $1 AND kind = $2;
	`
	var k string
	var payload []byte
	err := r.store.db.QueryRow(context, query, id, string(kind)).Scan(&k, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRevisionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("oi: get revision %s/%d: %w", kind, id, err)
	}
	return decodeRevision(display.Kind(k), payload)
}

func (r postgresRevisions) ByChangeset(context context.Context, changesetID int64) ([]EntityRevision, error) {
	const query = `
		SELECT kind, payload
		FROM oi.revision
		WHERE changeset_id = $1
		ORDER BY id ASC;
	`
	revs, err := r.store.revisionRows(context, query, changesetID)
	if err != nil {
		return nil, err
	}
	sortRevisions(revs)
	return revs, nil
}

func (r postgresRevisions) ByChangesetKind(context context.Context, changesetID int64, kind display.Kind) ([]EntityRevision, error) {
	const query = `
		SELECT kind, payload
		FROM oi.revision
		WHERE changeset_id = $1 AND kind = $2
		ORDER BY id ASC;
	`
	return r.store.revisionRows(context, query, changesetID, string(kind))
}

/*
LatestCommitted returns the committed revisions of one display row that
have no committed successor.

Parameters:
  - context: context.Context
  - kind: display.Kind
  - sourceID: int64

Returns:
  - []EntityRevision: Chain heads, ideally one
  - error: Store failures
*/
func (r postgresRevisions) LatestCommitted(context context.Context, kind display.Kind, sourceID int64) ([]EntityRevision, error) {
	const query = `
		SELECT kind, payload
		FROM oi.revision head
		WHERE head.kind = $1 AND head.source_id = $2 AND head.committed = TRUE
		  AND NOT EXISTS (
			SELECT 1
			FROM oi.revision next
			WHERE next.kind = $1 AND next.committed = TRUE
			  AND next.previous_revision_id = head.id
		  )
		ORDER BY head.id ASC;
	`
	return r.store.revisionRows(context, query, string(kind), sourceID)
}

func (r postgresRevisions) BySource(context context.Context, kind display.Kind, sourceID int64) ([]EntityRevision, error) {
	const query = `
		SELECT kind, payload
		FROM oi.revision
		WHERE kind = $1 AND source_id = $2
		ORDER BY id ASC;
	`
	return r.store.revisionRows(context, query, string(kind), sourceID)
}

func (store *PostgresStore) revisionRows(context context.Context, query string, args ...any) ([]EntityRevision, error) {
	rows, err := store.db.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("oi: revision query: %w", err)
	}
	defer rows.Close()

	var out []EntityRevision
	for rows.Next() {
		var kind string
		var payload []byte
		if err := rows.Scan(&kind, &payload); err != nil {
			return nil, fmt.Errorf("oi: scan revision: %w", err)
		}
		rev, err := decodeRevision(display.Kind(kind), payload)
		if err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

func decodeRevision(kind display.Kind, payload []byte) (EntityRevision, error) {
	rev, err := newRevisionFor(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, rev); err != nil {
		return nil, fmt.Errorf("oi: decode %s revision: %w", kind, err)
	}
	return rev, nil
}

// # Statistics

// PostgresStats implements [StatsSink] over the oi.stat_count ledger.
type PostgresStats struct {
	db *pgxpool.Pool
}

// NewPostgresStats returns a ledger sink writing to oi.stat_count.
func NewPostgresStats(db *pgxpool.Pool) *PostgresStats {
	return &PostgresStats{db: db}
}

/*
Apply folds one commit's ledger entries into the running totals. The
batch is transactional: a commit either moves every counter or none.

Parameters:
  - context: context.Context
  - deltas: []StatDelta

Returns:
  - error: Persistence failures
*/
func (s *PostgresStats) Apply(context context.Context, deltas []StatDelta) error {
	if len(deltas) == 0 {
		return nil
	}
	tx, err := s.db.Begin(context)
	if err != nil {
		return fmt.Errorf("oi: begin stats: %w", err)
	}
	defer tx.Rollback(context)

	const upsert = `
		INSERT INTO oi.stat_count (category, country_id, language_id, count)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (category, country_id, language_id)
		DO UPDATE SET count = oi.stat_count.count + EXCLUDED.count;
	`
	for _, d := range deltas {
		if _, err := tx.Exec(context, upsert, d.Category, d.CountryID, d.LanguageID, d.Delta); err != nil {
			return fmt.Errorf("oi: apply stat %q: %w", d.Category, err)
		}
	}
	return tx.Commit(context)
}
