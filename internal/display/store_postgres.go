// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package display

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkdex/inkdex/internal/platform/database/schema"
)

// PostgresStore implements [Store] using a pgxpool.
//
// Every display table carries a surrogate key, the JSONB document of the
// entity, and (where queries need them) a few dedicated columns kept in
// sync on each save.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore returns a fully wired postgres implementation.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// tableFor maps a kind to its table name.
func tableFor(kind Kind) (string, error) {
	switch kind {
	case KindPublisher:
		return schema.DisplayPublisher.Table, nil
	case KindIndiciaPublisher:
		return schema.DisplayIndiciaPublisher.Table, nil
	case KindBrandGroup:
		return schema.DisplayBrandGroup.Table, nil
	case KindBrand:
		return schema.DisplayBrand.Table, nil
	case KindBrandUse:
		return schema.DisplayBrandUse.Table, nil
	case KindSeries:
		return schema.DisplaySeries.Table, nil
	case KindSeriesBond:
		return schema.DisplaySeriesBond.Table, nil
	case KindIssue:
		return schema.DisplayIssue.Table, nil
	case KindStory:
		return schema.DisplayStory.Table, nil
	case KindCover:
		return schema.DisplayCover.Table, nil
	case KindReprint:
		return schema.DisplayReprint.Table, nil
	case KindImage:
		return schema.DisplayImage.Table, nil
	default:
		return "", fmt.Errorf("display: unknown kind %q", kind)
	}
}

// newEntityFor returns the zero entity of a kind for document decoding.
func newEntityFor(kind Kind) (Entity, error) {
	switch kind {
	case KindPublisher:
		return &Publisher{}, nil
	case KindIndiciaPublisher:
		return &IndiciaPublisher{}, nil
	case KindBrandGroup:
		return &BrandGroup{}, nil
	case KindBrand:
		return &Brand{}, nil
	case KindBrandUse:
		return &BrandUse{}, nil
	case KindSeries:
		return &Series{}, nil
	case KindSeriesBond:
		return &SeriesBond{}, nil
	case KindIssue:
		return &Issue{}, nil
	case KindStory:
		return &Story{}, nil
	case KindCover:
		return &Cover{}, nil
	case KindReprint:
		return &ReprintLink{}, nil
	case KindImage:
		return &Image{}, nil
	default:
		return nil, fmt.Errorf("display: unknown kind %q", kind)
	}
}

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
func (store *PostgresStore) Get(context context.Context, kind Kind, id int64) (Entity, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	// Fetch the JSONB document
	var doc []byte
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1;`, table)
	if err := store.db.QueryRow(context, query, id).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("display: get %s/%d: %w", kind, id, err)
	}

	// Hydrate the concrete entity
	ent, err := newEntityFor(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(doc, ent); err != nil {
		return nil, fmt.Errorf("display: decode %s/%d: %w", kind, id, err)
	}
	return ent, nil
}

/*
Save inserts or updates a display row. A row with EntityID 0 is inserted
and assigned a fresh id.

Parameters:
  - context: context.Context
  - entity: Entity

Returns:
  - error: Persistence failures
*/
func (store *PostgresStore) Save(context context.Context, entity Entity) error {
	table, err := tableFor(entity.Kind())
	if err != nil {
		return err
	}

	// Assign a fresh id first so the document always carries its final id
	if entity.EntityID() == 0 {
		var id int64
		insert := fmt.Sprintf(`INSERT INTO %s (doc) VALUES ('{}'::jsonb) RETURNING id;`, table)
		if err := store.db.QueryRow(context, insert).Scan(&id); err != nil {
			return fmt.Errorf("display: insert %s: %w", entity.Kind(), err)
		}
		setEntityID(entity, id)
	}

	doc, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("display: encode %s/%d: %w", entity.Kind(), entity.EntityID(), err)
	}

	// Kinds with query columns sync them alongside the document
	switch v := entity.(type) {
	case *Issue:
		const query = `
			UPDATE display.issue
			SET doc = $2, series_id = $3, sort_code = $4, variant_of_id = $5, is_indexed = $6
			WHERE id = $1;
		`
		_, err = store.db.Exec(context, query, v.ID, doc, v.SeriesID, v.SortCode, v.VariantOfID, v.IsIndexed)
	case *Story:
		const query = `
			UPDATE display.story
			SET doc = $2, issue_id = $3, sequence_number = $4
			WHERE id = $1;
		`
		_, err = store.db.Exec(context, query, v.ID, doc, v.IssueID, v.SequenceNumber)
	case *Cover:
		const query = `
			UPDATE display.cover
			SET doc = $2, issue_id = $3
			WHERE id = $1;
		`
		_, err = store.db.Exec(context, query, v.ID, doc, v.IssueID)
	case *Image:
		const query = `
			UPDATE display.image
			SET doc = $2, owner_kind = $3, owner_id = $4, type_name = $5
			WHERE id = $1;
		`
		_, err = store.db.Exec(context, query, v.ID, doc, string(v.OwnerKind), v.OwnerID, v.TypeName)
	default:
		query := fmt.Sprintf(`UPDATE %s SET doc = $2 WHERE id = $1;`, table)
		_, err = store.db.Exec(context, query, entity.EntityID(), doc)
	}
	if err != nil {
		return fmt.Errorf("display: save %s/%d: %w", entity.Kind(), entity.EntityID(), err)
	}
	return nil
}

/*
Delete removes a display row permanently.

Parameters:
  - context: context.Context
  - kind: Kind
  - id: int64

Returns:
  - error: ErrNotFound if missing
*/
func (store *PostgresStore) Delete(context context.Context, kind Kind, id int64) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1;`, table)
	tag, err := store.db.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("display: delete %s/%d: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (store *PostgresStore) Issues() IssueQueries             { return postgresIssues{store} }
func (store *PostgresStore) Stories() StoryQueries            { return postgresStories{store} }
func (store *PostgresStore) Covers() CoverQueries             { return postgresCovers{store} }
func (store *PostgresStore) Images() ImageQueries             { return postgresImages{store} }
func (store *PostgresStore) Reservations() ReservationQueries { return postgresReservations{store} }

// # Issue Queries

type postgresIssues struct{ store *PostgresStore }

func (q postgresIssues) BySeries(context context.Context, seriesID int64) ([]*Issue, error) {
	const query = `
		SELECT doc
		FROM display.issue
		WHERE series_id = $1
		ORDER BY sort_code ASC;
	`
	return q.store.issueRows(context, query, seriesID)
}

func (q postgresIssues) LaterInSeries(context context.Context, seriesID int64, after int) ([]*Issue, error) {
	const query = `
		SELECT doc
		FROM display.issue
		WHERE series_id = $1 AND sort_code > $2
		ORDER BY sort_code DESC;
	`
	return q.store.issueRows(context, query, seriesID, after)
}

func (q postgresIssues) MaxSortCode(context context.Context, seriesID int64) (int, bool, error) {
	const query = `
		SELECT COALESCE(MAX(sort_code), 0), COUNT(*)
		FROM display.issue
		WHERE series_id = $1;
	`
	var code, count int
	if err := q.store.db.QueryRow(context, query, seriesID).Scan(&code, &count); err != nil {
		return 0, false, fmt.Errorf("display: max sort code: %w", err)
	}
	return code, count > 0, nil
}

func (q postgresIssues) CountActive(context context.Context, seriesID int64) (int, int, error) {
	const query = `
		SELECT
			COUNT(*) FILTER (WHERE variant_of_id = 0),
			COUNT(*) FILTER (WHERE variant_of_id <> 0)
		FROM display.issue
		WHERE series_id = $1;
	`
	var base, variant int
	if err := q.store.db.QueryRow(context, query, seriesID).Scan(&base, &variant); err != nil {
		return 0, 0, fmt.Errorf("display: count issues: %w", err)
	}
	return base, variant, nil
}

func (q postgresIssues) CountIndexed(context context.Context, seriesID int64) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM display.issue
		WHERE series_id = $1 AND is_indexed;
	`
	var n int
	if err := q.store.db.QueryRow(context, query, seriesID).Scan(&n); err != nil {
		return 0, fmt.Errorf("display: count indexed: %w", err)
	}
	return n, nil
}

func (store *PostgresStore) issueRows(context context.Context, query string, args ...any) ([]*Issue, error) {
	rows, err := store.db.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("display: issue query: %w", err)
	}
	defer rows.Close()

	var out []*Issue
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("display: scan issue: %w", err)
		}
		issue := &Issue{}
		if err := json.Unmarshal(doc, issue); err != nil {
			return nil, fmt.Errorf("display: decode issue: %w", err)
		}
		out = append(out, issue)
	}
	return out, rows.Err()
}

// # Story Queries

type postgresStories struct{ store *PostgresStore }

func (q postgresStories) ActiveByIssue(context context.Context, issueID int64) ([]*Story, error) {
	const query = `
		SELECT doc
		FROM display.story
		WHERE issue_id = $1
		ORDER BY sequence_number ASC;
	`
	rows, err := q.store.db.Query(context, query, issueID)
	if err != nil {
		return nil, fmt.Errorf("display: story query: %w", err)
	}
	defer rows.Close()

	var out []*Story
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("display: scan story: %w", err)
		}
		story := &Story{}
		if err := json.Unmarshal(doc, story); err != nil {
			return nil, fmt.Errorf("display: decode story: %w", err)
		}
		out = append(out, story)
	}
	return out, rows.Err()
}

func (q postgresStories) CountForSeries(context context.Context, seriesID int64) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM display.story s
		JOIN display.issue i ON i.id = s.issue_id
		WHERE i.series_id = $1;
	`
	var n int
	if err := q.store.db.QueryRow(context, query, seriesID).Scan(&n); err != nil {
		return 0, fmt.Errorf("display: count stories: %w", err)
	}
	return n, nil
}

// # Cover Queries

type postgresCovers struct{ store *PostgresStore }

func (q postgresCovers) ActiveByIssue(context context.Context, issueID int64) ([]*Cover, error) {
	const query = `
		SELECT doc
		FROM display.cover
		WHERE issue_id = $1
		ORDER BY id ASC;
	`
	rows, err := q.store.db.Query(context, query, issueID)
	if err != nil {
		return nil, fmt.Errorf("display: cover query: %w", err)
	}
	defer rows.Close()

	var out []*Cover
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("display: scan cover: %w", err)
		}
		cover := &Cover{}
		if err := json.Unmarshal(doc, cover); err != nil {
			return nil, fmt.Errorf("display: decode cover: %w", err)
		}
		out = append(out, cover)
	}
	return out, rows.Err()
}

func (q postgresCovers) CountForSeries(context context.Context, seriesID int64) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM display.cover c
		JOIN display.issue i ON i.id = c.issue_id
		WHERE i.series_id = $1;
	`
	var n int
	if err := q.store.db.QueryRow(context, query, seriesID).Scan(&n); err != nil {
		return 0, fmt.Errorf("display: count covers: %w", err)
	}
	return n, nil
}

// # Image Queries

type postgresImages struct{ store *PostgresStore }

func (q postgresImages) CountActive(context context.Context, ownerKind Kind, ownerID int64, typeName string) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM display.image
		WHERE owner_kind = $1 AND owner_id = $2 AND type_name = $3;
	`
	var n int
	if err := q.store.db.QueryRow(context, query, string(ownerKind), ownerID, typeName).Scan(&n); err != nil {
		return 0, fmt.Errorf("display: count images: %w", err)
	}
	return n, nil
}

// # Reservation Queries

type postgresReservations struct{ store *PostgresStore }

func (q postgresReservations) ForSeries(context context.Context, seriesID int64) (*OngoingReservation, error) {
	const query = `
		SELECT id, series_id, indexer
		FROM oi.ongoing_reservation
		WHERE series_id = $1;
	`
	r := &OngoingReservation{}
	err := q.store.db.QueryRow(context, query, seriesID).Scan(&r.ID, &r.SeriesID, &r.Indexer)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("display: reservation query: %w", err)
	}
	return r, nil
}

func (q postgresReservations) Save(context context.Context, reservation *OngoingReservation) error {
	const query = `
		INSERT INTO oi.ongoing_reservation (series_id, indexer)
		VALUES ($1, $2)
		ON CONFLICT (series_id) DO UPDATE SET indexer = EXCLUDED.indexer
		RETURNING id;
	`
	if err := q.store.db.QueryRow(context, query, reservation.SeriesID, reservation.Indexer).Scan(&reservation.ID); err != nil {
		return fmt.Errorf("display: save reservation: %w", err)
	}
	return nil
}

func (q postgresReservations) Delete(context context.Context, seriesID int64) error {
	const query = `DELETE FROM oi.ongoing_reservation WHERE series_id = $1;`
	if _, err := q.store.db.Exec(context, query, seriesID); err != nil {
		return fmt.Errorf("display: delete reservation: %w", err)
	}
	return nil
}
