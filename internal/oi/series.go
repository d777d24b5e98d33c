// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"

	"github.com/inkdex/inkdex/internal/display"
	"github.com/inkdex/inkdex/pkg/sortname"
)

// # Series Revisions

// SeriesRevision stages an edit to one [display.Series].
//
// Series carry the heaviest lifecycle logic outside issues: the derived
// sort name, the singleton placeholder issue, and the ongoing reservation
// that follows the is_current flag.
type SeriesRevision struct {
	Revision

	SeriesID int64

	Name           string
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
	Keywords         string

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

	// ReservationRequested grants the submitting indexer an ongoing
	// reservation once the add commits. Revision-only bookkeeping.
	ReservationRequested bool
}

func (r *SeriesRevision) Base() *Revision            { return &r.Revision }
func (r *SeriesRevision) Kind() display.Kind         { return display.KindSeries }
func (r *SeriesRevision) SourceID() int64            { return r.SeriesID }
func (r *SeriesRevision) attach(id int64)            { r.SeriesID = id }
func (r *SeriesRevision) newDisplay() display.Entity { return &display.Series{} }

func (r *SeriesRevision) hooks(e *Engine) commitHooks {
	return &seriesHooks{engine: e, rev: r}
}

// counts measures a series together with its child rollups, so a country
// or language move carries every cached descendant total to the new
// ledger bucket in one retract+reapply.
func (r *SeriesRevision) counts(ctx context.Context, e *Engine, obj display.Entity) (Counts, error) {
	series := obj.(*display.Series)
	c := Counts{"issues": series.IssueCount}
	if series.IsComicsPublication {
		c["series"] = 1
	}
	if series.ID != 0 {
		indexed, err := e.store.Issues().CountIndexed(ctx, series.ID)
		if err != nil {
			return nil, err
		}
		covers, err := e.store.Covers().CountForSeries(ctx, series.ID)
		if err != nil {
			return nil, err
		}
		stories, err := e.store.Stories().CountForSeries(ctx, series.ID)
		if err != nil {
			return nil, err
		}
		c["issue indexes"] = indexed
		c["covers"] = covers
		c["stories"] = stories
	}
	return c, nil
}

func (r *SeriesRevision) tracked(_ *Engine, old display.Entity) []trackedField {
	oldSeries, _ := old.(*display.Series)
	oldVal := func(get func(*display.Series) any) resolveFunc {
		return func(context.Context) (any, error) {
			if oldSeries == nil {
				return nil, nil
			}
			return get(oldSeries), nil
		}
	}
	return []trackedField{
		{name: "publisher", kind: trackedValue,
			old: oldVal(func(s *display.Series) any { return s.PublisherID }),
			new: staticValue(r.PublisherID)},
		{name: "country", kind: trackedValue,
			old: oldVal(func(s *display.Series) any { return s.CountryID }),
			new: staticValue(r.CountryID)},
		{name: "language", kind: trackedValue,
			old: oldVal(func(s *display.Series) any { return s.LanguageID }),
			new: staticValue(r.LanguageID)},
		{name: "is_current", kind: trackedBool,
			old: oldVal(func(s *display.Series) any { return s.IsCurrent }),
			new: staticValue(r.IsCurrent)},
		{name: "is_comics_publication", kind: trackedBool,
			old: oldVal(func(s *display.Series) any { return s.IsComicsPublication }),
			new: staticValue(r.IsComicsPublication)},
		{name: "is_singleton", kind: trackedBool,
			old: oldVal(func(s *display.Series) any { return s.IsSingleton }),
			new: staticValue(r.IsSingleton)},
	}
}

func (r *SeriesRevision) parents(e *Engine, old display.Entity) []parentRef {
	oldSeries, _ := old.(*display.Series)
	return []parentRef{{
		name: "publisher",
		old: func(ctx context.Context) ([]display.Counted, error) {
			if oldSeries == nil {
				return nil, nil
			}
			return countedPublisher(ctx, e, oldSeries.PublisherID)
		},
		new: func(ctx context.Context) ([]display.Counted, error) {
			return countedPublisher(ctx, e, r.PublisherID)
		},
	}}
}

func (r *SeriesRevision) statKeys(_ context.Context, _ *Engine, old display.Entity) (CategoryKey, CategoryKey, error) {
	var oldKey CategoryKey
	if oldSeries, ok := old.(*display.Series); ok {
		oldKey = CategoryKey{CountryID: oldSeries.CountryID, LanguageID: oldSeries.LanguageID}
	}
	return oldKey, CategoryKey{CountryID: r.CountryID, LanguageID: r.LanguageID}, nil
}

// CloneSeries reserves a series and stages its pending revision.
func (e *Engine) CloneSeries(ctx context.Context, src *display.Series, changeset *Changeset) (*SeriesRevision, error) {
	rev := &SeriesRevision{}
	var ent display.Entity
	if src != nil {
		ent = src
	}
	if err := e.Clone(ctx, rev, ent, changeset); err != nil {
		return nil, err
	}
	return rev, nil
}

type seriesHooks struct {
	noopHooks
	engine *Engine
	rev    *SeriesRevision
}

// preCommitCheck refuses to delete a series that still has issues, except
// a singleton whose placeholder is being deleted in the same changeset.
func (h *seriesHooks) preCommitCheck(ctx context.Context) error {
	if !h.rev.Deleted {
		return nil
	}
	series, err := getAs[*display.Series](ctx, h.engine, display.KindSeries, h.rev.SeriesID)
	if err != nil {
		return err
	}
	if series != nil && series.IssueCount > 0 && !series.IsSingleton {
		return Preconditionf("series %d still has %d issues and cannot be deleted", series.ID, series.IssueCount)
	}
	return nil
}

// preStatsMeasurement commits the pending issue deletions of a singleton
// before the series totals are sampled, so the net issue delta of the
// whole approval is exactly the placeholder's own -1.
func (h *seriesHooks) preStatsMeasurement(ctx context.Context, _ ChangeSet) error {
	if !h.rev.Deleted {
		return nil
	}
	series, err := getAs[*display.Series](ctx, h.engine, display.KindSeries, h.rev.SeriesID)
	if err != nil {
		return err
	}
	if series == nil || !series.IsSingleton {
		return nil
	}
	siblings, err := h.engine.data.Revisions().ByChangesetKind(ctx, h.rev.ChangesetID, display.KindIssue)
	if err != nil {
		return err
	}
	for _, sibling := range siblings {
		issueRev := sibling.(*IssueRevision)
		if issueRev.Open() && issueRev.Deleted && issueRev.SeriesID == h.rev.SeriesID {
			if err := h.engine.commitRevision(ctx, issueRev); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *seriesHooks) postAssignFields(ctx context.Context, obj display.Entity) error {
	series := obj.(*display.Series)

	if series.LeadingArticle {
		series.SortName = sortname.From(series.Name)
	} else {
		series.SortName = series.Name
	}

	if series.ID != 0 {
		covers, err := h.engine.store.Covers().CountForSeries(ctx, series.ID)
		if err != nil {
			return err
		}
		series.HasGallery = covers > 0
	}
	return nil
}

func (h *seriesHooks) postAdjustStats(ctx context.Context, obj display.Entity, changes ChangeSet) error {
	if h.rev.Deleted {
		// A dead or deleted series cannot keep a standing claim.
		return h.engine.store.Reservations().Delete(ctx, h.rev.SeriesID)
	}

	series := obj.(*display.Series)

	if changes.From("is_current") {
		if err := h.engine.store.Reservations().Delete(ctx, series.ID); err != nil {
			return err
		}
	}

	if h.rev.Added() && h.rev.ReservationRequested {
		changeset, err := h.engine.data.Changesets().Get(ctx, h.rev.ChangesetID)
		if err != nil {
			return err
		}
		err = h.engine.store.Reservations().Save(ctx, &display.OngoingReservation{
			SeriesID: series.ID,
			Indexer:  changeset.Indexer,
		})
		if err != nil {
			return err
		}
	}

	// A singleton always owns exactly one issue, numbered [nn]. Creating
	// the series (or toggling the flag on an empty one) cascades it.
	needsPlaceholder := (h.rev.Added() && series.IsSingleton) ||
		(changes.To("is_singleton") && series.IssueCount == 0)
	if needsPlaceholder {
		changeset, err := h.engine.data.Changesets().Get(ctx, h.rev.ChangesetID)
		if err != nil {
			return err
		}
		placeholder := &IssueRevision{
			SeriesID: series.ID,
			Number:   "[nn]",
		}
		if err := h.engine.Add(ctx, placeholder, changeset); err != nil {
			return err
		}
		return h.engine.commitRevision(ctx, placeholder)
	}
	return nil
}

var _ = register(&revisionKind{
	kind: display.KindSeries,
	displayFields: []string{
		"name", "sort_name", "leading_article", "year_began",
		"year_began_uncertain", "year_ended", "year_ended_uncertain",
		"is_current", "publication_type", "format", "color", "dimensions",
		"paper_stock", "binding", "publishing_format", "publication_notes",
		"tracking_notes", "notes", "keywords", "has_barcode",
		"has_indicia_frequency", "has_isbn", "has_issue_title", "has_volume",
		"has_rating", "is_comics_publication", "is_singleton", "publisher",
		"country", "language", "issue_count", "first_issue", "last_issue",
		"has_gallery",
	},
	fields: []fieldSpec{
		single("name",
			func(r *SeriesRevision, s *display.Series) { s.Name = r.Name },
			func(r *SeriesRevision, s *display.Series) { r.Name = s.Name }),
		single("leading_article",
			func(r *SeriesRevision, s *display.Series) { s.LeadingArticle = r.LeadingArticle },
			func(r *SeriesRevision, s *display.Series) { r.LeadingArticle = s.LeadingArticle }),
		single("year_began",
			func(r *SeriesRevision, s *display.Series) { s.YearBegan = r.YearBegan },
			func(r *SeriesRevision, s *display.Series) { r.YearBegan = s.YearBegan }),
		single("year_began_uncertain",
			func(r *SeriesRevision, s *display.Series) { s.YearBeganUncertain = r.YearBeganUncertain },
			func(r *SeriesRevision, s *display.Series) { r.YearBeganUncertain = s.YearBeganUncertain }),
		single("year_ended",
			func(r *SeriesRevision, s *display.Series) { s.YearEnded = r.YearEnded },
			func(r *SeriesRevision, s *display.Series) { r.YearEnded = s.YearEnded }),
		single("year_ended_uncertain",
			func(r *SeriesRevision, s *display.Series) { s.YearEndedUncertain = r.YearEndedUncertain },
			func(r *SeriesRevision, s *display.Series) { r.YearEndedUncertain = s.YearEndedUncertain }),
		single("is_current",
			func(r *SeriesRevision, s *display.Series) { s.IsCurrent = r.IsCurrent },
			func(r *SeriesRevision, s *display.Series) { r.IsCurrent = s.IsCurrent }),
		single("publication_type",
			func(r *SeriesRevision, s *display.Series) { s.PublicationType = r.PublicationType },
			func(r *SeriesRevision, s *display.Series) { r.PublicationType = s.PublicationType }),
		single("format",
			func(r *SeriesRevision, s *display.Series) { s.Format = r.Format },
			func(r *SeriesRevision, s *display.Series) { r.Format = s.Format }),
		single("color",
			func(r *SeriesRevision, s *display.Series) { s.Color = r.Color },
			func(r *SeriesRevision, s *display.Series) { r.Color = s.Color }),
		single("dimensions",
			func(r *SeriesRevision, s *display.Series) { s.Dimensions = r.Dimensions },
			func(r *SeriesRevision, s *display.Series) { r.Dimensions = s.Dimensions }),
		single("paper_stock",
			func(r *SeriesRevision, s *display.Series) { s.PaperStock = r.PaperStock },
			func(r *SeriesRevision, s *display.Series) { r.PaperStock = s.PaperStock }),
		single("binding",
			func(r *SeriesRevision, s *display.Series) { s.Binding = r.Binding },
			func(r *SeriesRevision, s *display.Series) { r.Binding = s.Binding }),
		single("publishing_format",
			func(r *SeriesRevision, s *display.Series) { s.PublishingFormat = r.PublishingFormat },
			func(r *SeriesRevision, s *display.Series) { r.PublishingFormat = s.PublishingFormat }),
		single("publication_notes",
			func(r *SeriesRevision, s *display.Series) { s.PublicationNotes = r.PublicationNotes },
			func(r *SeriesRevision, s *display.Series) { r.PublicationNotes = s.PublicationNotes }),
		single("tracking_notes",
			func(r *SeriesRevision, s *display.Series) { s.TrackingNotes = r.TrackingNotes },
			func(r *SeriesRevision, s *display.Series) { r.TrackingNotes = s.TrackingNotes }),
		single("notes",
			func(r *SeriesRevision, s *display.Series) { s.Notes = r.Notes },
			func(r *SeriesRevision, s *display.Series) { r.Notes = s.Notes }),
		single("has_barcode",
			func(r *SeriesRevision, s *display.Series) { s.HasBarcode = r.HasBarcode },
			func(r *SeriesRevision, s *display.Series) { r.HasBarcode = s.HasBarcode }),
		single("has_indicia_frequency",
			func(r *SeriesRevision, s *display.Series) { s.HasIndiciaFrequency = r.HasIndiciaFrequency },
			func(r *SeriesRevision, s *display.Series) { r.HasIndiciaFrequency = s.HasIndiciaFrequency }),
		single("has_isbn",
			func(r *SeriesRevision, s *display.Series) { s.HasISBN = r.HasISBN },
			func(r *SeriesRevision, s *display.Series) { r.HasISBN = s.HasISBN }),
		single("has_issue_title",
			func(r *SeriesRevision, s *display.Series) { s.HasIssueTitle = r.HasIssueTitle },
			func(r *SeriesRevision, s *display.Series) { r.HasIssueTitle = s.HasIssueTitle }),
		single("has_volume",
			func(r *SeriesRevision, s *display.Series) { s.HasVolume = r.HasVolume },
			func(r *SeriesRevision, s *display.Series) { r.HasVolume = s.HasVolume }),
		single("has_rating",
			func(r *SeriesRevision, s *display.Series) { s.HasRating = r.HasRating },
			func(r *SeriesRevision, s *display.Series) { r.HasRating = s.HasRating }),
		single("is_comics_publication",
			func(r *SeriesRevision, s *display.Series) { s.IsComicsPublication = r.IsComicsPublication },
			func(r *SeriesRevision, s *display.Series) { r.IsComicsPublication = s.IsComicsPublication }),
		single("is_singleton",
			func(r *SeriesRevision, s *display.Series) { s.IsSingleton = r.IsSingleton },
			func(r *SeriesRevision, s *display.Series) { r.IsSingleton = s.IsSingleton }),
		single("publisher",
			func(r *SeriesRevision, s *display.Series) { s.PublisherID = r.PublisherID },
			func(r *SeriesRevision, s *display.Series) { r.PublisherID = s.PublisherID }),
		single("country",
			func(r *SeriesRevision, s *display.Series) { s.CountryID = r.CountryID },
			func(r *SeriesRevision, s *display.Series) { r.CountryID = s.CountryID }),
		single("language",
			func(r *SeriesRevision, s *display.Series) { s.LanguageID = r.LanguageID },
			func(r *SeriesRevision, s *display.Series) { r.LanguageID = s.LanguageID }),
		keywords(
			func(r *SeriesRevision) *string { return &r.Keywords },
			func(s *display.Series) *[]string { return &s.Keywords }),
	},
	irregular: []string{
		"sort_name", "issue_count", "first_issue", "last_issue", "has_gallery",
	},
})
