// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"

	"github.com/inkdex/inkdex/internal/display"
)

// # Publisher Revisions

// PublisherRevision stages an edit to one [display.Publisher].
type PublisherRevision struct {
	Revision

	PublisherID int64

	Name               string
	YearBegan          int
	YearBeganUncertain bool
	YearEnded          int
	YearEndedUncertain bool
	URL                string
	Notes              string
	Keywords           string

	CountryID int64
}

func (r *PublisherRevision) Base() *Revision            { return &r.Revision }
func (r *PublisherRevision) Kind() display.Kind         { return display.KindPublisher }
func (r *PublisherRevision) SourceID() int64            { return r.PublisherID }
func (r *PublisherRevision) attach(id int64)            { r.PublisherID = id }
func (r *PublisherRevision) newDisplay() display.Entity { return &display.Publisher{} }

func (r *PublisherRevision) hooks(*Engine) commitHooks { return noopHooks{} }

func (r *PublisherRevision) counts(context.Context, *Engine, display.Entity) (Counts, error) {
	return Counts{"publishers": 1}, nil
}

func (r *PublisherRevision) tracked(_ *Engine, old display.Entity) []trackedField {
	oldPub, _ := old.(*display.Publisher)
	return []trackedField{
		{
			name: "country",
			kind: trackedValue,
			old: func(context.Context) (any, error) {
				if oldPub == nil {
					return nil, nil
				}
				return oldPub.CountryID, nil
			},
			new: staticValue(r.CountryID),
		},
	}
}

func (r *PublisherRevision) parents(*Engine, display.Entity) []parentRef { return nil }

func (r *PublisherRevision) statKeys(_ context.Context, _ *Engine, old display.Entity) (CategoryKey, CategoryKey, error) {
	var oldKey CategoryKey
	if oldPub, ok := old.(*display.Publisher); ok {
		oldKey = CategoryKey{CountryID: oldPub.CountryID}
	}
	return oldKey, CategoryKey{CountryID: r.CountryID}, nil
}

// ClonePublisher reserves a publisher and stages its pending revision.
func (e *Engine) ClonePublisher(ctx context.Context, src *display.Publisher, changeset *Changeset) (*PublisherRevision, error) {
	rev := &PublisherRevision{}
	var ent display.Entity
	if src != nil {
		ent = src
	}
	if err := e.Clone(ctx, rev, ent, changeset); err != nil {
		return nil, err
	}
	return rev, nil
}

var _ = register(&revisionKind{
	kind: display.KindPublisher,
	displayFields: []string{
		"name", "year_began", "year_began_uncertain", "year_ended",
		"year_ended_uncertain", "url", "notes", "keywords", "country",
		"brand_count", "indicia_publisher_count", "series_count", "issue_count",
	},
	fields: []fieldSpec{
		single("name",
			func(r *PublisherRevision, p *display.Publisher) { p.Name = r.Name },
			func(r *PublisherRevision, p *display.Publisher) { r.Name = p.Name }),
		single("year_began",
			func(r *PublisherRevision, p *display.Publisher) { p.YearBegan = r.YearBegan },
			func(r *PublisherRevision, p *display.Publisher) { r.YearBegan = p.YearBegan }),
		single("year_began_uncertain",
			func(r *PublisherRevision, p *display.Publisher) { p.YearBeganUncertain = r.YearBeganUncertain },
			func(r *PublisherRevision, p *display.Publisher) { r.YearBeganUncertain = p.YearBeganUncertain }),
		single("year_ended",
			func(r *PublisherRevision, p *display.Publisher) { p.YearEnded = r.YearEnded },
			func(r *PublisherRevision, p *display.Publisher) { r.YearEnded = p.YearEnded }),
		single("year_ended_uncertain",
			func(r *PublisherRevision, p *display.Publisher) { p.YearEndedUncertain = r.YearEndedUncertain },
			func(r *PublisherRevision, p *display.Publisher) { r.YearEndedUncertain = p.YearEndedUncertain }),
		single("url",
			func(r *PublisherRevision, p *display.Publisher) { p.URL = r.URL },
			func(r *PublisherRevision, p *display.Publisher) { r.URL = p.URL }),
		single("notes",
			func(r *PublisherRevision, p *display.Publisher) { p.Notes = r.Notes },
			func(r *PublisherRevision, p *display.Publisher) { r.Notes = p.Notes }),
		single("country",
			func(r *PublisherRevision, p *display.Publisher) { p.CountryID = r.CountryID },
			func(r *PublisherRevision, p *display.Publisher) { r.CountryID = p.CountryID }),
		keywords(
			func(r *PublisherRevision) *string { return &r.Keywords },
			func(p *display.Publisher) *[]string { return &p.Keywords }),
	},
	irregular: []string{
		"brand_count", "indicia_publisher_count", "series_count", "issue_count",
	},
})

// # Indicia Publisher Revisions

// IndiciaPublisherRevision stages an edit to one [display.IndiciaPublisher].
type IndiciaPublisherRevision struct {
	Revision

	IndiciaPublisherID int64

	ParentID int64

	Name               string
	YearBegan          int
	YearBeganUncertain bool
	YearEnded          int
	YearEndedUncertain bool
	IsSurrogate        bool
	URL                string
	Notes              string
	Keywords           string

	CountryID int64
}

func (r *IndiciaPublisherRevision) Base() *Revision    { return &r.Revision }
func (r *IndiciaPublisherRevision) Kind() display.Kind { return display.KindIndiciaPublisher }
func (r *IndiciaPublisherRevision) SourceID() int64    { return r.IndiciaPublisherID }
func (r *IndiciaPublisherRevision) attach(id int64)    { r.IndiciaPublisherID = id }
func (r *IndiciaPublisherRevision) newDisplay() display.Entity {
	return &display.IndiciaPublisher{}
}

func (r *IndiciaPublisherRevision) hooks(*Engine) commitHooks { return noopHooks{} }

func (r *IndiciaPublisherRevision) counts(context.Context, *Engine, display.Entity) (Counts, error) {
	return Counts{"indicia publishers": 1}, nil
}

func (r *IndiciaPublisherRevision) tracked(_ *Engine, old display.Entity) []trackedField {
	oldIP, _ := old.(*display.IndiciaPublisher)
	return []trackedField{
		{
			name: "publisher",
			kind: trackedValue,
			old: func(context.Context) (any, error) {
				if oldIP == nil {
					return nil, nil
				}
				return oldIP.ParentID, nil
			},
			new: staticValue(r.ParentID),
		},
		{
			name: "country",
			kind: trackedValue,
			old: func(context.Context) (any, error) {
				if oldIP == nil {
					return nil, nil
				}
				return oldIP.CountryID, nil
			},
			new: staticValue(r.CountryID),
		},
	}
}

func (r *IndiciaPublisherRevision) parents(e *Engine, old display.Entity) []parentRef {
	oldIP, _ := old.(*display.IndiciaPublisher)
	return []parentRef{{
		name: "publisher",
		old: func(ctx context.Context) ([]display.Counted, error) {
			if oldIP == nil {
				return nil, nil
			}
			return countedPublisher(ctx, e, oldIP.ParentID)
		},
		new: func(ctx context.Context) ([]display.Counted, error) {
			return countedPublisher(ctx, e, r.ParentID)
		},
	}}
}

func (r *IndiciaPublisherRevision) statKeys(_ context.Context, _ *Engine, old display.Entity) (CategoryKey, CategoryKey, error) {
	var oldKey CategoryKey
	if oldIP, ok := old.(*display.IndiciaPublisher); ok {
		oldKey = CategoryKey{CountryID: oldIP.CountryID}
	}
	return oldKey, CategoryKey{CountryID: r.CountryID}, nil
}

// CloneIndiciaPublisher reserves an indicia publisher and stages its
// pending revision.
func (e *Engine) CloneIndiciaPublisher(ctx context.Context, src *display.IndiciaPublisher, changeset *Changeset) (*IndiciaPublisherRevision, error) {
	rev := &IndiciaPublisherRevision{}
	var ent display.Entity
	if src != nil {
		ent = src
	}
	if err := e.Clone(ctx, rev, ent, changeset); err != nil {
		return nil, err
	}
	return rev, nil
}

// countedPublisher resolves a publisher id to a one-element parent slice.
func countedPublisher(ctx context.Context, e *Engine, id int64) ([]display.Counted, error) {
	if id == 0 {
		return nil, nil
	}
	pub, err := getAs[*display.Publisher](ctx, e, display.KindPublisher, id)
	if err != nil || pub == nil {
		return nil, err
	}
	return []display.Counted{pub}, nil
}

var _ = register(&revisionKind{
	kind: display.KindIndiciaPublisher,
	displayFields: []string{
		"parent", "name", "year_began", "year_began_uncertain", "year_ended",
		"year_ended_uncertain", "is_surrogate", "url", "notes", "keywords",
		"country", "issue_count",
	},
	fields: []fieldSpec{
		single("parent",
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { ip.ParentID = r.ParentID },
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { r.ParentID = ip.ParentID }),
		single("name",
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { ip.Name = r.Name },
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { r.Name = ip.Name }),
		single("year_began",
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { ip.YearBegan = r.YearBegan },
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { r.YearBegan = ip.YearBegan }),
		single("year_began_uncertain",
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { ip.YearBeganUncertain = r.YearBeganUncertain },
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { r.YearBeganUncertain = ip.YearBeganUncertain }),
		single("year_ended",
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { ip.YearEnded = r.YearEnded },
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { r.YearEnded = ip.YearEnded }),
		single("year_ended_uncertain",
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { ip.YearEndedUncertain = r.YearEndedUncertain },
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { r.YearEndedUncertain = ip.YearEndedUncertain }),
		single("is_surrogate",
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { ip.IsSurrogate = r.IsSurrogate },
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { r.IsSurrogate = ip.IsSurrogate }),
		single("url",
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { ip.URL = r.URL },
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { r.URL = ip.URL }),
		single("notes",
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { ip.Notes = r.Notes },
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { r.Notes = ip.Notes }),
		single("country",
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { ip.CountryID = r.CountryID },
			func(r *IndiciaPublisherRevision, ip *display.IndiciaPublisher) { r.CountryID = ip.CountryID }),
		keywords(
			func(r *IndiciaPublisherRevision) *string { return &r.Keywords },
			func(ip *display.IndiciaPublisher) *[]string { return &ip.Keywords }),
	},
	irregular: []string{"issue_count"},
})
