// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/inkdex/inkdex/internal/display"
	"github.com/inkdex/inkdex/pkg/isbn"
)

// # Issue Revisions
//
// Issues carry the hardest revision logic in the catalogue: dense sort
// codes inside a series, cross-revision ordering prerequisites inside a
// changeset, conditional fields gated by the series flags, and the cached
// first/last pointers on the parent series.

// IssueRevision stages an edit to one [display.Issue].
type IssueRevision struct {
	Revision

	IssueID int64

	SeriesID int64

	Number                  string
	Title                   string
	NoTitle                 bool
	Volume                  string
	NoVolume                bool
	DisplayVolumeWithNumber bool

	VariantOfID int64
	VariantName string

	PublicationDate string
	KeyDate         string

	// The on-sale date is edited as split components and recomposed into
	// the display string on commit.
	OnSaleYear          int
	OnSaleMonth         int
	OnSaleDay           int
	OnSaleDateUncertain bool

	IndiciaFrequency   string
	NoIndiciaFrequency bool

	Price              string
	PageCount          float64
	PageCountUncertain bool

	Editing   string
	NoEditing bool

	IndiciaPublisherID   int64
	IndiciaPubNotPrinted bool
	BrandID              int64
	NoBrand              bool

	ISBN      string
	NoISBN    bool
	Barcode   string
	NoBarcode bool
	Rating    string
	NoRating  bool

	Notes    string
	Keywords string

	// AfterSet marks an explicit insertion point: the issue follows
	// AfterID, or opens the series when AfterID is 0. Without it a new
	// issue chains behind the previous new issue of the same changeset.
	AfterSet bool
	AfterID  int64

	// RevisionSortCode orders sibling issue revisions within a changeset.
	// It never persists to display.
	RevisionSortCode int
}

func (r *IssueRevision) Base() *Revision            { return &r.Revision }
func (r *IssueRevision) Kind() display.Kind         { return display.KindIssue }
func (r *IssueRevision) SourceID() int64            { return r.IssueID }
func (r *IssueRevision) attach(id int64)            { r.IssueID = id }
func (r *IssueRevision) newDisplay() display.Entity { return &display.Issue{} }

func (r *IssueRevision) hooks(e *Engine) commitHooks {
	return &issueHooks{engine: e, rev: r}
}

func (r *IssueRevision) counts(ctx context.Context, e *Engine, obj display.Entity) (Counts, error) {
	issue := obj.(*display.Issue)
	c := Counts{}
	if issue.IsVariant() {
		c["variant issues"] = 1
	} else {
		c["issues"] = 1
	}
	if issue.IsIndexed {
		c["issue indexes"] = 1
	}
	if issue.ID != 0 {
		stories, err := e.store.Stories().ActiveByIssue(ctx, issue.ID)
		if err != nil {
			return nil, err
		}
		covers, err := e.store.Covers().ActiveByIssue(ctx, issue.ID)
		if err != nil {
			return nil, err
		}
		c["stories"] = len(stories)
		c["covers"] = len(covers)
	}
	return c, nil
}

func (r *IssueRevision) tracked(e *Engine, old display.Entity) []trackedField {
	oldIssue, _ := old.(*display.Issue)

	oldSeries := func(ctx context.Context) (*display.Series, error) {
		if oldIssue == nil {
			return nil, nil
		}
		return getAs[*display.Series](ctx, e, display.KindSeries, oldIssue.SeriesID)
	}
	newSeries := func(ctx context.Context) (*display.Series, error) {
		return getAs[*display.Series](ctx, e, display.KindSeries, r.SeriesID)
	}
	seriesHop := func(side func(context.Context) (*display.Series, error), get func(*display.Series) any) resolveFunc {
		return func(ctx context.Context) (any, error) {
			s, err := side(ctx)
			if err != nil || s == nil {
				return nil, err
			}
			return get(s), nil
		}
	}
	brandGroups := func(brandID int64) resolveFunc {
		return func(ctx context.Context) (any, error) {
			b, err := getAs[*display.Brand](ctx, e, display.KindBrand, brandID)
			if err != nil || b == nil {
				return nil, err
			}
			return b.GroupIDs, nil
		}
	}

	oldBrandID := int64(0)
	if oldIssue != nil {
		oldBrandID = oldIssue.BrandID
	}

	return []trackedField{
		{name: "series", kind: trackedValue,
			old: func(context.Context) (any, error) {
				if oldIssue == nil {
					return nil, nil
				}
				return oldIssue.SeriesID, nil
			},
			new: staticValue(r.SeriesID)},
		{name: "publisher", kind: trackedValue,
			old: seriesHop(oldSeries, func(s *display.Series) any { return s.PublisherID }),
			new: seriesHop(newSeries, func(s *display.Series) any { return s.PublisherID })},
		{name: "brand", kind: trackedValue,
			old: func(context.Context) (any, error) {
				if oldIssue == nil {
					return nil, nil
				}
				return oldIssue.BrandID, nil
			},
			new: staticValue(r.BrandID)},
		{name: "group", kind: trackedMulti,
			old: brandGroups(oldBrandID),
			new: brandGroups(r.BrandID)},
		{name: "indicia_publisher", kind: trackedValue,
			old: func(context.Context) (any, error) {
				if oldIssue == nil {
					return nil, nil
				}
				return oldIssue.IndiciaPublisherID, nil
			},
			new: staticValue(r.IndiciaPublisherID)},
		{name: "country", kind: trackedValue,
			old: seriesHop(oldSeries, func(s *display.Series) any { return s.CountryID }),
			new: seriesHop(newSeries, func(s *display.Series) any { return s.CountryID })},
		{name: "language", kind: trackedValue,
			old: seriesHop(oldSeries, func(s *display.Series) any { return s.LanguageID }),
			new: seriesHop(newSeries, func(s *display.Series) any { return s.LanguageID })},
		{name: "variant_of", kind: trackedValue,
			old: func(context.Context) (any, error) {
				if oldIssue == nil {
					return nil, nil
				}
				return oldIssue.VariantOfID, nil
			},
			new: staticValue(r.VariantOfID)},
	}
}

func (r *IssueRevision) parents(e *Engine, old display.Entity) []parentRef {
	oldIssue, _ := old.(*display.Issue)

	oldSeriesID, oldBrandID, oldIndiciaID := int64(0), int64(0), int64(0)
	if oldIssue != nil {
		oldSeriesID = oldIssue.SeriesID
		oldBrandID = oldIssue.BrandID
		oldIndiciaID = oldIssue.IndiciaPublisherID
	}

	countedSeries := func(id int64) func(ctx context.Context) ([]display.Counted, error) {
		return func(ctx context.Context) ([]display.Counted, error) {
			s, err := getAs[*display.Series](ctx, e, display.KindSeries, id)
			if err != nil || s == nil {
				return nil, err
			}
			return []display.Counted{s}, nil
		}
	}
	publisherOfSeries := func(id int64) func(ctx context.Context) ([]display.Counted, error) {
		return func(ctx context.Context) ([]display.Counted, error) {
			s, err := getAs[*display.Series](ctx, e, display.KindSeries, id)
			if err != nil || s == nil {
				return nil, err
			}
			return countedPublisher(ctx, e, s.PublisherID)
		}
	}
	countedBrand := func(id int64) func(ctx context.Context) ([]display.Counted, error) {
		return func(ctx context.Context) ([]display.Counted, error) {
			b, err := getAs[*display.Brand](ctx, e, display.KindBrand, id)
			if err != nil || b == nil {
				return nil, err
			}
			return []display.Counted{b}, nil
		}
	}
	groupsOfBrand := func(id int64) func(ctx context.Context) ([]display.Counted, error) {
		return func(ctx context.Context) ([]display.Counted, error) {
			b, err := getAs[*display.Brand](ctx, e, display.KindBrand, id)
			if err != nil || b == nil {
				return nil, err
			}
			return countedGroups(ctx, e, b.GroupIDs)
		}
	}
	countedIndicia := func(id int64) func(ctx context.Context) ([]display.Counted, error) {
		return func(ctx context.Context) ([]display.Counted, error) {
			ip, err := getAs[*display.IndiciaPublisher](ctx, e, display.KindIndiciaPublisher, id)
			if err != nil || ip == nil {
				return nil, err
			}
			return []display.Counted{ip}, nil
		}
	}

	return []parentRef{
		{name: "series", old: countedSeries(oldSeriesID), new: countedSeries(r.SeriesID)},
		{name: "publisher", old: publisherOfSeries(oldSeriesID), new: publisherOfSeries(r.SeriesID)},
		{name: "brand", old: countedBrand(oldBrandID), new: countedBrand(r.BrandID)},
		{name: "group", old: groupsOfBrand(oldBrandID), new: groupsOfBrand(r.BrandID)},
		{name: "indicia_publisher", old: countedIndicia(oldIndiciaID), new: countedIndicia(r.IndiciaPublisherID)},
	}
}

func (r *IssueRevision) statKeys(ctx context.Context, e *Engine, old display.Entity) (CategoryKey, CategoryKey, error) {
	var oldKey, newKey CategoryKey
	if oldIssue, ok := old.(*display.Issue); ok {
		s, err := getAs[*display.Series](ctx, e, display.KindSeries, oldIssue.SeriesID)
		if err != nil {
			return oldKey, newKey, err
		}
		if s != nil {
			oldKey = CategoryKey{CountryID: s.CountryID, LanguageID: s.LanguageID}
		}
	}
	s, err := getAs[*display.Series](ctx, e, display.KindSeries, r.SeriesID)
	if err != nil {
		return oldKey, newKey, err
	}
	if s != nil {
		newKey = CategoryKey{CountryID: s.CountryID, LanguageID: s.LanguageID}
	}
	return oldKey, newKey, nil
}

// CloneIssue reserves an issue and stages its pending revision.
func (e *Engine) CloneIssue(ctx context.Context, src *display.Issue, changeset *Changeset) (*IssueRevision, error) {
	rev := &IssueRevision{}
	var ent display.Entity
	if src != nil {
		ent = src
	}
	if err := e.Clone(ctx, rev, ent, changeset); err != nil {
		return nil, err
	}
	return rev, nil
}

// # Issue Commit Hooks

type issueHooks struct {
	noopHooks
	engine *Engine
	rev    *IssueRevision

	// sortCode is resolved during preStatsMeasurement and applied when the
	// display row exists.
	sortCode     int
	haveSortCode bool
}

/*
preCommitCheck validates the ordering contract among sibling issue
revisions of the same series:

  - at most one open sibling may carry an explicit insertion point
  - that sibling must order first (lowest revision sort code)

Once any sibling of the series has committed, the checks already ran for
this batch and the hook returns immediately.
*/
func (h *issueHooks) preCommitCheck(ctx context.Context) error {
	siblings, err := h.sameSeriesRevisions(ctx)
	if err != nil {
		return err
	}

	lowest := h.rev.RevisionSortCode
	var withAfter []*IssueRevision
	for _, sibling := range siblings {
		if sibling.CommittedToDisplay() {
			return nil
		}
		if !sibling.Open() {
			continue
		}
		if sibling.AfterSet {
			withAfter = append(withAfter, sibling)
		}
		if sibling.RevisionSortCode < lowest {
			lowest = sibling.RevisionSortCode
		}
	}

	if len(withAfter) > 1 {
		return Preconditionf("only one issue revision per series within a changeset can have 'after' set")
	}
	if len(withAfter) == 1 && withAfter[0].RevisionSortCode != lowest {
		return Preconditionf("the issue revision with 'after' set must have the lowest revision sort code")
	}
	return nil
}

func (h *issueHooks) preInitialSave(ctx context.Context, src display.Entity) error {
	issue, _ := src.(*display.Issue)
	if issue == nil {
		return nil
	}
	h.rev.OnSaleYear, h.rev.OnSaleMonth, h.rev.OnSaleDay = splitOnSaleDate(issue.OnSaleDate)
	return nil
}

// preStatsMeasurement settles everything that must precede the count
// sample: sibling revisions this one depends on, and the sort-code space
// for the insertion.
func (h *issueHooks) preStatsMeasurement(ctx context.Context, _ ChangeSet) error {
	if err := h.resolvePrerequisites(ctx); err != nil {
		return err
	}
	if h.rev.Deleted {
		return nil
	}
	return h.prepareSortCode(ctx)
}

/*
resolvePrerequisites commits, in order, every open sibling revision this
one must wait for. The pending set must shrink on every pass; a pass that
cannot commit anything, or that fails to reduce the set, is an
unsatisfiable ordering and raises a fatal error within N+1 passes.
*/
func (h *issueHooks) resolvePrerequisites(ctx context.Context) error {
	pending, err := h.pendingPredecessors(ctx, h.rev)
	if err != nil {
		return err
	}
	for passes := len(pending) + 1; len(pending) > 0; passes-- {
		if passes <= 0 {
			return h.didNotReduce()
		}
		candidate, err := h.firstSatisfied(ctx, pending)
		if err != nil {
			return err
		}
		if candidate == nil {
			return h.didNotReduce()
		}
		if err := h.engine.commitRevision(ctx, candidate); err != nil {
			return err
		}
		remaining, err := h.pendingPredecessors(ctx, h.rev)
		if err != nil {
			return err
		}
		if len(remaining) >= len(pending) {
			return h.didNotReduce()
		}
		pending = remaining
	}
	return nil
}

func (h *issueHooks) didNotReduce() error {
	return Faultf("issue ordering prerequisite resolution did not reduce (series %d, changeset %d)",
		h.rev.SeriesID, h.rev.ChangesetID)
}

// pendingPredecessors lists the open sibling revisions that must commit
// before rev: earlier new issues for adds and moves (ascending revision
// sort code), later deletions for deletes (descending).
func (h *issueHooks) pendingPredecessors(ctx context.Context, rev *IssueRevision) ([]*IssueRevision, error) {
	if !rev.Deleted && rev.AfterSet {
		// Anchored to an existing display issue; no sibling dependency.
		return nil, nil
	}
	siblings, err := h.sameSeriesRevisions(ctx)
	if err != nil {
		return nil, err
	}
	var out []*IssueRevision
	for _, sibling := range siblings {
		if !sibling.Open() || sibling.ID == rev.ID {
			continue
		}
		switch {
		case rev.Deleted && sibling.Deleted && sibling.RevisionSortCode > rev.RevisionSortCode:
			out = append(out, sibling)
		case !rev.Deleted && !sibling.Deleted && sibling.RevisionSortCode < rev.RevisionSortCode:
			out = append(out, sibling)
		}
	}
	if rev.Deleted {
		sort.Slice(out, func(i, j int) bool { return out[i].RevisionSortCode > out[j].RevisionSortCode })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].RevisionSortCode < out[j].RevisionSortCode })
	}
	return out, nil
}

// firstSatisfied returns the first pending revision whose own
// prerequisites are met, or nil when none can proceed.
func (h *issueHooks) firstSatisfied(ctx context.Context, pending []*IssueRevision) (*IssueRevision, error) {
	for _, candidate := range pending {
		if candidate.AfterSet && candidate.AfterID != 0 {
			_, err := h.engine.store.Get(ctx, display.KindIssue, candidate.AfterID)
			if errors.Is(err, display.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			return candidate, nil
		}
		preds, err := h.pendingPredecessors(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if len(preds) == 0 {
			return candidate, nil
		}
	}
	return nil, nil
}

func (h *issueHooks) sameSeriesRevisions(ctx context.Context) ([]*IssueRevision, error) {
	all, err := h.engine.data.Revisions().ByChangesetKind(ctx, h.rev.ChangesetID, display.KindIssue)
	if err != nil {
		return nil, err
	}
	var out []*IssueRevision
	for _, rev := range all {
		issueRev := rev.(*IssueRevision)
		if issueRev.SeriesID == h.rev.SeriesID {
			out = append(out, issueRev)
		}
	}
	return out, nil
}

// prepareSortCode resolves where the issue lands in its series and makes
// room for the whole insertion batch exactly once.
func (h *issueHooks) prepareSortCode(ctx context.Context) error {
	moving := h.rev.AfterSet
	if h.rev.Edited() && !moving {
		// A plain edit keeps its slot unless the issue changed series, in
		// which case it appends to the new one.
		oldIssue, err := getAs[*display.Issue](ctx, h.engine, display.KindIssue, h.rev.IssueID)
		if err != nil {
			return err
		}
		if oldIssue == nil || oldIssue.SeriesID == h.rev.SeriesID {
			return nil
		}
		maxCode, ok, err := h.engine.store.Issues().MaxSortCode(ctx, h.rev.SeriesID)
		if err != nil {
			return err
		}
		h.sortCode = 0
		if ok {
			h.sortCode = maxCode + 1
		}
		h.haveSortCode = true
		return nil
	}

	target := -1
	if h.rev.AfterSet && h.rev.AfterID != 0 {
		after, err := getAs[*display.Issue](ctx, h.engine, display.KindIssue, h.rev.AfterID)
		if err != nil {
			return err
		}
		if after == nil {
			return Faultf("issue revision %d inserts after missing issue %d", h.rev.ID, h.rev.AfterID)
		}
		target = after.SortCode
	}

	if err := h.ensureSortCodeSpace(ctx, target); err != nil {
		return err
	}

	code := target + 1
	if prev, err := h.lastCommittedPredecessor(ctx); err != nil {
		return err
	} else if prev != nil {
		prevIssue, err := getAs[*display.Issue](ctx, h.engine, display.KindIssue, prev.IssueID)
		if err != nil {
			return err
		}
		if prevIssue != nil {
			code = prevIssue.SortCode + 1
		}
	}
	h.sortCode = code
	h.haveSortCode = true
	return nil
}

/*
ensureSortCodeSpace shifts every issue positioned after the insertion
target later by the size of the pending batch, highest sort code first so
uniqueness holds at every intermediate step.

The shift runs once per batch: when the series maximum already equals
target + batch + later-count, a sibling commit has made the room and the
call is a no-op.
*/
func (h *issueHooks) ensureSortCodeSpace(ctx context.Context, target int) error {
	later, err := h.engine.store.Issues().LaterInSeries(ctx, h.rev.SeriesID, target)
	if err != nil {
		return err
	}
	if len(later) == 0 {
		return nil
	}

	siblings, err := h.sameSeriesRevisions(ctx)
	if err != nil {
		return err
	}
	batch := 0
	for _, sibling := range siblings {
		if sibling.Open() && !sibling.Deleted && (sibling.Base().Added() || sibling.AfterSet) {
			batch++
		}
	}
	if batch == 0 {
		return nil
	}

	maxCode, ok, err := h.engine.store.Issues().MaxSortCode(ctx, h.rev.SeriesID)
	if err != nil {
		return err
	}
	if ok && maxCode == target+batch+len(later) {
		return nil
	}

	for _, issue := range later {
		issue.SortCode += batch
		if err := h.engine.store.Save(ctx, issue); err != nil {
			return err
		}
	}
	return nil
}

// lastCommittedPredecessor returns the committed sibling add/move with the
// highest revision sort code below this revision's, if any. Its issue is
// the one this issue directly follows.
func (h *issueHooks) lastCommittedPredecessor(ctx context.Context) (*IssueRevision, error) {
	siblings, err := h.sameSeriesRevisions(ctx)
	if err != nil {
		return nil, err
	}
	var best *IssueRevision
	for _, sibling := range siblings {
		if sibling.ID == h.rev.ID || sibling.Deleted || !sibling.CommittedToDisplay() {
			continue
		}
		if sibling.RevisionSortCode >= h.rev.RevisionSortCode {
			continue
		}
		if best == nil || sibling.RevisionSortCode > best.RevisionSortCode {
			best = sibling
		}
	}
	return best, nil
}

func (h *issueHooks) preDelete(ctx context.Context, obj display.Entity) error {
	issue := obj.(*display.Issue)
	stories, err := h.engine.store.Stories().ActiveByIssue(ctx, issue.ID)
	if err != nil {
		return err
	}
	covers, err := h.engine.store.Covers().ActiveByIssue(ctx, issue.ID)
	if err != nil {
		return err
	}
	if len(stories) > 0 || len(covers) > 0 {
		return Preconditionf("issue %d still has %d stories and %d covers and cannot be deleted",
			issue.ID, len(stories), len(covers))
	}
	return nil
}

func (h *issueHooks) postAssignFields(ctx context.Context, obj display.Entity) error {
	issue := obj.(*display.Issue)

	issue.OnSaleDate = composeOnSaleDate(h.rev.OnSaleYear, h.rev.OnSaleMonth, h.rev.OnSaleDay)

	issue.ValidISBN = ""
	if issue.ISBN != "" && !issue.NoISBN {
		if normalized, ok := isbn.Validate(issue.ISBN); ok {
			issue.ValidISBN = normalized
		}
	}

	if h.haveSortCode {
		issue.SortCode = h.sortCode
	}
	return nil
}

// preSaveObject keeps a freshly added issue reserved when the series has
// an ongoing reservation, so the standing indexer picks it up next.
func (h *issueHooks) preSaveObject(ctx context.Context, obj display.Entity, _ ChangeSet) error {
	if !h.rev.Added() {
		return nil
	}
	reservation, err := h.engine.store.Reservations().ForSeries(ctx, h.rev.SeriesID)
	if err != nil {
		return err
	}
	if reservation != nil {
		obj.SetReserved(true)
	}
	return nil
}

func (h *issueHooks) postAdjustStats(ctx context.Context, obj display.Entity, changes ChangeSet) error {
	issue := obj.(*display.Issue)

	if err := h.refreshSeriesPointers(ctx, h.rev.SeriesID); err != nil {
		return err
	}
	if oldID, ok := changes.Old("series").(int64); ok && oldID != 0 && oldID != h.rev.SeriesID {
		if err := h.refreshSeriesPointers(ctx, oldID); err != nil {
			return err
		}
	}

	// Variant adds stage their cover's story revisions before the variant
	// issue exists; bind them now that it has an id.
	if h.rev.Added() {
		changeset, err := h.engine.data.Changesets().Get(ctx, h.rev.ChangesetID)
		if err != nil {
			return err
		}
		if changeset.ChangeType == ChangeTypeVariantAdd {
			storyRevs, err := h.engine.data.Revisions().ByChangesetKind(ctx, changeset.ID, display.KindStory)
			if err != nil {
				return err
			}
			for _, rev := range storyRevs {
				storyRev := rev.(*StoryRevision)
				if storyRev.Open() && storyRev.IssueID == 0 {
					storyRev.IssueID = issue.ID
					if err := h.engine.data.Revisions().Save(ctx, storyRev); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// refreshSeriesPointers recomputes the cached first/last issue ids of a
// series from its active non-variant issues.
func (h *issueHooks) refreshSeriesPointers(ctx context.Context, seriesID int64) error {
	series, err := getAs[*display.Series](ctx, h.engine, display.KindSeries, seriesID)
	if err != nil || series == nil {
		return err
	}
	issues, err := h.engine.store.Issues().BySeries(ctx, seriesID)
	if err != nil {
		return err
	}
	first, last := int64(0), int64(0)
	for _, issue := range issues {
		if issue.IsVariant() {
			continue
		}
		if first == 0 {
			first = issue.ID
		}
		last = issue.ID
	}
	if series.FirstIssueID != first || series.LastIssueID != last {
		series.FirstIssueID = first
		series.LastIssueID = last
		return h.engine.store.Save(ctx, series)
	}
	return nil
}

func (h *issueHooks) postCommit(ctx context.Context, obj display.Entity, _ ChangeSet) error {
	if h.rev.Deleted {
		return nil
	}
	issue := obj.(*display.Issue)
	if !issue.IsIndexed {
		return nil
	}
	action, err := h.engine.ChangesetAction(ctx, h.rev.ChangesetID)
	if err != nil {
		return err
	}
	if action == ActionModify {
		return h.engine.recents.IssueIndexed(ctx, issue.ID, time.Now().UTC())
	}
	return nil
}

// # On-Sale Date Helpers

func splitOnSaleDate(date string) (year, month, day int) {
	var y, m, d int
	switch {
	case len(date) >= 10:
		fmt.Sscanf(date, "%4d-%2d-%2d", &y, &m, &d)
	case len(date) >= 7:
		fmt.Sscanf(date, "%4d-%2d", &y, &m)
	case len(date) >= 4:
		fmt.Sscanf(date, "%4d", &y)
	}
	return y, m, d
}

func composeOnSaleDate(year, month, day int) string {
	switch {
	case year == 0:
		return ""
	case month == 0:
		return fmt.Sprintf("%04d", year)
	case day == 0:
		return fmt.Sprintf("%04d-%02d", year, month)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	}
}

// seriesFlag gates an issue field on a flag of the pending series.
func seriesFlag(get func(*display.Series) bool) guardFunc {
	return func(ctx context.Context, e *Engine, rev EntityRevision) (bool, error) {
		issueRev := rev.(*IssueRevision)
		series, err := getAs[*display.Series](ctx, e, display.KindSeries, issueRev.SeriesID)
		if err != nil || series == nil {
			return false, err
		}
		return get(series), nil
	}
}

var _ = register(&revisionKind{
	kind: display.KindIssue,
	displayFields: []string{
		"series", "sort_code", "number", "title", "no_title", "volume",
		"no_volume", "display_volume_with_number", "variant_of",
		"variant_name", "publication_date", "key_date", "on_sale_date",
		"on_sale_date_uncertain", "indicia_frequency",
		"no_indicia_frequency", "price", "page_count",
		"page_count_uncertain", "editing", "no_editing",
		"indicia_publisher", "indicia_pub_not_printed", "brand", "no_brand",
		"isbn", "no_isbn", "valid_isbn", "barcode", "no_barcode", "rating",
		"no_rating", "notes", "keywords", "is_indexed",
	},
	fields: []fieldSpec{
		single("series",
			func(r *IssueRevision, i *display.Issue) { i.SeriesID = r.SeriesID },
			func(r *IssueRevision, i *display.Issue) { r.SeriesID = i.SeriesID }),
		single("number",
			func(r *IssueRevision, i *display.Issue) { i.Number = r.Number },
			func(r *IssueRevision, i *display.Issue) { r.Number = i.Number }),
		when(single("title",
			func(r *IssueRevision, i *display.Issue) { i.Title = r.Title },
			func(r *IssueRevision, i *display.Issue) { r.Title = i.Title }),
			"has_issue_title", seriesFlag(func(s *display.Series) bool { return s.HasIssueTitle })),
		when(single("no_title",
			func(r *IssueRevision, i *display.Issue) { i.NoTitle = r.NoTitle },
			func(r *IssueRevision, i *display.Issue) { r.NoTitle = i.NoTitle }),
			"has_issue_title", seriesFlag(func(s *display.Series) bool { return s.HasIssueTitle })),
		when(single("volume",
			func(r *IssueRevision, i *display.Issue) { i.Volume = r.Volume },
			func(r *IssueRevision, i *display.Issue) { r.Volume = i.Volume }),
			"has_volume", seriesFlag(func(s *display.Series) bool { return s.HasVolume })),
		when(single("no_volume",
			func(r *IssueRevision, i *display.Issue) { i.NoVolume = r.NoVolume },
			func(r *IssueRevision, i *display.Issue) { r.NoVolume = i.NoVolume }),
			"has_volume", seriesFlag(func(s *display.Series) bool { return s.HasVolume })),
		when(single("display_volume_with_number",
			func(r *IssueRevision, i *display.Issue) { i.DisplayVolumeWithNumber = r.DisplayVolumeWithNumber },
			func(r *IssueRevision, i *display.Issue) { r.DisplayVolumeWithNumber = i.DisplayVolumeWithNumber }),
			"has_volume", seriesFlag(func(s *display.Series) bool { return s.HasVolume })),
		single("variant_of",
			func(r *IssueRevision, i *display.Issue) { i.VariantOfID = r.VariantOfID },
			func(r *IssueRevision, i *display.Issue) { r.VariantOfID = i.VariantOfID }),
		single("variant_name",
			func(r *IssueRevision, i *display.Issue) { i.VariantName = r.VariantName },
			func(r *IssueRevision, i *display.Issue) { r.VariantName = i.VariantName }),
		single("publication_date",
			func(r *IssueRevision, i *display.Issue) { i.PublicationDate = r.PublicationDate },
			func(r *IssueRevision, i *display.Issue) { r.PublicationDate = i.PublicationDate }),
		single("key_date",
			func(r *IssueRevision, i *display.Issue) { i.KeyDate = r.KeyDate },
			func(r *IssueRevision, i *display.Issue) { r.KeyDate = i.KeyDate }),
		single("on_sale_date_uncertain",
			func(r *IssueRevision, i *display.Issue) { i.OnSaleDateUncertain = r.OnSaleDateUncertain },
			func(r *IssueRevision, i *display.Issue) { r.OnSaleDateUncertain = i.OnSaleDateUncertain }),
		when(single("indicia_frequency",
			func(r *IssueRevision, i *display.Issue) { i.IndiciaFrequency = r.IndiciaFrequency },
			func(r *IssueRevision, i *display.Issue) { r.IndiciaFrequency = i.IndiciaFrequency }),
			"has_indicia_frequency", seriesFlag(func(s *display.Series) bool { return s.HasIndiciaFrequency })),
		when(single("no_indicia_frequency",
			func(r *IssueRevision, i *display.Issue) { i.NoIndiciaFrequency = r.NoIndiciaFrequency },
			func(r *IssueRevision, i *display.Issue) { r.NoIndiciaFrequency = i.NoIndiciaFrequency }),
			"has_indicia_frequency", seriesFlag(func(s *display.Series) bool { return s.HasIndiciaFrequency })),
		single("price",
			func(r *IssueRevision, i *display.Issue) { i.Price = r.Price },
			func(r *IssueRevision, i *display.Issue) { r.Price = i.Price }),
		single("page_count",
			func(r *IssueRevision, i *display.Issue) { i.PageCount = r.PageCount },
			func(r *IssueRevision, i *display.Issue) { r.PageCount = i.PageCount }),
		single("page_count_uncertain",
			func(r *IssueRevision, i *display.Issue) { i.PageCountUncertain = r.PageCountUncertain },
			func(r *IssueRevision, i *display.Issue) { r.PageCountUncertain = i.PageCountUncertain }),
		single("editing",
			func(r *IssueRevision, i *display.Issue) { i.Editing = r.Editing },
			func(r *IssueRevision, i *display.Issue) { r.Editing = i.Editing }),
		single("no_editing",
			func(r *IssueRevision, i *display.Issue) { i.NoEditing = r.NoEditing },
			func(r *IssueRevision, i *display.Issue) { r.NoEditing = i.NoEditing }),
		single("indicia_publisher",
			func(r *IssueRevision, i *display.Issue) { i.IndiciaPublisherID = r.IndiciaPublisherID },
			func(r *IssueRevision, i *display.Issue) { r.IndiciaPublisherID = i.IndiciaPublisherID }),
		single("indicia_pub_not_printed",
			func(r *IssueRevision, i *display.Issue) { i.IndiciaPubNotPrinted = r.IndiciaPubNotPrinted },
			func(r *IssueRevision, i *display.Issue) { r.IndiciaPubNotPrinted = i.IndiciaPubNotPrinted }),
		single("brand",
			func(r *IssueRevision, i *display.Issue) { i.BrandID = r.BrandID },
			func(r *IssueRevision, i *display.Issue) { r.BrandID = i.BrandID }),
		single("no_brand",
			func(r *IssueRevision, i *display.Issue) { i.NoBrand = r.NoBrand },
			func(r *IssueRevision, i *display.Issue) { r.NoBrand = i.NoBrand }),
		when(single("isbn",
			func(r *IssueRevision, i *display.Issue) { i.ISBN = r.ISBN },
			func(r *IssueRevision, i *display.Issue) { r.ISBN = i.ISBN }),
			"has_isbn", seriesFlag(func(s *display.Series) bool { return s.HasISBN })),
		when(single("no_isbn",
			func(r *IssueRevision, i *display.Issue) { i.NoISBN = r.NoISBN },
			func(r *IssueRevision, i *display.Issue) { r.NoISBN = i.NoISBN }),
			"has_isbn", seriesFlag(func(s *display.Series) bool { return s.HasISBN })),
		when(single("barcode",
			func(r *IssueRevision, i *display.Issue) { i.Barcode = r.Barcode },
			func(r *IssueRevision, i *display.Issue) { r.Barcode = i.Barcode }),
			"has_barcode", seriesFlag(func(s *display.Series) bool { return s.HasBarcode })),
		when(single("no_barcode",
			func(r *IssueRevision, i *display.Issue) { i.NoBarcode = r.NoBarcode },
			func(r *IssueRevision, i *display.Issue) { r.NoBarcode = i.NoBarcode }),
			"has_barcode", seriesFlag(func(s *display.Series) bool { return s.HasBarcode })),
		when(single("rating",
			func(r *IssueRevision, i *display.Issue) { i.Rating = r.Rating },
			func(r *IssueRevision, i *display.Issue) { r.Rating = i.Rating }),
			"has_rating", seriesFlag(func(s *display.Series) bool { return s.HasRating })),
		when(single("no_rating",
			func(r *IssueRevision, i *display.Issue) { i.NoRating = r.NoRating },
			func(r *IssueRevision, i *display.Issue) { r.NoRating = i.NoRating }),
			"has_rating", seriesFlag(func(s *display.Series) bool { return s.HasRating })),
		single("notes",
			func(r *IssueRevision, i *display.Issue) { i.Notes = r.Notes },
			func(r *IssueRevision, i *display.Issue) { r.Notes = i.Notes }),
		keywords(
			func(r *IssueRevision) *string { return &r.Keywords },
			func(i *display.Issue) *[]string { return &i.Keywords }),
	},
	irregular: []string{"sort_code", "on_sale_date", "valid_isbn", "is_indexed"},
})
