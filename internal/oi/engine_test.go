// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkdex/inkdex/internal/display"
)

// testHarness bundles an engine with its in-memory collaborators.
type testHarness struct {
	ctx    context.Context
	engine *Engine
	store  *display.MemoryStore
	data   *MemoryStore
	stats  *MemoryStats
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()
	store := display.NewMemoryStore()
	data := NewMemoryStore()
	stats := NewMemoryStats()
	return &testHarness{
		ctx:    context.Background(),
		engine: New(store, data, stats),
		store:  store,
		data:   data,
		stats:  stats,
	}
}

// seedBaseline records the committed revision that created a fixture row.
// Every display row carries exactly one committed chain head, so clones of
// seeded fixtures must find one too.
func (h *testHarness) seedBaseline(t *testing.T, rev EntityRevision, id int64) {
	t.Helper()
	rev.attach(id)
	rev.Base().markCommitted(true)
	require.NoError(t, h.data.Revisions().Save(h.ctx, rev))
}

func (h *testHarness) seedPublisher(t *testing.T) *display.Publisher {
	t.Helper()
	pub := &display.Publisher{Name: "Baseline Press", CountryID: 1}
	require.NoError(t, h.store.Save(h.ctx, pub))
	h.seedBaseline(t, &PublisherRevision{Name: pub.Name, CountryID: pub.CountryID}, pub.ID)
	return pub
}

func (h *testHarness) seedSeries(t *testing.T, pub *display.Publisher, mutate func(*display.Series)) *display.Series {
	t.Helper()
	series := &display.Series{
		Name:                "Test Title",
		SortName:            "Test Title",
		PublisherID:         pub.ID,
		CountryID:           1,
		LanguageID:          2,
		IsComicsPublication: true,
	}
	if mutate != nil {
		mutate(series)
	}
	require.NoError(t, h.store.Save(h.ctx, series))
	h.seedBaseline(t, &SeriesRevision{Name: series.Name}, series.ID)
	return series
}

func (h *testHarness) seedIssue(t *testing.T, series *display.Series, number string, sortCode int) *display.Issue {
	t.Helper()
	issue := &display.Issue{SeriesID: series.ID, Number: number, SortCode: sortCode}
	require.NoError(t, h.store.Save(h.ctx, issue))
	h.seedBaseline(t, &IssueRevision{SeriesID: series.ID, Number: number}, issue.ID)
	series.IssueCount++
	require.NoError(t, h.store.Save(h.ctx, series))
	return issue
}

// moveToReviewing walks a changeset through submit and review so it can be
// approved.
func (h *testHarness) moveToReviewing(t *testing.T, cs *Changeset) {
	t.Helper()
	require.NoError(t, cs.Submit("ready"))
	require.NoError(t, h.data.Changesets().Save(h.ctx, cs))
	require.NoError(t, cs.Review("approver", "taking"))
	require.NoError(t, h.data.Changesets().Save(h.ctx, cs))
}

func (h *testHarness) getSeries(t *testing.T, id int64) *display.Series {
	t.Helper()
	ent, err := h.store.Get(h.ctx, display.KindSeries, id)
	require.NoError(t, err)
	return ent.(*display.Series)
}

func (h *testHarness) getIssue(t *testing.T, id int64) *display.Issue {
	t.Helper()
	ent, err := h.store.Get(h.ctx, display.KindIssue, id)
	require.NoError(t, err)
	return ent.(*display.Issue)
}

/*
TestEngine_CloneRoundTripCommitIsNoOp verifies the central reversibility
property: cloning a display row into a revision and approving it untouched
reproduces the row exactly and moves no statistics.
*/
func TestEngine_CloneRoundTripCommitIsNoOp(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)
	series := h.seedSeries(t, pub, func(s *display.Series) {
		s.Keywords = []string{"alpha", "beta"}
		s.Notes = "untouched"
	})

	// 1. Stage the revision
	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeSeries)
	require.NoError(t, err)
	rev, err := h.engine.CloneSeries(h.ctx, series, cs)
	require.NoError(t, err)

	// 2. The clone copied the display values onto the revision
	assert.Equal(t, series.Name, rev.Name)
	assert.Equal(t, "alpha; beta", rev.Keywords)
	assert.True(t, h.getSeries(t, series.ID).Reserved)

	// 3. Approve without editing anything
	h.moveToReviewing(t, cs)
	require.NoError(t, h.engine.Approve(h.ctx, cs.ID, "approver", "lgtm"))

	// 4. The display row is unchanged apart from the cleared reservation
	after := h.getSeries(t, series.ID)
	assert.Equal(t, series.Name, after.Name)
	assert.Equal(t, series.Notes, after.Notes)
	assert.Equal(t, []string{"alpha", "beta"}, after.Keywords)
	assert.False(t, after.Reserved)

	// 5. No statistics moved
	key := CategoryKey{CountryID: 1, LanguageID: 2}
	assert.Zero(t, h.stats.Total("series", key))
	assert.Zero(t, h.stats.Total("issues", key))

	// 6. The revision chain advanced and the lock released
	assert.True(t, rev.CommittedToDisplay())
	holder, err := h.data.Locks().Holder(h.ctx, display.KindSeries, series.ID)
	require.NoError(t, err)
	assert.Nil(t, holder)
}

/*
TestEngine_CloneRefusesReservedRow verifies that one row can only be
reserved by one changeset at a time.
*/
func TestEngine_CloneRefusesReservedRow(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)
	series := h.seedSeries(t, pub, nil)

	cs1, err := h.engine.NewChangeset(h.ctx, "first", ChangeTypeSeries)
	require.NoError(t, err)
	_, err = h.engine.CloneSeries(h.ctx, series, cs1)
	require.NoError(t, err)

	cs2, err := h.engine.NewChangeset(h.ctx, "second", ChangeTypeSeries)
	require.NoError(t, err)
	_, err = h.engine.CloneSeries(h.ctx, series, cs2)
	require.Error(t, err)
	assert.True(t, IsPrecondition(err))
}

/*
TestEngine_AddPublisher verifies the add path end to end: the display row
is created, the revision binds to its generated id, and the ledger gains
the publisher at its country bucket.
*/
func TestEngine_AddPublisher(t *testing.T) {
	h := newTestHarness(t)

	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypePublisher)
	require.NoError(t, err)
	rev := &PublisherRevision{Name: "New House", CountryID: 7}
	require.NoError(t, h.engine.Add(h.ctx, rev, cs))
	assert.Zero(t, rev.PublisherID)

	h.moveToReviewing(t, cs)
	require.NoError(t, h.engine.Approve(h.ctx, cs.ID, "approver", ""))

	// The revision now carries the generated row id
	require.NotZero(t, rev.PublisherID)
	ent, err := h.store.Get(h.ctx, display.KindPublisher, rev.PublisherID)
	require.NoError(t, err)
	assert.Equal(t, "New House", ent.(*display.Publisher).Name)

	assert.Equal(t, 1, h.stats.Total("publishers", CategoryKey{CountryID: 7}))
}

/*
TestEngine_IssueAddUpdatesCountersAndPointers verifies the single-issue-add
scenario: sort code 0 in an empty series, +1 issues at the series' ledger
bucket, the cached issue count on both series and publisher, and the
first/last issue pointers.
*/
func TestEngine_IssueAddUpdatesCountersAndPointers(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)
	series := h.seedSeries(t, pub, func(s *display.Series) { s.HasISBN = true })

	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeIssueAdd)
	require.NoError(t, err)
	rev := &IssueRevision{
		SeriesID: series.ID,
		Number:   "1",
		ISBN:     "978-0-306-40615-7",
	}
	require.NoError(t, h.engine.Add(h.ctx, rev, cs))

	h.moveToReviewing(t, cs)
	require.NoError(t, h.engine.Approve(h.ctx, cs.ID, "approver", ""))

	require.NotZero(t, rev.IssueID)
	issue := h.getIssue(t, rev.IssueID)

	// 1. First issue of an empty series lands at sort code 0
	assert.Equal(t, 0, issue.SortCode)

	// 2. The ISBN normalized into the display row
	assert.Equal(t, "9780306406157", issue.ValidISBN)

	// 3. Ledger and cached counters moved together
	key := CategoryKey{CountryID: 1, LanguageID: 2}
	assert.Equal(t, 1, h.stats.Total("issues", key))

	after := h.getSeries(t, series.ID)
	assert.Equal(t, 1, after.IssueCount)
	assert.Equal(t, issue.ID, after.FirstIssueID)
	assert.Equal(t, issue.ID, after.LastIssueID)

	pubAfter, err := h.store.Get(h.ctx, display.KindPublisher, pub.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, pubAfter.(*display.Publisher).IssueCount)
}

/*
TestEngine_TwoIssueAddsKeepSortCodesDenseAndUnique verifies the batched
insertion: two new issues open the series in revision order and the
existing issue shifts later, leaving sort codes dense and strictly
increasing.
*/
func TestEngine_TwoIssueAddsKeepSortCodesDenseAndUnique(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)
	series := h.seedSeries(t, pub, nil)
	existing := h.seedIssue(t, series, "3", 0)

	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeIssueAdd)
	require.NoError(t, err)
	first := &IssueRevision{SeriesID: series.ID, Number: "1", RevisionSortCode: 1}
	second := &IssueRevision{SeriesID: series.ID, Number: "2", RevisionSortCode: 2}
	require.NoError(t, h.engine.Add(h.ctx, first, cs))
	require.NoError(t, h.engine.Add(h.ctx, second, cs))

	h.moveToReviewing(t, cs)
	require.NoError(t, h.engine.Approve(h.ctx, cs.ID, "approver", ""))

	issues, err := h.store.Issues().BySeries(h.ctx, series.ID)
	require.NoError(t, err)
	require.Len(t, issues, 3)

	// Revision order decides the batch order; the pre-existing issue moved
	// back to make room exactly once.
	assert.Equal(t, []int64{first.IssueID, second.IssueID, existing.ID},
		[]int64{issues[0].ID, issues[1].ID, issues[2].ID})
	assert.Equal(t, []int{0, 1, 2},
		[]int{issues[0].SortCode, issues[1].SortCode, issues[2].SortCode})

	after := h.getSeries(t, series.ID)
	assert.Equal(t, 3, after.IssueCount)
}

/*
TestEngine_SortCodeSpaceMadeExactlyOnce verifies that space-making for an
insertion batch is a no-op on repeat calls: the second sibling reaching the
same target must not shift the later issues again.
*/
func TestEngine_SortCodeSpaceMadeExactlyOnce(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)
	series := h.seedSeries(t, pub, nil)
	anchor := h.seedIssue(t, series, "1", 0)
	h.seedIssue(t, series, "2", 1)
	h.seedIssue(t, series, "3", 2)

	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeIssueAdd)
	require.NoError(t, err)
	first := &IssueRevision{
		SeriesID:         series.ID,
		Number:           "1.1",
		RevisionSortCode: 1,
		AfterSet:         true,
		AfterID:          anchor.ID,
	}
	second := &IssueRevision{SeriesID: series.ID, Number: "1.2", RevisionSortCode: 2}
	require.NoError(t, h.engine.Add(h.ctx, first, cs))
	require.NoError(t, h.engine.Add(h.ctx, second, cs))

	hooks := first.hooks(h.engine).(*issueHooks)
	require.NoError(t, hooks.ensureSortCodeSpace(h.ctx, anchor.SortCode))

	issues, err := h.store.Issues().BySeries(h.ctx, series.ID)
	require.NoError(t, err)
	require.Len(t, issues, 3)
	assert.Equal(t, []int{0, 3, 4},
		[]int{issues[0].SortCode, issues[1].SortCode, issues[2].SortCode})

	// The batch already has its room; a sibling repeating the call must
	// leave every sort code where it is.
	require.NoError(t, hooks.ensureSortCodeSpace(h.ctx, anchor.SortCode))

	issues, err = h.store.Issues().BySeries(h.ctx, series.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 4},
		[]int{issues[0].SortCode, issues[1].SortCode, issues[2].SortCode})
}

/*
TestEngine_UnsatisfiableOrderingIsFatal verifies that an insertion batch
whose prerequisites cannot all commit raises a fault instead of looping.
The second revision anchors after an issue that does not exist, so the
first can never see its predecessor commit.
*/
func TestEngine_UnsatisfiableOrderingIsFatal(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)
	series := h.seedSeries(t, pub, nil)

	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeIssueAdd)
	require.NoError(t, err)
	blocked := &IssueRevision{SeriesID: series.ID, Number: "2", RevisionSortCode: 2}
	anchor := &IssueRevision{
		SeriesID:         series.ID,
		Number:           "1",
		RevisionSortCode: 1,
		AfterSet:         true,
		AfterID:          9999,
	}
	require.NoError(t, h.engine.Add(h.ctx, blocked, cs))
	require.NoError(t, h.engine.Add(h.ctx, anchor, cs))

	h.moveToReviewing(t, cs)
	err = h.engine.Approve(h.ctx, cs.ID, "approver", "")
	require.Error(t, err)
	assert.True(t, IsFault(err))
}

/*
TestEngine_SingletonSeriesAddCascadesPlaceholder verifies that approving a
singleton series add also creates its single [nn] issue.
*/
func TestEngine_SingletonSeriesAddCascadesPlaceholder(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)

	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeSeries)
	require.NoError(t, err)
	rev := &SeriesRevision{
		Name:                "One Shot",
		PublisherID:         pub.ID,
		CountryID:           1,
		LanguageID:          2,
		IsComicsPublication: true,
		IsSingleton:         true,
	}
	require.NoError(t, h.engine.Add(h.ctx, rev, cs))

	h.moveToReviewing(t, cs)
	require.NoError(t, h.engine.Approve(h.ctx, cs.ID, "approver", ""))

	series := h.getSeries(t, rev.SeriesID)
	assert.Equal(t, 1, series.IssueCount)

	issues, err := h.store.Issues().BySeries(h.ctx, series.ID)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "[nn]", issues[0].Number)

	key := CategoryKey{CountryID: 1, LanguageID: 2}
	assert.Equal(t, 1, h.stats.Total("series", key))
	assert.Equal(t, 1, h.stats.Total("issues", key))
}

/*
TestEngine_SingletonDeleteNetsMinusOneIssue verifies the singleton-delete
scenario: deleting the series and its placeholder in one changeset removes
both rows and the ledger records exactly -1 issues and -1 series.
*/
func TestEngine_SingletonDeleteNetsMinusOneIssue(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)
	series := h.seedSeries(t, pub, func(s *display.Series) { s.IsSingleton = true })
	issue := h.seedIssue(t, series, "[nn]", 0)

	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeSeries)
	require.NoError(t, err)

	seriesRev, err := h.engine.CloneSeries(h.ctx, series, cs)
	require.NoError(t, err)
	seriesRev.Deleted = true
	require.NoError(t, h.data.Revisions().Save(h.ctx, seriesRev))

	issueRev, err := h.engine.CloneIssue(h.ctx, issue, cs)
	require.NoError(t, err)
	issueRev.Deleted = true
	require.NoError(t, h.data.Revisions().Save(h.ctx, issueRev))

	h.moveToReviewing(t, cs)
	require.NoError(t, h.engine.Approve(h.ctx, cs.ID, "approver", ""))

	// Both rows are gone
	_, err = h.store.Get(h.ctx, display.KindSeries, series.ID)
	assert.ErrorIs(t, err, display.ErrNotFound)
	_, err = h.store.Get(h.ctx, display.KindIssue, issue.ID)
	assert.ErrorIs(t, err, display.ErrNotFound)

	key := CategoryKey{CountryID: 1, LanguageID: 2}
	assert.Equal(t, -1, h.stats.Total("issues", key))
	assert.Equal(t, -1, h.stats.Total("series", key))
}

/*
TestEngine_DiscardReleasesEverything verifies discard semantics: revisions
are marked discarded, the display rows stay untouched, reservations clear,
and the row locks release.
*/
func TestEngine_DiscardReleasesEverything(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)
	series := h.seedSeries(t, pub, nil)

	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeSeries)
	require.NoError(t, err)
	rev, err := h.engine.CloneSeries(h.ctx, series, cs)
	require.NoError(t, err)
	rev.Name = "Never Lands"
	require.NoError(t, h.data.Revisions().Save(h.ctx, rev))

	require.NoError(t, h.engine.Discard(h.ctx, cs.ID, "indexer", "changed my mind"))

	assert.True(t, rev.Discarded())

	after := h.getSeries(t, series.ID)
	assert.Equal(t, series.Name, after.Name)
	assert.False(t, after.Reserved)

	holder, err := h.data.Locks().Holder(h.ctx, display.KindSeries, series.ID)
	require.NoError(t, err)
	assert.Nil(t, holder)

	// A discarded changeset cannot be approved afterwards
	err = h.engine.Approve(h.ctx, cs.ID, "approver", "")
	require.Error(t, err)
	assert.True(t, IsPrecondition(err))
}

/*
TestEngine_StoryCommitFlipsIndexStatus verifies that committing a sequence
that counts toward the index flips the issue's indexed flag and records the
"issue indexes" delta at the series' bucket.
*/
func TestEngine_StoryCommitFlipsIndexStatus(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)
	series := h.seedSeries(t, pub, nil)
	issue := h.seedIssue(t, series, "1", 0)

	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeIssue)
	require.NoError(t, err)
	rev := &StoryRevision{
		IssueID:        issue.ID,
		SequenceNumber: 0,
		Title:          "Lead Story",
		Type:           display.StoryTypeComicStory,
		PageCount:      12,
	}
	require.NoError(t, h.engine.Add(h.ctx, rev, cs))

	h.moveToReviewing(t, cs)
	require.NoError(t, h.engine.Approve(h.ctx, cs.ID, "approver", ""))

	assert.True(t, h.getIssue(t, issue.ID).IsIndexed)

	key := CategoryKey{CountryID: 1, LanguageID: 2}
	assert.Equal(t, 1, h.stats.Total("stories", key))
	assert.Equal(t, 1, h.stats.Total("issue indexes", key))
}

/*
TestEngine_CoverOnlySequenceStaysSkeleton verifies the index-status rule
that a pure cover sequence does not index the issue.
*/
func TestEngine_CoverOnlySequenceStaysSkeleton(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)
	series := h.seedSeries(t, pub, nil)
	issue := h.seedIssue(t, series, "1", 0)

	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeIssue)
	require.NoError(t, err)
	rev := &StoryRevision{IssueID: issue.ID, Type: display.StoryTypeCover}
	require.NoError(t, h.engine.Add(h.ctx, rev, cs))

	h.moveToReviewing(t, cs)
	require.NoError(t, h.engine.Approve(h.ctx, cs.ID, "approver", ""))

	assert.False(t, h.getIssue(t, issue.ID).IsIndexed)
	assert.Zero(t, h.stats.Total("issue indexes", CategoryKey{CountryID: 1, LanguageID: 2}))
}

/*
TestEngine_CoverCannotMoveInPlainChangeset verifies that a cover move
outside a variant-add or two-issues changeset aborts the commit.
*/
func TestEngine_CoverCannotMoveInPlainChangeset(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)
	series := h.seedSeries(t, pub, nil)
	issueA := h.seedIssue(t, series, "1", 0)
	issueB := h.seedIssue(t, series, "2", 1)

	cover := &display.Cover{IssueID: issueA.ID}
	require.NoError(t, h.store.Save(h.ctx, cover))
	h.seedBaseline(t, &CoverRevision{IssueID: issueA.ID}, cover.ID)

	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeCover)
	require.NoError(t, err)
	rev, err := h.engine.CloneCover(h.ctx, cover, cs)
	require.NoError(t, err)
	rev.IssueID = issueB.ID
	require.NoError(t, h.data.Revisions().Save(h.ctx, rev))

	h.moveToReviewing(t, cs)
	err = h.engine.Approve(h.ctx, cs.ID, "approver", "")
	require.Error(t, err)
	assert.True(t, IsFault(err))
}

/*
TestEngine_CoverAddSetsGalleryFlag verifies that the first committed cover
of a series raises its gallery flag.
*/
func TestEngine_CoverAddSetsGalleryFlag(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)
	series := h.seedSeries(t, pub, nil)
	issue := h.seedIssue(t, series, "1", 0)

	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeCover)
	require.NoError(t, err)
	rev := &CoverRevision{IssueID: issue.ID}
	require.NoError(t, h.engine.Add(h.ctx, rev, cs))

	h.moveToReviewing(t, cs)
	require.NoError(t, h.engine.Approve(h.ctx, cs.ID, "approver", ""))

	assert.True(t, h.getSeries(t, series.ID).HasGallery)
	assert.Equal(t, 1, h.stats.Total("covers", CategoryKey{CountryID: 1, LanguageID: 2}))
}

/*
TestEngine_UniqueImageTypeRejectsSecondAdd verifies the one-active-image
rule for unique image types.
*/
func TestEngine_UniqueImageTypeRejectsSecondAdd(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)
	series := h.seedSeries(t, pub, nil)
	issue := h.seedIssue(t, series, "1", 0)

	existing := &display.Image{
		OwnerKind: display.KindIssue,
		OwnerID:   issue.ID,
		TypeName:  display.ImageTypeIndiciaScan.Name,
	}
	require.NoError(t, h.store.Save(h.ctx, existing))

	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeImage)
	require.NoError(t, err)
	rev := &ImageRevision{
		OwnerKind: display.KindIssue,
		OwnerID:   issue.ID,
		TypeName:  display.ImageTypeIndiciaScan.Name,
	}
	require.NoError(t, h.engine.Add(h.ctx, rev, cs))

	h.moveToReviewing(t, cs)
	err = h.engine.Approve(h.ctx, cs.ID, "approver", "")
	require.Error(t, err)
	assert.True(t, IsPrecondition(err))
}

/*
TestEngine_OngoingReservationFollowsNewIssue verifies that a freshly added
issue in a series with an ongoing reservation stays reserved for the
standing indexer.
*/
func TestEngine_OngoingReservationFollowsNewIssue(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)
	series := h.seedSeries(t, pub, func(s *display.Series) { s.IsCurrent = true })
	require.NoError(t, h.store.Reservations().Save(h.ctx, &display.OngoingReservation{
		SeriesID: series.ID,
		Indexer:  "standing",
	}))

	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeIssueAdd)
	require.NoError(t, err)
	rev := &IssueRevision{SeriesID: series.ID, Number: "1"}
	require.NoError(t, h.engine.Add(h.ctx, rev, cs))

	h.moveToReviewing(t, cs)
	require.NoError(t, h.engine.Approve(h.ctx, cs.ID, "approver", ""))

	assert.True(t, h.getIssue(t, rev.IssueID).Reserved)
}

/*
TestEngine_ReservationClearsWhenSeriesEnds verifies that a series leaving
the is_current state drops its ongoing reservation.
*/
func TestEngine_ReservationClearsWhenSeriesEnds(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)
	series := h.seedSeries(t, pub, func(s *display.Series) { s.IsCurrent = true })
	require.NoError(t, h.store.Reservations().Save(h.ctx, &display.OngoingReservation{
		SeriesID: series.ID,
		Indexer:  "standing",
	}))

	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeSeries)
	require.NoError(t, err)
	rev, err := h.engine.CloneSeries(h.ctx, series, cs)
	require.NoError(t, err)
	rev.IsCurrent = false
	require.NoError(t, h.data.Revisions().Save(h.ctx, rev))

	h.moveToReviewing(t, cs)
	require.NoError(t, h.engine.Approve(h.ctx, cs.ID, "approver", ""))

	reservation, err := h.store.Reservations().ForSeries(h.ctx, series.ID)
	require.NoError(t, err)
	assert.Nil(t, reservation)
}

/*
TestEngine_SeriesDeleteRefusedWhileIssuesRemain verifies the guard against
deleting a non-singleton series that still has issues.
*/
func TestEngine_SeriesDeleteRefusedWhileIssuesRemain(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)
	series := h.seedSeries(t, pub, nil)
	h.seedIssue(t, series, "1", 0)

	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeSeries)
	require.NoError(t, err)
	rev, err := h.engine.CloneSeries(h.ctx, series, cs)
	require.NoError(t, err)
	rev.Deleted = true
	require.NoError(t, h.data.Revisions().Save(h.ctx, rev))

	h.moveToReviewing(t, cs)
	err = h.engine.Approve(h.ctx, cs.ID, "approver", "")
	require.Error(t, err)
	assert.True(t, IsPrecondition(err))
}

/*
TestEngine_GatedFieldCannotSmuggleValue verifies conditional-field resync:
an issue title submitted while the series forbids issue titles never
reaches the display row, and the revision is resynced to the display value.
*/
func TestEngine_GatedFieldCannotSmuggleValue(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)
	series := h.seedSeries(t, pub, func(s *display.Series) { s.HasIssueTitle = false })
	issue := h.seedIssue(t, series, "1", 0)

	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeIssue)
	require.NoError(t, err)
	rev, err := h.engine.CloneIssue(h.ctx, issue, cs)
	require.NoError(t, err)
	rev.Title = "Smuggled"
	require.NoError(t, h.data.Revisions().Save(h.ctx, rev))

	h.moveToReviewing(t, cs)
	require.NoError(t, h.engine.Approve(h.ctx, cs.ID, "approver", ""))

	assert.Empty(t, h.getIssue(t, issue.ID).Title)
	assert.Empty(t, rev.Title)
}

/*
TestEngine_ReprintShapeChangeRetiresRow verifies the shape transition of a
reprint link: changing which endpoints are populated deletes the old row,
inserts a replacement under a fresh id, and rebinds every revision of the
retired row to the replacement.
*/
func TestEngine_ReprintShapeChangeRetiresRow(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)
	series := h.seedSeries(t, pub, nil)
	origin := h.seedIssue(t, series, "1", 0)
	target := h.seedIssue(t, series, "2", 1)

	originStory := &display.Story{IssueID: origin.ID, Type: display.StoryTypeComicStory}
	require.NoError(t, h.store.Save(h.ctx, originStory))

	// 1. Create the link issue-to-issue
	csAdd, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeReprint)
	require.NoError(t, err)
	addRev := &ReprintRevision{OriginIssueID: origin.ID, TargetIssueID: target.ID}
	require.NoError(t, h.engine.Add(h.ctx, addRev, csAdd))
	h.moveToReviewing(t, csAdd)
	require.NoError(t, h.engine.Approve(h.ctx, csAdd.ID, "approver", ""))

	oldID := addRev.ReprintID
	require.NotZero(t, oldID)
	ent, err := h.store.Get(h.ctx, display.KindReprint, oldID)
	require.NoError(t, err)
	assert.Equal(t, display.ReprintIssueToIssue, ent.(*display.ReprintLink).LinkKind)

	// 2. Sharpen the origin endpoint to a story
	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeReprint)
	require.NoError(t, err)
	rev, err := h.engine.CloneReprint(h.ctx, ent.(*display.ReprintLink), cs)
	require.NoError(t, err)
	rev.OriginStoryID = originStory.ID
	rev.OriginIssueID = 0
	require.NoError(t, h.data.Revisions().Save(h.ctx, rev))

	h.moveToReviewing(t, cs)
	require.NoError(t, h.engine.Approve(h.ctx, cs.ID, "approver", ""))

	// 3. The old row is gone and the replacement carries the new shape
	_, err = h.store.Get(h.ctx, display.KindReprint, oldID)
	assert.ErrorIs(t, err, display.ErrNotFound)

	require.NotZero(t, rev.ReprintID)
	require.NotEqual(t, oldID, rev.ReprintID)
	replacement, err := h.store.Get(h.ctx, display.KindReprint, rev.ReprintID)
	require.NoError(t, err)
	assert.Equal(t, display.ReprintStoryToIssue, replacement.(*display.ReprintLink).LinkKind)

	// 4. The historical revision followed the row
	assert.Equal(t, rev.ReprintID, addRev.ReprintID)
}

/*
TestEngine_BrandGroupAddCascades verifies the double cascade on brand
group creation: the group commit creates and commits a same-named brand,
whose own commit creates the first brand use under the group's publisher.
*/
func TestEngine_BrandGroupAddCascades(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)

	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeBrandGroup)
	require.NoError(t, err)
	rev := &BrandGroupRevision{Name: "House Emblem", ParentID: pub.ID}
	require.NoError(t, h.engine.Add(h.ctx, rev, cs))

	h.moveToReviewing(t, cs)
	require.NoError(t, h.engine.Approve(h.ctx, cs.ID, "approver", ""))
	require.NotZero(t, rev.BrandGroupID)

	// The cascaded brand committed inside the same changeset
	brandRevs, err := h.data.Revisions().ByChangesetKind(h.ctx, cs.ID, display.KindBrand)
	require.NoError(t, err)
	require.Len(t, brandRevs, 1)
	brandRev := brandRevs[0].(*BrandRevision)
	assert.True(t, brandRev.CommittedToDisplay())
	assert.Equal(t, []int64{rev.BrandGroupID}, brandRev.GroupIDs)

	brandEnt, err := h.store.Get(h.ctx, display.KindBrand, brandRev.BrandID)
	require.NoError(t, err)
	assert.Equal(t, "House Emblem", brandEnt.(*display.Brand).Name)

	// ...and so did its first brand use, bound to the group's publisher
	useRevs, err := h.data.Revisions().ByChangesetKind(h.ctx, cs.ID, display.KindBrandUse)
	require.NoError(t, err)
	require.Len(t, useRevs, 1)
	useRev := useRevs[0].(*BrandUseRevision)
	assert.True(t, useRev.CommittedToDisplay())
	assert.Equal(t, brandRev.BrandID, useRev.EmblemID)
	assert.Equal(t, pub.ID, useRev.PublisherID)
}

/*
TestEngine_ChangesetActionClassification verifies the add/modify/delete
classification over a changeset's revisions.
*/
func TestEngine_ChangesetActionClassification(t *testing.T) {
	h := newTestHarness(t)
	pub := h.seedPublisher(t)
	series := h.seedSeries(t, pub, nil)

	// Modify
	cs, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypeSeries)
	require.NoError(t, err)
	_, err = h.engine.CloneSeries(h.ctx, series, cs)
	require.NoError(t, err)
	action, err := h.engine.ChangesetAction(h.ctx, cs.ID)
	require.NoError(t, err)
	assert.Equal(t, ActionModify, action)

	// Add
	csAdd, err := h.engine.NewChangeset(h.ctx, "indexer", ChangeTypePublisher)
	require.NoError(t, err)
	require.NoError(t, h.engine.Add(h.ctx, &PublisherRevision{Name: "X"}, csAdd))
	action, err = h.engine.ChangesetAction(h.ctx, csAdd.ID)
	require.NoError(t, err)
	assert.Equal(t, ActionAdd, action)
}
