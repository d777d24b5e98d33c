// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package display

import (
	"context"
	"sort"
	"sync"
)

// # In-Memory Store

// MemoryStore is a map-backed [Store] for tests and local tooling. Every
// Get and Save works on a deep copy, so rows held by callers never alias
// rows inside the store.
type MemoryStore struct {
	mu     sync.RWMutex
	rows   map[Kind]map[int64]Entity
	resv   map[int64]*OngoingReservation
	nextID int64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows: make(map[Kind]map[int64]Entity),
		resv: make(map[int64]*OngoingReservation),
	}
}

func (m *MemoryStore) Get(_ context.Context, kind Kind, id int64) (Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ent, ok := m.rows[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneEntity(ent), nil
}

func (m *MemoryStore) Save(_ context.Context, entity Entity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kind := entity.Kind()
	if m.rows[kind] == nil {
		m.rows[kind] = make(map[int64]Entity)
	}
	if entity.EntityID() == 0 {
		m.nextID++
		setEntityID(entity, m.nextID)
	}
	m.rows[kind][entity.EntityID()] = cloneEntity(entity)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, kind Kind, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[kind][id]; !ok {
		return ErrNotFound
	}
	delete(m.rows[kind], id)
	return nil
}

func (m *MemoryStore) Issues() IssueQueries             { return memoryIssues{m} }
func (m *MemoryStore) Stories() StoryQueries            { return memoryStories{m} }
func (m *MemoryStore) Covers() CoverQueries             { return memoryCovers{m} }
func (m *MemoryStore) Images() ImageQueries             { return memoryImages{m} }
func (m *MemoryStore) Reservations() ReservationQueries { return memoryReservations{m} }

// # Query Facets

type memoryIssues struct{ s *MemoryStore }

func (q memoryIssues) BySeries(_ context.Context, seriesID int64) ([]*Issue, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	var out []*Issue
	for _, ent := range q.s.rows[KindIssue] {
		issue := ent.(*Issue)
		if issue.SeriesID == seriesID {
			out = append(out, cloneEntity(issue).(*Issue))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortCode < out[j].SortCode })
	return out, nil
}

func (q memoryIssues) LaterInSeries(ctx context.Context, seriesID int64, after int) ([]*Issue, error) {
	all, err := q.BySeries(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	var out []*Issue
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].SortCode > after {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (q memoryIssues) MaxSortCode(ctx context.Context, seriesID int64) (int, bool, error) {
	all, err := q.BySeries(ctx, seriesID)
	if err != nil || len(all) == 0 {
		return 0, false, err
	}
	return all[len(all)-1].SortCode, true, nil
}

func (q memoryIssues) CountActive(ctx context.Context, seriesID int64) (int, int, error) {
	all, err := q.BySeries(ctx, seriesID)
	if err != nil {
		return 0, 0, err
	}
	base, variant := 0, 0
	for _, issue := range all {
		if issue.IsVariant() {
			variant++
		} else {
			base++
		}
	}
	return base, variant, nil
}

func (q memoryIssues) CountIndexed(ctx context.Context, seriesID int64) (int, error) {
	all, err := q.BySeries(ctx, seriesID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, issue := range all {
		if issue.IsIndexed {
			n++
		}
	}
	return n, nil
}

type memoryStories struct{ s *MemoryStore }

func (q memoryStories) ActiveByIssue(_ context.Context, issueID int64) ([]*Story, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	var out []*Story
	for _, ent := range q.s.rows[KindStory] {
		story := ent.(*Story)
		if story.IssueID == issueID {
			out = append(out, cloneEntity(story).(*Story))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceNumber < out[j].SequenceNumber })
	return out, nil
}

func (q memoryStories) CountForSeries(_ context.Context, seriesID int64) (int, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	n := 0
	for _, ent := range q.s.rows[KindStory] {
		story := ent.(*Story)
		issue, ok := q.s.rows[KindIssue][story.IssueID]
		if ok && issue.(*Issue).SeriesID == seriesID {
			n++
		}
	}
	return n, nil
}

type memoryCovers struct{ s *MemoryStore }

func (q memoryCovers) ActiveByIssue(_ context.Context, issueID int64) ([]*Cover, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	var out []*Cover
	for _, ent := range q.s.rows[KindCover] {
		cover := ent.(*Cover)
		if cover.IssueID == issueID {
			out = append(out, cloneEntity(cover).(*Cover))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (q memoryCovers) CountForSeries(_ context.Context, seriesID int64) (int, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	n := 0
	for _, ent := range q.s.rows[KindCover] {
		cover := ent.(*Cover)
		issue, ok := q.s.rows[KindIssue][cover.IssueID]
		if ok && issue.(*Issue).SeriesID == seriesID {
			n++
		}
	}
	return n, nil
}

type memoryImages struct{ s *MemoryStore }

func (q memoryImages) CountActive(_ context.Context, ownerKind Kind, ownerID int64, typeName string) (int, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	n := 0
	for _, ent := range q.s.rows[KindImage] {
		img := ent.(*Image)
		if img.OwnerKind == ownerKind && img.OwnerID == ownerID && img.TypeName == typeName {
			n++
		}
	}
	return n, nil
}

type memoryReservations struct{ s *MemoryStore }

func (q memoryReservations) ForSeries(_ context.Context, seriesID int64) (*OngoingReservation, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	r, ok := q.s.resv[seriesID]
	if !ok {
		return nil, nil
	}
	out := *r
	return &out, nil
}

func (q memoryReservations) Save(_ context.Context, reservation *OngoingReservation) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	if reservation.ID == 0 {
		q.s.nextID++
		reservation.ID = q.s.nextID
	}
	stored := *reservation
	q.s.resv[reservation.SeriesID] = &stored
	return nil
}

func (q memoryReservations) Delete(_ context.Context, seriesID int64) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	delete(q.s.resv, seriesID)
	return nil
}

// # Copy Helpers

func cloneEntity(ent Entity) Entity {
	switch v := ent.(type) {
	case *Publisher:
		out := *v
		out.Keywords = cloneStrings(v.Keywords)
		return &out
	case *IndiciaPublisher:
		out := *v
		out.Keywords = cloneStrings(v.Keywords)
		return &out
	case *BrandGroup:
		out := *v
		out.Keywords = cloneStrings(v.Keywords)
		return &out
	case *Brand:
		out := *v
		out.Keywords = cloneStrings(v.Keywords)
		out.GroupIDs = cloneInt64s(v.GroupIDs)
		return &out
	case *BrandUse:
		out := *v
		return &out
	case *Series:
		out := *v
		out.Keywords = cloneStrings(v.Keywords)
		return &out
	case *SeriesBond:
		out := *v
		return &out
	case *Issue:
		out := *v
		out.Keywords = cloneStrings(v.Keywords)
		return &out
	case *Story:
		out := *v
		out.Keywords = cloneStrings(v.Keywords)
		return &out
	case *Cover:
		out := *v
		return &out
	case *ReprintLink:
		out := *v
		return &out
	case *Image:
		out := *v
		return &out
	default:
		return ent
	}
}

func setEntityID(ent Entity, id int64) {
	switch v := ent.(type) {
	case *Publisher:
		v.ID = id
	case *IndiciaPublisher:
		v.ID = id
	case *BrandGroup:
		v.ID = id
	case *Brand:
		v.ID = id
	case *BrandUse:
		v.ID = id
	case *Series:
		v.ID = id
	case *SeriesBond:
		v.ID = id
	case *Issue:
		v.ID = id
	case *Story:
		v.ID = id
	case *Cover:
		v.ID = id
	case *ReprintLink:
		v.ID = id
	case *Image:
		v.ID = id
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneInt64s(in []int64) []int64 {
	if in == nil {
		return nil
	}
	out := make([]int64, len(in))
	copy(out, in)
	return out
}
