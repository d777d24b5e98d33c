// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package display

// # Publisher Family

// Publisher is a top-level publishing house. Its cached counters cover the
// four child families hanging off it.
type Publisher struct {
	ID int64

	Name               string
	YearBegan          int
	YearBeganUncertain bool
	YearEnded          int
	YearEndedUncertain bool
	URL                string
	Notes              string
	Keywords           []string

	CountryID int64

	// Cached counts of active children.
	BrandCount            int
	IndiciaPublisherCount int
	SeriesCount           int
	IssueCount            int

	Reserved bool
}

func (p *Publisher) Kind() Kind                { return KindPublisher }
func (p *Publisher) EntityID() int64           { return p.ID }
func (p *Publisher) SetReserved(reserved bool) { p.Reserved = reserved }

func (p *Publisher) ApplyCountDeltas(deltas map[string]int) bool {
	changed := false
	if d := deltas["brands"]; d != 0 {
		p.BrandCount += d
		changed = true
	}
	if d := deltas["indicia publishers"]; d != 0 {
		p.IndiciaPublisherCount += d
		changed = true
	}
	if d := deltas["series"]; d != 0 {
		p.SeriesCount += d
		changed = true
	}
	if d := deltas["issues"]; d != 0 {
		p.IssueCount += d
		changed = true
	}
	return changed
}

// IndiciaPublisher is the legal entity printed in an issue's indicia. It
// always belongs to exactly one parent [Publisher].
type IndiciaPublisher struct {
	ID int64

	ParentID int64

	Name               string
	YearBegan          int
	YearBeganUncertain bool
	YearEnded          int
	YearEndedUncertain bool
	IsSurrogate        bool
	URL                string
	Notes              string
	Keywords           []string

	CountryID int64

	IssueCount int

	Reserved bool
}

func (ip *IndiciaPublisher) Kind() Kind                { return KindIndiciaPublisher }
func (ip *IndiciaPublisher) EntityID() int64           { return ip.ID }
func (ip *IndiciaPublisher) SetReserved(reserved bool) { ip.Reserved = reserved }

func (ip *IndiciaPublisher) ApplyCountDeltas(deltas map[string]int) bool {
	if d := deltas["issues"] + deltas["variant issues"]; d != 0 {
		ip.IssueCount += d
		return true
	}
	return false
}

// BrandGroup collects related brand emblems under one parent publisher.
type BrandGroup struct {
	ID int64

	ParentID int64

	Name               string
	YearBegan          int
	YearBeganUncertain bool
	YearEnded          int
	YearEndedUncertain bool
	URL                string
	Notes              string
	Keywords           []string

	IssueCount int

	Reserved bool
}

func (bg *BrandGroup) Kind() Kind                { return KindBrandGroup }
func (bg *BrandGroup) EntityID() int64           { return bg.ID }
func (bg *BrandGroup) SetReserved(reserved bool) { bg.Reserved = reserved }

func (bg *BrandGroup) ApplyCountDeltas(deltas map[string]int) bool {
	if d := deltas["issues"] + deltas["variant issues"]; d != 0 {
		bg.IssueCount += d
		return true
	}
	return false
}

// Brand is a single emblem as printed on covers. Membership in one or more
// [BrandGroup] rows is stored as a plain id set.
type Brand struct {
	ID int64

	Name               string
	YearBegan          int
	YearBeganUncertain bool
	YearEnded          int
	YearEndedUncertain bool
	URL                string
	Notes              string
	Keywords           []string

	GroupIDs []int64

	IssueCount int

	Reserved bool
}

func (b *Brand) Kind() Kind                { return KindBrand }
func (b *Brand) EntityID() int64           { return b.ID }
func (b *Brand) SetReserved(reserved bool) { b.Reserved = reserved }

func (b *Brand) ApplyCountDeltas(deltas map[string]int) bool {
	if d := deltas["issues"] + deltas["variant issues"]; d != 0 {
		b.IssueCount += d
		return true
	}
	return false
}

// BrandUse records the years a brand emblem was in use at a publisher.
type BrandUse struct {
	ID int64

	EmblemID    int64
	PublisherID int64

	YearBegan          int
	YearBeganUncertain bool
	YearEnded          int
	YearEndedUncertain bool
	Notes              string

	Reserved bool
}

func (bu *BrandUse) Kind() Kind                { return KindBrandUse }
func (bu *BrandUse) EntityID() int64           { return bu.ID }
func (bu *BrandUse) SetReserved(reserved bool) { bu.Reserved = reserved }
