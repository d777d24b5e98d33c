// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package display

// # Story

// StoryType is the sequence kind (cover, comic story, advertisement, ...).
// Only a handful of types carry weight for index-status computation.
type StoryType string

const (
	StoryTypeCover         StoryType = "cover"
	StoryTypeComicStory    StoryType = "comic story"
	StoryTypeAdvertisement StoryType = "advertisement"
	StoryTypeIllustration  StoryType = "illustration"
	StoryTypeTextArticle   StoryType = "text article"
)

// Story is one credited sequence inside an issue.
type Story struct {
	ID int64

	IssueID        int64
	SequenceNumber int

	Title         string
	TitleInferred bool
	Feature       string
	Type          StoryType
	JobNumber     string
	Genre         string

	Script    string
	NoScript  bool
	Pencils   string
	NoPencils bool
	Inks      string
	NoInks    bool
	Colors    string
	NoColors  bool
	Letters   string
	NoLetters bool
	Editing   string
	NoEditing bool

	PageCount          float64
	PageCountUncertain bool

	Characters   string
	Synopsis     string
	ReprintNotes string
	Notes        string
	Keywords     []string

	Reserved bool
}

func (s *Story) Kind() Kind                { return KindStory }
func (s *Story) EntityID() int64           { return s.ID }
func (s *Story) SetReserved(reserved bool) { s.Reserved = reserved }

// CountsTowardIndex reports whether the sequence moves its issue out of
// skeleton status. Pure cover sequences do not.
func (s *Story) CountsTowardIndex() bool { return s.Type != StoryTypeCover }
