// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"

	"github.com/inkdex/inkdex/internal/display"
)

// # Story Revisions

// StoryRevision stages an edit to one [display.Story]. Committing a story
// also settles the index status of its issue: an issue with no sequence
// that counts toward the index is a skeleton, indexed otherwise.
type StoryRevision struct {
	Revision

	StoryID int64

	// IssueID may be 0 while the revision belongs to a variant-add
	// changeset whose issue has not committed yet. The issue commit
	// binds it.
	IssueID        int64
	SequenceNumber int

	Title         string
	TitleInferred bool
	Feature       string
	Type          display.StoryType
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
	Keywords     string
}

func (r *StoryRevision) Base() *Revision            { return &r.Revision }
func (r *StoryRevision) Kind() display.Kind         { return display.KindStory }
func (r *StoryRevision) SourceID() int64            { return r.StoryID }
func (r *StoryRevision) attach(id int64)            { r.StoryID = id }
func (r *StoryRevision) newDisplay() display.Entity { return &display.Story{} }

func (r *StoryRevision) hooks(e *Engine) commitHooks {
	return &storyHooks{engine: e, rev: r}
}

func (r *StoryRevision) counts(context.Context, *Engine, display.Entity) (Counts, error) {
	return Counts{"stories": 1}, nil
}

func (r *StoryRevision) tracked(_ *Engine, old display.Entity) []trackedField {
	oldStory, _ := old.(*display.Story)
	return []trackedField{
		{
			name: "issue",
			kind: trackedValue,
			old: func(context.Context) (any, error) {
				if oldStory == nil {
					return nil, nil
				}
				return oldStory.IssueID, nil
			},
			new: staticValue(r.IssueID),
		},
	}
}

func (r *StoryRevision) parents(*Engine, display.Entity) []parentRef { return nil }

func (r *StoryRevision) statKeys(ctx context.Context, e *Engine, old display.Entity) (CategoryKey, CategoryKey, error) {
	var oldKey, newKey CategoryKey
	if oldStory, ok := old.(*display.Story); ok {
		key, err := issueCategoryKey(ctx, e, oldStory.IssueID)
		if err != nil {
			return oldKey, newKey, err
		}
		oldKey = key
	}
	key, err := issueCategoryKey(ctx, e, r.IssueID)
	if err != nil {
		return oldKey, newKey, err
	}
	newKey = key
	return oldKey, newKey, nil
}

// issueCategoryKey resolves an issue id to its series' statistics bucket.
func issueCategoryKey(ctx context.Context, e *Engine, issueID int64) (CategoryKey, error) {
	var key CategoryKey
	if issueID == 0 {
		return key, nil
	}
	issue, err := getAs[*display.Issue](ctx, e, display.KindIssue, issueID)
	if err != nil || issue == nil {
		return key, err
	}
	series, err := getAs[*display.Series](ctx, e, display.KindSeries, issue.SeriesID)
	if err != nil || series == nil {
		return key, err
	}
	return CategoryKey{CountryID: series.CountryID, LanguageID: series.LanguageID}, nil
}

// CloneStory reserves a story and stages its pending revision.
func (e *Engine) CloneStory(ctx context.Context, src *display.Story, changeset *Changeset) (*StoryRevision, error) {
	rev := &StoryRevision{}
	var ent display.Entity
	if src != nil {
		ent = src
	}
	if err := e.Clone(ctx, rev, ent, changeset); err != nil {
		return nil, err
	}
	return rev, nil
}

type storyHooks struct {
	noopHooks

	engine *Engine
	rev    *StoryRevision
}

// postAdjustStats re-derives the index status of every issue the commit
// touched. The recompute happens after the story row is settled, so the
// active-story query already reflects the committed state.
func (h *storyHooks) postAdjustStats(ctx context.Context, obj display.Entity, changes ChangeSet) error {
	touched := make([]int64, 0, 2)
	if story, ok := obj.(*display.Story); ok && story != nil {
		touched = append(touched, story.IssueID)
	}
	if changes.Changed("issue") {
		if oldID, ok := changes.Old("issue").(int64); ok {
			touched = append(touched, oldID)
		}
	}
	seen := make(map[int64]bool, len(touched))
	for _, issueID := range touched {
		if issueID == 0 || seen[issueID] {
			continue
		}
		seen[issueID] = true
		if err := h.refreshIndexStatus(ctx, issueID); err != nil {
			return err
		}
	}
	return nil
}

// refreshIndexStatus flips Issue.IsIndexed when the committed stories
// disagree with the cached flag, moving the "issue indexes" statistic with
// it in the same bucket as the issue's series.
func (h *storyHooks) refreshIndexStatus(ctx context.Context, issueID int64) error {
	issue, err := getAs[*display.Issue](ctx, h.engine, display.KindIssue, issueID)
	if err != nil || issue == nil {
		return err
	}

	stories, err := h.engine.store.Stories().ActiveByIssue(ctx, issueID)
	if err != nil {
		return err
	}
	indexed := false
	for _, s := range stories {
		if s.CountsTowardIndex() {
			indexed = true
			break
		}
	}
	if indexed == issue.IsIndexed {
		return nil
	}

	issue.IsIndexed = indexed
	if err := h.engine.store.Save(ctx, issue); err != nil {
		return err
	}

	key, err := issueCategoryKey(ctx, h.engine, issueID)
	if err != nil {
		return err
	}
	delta := 1
	if !indexed {
		delta = -1
	}
	return h.engine.stats.Apply(ctx, []StatDelta{{
		Category:   "issue indexes",
		CountryID:  key.CountryID,
		LanguageID: key.LanguageID,
		Delta:      delta,
	}})
}

var _ = register(&revisionKind{
	kind: display.KindStory,
	displayFields: []string{
		"issue", "sequence_number", "title", "title_inferred", "feature",
		"type", "job_number", "genre", "script", "no_script", "pencils",
		"no_pencils", "inks", "no_inks", "colors", "no_colors", "letters",
		"no_letters", "editing", "no_editing", "page_count",
		"page_count_uncertain", "characters", "synopsis", "reprint_notes",
		"notes", "keywords",
	},
	fields: []fieldSpec{
		single("issue",
			func(r *StoryRevision, s *display.Story) { s.IssueID = r.IssueID },
			func(r *StoryRevision, s *display.Story) { r.IssueID = s.IssueID }),
		single("sequence_number",
			func(r *StoryRevision, s *display.Story) { s.SequenceNumber = r.SequenceNumber },
			func(r *StoryRevision, s *display.Story) { r.SequenceNumber = s.SequenceNumber }),
		single("title",
			func(r *StoryRevision, s *display.Story) { s.Title = r.Title },
			func(r *StoryRevision, s *display.Story) { r.Title = s.Title }),
		single("title_inferred",
			func(r *StoryRevision, s *display.Story) { s.TitleInferred = r.TitleInferred },
			func(r *StoryRevision, s *display.Story) { r.TitleInferred = s.TitleInferred }),
		single("feature",
			func(r *StoryRevision, s *display.Story) { s.Feature = r.Feature },
			func(r *StoryRevision, s *display.Story) { r.Feature = s.Feature }),
		single("type",
			func(r *StoryRevision, s *display.Story) { s.Type = r.Type },
			func(r *StoryRevision, s *display.Story) { r.Type = s.Type }),
		single("job_number",
			func(r *StoryRevision, s *display.Story) { s.JobNumber = r.JobNumber },
			func(r *StoryRevision, s *display.Story) { r.JobNumber = s.JobNumber }),
		single("genre",
			func(r *StoryRevision, s *display.Story) { s.Genre = r.Genre },
			func(r *StoryRevision, s *display.Story) { r.Genre = s.Genre }),
		single("script",
			func(r *StoryRevision, s *display.Story) { s.Script = r.Script },
			func(r *StoryRevision, s *display.Story) { r.Script = s.Script }),
		single("no_script",
			func(r *StoryRevision, s *display.Story) { s.NoScript = r.NoScript },
			func(r *StoryRevision, s *display.Story) { r.NoScript = s.NoScript }),
		single("pencils",
			func(r *StoryRevision, s *display.Story) { s.Pencils = r.Pencils },
			func(r *StoryRevision, s *display.Story) { r.Pencils = s.Pencils }),
		single("no_pencils",
			func(r *StoryRevision, s *display.Story) { s.NoPencils = r.NoPencils },
			func(r *StoryRevision, s *display.Story) { r.NoPencils = s.NoPencils }),
		single("inks",
			func(r *StoryRevision, s *display.Story) { s.Inks = r.Inks },
			func(r *StoryRevision, s *display.Story) { r.Inks = s.Inks }),
		single("no_inks",
			func(r *StoryRevision, s *display.Story) { s.NoInks = r.NoInks },
			func(r *StoryRevision, s *display.Story) { r.NoInks = s.NoInks }),
		single("colors",
			func(r *StoryRevision, s *display.Story) { s.Colors = r.Colors },
			func(r *StoryRevision, s *display.Story) { r.Colors = s.Colors }),
		single("no_colors",
			func(r *StoryRevision, s *display.Story) { s.NoColors = r.NoColors },
			func(r *StoryRevision, s *display.Story) { r.NoColors = s.NoColors }),
		single("letters",
			func(r *StoryRevision, s *display.Story) { s.Letters = r.Letters },
			func(r *StoryRevision, s *display.Story) { r.Letters = s.Letters }),
		single("no_letters",
			func(r *StoryRevision, s *display.Story) { s.NoLetters = r.NoLetters },
			func(r *StoryRevision, s *display.Story) { r.NoLetters = s.NoLetters }),
		single("editing",
			func(r *StoryRevision, s *display.Story) { s.Editing = r.Editing },
			func(r *StoryRevision, s *display.Story) { r.Editing = s.Editing }),
		single("no_editing",
			func(r *StoryRevision, s *display.Story) { s.NoEditing = r.NoEditing },
			func(r *StoryRevision, s *display.Story) { r.NoEditing = s.NoEditing }),
		single("page_count",
			func(r *StoryRevision, s *display.Story) { s.PageCount = r.PageCount },
			func(r *StoryRevision, s *display.Story) { r.PageCount = s.PageCount }),
		single("page_count_uncertain",
			func(r *StoryRevision, s *display.Story) { s.PageCountUncertain = r.PageCountUncertain },
			func(r *StoryRevision, s *display.Story) { r.PageCountUncertain = s.PageCountUncertain }),
		single("characters",
			func(r *StoryRevision, s *display.Story) { s.Characters = r.Characters },
			func(r *StoryRevision, s *display.Story) { r.Characters = s.Characters }),
		single("synopsis",
			func(r *StoryRevision, s *display.Story) { s.Synopsis = r.Synopsis },
			func(r *StoryRevision, s *display.Story) { r.Synopsis = s.Synopsis }),
		single("reprint_notes",
			func(r *StoryRevision, s *display.Story) { s.ReprintNotes = r.ReprintNotes },
			func(r *StoryRevision, s *display.Story) { r.ReprintNotes = s.ReprintNotes }),
		single("notes",
			func(r *StoryRevision, s *display.Story) { s.Notes = r.Notes },
			func(r *StoryRevision, s *display.Story) { r.Notes = s.Notes }),
		keywords(
			func(r *StoryRevision) *string { return &r.Keywords },
			func(s *display.Story) *[]string { return &s.Keywords }),
	},
})
