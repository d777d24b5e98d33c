// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"time"

	"github.com/inkdex/inkdex/internal/display"
)

// # Changesets

// State is the review state of a changeset.
type State string

const (
	// StateOpen means the submitter is still editing.
	StateOpen State = "open"

	// StatePending means the changeset is submitted and awaiting an approver.
	StatePending State = "pending"

	// StateReviewing means an approver has taken the changeset.
	StateReviewing State = "reviewing"

	// StateApproved means every revision has been committed to display.
	StateApproved State = "approved"

	// StateDiscarded means the changeset was abandoned; nothing was applied.
	StateDiscarded State = "discarded"
)

// Active reports whether the changeset still holds its row locks. Approved
// and discarded changesets release them.
func (s State) Active() bool {
	switch s {
	case StateOpen, StatePending, StateReviewing:
		return true
	}
	return false
}

// ChangeType labels what a changeset edits. It fixes which revision kinds
// may appear and, for issue work, which commit semantics apply.
type ChangeType string

const (
	ChangeTypePublisher        ChangeType = "publisher"
	ChangeTypeIndiciaPublisher ChangeType = "indicia_publisher"
	ChangeTypeBrandGroup       ChangeType = "brand_group"
	ChangeTypeBrand            ChangeType = "brand"
	ChangeTypeBrandUse         ChangeType = "brand_use"
	ChangeTypeSeries           ChangeType = "series"
	ChangeTypeSeriesBond       ChangeType = "series_bond"
	ChangeTypeIssue            ChangeType = "issue"
	ChangeTypeIssueAdd         ChangeType = "issue_add"

	// ChangeTypeVariantAdd adds a variant issue, optionally moving an
	// existing cover onto it.
	ChangeTypeVariantAdd ChangeType = "variant_add"

	// ChangeTypeTwoIssues edits a base issue and one of its variants
	// together, allowing covers to move between them.
	ChangeTypeTwoIssues ChangeType = "two_issues"

	ChangeTypeCover   ChangeType = "cover"
	ChangeTypeReprint ChangeType = "reprint"
	ChangeTypeImage   ChangeType = "image"
)

// Action summarises what approving a changeset does to display rows.
type Action string

const (
	ActionAdd    Action = "add"
	ActionModify Action = "modify"
	ActionDelete Action = "delete"
)

// Changeset groups the revisions of one edit session. All of them commit
// together on approval or are discarded together.
type Changeset struct {
	ID int64

	State      State
	ChangeType ChangeType

	// Indexer is the submitting editor; Approver is set once review starts.
	Indexer  string
	Approver string

	CreatedAt  time.Time
	ModifiedAt time.Time

	Comments []Comment
}

// Comment is one note on the review trail of a changeset.
type Comment struct {
	Author   string
	Text     string
	OldState State
	NewState State
	At       time.Time
}

// Submit moves an open changeset into the review queue.
func (c *Changeset) Submit(comment string) error {
	if c.State != StateOpen {
		return Preconditionf("changeset %d cannot be submitted from state %q", c.ID, c.State)
	}
	c.transition(StatePending, c.Indexer, comment)
	return nil
}

// Review assigns an approver and moves the changeset under review.
func (c *Changeset) Review(approver, comment string) error {
	if c.State != StatePending {
		return Preconditionf("changeset %d cannot be examined from state %q", c.ID, c.State)
	}
	c.Approver = approver
	c.transition(StateReviewing, approver, comment)
	return nil
}

// Release returns a changeset under review to the queue.
func (c *Changeset) Release(comment string) error {
	if c.State != StateReviewing {
		return Preconditionf("changeset %d is not under review", c.ID)
	}
	c.transition(StatePending, c.Approver, comment)
	c.Approver = ""
	return nil
}

func (c *Changeset) transition(to State, author, comment string) {
	now := time.Now().UTC()
	c.Comments = append(c.Comments, Comment{
		Author:   author,
		Text:     comment,
		OldState: c.State,
		NewState: to,
		At:       now,
	})
	c.State = to
	c.ModifiedAt = now
}

// commitOrder fixes the sequence in which revision kinds commit inside a
// changeset: containers before content, so foreign keys always resolve.
// Deletes run in the reverse order.
var commitOrder = []display.Kind{
	display.KindPublisher,
	display.KindIndiciaPublisher,
	display.KindBrandGroup,
	display.KindBrand,
	display.KindBrandUse,
	display.KindSeries,
	display.KindSeriesBond,
	display.KindIssue,
	display.KindStory,
	display.KindCover,
	display.KindReprint,
	display.KindImage,
}
