// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package display

// # Reprint Links

// ReprintKind names the four endpoint shapes a reprint link can take.
// Story endpoints are preferred; issue endpoints are the coarse fallback
// when the exact sequence is unknown.
type ReprintKind string

const (
	// ReprintStoryToStory links two sequences directly.
	ReprintStoryToStory ReprintKind = "story_to_story"

	// ReprintStoryToIssue links a source sequence to a whole issue.
	ReprintStoryToIssue ReprintKind = "story_to_issue"

	// ReprintIssueToStory links a whole issue to a target sequence.
	ReprintIssueToStory ReprintKind = "issue_to_story"

	// ReprintIssueToIssue links two issues without sequence detail.
	ReprintIssueToIssue ReprintKind = "issue_to_issue"
)

// ReprintLink records that target material reprints origin material. Which
// id pair is populated follows LinkKind; the other pair is 0.
type ReprintLink struct {
	ID int64

	LinkKind ReprintKind

	OriginStoryID int64
	OriginIssueID int64
	TargetStoryID int64
	TargetIssueID int64

	Notes string

	Reserved bool
}

func (r *ReprintLink) Kind() Kind                { return KindReprint }
func (r *ReprintLink) EntityID() int64           { return r.ID }
func (r *ReprintLink) SetReserved(reserved bool) { r.Reserved = reserved }

// KindFor derives the link shape from which endpoints are populated.
func KindFor(originStory, originIssue, targetStory, targetIssue int64) ReprintKind {
	switch {
	case originStory != 0 && targetStory != 0:
		return ReprintStoryToStory
	case originStory != 0:
		return ReprintStoryToIssue
	case targetStory != 0:
		return ReprintIssueToStory
	default:
		return ReprintIssueToIssue
	}
}
