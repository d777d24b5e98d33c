package schema

// DisplayStoryTable represents the 'display.story' table
type DisplayStoryTable struct {
	Table          string
	ID             string
	Doc            string
	IssueID        string
	SequenceNumber string
}

// DisplayStory is the schema definition for display.story
var DisplayStory = DisplayStoryTable{
	Table:          "display.story",
	ID:             "id",
	Doc:            "doc",
	IssueID:        "issue_id",
	SequenceNumber: "sequence_number",
}

func (t DisplayStoryTable) Columns() []string {
	return []string{t.ID, t.Doc, t.IssueID, t.SequenceNumber}
}
