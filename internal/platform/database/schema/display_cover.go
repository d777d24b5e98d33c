package schema

// DisplayCoverTable represents the 'display.cover' table
type DisplayCoverTable struct {
	Table   string
	ID      string
	Doc     string
	IssueID string
}

// DisplayCover is the schema definition for display.cover
var DisplayCover = DisplayCoverTable{
	Table:   "display.cover",
	ID:      "id",
	Doc:     "doc",
	IssueID: "issue_id",
}

func (t DisplayCoverTable) Columns() []string {
	return []string{t.ID, t.Doc, t.IssueID}
}
