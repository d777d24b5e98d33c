package schema

// OIChangesetTable represents the 'oi.changeset' table
type OIChangesetTable struct {
	Table      string
	ID         string
	State      string
	ChangeType string
	Indexer    string
	Approver   string
	CreatedAt  string
	ModifiedAt string
}

// OIChangeset is the schema definition for oi.changeset
var OIChangeset = OIChangesetTable{
	Table:      "oi.changeset",
	ID:         "id",
	State:      "state",
	ChangeType: "change_type",
	Indexer:    "indexer",
	Approver:   "approver",
	CreatedAt:  "created_at",
	ModifiedAt: "modified_at",
}

func (t OIChangesetTable) Columns() []string {
	return []string{t.ID, t.State, t.ChangeType, t.Indexer, t.Approver, t.CreatedAt, t.ModifiedAt}
}

// OIChangesetCommentTable represents the 'oi.changeset_comment' table
type OIChangesetCommentTable struct {
	Table       string
	ID          string
	ChangesetID string
	Author      string
	Text        string
	OldState    string
	NewState    string
	CreatedAt   string
}

// OIChangesetComment is the schema definition for oi.changeset_comment
var OIChangesetComment = OIChangesetCommentTable{
	Table:       "oi.changeset_comment",
	ID:          "id",
	ChangesetID: "changeset_id",
	Author:      "author",
	Text:        "text",
	OldState:    "old_state",
	NewState:    "new_state",
	CreatedAt:   "created_at",
}

func (t OIChangesetCommentTable) Columns() []string {
	return []string{t.ID, t.ChangesetID, t.Author, t.Text, t.OldState, t.NewState, t.CreatedAt}
}
