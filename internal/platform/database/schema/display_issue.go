package schema

// DisplayIssueTable represents the 'display.issue' table. Ordering and
// counter queries hit the dedicated columns; the full entity lives in doc.
type DisplayIssueTable struct {
	Table       string
	ID          string
	Doc         string
	SeriesID    string
	SortCode    string
	VariantOfID string
	IsIndexed   string
}

// DisplayIssue is the schema definition for display.issue
var DisplayIssue = DisplayIssueTable{
	Table:       "display.issue",
	ID:          "id",
	Doc:         "doc",
	SeriesID:    "series_id",
	SortCode:    "sort_code",
	VariantOfID: "variant_of_id",
	IsIndexed:   "is_indexed",
}

func (t DisplayIssueTable) Columns() []string {
	return []string{t.ID, t.Doc, t.SeriesID, t.SortCode, t.VariantOfID, t.IsIndexed}
}
