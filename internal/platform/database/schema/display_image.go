package schema

// DisplayImageTable represents the 'display.image' table
type DisplayImageTable struct {
	Table     string
	ID        string
	Doc       string
	OwnerKind string
	OwnerID   string
	TypeName  string
}

// DisplayImage is the schema definition for display.image
var DisplayImage = DisplayImageTable{
	Table:     "display.image",
	ID:        "id",
	Doc:       "doc",
	OwnerKind: "owner_kind",
	OwnerID:   "owner_id",
	TypeName:  "type_name",
}

func (t DisplayImageTable) Columns() []string {
	return []string{t.ID, t.Doc, t.OwnerKind, t.OwnerID, t.TypeName}
}
