package schema

// DisplayRowTable represents one of the plain display tables: a surrogate
// key plus the JSONB document of the entity. Kinds whose queries never
// touch individual fields all share this shape.
type DisplayRowTable struct {
	Table string
	ID    string
	Doc   string
}

func (t DisplayRowTable) Columns() []string {
	return []string{t.ID, t.Doc}
}

// Plain display tables.
var (
	DisplayPublisher        = DisplayRowTable{Table: "display.publisher", ID: "id", Doc: "doc"}
	DisplayIndiciaPublisher = DisplayRowTable{Table: "display.indicia_publisher", ID: "id", Doc: "doc"}
	DisplayBrandGroup       = DisplayRowTable{Table: "display.brand_group", ID: "id", Doc: "doc"}
	DisplayBrand            = DisplayRowTable{Table: "display.brand", ID: "id", Doc: "doc"}
	DisplayBrandUse         = DisplayRowTable{Table: "display.brand_use", ID: "id", Doc: "doc"}
	DisplaySeries           = DisplayRowTable{Table: "display.series", ID: "id", Doc: "doc"}
	DisplaySeriesBond       = DisplayRowTable{Table: "display.series_bond", ID: "id", Doc: "doc"}
	DisplayReprint          = DisplayRowTable{Table: "display.reprint", ID: "id", Doc: "doc"}
)
