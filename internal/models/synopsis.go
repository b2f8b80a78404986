package models

// CellType tags the normalized type of one spreadsheet cell.
type CellType string

const (
	CellNumber  CellType = "number"
	CellText    CellType = "text"
	CellDate    CellType = "date"
	CellFormula CellType = "formula-result"
)

// Cell is one typed spreadsheet cell. Number carries the parsed value for
// number and formula-result cells; Text always carries the raw rendering.
type Cell struct {
	Type   CellType `json:"type"`
	Text   string   `json:"text"`
	Number float64  `json:"number,omitempty"`
}

// CellComment is a free-text comment preserved verbatim at its cell
// coordinate (1-based row/column).
type CellComment struct {
	Row     int    `json:"row"`
	Column  int    `json:"column"`
	Author  string `json:"author,omitempty"`
	Comment string `json:"comment"`
}

// KeyMetric is a label/value adjacent-cell pair matched against the metric
// vocabulary. These are the figures most likely to be quoted in generated
// text, so they are recorded independently of the raw table.
type KeyMetric struct {
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	RawValue string  `json:"rawValue"`
	Row      int     `json:"row"`
}

// TableSynopsis is the structured extraction of a single sheet. A
// SourceFile owns zero or more synopses, one per sheet with at least one
// non-empty data row.
type TableSynopsis struct {
	FileID     string        `json:"fileId"`
	SheetName  string        `json:"sheetName"`
	Header     []string      `json:"header"`
	Rows       [][]Cell      `json:"rows"`
	KeyMetrics []KeyMetric   `json:"keyMetrics,omitempty"`
	Comments   []CellComment `json:"comments,omitempty"`
}
