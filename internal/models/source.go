package models

import "time"

// Origin indicates how a SourceFile entered the document store.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
)

// Category is the document class a file is assigned by the classifier.
type Category string

const (
	CategoryCredit       Category = "credit"
	CategoryFinancial    Category = "financial"
	CategoryESG          Category = "esg"
	CategoryLegal        Category = "legal"
	CategoryBusinessPlan Category = "business-plan"
	CategoryMedia        Category = "media"
	CategoryImage        Category = "image"
	CategoryUnknown      Category = "unknown"
)

// categoryPriority breaks ties between equally scored categories.
// Lower value wins.
var categoryPriority = map[Category]int{
	CategoryCredit:       0,
	CategoryFinancial:    1,
	CategoryESG:          2,
	CategoryLegal:        3,
	CategoryBusinessPlan: 4,
	CategoryMedia:        5,
	CategoryImage:        6,
	CategoryUnknown:      7,
}

// Priority returns the tie-break rank of a category. Unknown categories
// rank last.
func (c Category) Priority() int {
	if p, ok := categoryPriority[c]; ok {
		return p
	}
	return len(categoryPriority)
}

// SourceFile is the immutable record of one ingested document. The ID is
// the join key used by classification and extraction; the content hash
// makes re-runs on unchanged bytes detectable.
type SourceFile struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	MIMEType  string    `json:"mimeType"`
	Extension string    `json:"extension"`
	Origin    Origin    `json:"origin"`
	Hash      string    `json:"hash"`
	IngestedAt time.Time `json:"ingestedAt"`
}

// Classification labels one SourceFile with a category and a confidence
// in [0,1]. It is produced exactly once per file per run and only changes
// when the classifier is re-run.
type Classification struct {
	FileID     string   `json:"fileId"`
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Rationale  string   `json:"rationale"`
}
