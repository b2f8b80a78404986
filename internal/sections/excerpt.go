package sections

import (
	"encoding/json"
	"fmt"

	"github.com/microsmart/mentorflow/internal/models"
)

// excerptRowLimit caps how many data rows per synopsis travel to the
// engine. Matches the ingest-side preview limit of the source documents.
const excerptRowLimit = 100

type excerptSynopsis struct {
	FileID     string               `json:"fileId"`
	SheetName  string               `json:"sheetName"`
	Header     []string             `json:"header"`
	Rows       [][]models.Cell      `json:"rows"`
	Truncated  bool                 `json:"truncated,omitempty"`
	KeyMetrics []models.KeyMetric   `json:"keyMetrics,omitempty"`
	Comments   []models.CellComment `json:"comments,omitempty"`
}

type excerpt struct {
	SubjectID       string                    `json:"subjectId"`
	Classifications []models.Classification   `json:"classifications"`
	Synopses        []excerptSynopsis         `json:"synopses"`
	Unstructured    []models.UnstructuredRef  `json:"unstructured"`
	CategoryCounts  map[models.Category]int   `json:"categoryCounts"`
}

// Excerpt serializes the evidence bundle for transport to the generation
// engine, truncating oversized tables but preserving key metrics and
// comments in full.
func Excerpt(b *models.EvidenceBundle) (json.RawMessage, error) {
	e := excerpt{
		SubjectID:       b.SubjectID,
		Classifications: b.Classifications,
		Unstructured:    b.Unstructured,
		CategoryCounts:  b.CategoryCounts,
	}
	for _, s := range b.Synopses {
		es := excerptSynopsis{
			FileID:     s.FileID,
			SheetName:  s.SheetName,
			Header:     s.Header,
			Rows:       s.Rows,
			KeyMetrics: s.KeyMetrics,
			Comments:   s.Comments,
		}
		if len(es.Rows) > excerptRowLimit {
			es.Rows = es.Rows[:excerptRowLimit]
			es.Truncated = true
		}
		e.Synopses = append(e.Synopses, es)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize evidence excerpt: %w", err)
	}
	return raw, nil
}
