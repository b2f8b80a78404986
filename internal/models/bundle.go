package models

// UnstructuredRef points at a SourceFile that was not structurally
// processed (PDF, DOCX, media). Downstream generation reads such files in
// full; the diagnostic carries any ingest problem (corrupt file, protected
// workbook) without failing the run.
type UnstructuredRef struct {
	File       SourceFile `json:"file"`
	Diagnostic string     `json:"diagnostic,omitempty"`
}

// EvidenceBundle is the immutable, fully ingested representation of one
// subject's documents. It is built once per run and shared read-only by all
// generation jobs; no job may mutate it.
type EvidenceBundle struct {
	SubjectID       string               `json:"subjectId"`
	Files           []SourceFile         `json:"files"`
	Classifications []Classification     `json:"classifications"`
	Synopses        []TableSynopsis      `json:"synopses"`
	Unstructured    []UnstructuredRef    `json:"unstructured"`
	CategoryCounts  map[Category]int     `json:"categoryCounts"`
	WebsiteKnown    bool                 `json:"websiteKnown"`
}

// ClassificationFor returns the classification of the given file, if any.
func (b *EvidenceBundle) ClassificationFor(fileID string) (Classification, bool) {
	for _, c := range b.Classifications {
		if c.FileID == fileID {
			return c, true
		}
	}
	return Classification{}, false
}

// SynopsesFor returns all table synopses extracted from the given file.
func (b *EvidenceBundle) SynopsesFor(fileID string) []TableSynopsis {
	var out []TableSynopsis
	for _, s := range b.Synopses {
		if s.FileID == fileID {
			out = append(out, s)
		}
	}
	return out
}
