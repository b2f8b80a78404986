// Package bundle aggregates classifications, table synopses and raw file
// references into the immutable EvidenceBundle shared by all generation
// jobs.
package bundle

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/microsmart/mentorflow/internal/models"
)

// Input is everything ingestion produced for one file.
type Input struct {
	File           models.SourceFile
	Classification models.Classification
	Synopses       []models.TableSynopsis
	Diagnostic     string
}

var websitePattern = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+|\b\S+\.(?:gr|com|eu)\b`)

// Build produces the EvidenceBundle for one subject. Every SourceFile
// ends up exactly once in either the structured (synopsis-bearing) set or
// the unstructured reference list, never both and never neither. The
// bundle is read-only after construction and idempotent: re-running
// ingestion on unchanged bytes yields an identical bundle.
func Build(subjectID string, inputs []Input) (*models.EvidenceBundle, error) {
	b := &models.EvidenceBundle{
		SubjectID:      subjectID,
		CategoryCounts: map[models.Category]int{},
	}

	seen := map[string]bool{}
	for _, in := range inputs {
		if in.File.ID == "" {
			return nil, fmt.Errorf("input with empty file id")
		}
		if seen[in.File.ID] {
			return nil, fmt.Errorf("file %q appears more than once in bundle input", in.File.ID)
		}
		seen[in.File.ID] = true

		if in.Classification.FileID != in.File.ID {
			return nil, fmt.Errorf("classification for %q attached to file %q", in.Classification.FileID, in.File.ID)
		}
		for _, s := range in.Synopses {
			if s.FileID != in.File.ID {
				return nil, fmt.Errorf("synopsis for %q attached to file %q", s.FileID, in.File.ID)
			}
		}

		b.Files = append(b.Files, in.File)
		b.Classifications = append(b.Classifications, in.Classification)
		b.CategoryCounts[in.Classification.Category]++

		if len(in.Synopses) > 0 {
			b.Synopses = append(b.Synopses, in.Synopses...)
		} else {
			b.Unstructured = append(b.Unstructured, models.UnstructuredRef{
				File:       in.File,
				Diagnostic: in.Diagnostic,
			})
		}
	}

	sort.Slice(b.Files, func(i, j int) bool { return b.Files[i].ID < b.Files[j].ID })
	sort.Slice(b.Classifications, func(i, j int) bool { return b.Classifications[i].FileID < b.Classifications[j].FileID })
	sort.Slice(b.Unstructured, func(i, j int) bool { return b.Unstructured[i].File.ID < b.Unstructured[j].File.ID })
	sort.SliceStable(b.Synopses, func(i, j int) bool {
		if b.Synopses[i].FileID != b.Synopses[j].FileID {
			return b.Synopses[i].FileID < b.Synopses[j].FileID
		}
		return b.Synopses[i].SheetName < b.Synopses[j].SheetName
	})

	b.WebsiteKnown = detectWebsite(b)
	return b, nil
}

// detectWebsite scans extracted cells for a URL-like token. The result
// decides whether the digital-presence section takes the existing-website
// or greenfield branch.
func detectWebsite(b *models.EvidenceBundle) bool {
	for _, s := range b.Synopses {
		for _, row := range s.Rows {
			for _, cell := range row {
				if cell.Type == models.CellText && websitePattern.MatchString(cell.Text) {
					return true
				}
			}
		}
	}
	return false
}
