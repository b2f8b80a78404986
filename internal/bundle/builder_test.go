package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microsmart/mentorflow/internal/models"
)

func input(id string, category models.Category, synopses int) Input {
	in := Input{
		File:           models.SourceFile{ID: id, Name: id},
		Classification: models.Classification{FileID: id, Category: category, Confidence: 0.5},
	}
	for i := 0; i < synopses; i++ {
		in.Synopses = append(in.Synopses, models.TableSynopsis{
			FileID:    id,
			SheetName: string(rune('A' + i)),
			Rows:      [][]models.Cell{{{Type: models.CellNumber, Text: "1", Number: 1}}},
		})
	}
	return in
}

func TestBuildPartitionsFilesExactlyOnce(t *testing.T) {
	b, err := Build("123456789", []Input{
		input("a.xlsx", models.CategoryFinancial, 2),
		input("b.pdf", models.CategoryLegal, 0),
		input("c.mp4", models.CategoryMedia, 0),
	})
	require.NoError(t, err)

	assert.Len(t, b.Files, 3)
	assert.Len(t, b.Synopses, 2)
	require.Len(t, b.Unstructured, 2)

	structured := map[string]bool{}
	for _, s := range b.Synopses {
		structured[s.FileID] = true
	}
	for _, u := range b.Unstructured {
		assert.False(t, structured[u.File.ID], "file %s is in both partitions", u.File.ID)
	}
	assert.Equal(t, 1, b.CategoryCounts[models.CategoryFinancial])
	assert.Equal(t, 1, b.CategoryCounts[models.CategoryLegal])
	assert.Equal(t, 1, b.CategoryCounts[models.CategoryMedia])
}

func TestBuildRejectsDuplicateFiles(t *testing.T) {
	_, err := Build("123456789", []Input{
		input("a.xlsx", models.CategoryFinancial, 1),
		input("a.xlsx", models.CategoryFinancial, 1),
	})
	assert.ErrorContains(t, err, "more than once")
}

func TestBuildRejectsMismatchedIDs(t *testing.T) {
	in := input("a.xlsx", models.CategoryFinancial, 0)
	in.Classification.FileID = "other.xlsx"
	_, err := Build("123456789", []Input{in})
	assert.ErrorContains(t, err, "attached to file")
}

func TestBuildIsDeterministic(t *testing.T) {
	inputs := []Input{
		input("z.xlsx", models.CategoryFinancial, 1),
		input("a.pdf", models.CategoryLegal, 0),
		input("m.xlsx", models.CategoryCredit, 1),
	}
	reversed := []Input{inputs[2], inputs[1], inputs[0]}

	b1, err := Build("123456789", inputs)
	require.NoError(t, err)
	b2, err := Build("123456789", reversed)
	require.NoError(t, err)

	assert.Equal(t, b1, b2)
	assert.Equal(t, "a.pdf", b1.Unstructured[0].File.ID)
	assert.Equal(t, "m.xlsx", b1.Synopses[0].FileID)
}

func TestBuildDetectsWebsite(t *testing.T) {
	withSite := input("a.xlsx", models.CategoryBusinessPlan, 0)
	withSite.Synopses = []models.TableSynopsis{{
		FileID:    "a.xlsx",
		SheetName: "Στοιχεία",
		Rows: [][]models.Cell{{
			{Type: models.CellText, Text: "Ιστοσελίδα"},
			{Type: models.CellText, Text: "www.example.gr"},
		}},
	}}

	b, err := Build("123456789", []Input{withSite})
	require.NoError(t, err)
	assert.True(t, b.WebsiteKnown)

	without, err := Build("123456789", []Input{input("b.xlsx", models.CategoryFinancial, 1)})
	require.NoError(t, err)
	assert.False(t, without.WebsiteKnown)
}

func TestBuildUnstructuredKeepsDiagnostic(t *testing.T) {
	in := input("broken.xlsx", models.CategoryUnknown, 0)
	in.Diagnostic = "workbook could not be opened: zip: not a valid zip file"

	b, err := Build("123456789", []Input{in})
	require.NoError(t, err)
	require.Len(t, b.Unstructured, 1)
	assert.Contains(t, b.Unstructured[0].Diagnostic, "not a valid zip file")
}
