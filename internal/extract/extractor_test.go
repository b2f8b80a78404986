package extract

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/microsmart/mentorflow/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeWorkbook(t *testing.T, rows map[string][][]interface{}) string {
	t.Helper()
	wb := excelize.NewFile()
	first := true
	for sheet, data := range rows {
		if first {
			require.NoError(t, wb.SetSheetName("Sheet1", sheet))
			first = false
		} else {
			_, err := wb.NewSheet(sheet)
			require.NoError(t, err)
		}
		for i, row := range data {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, wb.SetSheetRow(sheet, cell, &row))
		}
	}
	path := filepath.Join(t.TempDir(), "fixture.xlsx")
	require.NoError(t, wb.SaveAs(path))
	return path
}

func sourceFile(path string) models.SourceFile {
	return models.SourceFile{ID: filepath.Base(path), Path: path, Name: filepath.Base(path), Extension: ".xlsx"}
}

func TestExtractDetectsHeaderAndTypesCells(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Οικονομικά": {
			{"Έτος", "Κύκλος εργασιών", "Κέρδη"},
			{"2022", "1.234.567,89", "45.000,00"},
			{"2023", "1.500.000,00", "52.500,50"},
		},
	})

	e := NewExtractor(DefaultVocabulary())
	synopses, diag := e.Extract(discardLogger(), sourceFile(path))

	require.Len(t, synopses, 1)
	assert.Empty(t, diag)

	s := synopses[0]
	assert.Equal(t, "Οικονομικά", s.SheetName)
	assert.Equal(t, []string{"Έτος", "Κύκλος εργασιών", "Κέρδη"}, s.Header)
	require.Len(t, s.Rows, 2)

	assert.Equal(t, models.CellNumber, s.Rows[0][1].Type)
	assert.InDelta(t, 1234567.89, s.Rows[0][1].Number, 0.001)
}

func TestExtractKeyMetricFromSingleRowSheet(t *testing.T) {
	// A one-row sheet has no header candidate; the row must still land as
	// data and the label/value pair as a key metric.
	path := writeWorkbook(t, map[string][][]interface{}{
		"Βαθμολογία": {
			{"Πιστωτική Βαθμολογία", "450"},
		},
	})

	e := NewExtractor(DefaultVocabulary())
	synopses, diag := e.Extract(discardLogger(), sourceFile(path))

	require.Len(t, synopses, 1)
	assert.Empty(t, diag)

	s := synopses[0]
	assert.Nil(t, s.Header)
	require.Len(t, s.Rows, 1)

	require.Len(t, s.KeyMetrics, 1)
	assert.Equal(t, "Πιστωτική Βαθμολογία", s.KeyMetrics[0].Label)
	assert.InDelta(t, 450, s.KeyMetrics[0].Value, 0.001)
	assert.Equal(t, "450", s.KeyMetrics[0].RawValue)
}

func TestExtractKeyMetricSkipsBlankAdjacentCells(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Μετρήσεις": {
			{"Έσοδα", "", "12.500,00"},
			{"Σημείωση", "", ""},
		},
	})

	e := NewExtractor(DefaultVocabulary())
	synopses, _ := e.Extract(discardLogger(), sourceFile(path))

	require.Len(t, synopses, 1)
	require.Len(t, synopses[0].KeyMetrics, 1)
	assert.InDelta(t, 12500, synopses[0].KeyMetrics[0].Value, 0.001)
}

func TestExtractSkipsEmptySheets(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Δεδομένα": {
			{"Κατηγορία", "Ποσό"},
			{"Ενοίκιο", "800"},
		},
		"Κενό": {},
	})

	e := NewExtractor(DefaultVocabulary())
	synopses, diag := e.Extract(discardLogger(), sourceFile(path))

	assert.Empty(t, diag)
	require.Len(t, synopses, 1)
	assert.Equal(t, "Δεδομένα", synopses[0].SheetName)
}

func TestExtractUnreadableWorkbook(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "corrupt.xlsx")
	require.NoError(t, os.WriteFile(bad, []byte("this is not a zip archive"), 0o644))

	e := NewExtractor(DefaultVocabulary())
	synopses, diag := e.Extract(discardLogger(), sourceFile(bad))

	assert.Nil(t, synopses)
	assert.Contains(t, diag, "workbook could not be opened")
}
