// Package extract converts spreadsheet files into structured table
// synopses: typed rows under a detected header, verbatim cell comments,
// and key metrics distilled from label/value cell pairs. Extraction
// failures are isolated per sheet and reported as diagnostics, never as
// run-fatal errors.
package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/microsmart/mentorflow/internal/models"
)

// Extractor holds the key-metric vocabulary.
type Extractor struct {
	vocab Vocabulary
}

// NewExtractor creates an extractor with the given vocabulary.
func NewExtractor(vocab Vocabulary) *Extractor {
	return &Extractor{vocab: vocab}
}

// Extract returns zero or more synopses for the file, one per sheet with
// at least one non-empty data row, plus a diagnostic note ("" when
// clean). A corrupt or password-protected workbook yields zero synopses
// and a diagnostic; a failure in one sheet never aborts its siblings.
func (e *Extractor) Extract(logCtx *slog.Logger, f models.SourceFile) ([]models.TableSynopsis, string) {
	wb, err := excelize.OpenFile(f.Path)
	if err != nil {
		logCtx.Warn("Workbook could not be opened.", "file", f.ID, "error", err)
		return nil, fmt.Sprintf("workbook could not be opened: %v", err)
	}
	defer wb.Close()

	var synopses []models.TableSynopsis
	var sheetNotes []string
	for _, sheet := range wb.GetSheetList() {
		synopsis, err := e.extractSheet(wb, f.ID, sheet)
		if err != nil {
			logCtx.Warn("Sheet extraction failed, continuing with siblings.", "file", f.ID, "sheet", sheet, "error", err)
			sheetNotes = append(sheetNotes, fmt.Sprintf("sheet %q: %v", sheet, err))
			continue
		}
		if synopsis != nil {
			synopses = append(synopses, *synopsis)
		}
	}

	return synopses, strings.Join(sheetNotes, "; ")
}

// extractSheet builds the synopsis of one sheet. It returns (nil, nil)
// for sheets without data rows.
func (e *Extractor) extractSheet(wb *excelize.File, fileID, sheet string) (*models.TableSynopsis, error) {
	raw, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	headerIdx := detectHeaderRow(raw)

	var header []string
	dataStart := 0
	if headerIdx >= 0 {
		header = trimRow(raw[headerIdx])
		dataStart = headerIdx + 1
	}

	var rows [][]models.Cell
	for r := dataStart; r < len(raw); r++ {
		if rowEmpty(raw[r]) {
			continue
		}
		row := make([]models.Cell, len(raw[r]))
		for c, text := range raw[r] {
			row[c] = e.typeCell(wb, sheet, r, c, text)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	synopsis := &models.TableSynopsis{
		FileID:     fileID,
		SheetName:  sheet,
		Header:     header,
		Rows:       rows,
		KeyMetrics: e.scanKeyMetrics(raw),
	}

	comments, err := wb.GetComments(sheet)
	if err == nil {
		for _, cm := range comments {
			col, row, cerr := excelize.CellNameToCoordinates(cm.Cell)
			if cerr != nil {
				continue
			}
			synopsis.Comments = append(synopsis.Comments, models.CellComment{
				Row:     row,
				Column:  col,
				Author:  cm.Author,
				Comment: commentText(cm),
			})
		}
	}

	return synopsis, nil
}

// typeCell normalizes one cell into its tagged type. Formula cells keep
// their computed rendering; numeric parsing strips currency symbols and
// digit grouping; anything ambiguous stays text.
func (e *Extractor) typeCell(wb *excelize.File, sheet string, r, c int, text string) models.Cell {
	axis, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err == nil {
		if formula, ferr := wb.GetCellFormula(sheet, axis); ferr == nil && formula != "" {
			cell := models.Cell{Type: models.CellFormula, Text: text}
			if v, ok := parseNumber(text); ok {
				cell.Number = v
			}
			return cell
		}
	}
	if looksLikeDate(text) {
		return models.Cell{Type: models.CellDate, Text: text}
	}
	if v, ok := parseNumber(text); ok {
		return models.Cell{Type: models.CellNumber, Text: text, Number: v}
	}
	return models.Cell{Type: models.CellText, Text: text}
}

// scanKeyMetrics walks every row looking for a vocabulary label with a
// numeric value in an adjacent cell. Metrics are recorded independently
// of the table because these are the figures most likely to be quoted
// directly in generated text.
func (e *Extractor) scanKeyMetrics(raw [][]string) []models.KeyMetric {
	var metrics []models.KeyMetric
	for r, row := range raw {
		for c, cell := range row {
			if !e.vocab.Matches(cell) {
				continue
			}
			for nc := c + 1; nc < len(row); nc++ {
				next := strings.TrimSpace(row[nc])
				if next == "" {
					continue
				}
				if v, ok := parseNumber(next); ok {
					metrics = append(metrics, models.KeyMetric{
						Label:    strings.TrimSpace(cell),
						Value:    v,
						RawValue: next,
						Row:      r + 1,
					})
				}
				break
			}
		}
	}
	return metrics
}

// detectHeaderRow returns the index of the first row where more than half
// of the non-empty cells are non-numeric strings and the following row
// has a higher proportion of numeric or date cells, or -1 when no row
// qualifies.
func detectHeaderRow(raw [][]string) int {
	for i := 0; i+1 < len(raw); i++ {
		if rowEmpty(raw[i]) {
			continue
		}
		textRatio, filled := textCellRatio(raw[i])
		if filled == 0 || textRatio <= 0.5 {
			continue
		}
		nextNumeric, nextFilled := numericCellRatio(raw[i+1])
		if nextFilled == 0 {
			continue
		}
		if nextNumeric > 1-textRatio {
			return i
		}
	}
	return -1
}

func textCellRatio(row []string) (ratio float64, filled int) {
	var text int
	for _, cell := range row {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		filled++
		if _, ok := parseNumber(cell); !ok && !looksLikeDate(cell) {
			text++
		}
	}
	if filled == 0 {
		return 0, 0
	}
	return float64(text) / float64(filled), filled
}

func numericCellRatio(row []string) (ratio float64, filled int) {
	var numeric int
	for _, cell := range row {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		filled++
		if _, ok := parseNumber(cell); ok || looksLikeDate(cell) {
			numeric++
		}
	}
	if filled == 0 {
		return 0, 0
	}
	return float64(numeric) / float64(filled), filled
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func trimRow(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}

func commentText(cm excelize.Comment) string {
	if cm.Text != "" {
		return cm.Text
	}
	var sb strings.Builder
	for _, run := range cm.Paragraph {
		sb.WriteString(run.Text)
	}
	return sb.String()
}
