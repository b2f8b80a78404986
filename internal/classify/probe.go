package classify

import (
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/xuri/excelize/v2"

	"github.com/microsmart/mentorflow/internal/models"
)

// probeRowLimit bounds how much of a workbook is sampled for
// classification. The probe only needs enough text for keyword hits.
const probeRowLimit = 30

// ProbeResult is the light content sample taken from a file before
// classification. Sample is lowercase text harvested from the file;
// Diagnostic records why content could not be read, without failing.
type ProbeResult struct {
	Sample     string
	Diagnostic string
	PDFPages   int
}

// ProbeFile samples the content of structural formats (spreadsheets,
// PDFs). It never returns an error: an unreadable file produces an empty
// sample with a diagnostic, because classification must not block the
// pipeline.
func ProbeFile(f models.SourceFile) ProbeResult {
	switch f.Extension {
	case ".xlsx":
		return probeWorkbook(f.Path)
	case ".pdf":
		return probePDF(f.Path)
	default:
		return ProbeResult{}
	}
}

func probeWorkbook(path string) ProbeResult {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return ProbeResult{Diagnostic: fmt.Sprintf("could not read workbook: %v", err)}
	}
	defer wb.Close()

	var sb strings.Builder
	for _, sheet := range wb.GetSheetList() {
		sb.WriteString(strings.ToLower(sheet))
		sb.WriteByte(' ')
		rows, err := wb.Rows(sheet)
		if err != nil {
			continue
		}
		for i := 0; rows.Next() && i < probeRowLimit; i++ {
			cols, err := rows.Columns()
			if err != nil {
				break
			}
			for _, c := range cols {
				if c != "" {
					sb.WriteString(strings.ToLower(c))
					sb.WriteByte(' ')
				}
			}
		}
		rows.Close()
	}
	return ProbeResult{Sample: sb.String()}
}

func probePDF(path string) ProbeResult {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, cfg); err != nil {
		return ProbeResult{Diagnostic: fmt.Sprintf("could not validate PDF: %v", err)}
	}
	pages, err := api.PageCountFile(path)
	if err != nil {
		return ProbeResult{Diagnostic: fmt.Sprintf("could not read PDF page count: %v", err)}
	}
	return ProbeResult{PDFPages: pages}
}
