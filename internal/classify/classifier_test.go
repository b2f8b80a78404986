package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/microsmart/mentorflow/internal/models"
)

func TestClassifyByFilename(t *testing.T) {
	tests := []struct {
		name     string
		file     models.SourceFile
		probe    ProbeResult
		category models.Category
	}{
		{
			name:     "teiresias report",
			file:     models.SourceFile{ID: "a", Name: "Teiresias_Report_2024.pdf", Extension: ".pdf"},
			category: models.CategoryCredit,
		},
		{
			name:     "tax declaration",
			file:     models.SourceFile{ID: "b", Name: "Ε3_2023_φορολογική_δήλωση.pdf", Extension: ".pdf"},
			category: models.CategoryFinancial,
		},
		{
			name:     "energy bill",
			file:     models.SourceFile{ID: "c", Name: "ΔΕΗ_λογαριασμος.pdf", Extension: ".pdf"},
			category: models.CategoryESG,
		},
		{
			name:     "articles of association",
			file:     models.SourceFile{ID: "d", Name: "καταστατικό_εταιρείας.pdf", Extension: ".pdf"},
			category: models.CategoryLegal,
		},
		{
			name:     "business plan",
			file:     models.SourceFile{ID: "e", Name: "business plan 2025.docx", Extension: ".docx"},
			category: models.CategoryBusinessPlan,
		},
		{
			name:     "promo video",
			file:     models.SourceFile{ID: "f", Name: "company_intro.mp4", Extension: ".mp4"},
			category: models.CategoryMedia,
		},
		{
			name:     "storefront photo",
			file:     models.SourceFile{ID: "g", Name: "storefront.jpg", Extension: ".jpg"},
			category: models.CategoryImage,
		},
		{
			name:     "sample text matches",
			file:     models.SourceFile{ID: "h", Name: "workbook.xlsx", Extension: ".xlsx"},
			probe:    ProbeResult{Sample: "κύκλος εργασιών 1.500.000"},
			category: models.CategoryFinancial,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := Classify(tt.file, tt.probe)
			assert.Equal(t, tt.category, cls.Category)
			assert.Equal(t, tt.file.ID, cls.FileID)
			assert.Greater(t, cls.Confidence, 0.0)
			assert.NotEmpty(t, cls.Rationale)
		})
	}
}

func TestClassifyUnknownWithoutSignals(t *testing.T) {
	cls := Classify(models.SourceFile{ID: "x", Name: "document.pdf", Extension: ".pdf"}, ProbeResult{})
	assert.Equal(t, models.CategoryUnknown, cls.Category)
	assert.Zero(t, cls.Confidence)
	assert.Equal(t, "no detection rule matched", cls.Rationale)
}

func TestClassifyUnreadableFileKeepsDiagnostic(t *testing.T) {
	cls := Classify(
		models.SourceFile{ID: "x", Name: "document.pdf", Extension: ".pdf"},
		ProbeResult{Diagnostic: "pdf failed validation: EOF"},
	)
	assert.Equal(t, models.CategoryUnknown, cls.Category)
	assert.Zero(t, cls.Confidence)
	assert.Equal(t, "pdf failed validation: EOF", cls.Rationale)
}

func TestClassifyTieBreaksByPriority(t *testing.T) {
	// "βαθμολογία" scores credit 0.6; "esg" and "δεη" would score esg 0.5,
	// so pick signals with equal weights: esg-energy and legal both weigh
	// 0.5. Credit must win any exact tie against lower-priority categories.
	file := models.SourceFile{ID: "tie", Name: "esg_gdpr_assessment.pdf", Extension: ".pdf"}
	cls := Classify(file, ProbeResult{})
	assert.Equal(t, models.CategoryESG, cls.Category, "esg outranks legal on an exact tie")

	// Determinism: same input, same answer.
	for i := 0; i < 10; i++ {
		again := Classify(file, ProbeResult{})
		assert.Equal(t, cls, again)
	}
}

func TestClassifyConfidenceCapped(t *testing.T) {
	// Multiple matching rules accumulate but confidence never exceeds 1.
	file := models.SourceFile{ID: "multi", Name: "τειρεσίας_βαθμολογία.pdf", Extension: ".pdf"}
	probe := ProbeResult{Sample: "credit score πιστωτική βαθμολογία"}
	cls := Classify(file, probe)
	assert.Equal(t, models.CategoryCredit, cls.Category)
	assert.LessOrEqual(t, cls.Confidence, 1.0)
}
