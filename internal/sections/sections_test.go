package sections

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microsmart/mentorflow/internal/models"
)

func TestSpecsCoverAllSectionNumbers(t *testing.T) {
	require.Len(t, Specs, models.SectionCount)
	for i, s := range Specs {
		assert.Equal(t, i+1, s.Number)
		assert.NotEmpty(t, s.Title)
		assert.NotEmpty(t, s.Focus)
	}
	_, ok := ByNumber(12)
	assert.False(t, ok)
}

func TestBuildPromptWebsiteBranch(t *testing.T) {
	spec, ok := ByNumber(5)
	require.True(t, ok)

	with := BuildPrompt(spec, models.CompanyMetadata{}, &models.EvidenceBundle{WebsiteKnown: true})
	assert.Contains(t, with, "improvement branch")

	without := BuildPrompt(spec, models.CompanyMetadata{}, &models.EvidenceBundle{WebsiteKnown: false})
	assert.Contains(t, without, "greenfield branch")
}

func TestBuildPromptCarriesMetadataAndSchema(t *testing.T) {
	spec, _ := ByNumber(2)
	meta := models.CompanyMetadata{CompanyName: "Ταβέρνα Ο Γιώργος", AFM: "123456789", KAD: "56.10.11"}

	prompt := BuildPrompt(spec, meta, &models.EvidenceBundle{})
	assert.Contains(t, prompt, "Ταβέρνα Ο Γιώργος")
	assert.Contains(t, prompt, "123456789")
	assert.Contains(t, prompt, `"kpis"`)
	assert.Contains(t, prompt, "exactly as many cells")
}

func TestBuildPromptSectionExtras(t *testing.T) {
	one, _ := ByNumber(1)
	assert.Contains(t, BuildPrompt(one, models.CompanyMetadata{}, nil), `"metadata" object`)

	eight, _ := ByNumber(8)
	assert.Contains(t, BuildPrompt(eight, models.CompanyMetadata{}, nil), "exactly five entries")

	three, _ := ByNumber(3)
	p := BuildPrompt(three, models.CompanyMetadata{}, nil)
	assert.NotContains(t, p, `"metadata" object`)
	assert.NotContains(t, p, "video_recommendations")
}

func TestExcerptTruncatesLargeTables(t *testing.T) {
	rows := make([][]models.Cell, 150)
	for i := range rows {
		rows[i] = []models.Cell{{Type: models.CellNumber, Text: "1", Number: 1}}
	}
	b := &models.EvidenceBundle{
		SubjectID: "123456789",
		Synopses:  []models.TableSynopsis{{FileID: "a.xlsx", SheetName: "Φύλλο1", Rows: rows}},
	}

	raw, err := Excerpt(b)
	require.NoError(t, err)

	var decoded struct {
		Synopses []struct {
			Rows      [][]models.Cell `json:"rows"`
			Truncated bool            `json:"truncated"`
		} `json:"synopses"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Synopses, 1)
	assert.Len(t, decoded.Synopses[0].Rows, 100)
	assert.True(t, decoded.Synopses[0].Truncated)
}
