package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSectionValid(t *testing.T) {
	raw := json.RawMessage(`{
		"number": 3,
		"title": "Market Analysis & Competitive Strategy",
		"content": "<div><p>Ανάλυση αγοράς.</p></div>",
		"kpis": [{"label": "Μερίδιο αγοράς", "value": "12%"}],
		"tables": [{"title": "Ανταγωνιστές", "headers": ["Όνομα", "Μερίδιο"], "rows": [["Α", "30%"]]}],
		"action_items": [{"title": "Έρευνα αγοράς", "priority": "Υψηλή"}]
	}`)

	p, err := ParseSection(raw, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Number)
	assert.Len(t, p.KPIs, 1)
}

func TestParseSectionRejectsNonJSON(t *testing.T) {
	_, err := ParseSection(json.RawMessage(`Σίγουρα! Εδώ είναι η ανάλυση...`), 2)
	require.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestValidateSectionProblems(t *testing.T) {
	tests := []struct {
		name    string
		payload SectionPayload
		want    string
	}{
		{
			name:    "wrong number",
			payload: SectionPayload{Number: 5, Title: "t", Content: "c"},
			want:    "'number' must be 2",
		},
		{
			name:    "missing title",
			payload: SectionPayload{Number: 2, Content: "c"},
			want:    "'title' is required",
		},
		{
			name:    "missing content",
			payload: SectionPayload{Number: 2, Title: "t"},
			want:    "'content' is required",
		},
		{
			name: "kpi without value",
			payload: SectionPayload{Number: 2, Title: "t", Content: "c",
				KPIs: []KPI{{Label: "Έσοδα"}}},
			want: "kpis[0] is missing 'value'",
		},
		{
			name: "table without header",
			payload: SectionPayload{Number: 2, Title: "t", Content: "c",
				Tables: []Table{{Title: "x", Rows: [][]string{{"a"}}}}},
			want: "tables[0] has no header row",
		},
		{
			name: "action item without title",
			payload: SectionPayload{Number: 2, Title: "t", Content: "c",
				ActionItems: []ActionItem{{Description: "d"}}},
			want: "action_items[0] is missing 'title'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSection(&tt.payload, 2)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateSectionOneRequiresMetadata(t *testing.T) {
	p := SectionPayload{Number: 1, Title: "t", Content: "c"}
	err := ValidateSection(&p, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metadata")

	p.Metadata = &CompanyMetadata{CompanyName: "Α", AFM: "123456789"}
	assert.NoError(t, ValidateSection(&p, 1))
}

func TestValidateSectionAllowsMismatchedRowLengths(t *testing.T) {
	// Row-length enforcement is the compiler's job, per row, so one bad
	// row does not burn a whole retry attempt here.
	p := SectionPayload{Number: 2, Title: "t", Content: "c",
		Tables: []Table{{Title: "x", Headers: []string{"A", "B", "C"}, Rows: [][]string{{"1", "2"}}}}}
	assert.NoError(t, ValidateSection(&p, 2))
}
