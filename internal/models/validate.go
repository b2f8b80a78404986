package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationError describes why a generated payload failed schema
// validation. Its message is fed back to the engine on the retry attempt.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "section payload invalid: " + strings.Join(e.Problems, "; ")
}

// ParseSection unmarshals a raw engine response and validates it against
// the shared section schema for the expected section number. Any parse or
// validation failure is retryable.
func ParseSection(raw json.RawMessage, wantNumber int) (*SectionPayload, error) {
	var p SectionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &ValidationError{Problems: []string{fmt.Sprintf("response is not valid JSON for the section schema: %v", err)}}
	}
	if err := ValidateSection(&p, wantNumber); err != nil {
		return nil, err
	}
	return &p, nil
}

// ValidateSection checks the structural invariants of one section payload:
// required fields present, correct section number, every KPI carrying both
// label and value, every table carrying a header. Row-length mismatches
// are deliberately not checked here; the compiler rejects individual rows
// so a single bad row does not burn a retry attempt.
func ValidateSection(p *SectionPayload, wantNumber int) error {
	var problems []string

	if p.Number != wantNumber {
		problems = append(problems, fmt.Sprintf("field 'number' must be %d, got %d", wantNumber, p.Number))
	}
	if strings.TrimSpace(p.Title) == "" {
		problems = append(problems, "field 'title' is required")
	}
	if strings.TrimSpace(p.Content) == "" {
		problems = append(problems, "field 'content' is required")
	}
	for i, k := range p.KPIs {
		if strings.TrimSpace(k.Label) == "" {
			problems = append(problems, fmt.Sprintf("kpis[%d] is missing 'label'", i))
		}
		if strings.TrimSpace(k.Value) == "" {
			problems = append(problems, fmt.Sprintf("kpis[%d] is missing 'value'", i))
		}
	}
	for i, t := range p.Tables {
		if len(t.Headers) == 0 {
			problems = append(problems, fmt.Sprintf("tables[%d] has no header row", i))
		}
	}
	for i, a := range p.ActionItems {
		if strings.TrimSpace(a.Title) == "" {
			problems = append(problems, fmt.Sprintf("action_items[%d] is missing 'title'", i))
		}
	}
	if wantNumber == 1 && p.Metadata == nil {
		problems = append(problems, "section 1 must include the 'metadata' object with company_name, afm, kad and website")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
