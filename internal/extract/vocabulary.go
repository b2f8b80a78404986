package extract

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary is the set of label terms scanned for key-metric
// label/value cell pairs. Matching is case-insensitive substring.
type Vocabulary struct {
	Terms []string `yaml:"terms"`
}

// DefaultVocabulary covers the Greek and English labels that carry the
// figures most often quoted in generated text: turnover, credit score,
// profit/loss lines and totals.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{Terms: []string{
		"κύκλος εργασιών",
		"κυκλος εργασιων",
		"πιστωτική βαθμολογία",
		"πιστωτικη βαθμολογια",
		"βαθμολογία",
		"έσοδα",
		"έξοδα",
		"κέρδος",
		"κέρδη",
		"ζημία",
		"ζημιά",
		"σύνολο",
		"υπόλοιπο",
		"revenue",
		"turnover",
		"expenses",
		"profit",
		"loss",
		"total",
		"balance",
		"credit score",
		"ebitda",
	}}
}

// LoadVocabulary reads a yaml vocabulary file, or returns the defaults
// when path is empty.
func LoadVocabulary(path string) (Vocabulary, error) {
	if path == "" {
		return DefaultVocabulary(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("failed to read vocabulary file: %w", err)
	}
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("failed to parse vocabulary file: %w", err)
	}
	if len(v.Terms) == 0 {
		return DefaultVocabulary(), nil
	}
	return v, nil
}

// Matches reports whether the cell text contains any vocabulary term.
func (v Vocabulary) Matches(cell string) bool {
	lower := strings.ToLower(strings.TrimSpace(cell))
	if lower == "" {
		return false
	}
	for _, t := range v.Terms {
		if strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
