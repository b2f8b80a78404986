package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"greek grouping and decimal", "1.234.567,89", 1234567.89, true},
		{"english grouping and decimal", "1,234,567.89", 1234567.89, true},
		{"greek decimal only", "45,5", 45.5, true},
		{"english decimal only", "45.5", 45.5, true},
		{"lone dot grouping", "1.234", 1234, true},
		{"lone comma grouping", "1,234", 1234, true},
		{"plain integer", "450", 450, true},
		{"euro prefix", "€ 12.500,00", 12500, true},
		{"eur suffix", "12500 EUR", 12500, true},
		{"percent", "45,5%", 45.5, true},
		{"negative", "-1.500,25", -1500.25, true},
		{"text", "κύκλος εργασιών", 0, false},
		{"empty", "", 0, false},
		{"mixed", "12a34", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseNumber(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 0.0001)
			}
		})
	}
}

func TestLooksLikeDate(t *testing.T) {
	assert.True(t, looksLikeDate("31/12/2024"))
	assert.True(t, looksLikeDate("2024-12-31"))
	assert.True(t, looksLikeDate("31-12-2024"))
	assert.False(t, looksLikeDate("1.234,56"))
	assert.False(t, looksLikeDate("450"))
	assert.False(t, looksLikeDate("έσοδα"))
}
