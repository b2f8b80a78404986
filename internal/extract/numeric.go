package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// currencyRunes are stripped before numeric parsing, together with spaces
// (including the non-breaking space spreadsheets like to emit).
var currencyReplacer = strings.NewReplacer(
	"€", "",
	"$", "",
	"£", "",
	"EUR", "",
	"eur", "",
	" ", "",
	" ", "",
	"%", "",
)

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}$`),
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),
}

// parseNumber normalizes a cell rendering and parses it as a float.
// It handles both Greek (1.234.567,89) and English (1,234,567.89) digit
// grouping: when both separators appear, the rightmost one is the decimal
// mark; a lone separator is decimal only when followed by one or two
// digits. Ambiguous values fall back to text (ok=false).
func parseNumber(s string) (float64, bool) {
	cleaned := currencyReplacer.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, false
	}

	lastDot := strings.LastIndexByte(cleaned, '.')
	lastComma := strings.LastIndexByte(cleaned, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		cleaned = normalizeLoneSeparator(cleaned, ',', lastComma)
	case lastDot >= 0:
		cleaned = normalizeLoneSeparator(cleaned, '.', lastDot)
	}
	if cleaned == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// normalizeLoneSeparator decides whether a single separator kind is a
// decimal mark or digit grouping. Multiple occurrences are always
// grouping; a single occurrence is decimal when followed by one or two
// digits (450,5), grouping when followed by exactly three (1,450).
func normalizeLoneSeparator(s string, sep byte, last int) string {
	if strings.Count(s, string(sep)) > 1 {
		return strings.ReplaceAll(s, string(sep), "")
	}
	trailing := len(s) - last - 1
	if trailing == 3 {
		return strings.ReplaceAll(s, string(sep), "")
	}
	if sep == ',' {
		return strings.Replace(s, ",", ".", 1)
	}
	return s
}

// looksLikeDate reports whether a cell rendering matches a common date
// layout.
func looksLikeDate(s string) bool {
	trimmed := strings.TrimSpace(s)
	for _, p := range datePatterns {
		if p.MatchString(trimmed) {
			return true
		}
	}
	return false
}
