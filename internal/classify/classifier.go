// Package classify assigns a document category to each ingested file using
// a table of detection rules over filename tokens, extension and a light
// content sample. Classification is a pure function of the file and its
// probe; it never fails and never blocks the pipeline.
package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/microsmart/mentorflow/internal/models"
)

// rule maps a detection signal to a category and a weight. Keeping the
// rule set as data keeps it testable and extensible without branching
// sprawl.
type rule struct {
	name     string
	category models.Category
	weight   float64
	keywords []string
}

// rules is the detection table. Keywords are matched case-insensitively
// against the filename and the content sample. Greek terms cover the tax
// declarations (Ε1/Ε3), the Teiresias credit registry, utility bills (ΔΕΗ)
// and common financial-statement vocabulary.
var rules = []rule{
	{
		name:     "credit-registry",
		category: models.CategoryCredit,
		weight:   0.6,
		keywords: []string{"teiresias", "τειρεσια", "τειρεσία", "sorefsis", "σωρευση", "σώρευση", "πιστωτικ", "credit score", "βαθμολογια", "βαθμολογία"},
	},
	{
		name:     "tax-declaration",
		category: models.CategoryFinancial,
		weight:   0.5,
		keywords: []string{"e1", "e3", "ε1", "ε3", "φορολογικ", "tax return", "mydata"},
	},
	{
		name:     "financial-statement",
		category: models.CategoryFinancial,
		weight:   0.4,
		keywords: []string{"ισολογισμ", "κυκλος εργασιων", "κύκλος εργασιών", "εσοδα", "έσοδα", "εξοδα", "έξοδα", "κερδ", "κέρδ", "revenue", "balance sheet", "profit", "cash flow", "αφμ", "καδ"},
	},
	{
		name:     "esg-energy",
		category: models.CategoryESG,
		weight:   0.5,
		keywords: []string{"esg", "δεη", "ενεργεια", "ενέργεια", "περιβαλλον", "περιβάλλον", "sustainability", "carbon"},
	},
	{
		name:     "legal",
		category: models.CategoryLegal,
		weight:   0.5,
		keywords: []string{"gdpr", "γεμη", "καταστατικ", "συμβολαι", "συμβόλαι", "αδεια", "άδεια", "contract", "license", "νομικ", "legal", "ενφια", "enfia"},
	},
	{
		name:     "business-plan",
		category: models.CategoryBusinessPlan,
		weight:   0.5,
		keywords: []string{"business plan", "επιχειρηματικο σχεδιο", "επιχειρηματικό σχέδιο", "στρατηγικ", "προταση", "πρόταση", "proposal", "swot"},
	},
}

// extensionCategory routes media formats that carry no usable text.
var extensionCategory = map[string]models.Category{
	".mp4":  models.CategoryMedia,
	".mov":  models.CategoryMedia,
	".jpeg": models.CategoryImage,
	".jpg":  models.CategoryImage,
	".png":  models.CategoryImage,
}

// Classify returns exactly one Classification for the file. Scores from
// all matching rules accumulate per category; the best-scored category
// wins, with ties broken by the fixed priority order
// credit > financial > esg > legal > business-plan > media > image >
// unknown. An unreadable file degrades to category unknown with
// confidence 0.
func Classify(f models.SourceFile, probe ProbeResult) models.Classification {
	haystack := strings.ToLower(f.Name)
	if probe.Sample != "" {
		haystack += " " + probe.Sample
	}

	scores := map[models.Category]float64{}
	var matched []string
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(haystack, kw) {
				scores[r.category] += r.weight
				matched = append(matched, fmt.Sprintf("%s(%q)", r.name, kw))
				break
			}
		}
	}
	if cat, ok := extensionCategory[f.Extension]; ok {
		scores[cat] += 0.6
		matched = append(matched, "extension("+f.Extension+")")
	}

	if len(scores) == 0 {
		rationale := "no detection rule matched"
		if probe.Diagnostic != "" {
			rationale = probe.Diagnostic
		}
		return models.Classification{
			FileID:     f.ID,
			Category:   models.CategoryUnknown,
			Confidence: 0,
			Rationale:  rationale,
		}
	}

	best := pickBest(scores)
	confidence := scores[best]
	if confidence > 1 {
		confidence = 1
	}
	return models.Classification{
		FileID:     f.ID,
		Category:   best,
		Confidence: confidence,
		Rationale:  strings.Join(matched, ", "),
	}
}

// pickBest chooses the highest-scored category, breaking exact ties by
// the category priority order.
func pickBest(scores map[models.Category]float64) models.Category {
	cats := make([]models.Category, 0, len(scores))
	for c := range scores {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if scores[cats[i]] != scores[cats[j]] {
			return scores[cats[i]] > scores[cats[j]]
		}
		return cats[i].Priority() < cats[j].Priority()
	})
	return cats[0]
}
