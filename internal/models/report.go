package models

import "time"

// SectionOutcome classifies how a section slot was filled, for the
// run manifest.
type SectionOutcome string

const (
	OutcomeFirstAttempt SectionOutcome = "first-attempt"
	OutcomeAfterRetry   SectionOutcome = "after-retry"
	OutcomePlaceholder  SectionOutcome = "placeholder"
)

// ManifestEntry records the fate of one section for the human reviewer
// deciding whether to redo it manually.
type ManifestEntry struct {
	Number   int            `json:"number"`
	Title    string         `json:"title"`
	Outcome  SectionOutcome `json:"outcome"`
	Attempts int            `json:"attempts"`
	Error    string         `json:"error,omitempty"`
}

// Manifest summarizes per-section outcomes for one run.
type Manifest struct {
	RunID     string          `json:"runId"`
	Entries   []ManifestEntry `json:"entries"`
	Succeeded int             `json:"succeeded"`
	Retried   int             `json:"retried"`
	Failed    int             `json:"failed"`
}

// LegalLink is one static reference to a Greek government portal attached
// to every compiled report.
type LegalLink struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// CompiledReport is the single aggregate artifact of a run. Sections is
// always exactly SectionCount entries in numeric order; permanently failed
// jobs occupy their slot with a placeholder payload, never a gap.
type CompiledReport struct {
	RunID            string                `json:"runId"`
	Company          CompanyMetadata       `json:"company"`
	Title            string                `json:"report_title"`
	ExecutiveSummary string                `json:"executive_summary"`
	Sections         []SectionResult       `json:"sections"`
	Videos           []VideoRecommendation `json:"video_recommendations"`
	LegalLinks       []LegalLink           `json:"legal_links"`
	Manifest         Manifest              `json:"manifest"`
	GeneratedAt      time.Time             `json:"generatedAt"`
}
