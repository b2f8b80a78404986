package models

import "encoding/json"

// SectionCount is the fixed number of report sections. Section numbers
// 1 through SectionCount are exhaustive in every compiled report.
const SectionCount = 11

// JobStatus tracks a section job through its lifecycle.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobRetrying  JobStatus = "retrying"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// CompanyMetadata is the subject identity extracted during generation:
// legal name, Greek tax number (ΑΦΜ), activity code (ΚΑΔ) and website.
type CompanyMetadata struct {
	CompanyName string `json:"company_name"`
	AFM         string `json:"afm"`
	KAD         string `json:"kad"`
	Website     string `json:"website"`
}

// KPI is one label/value metric in a generated section.
type KPI struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Target string `json:"target,omitempty"`
	Status string `json:"status,omitempty"`
}

// Table is one generated table. Every row must have exactly as many cells
// as the header; the compiler rejects rows that do not.
type Table struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ActionItem is one recommended action with its planning attributes.
type ActionItem struct {
	Title           string `json:"title"`
	Priority        string `json:"priority,omitempty"`
	Timeline        string `json:"timeline,omitempty"`
	Description     string `json:"description,omitempty"`
	ExpectedImpact  string `json:"expected_impact,omitempty"`
	ResourcesNeeded string `json:"resources_needed,omitempty"`
}

// VideoRecommendation is one curated video reference (section 8 only).
type VideoRecommendation struct {
	Title     string `json:"title"`
	Channel   string `json:"channel"`
	URL       string `json:"url"`
	Duration  string `json:"duration"`
	Topic     string `json:"topic"`
	Relevance string `json:"relevance"`
}

// SectionPayload is the schema every generation job must return.
type SectionPayload struct {
	Number      int                   `json:"number"`
	Title       string                `json:"title"`
	Metadata    *CompanyMetadata      `json:"metadata,omitempty"`
	Content     string                `json:"content"`
	KPIs        []KPI                 `json:"kpis"`
	Tables      []Table               `json:"tables"`
	ActionItems []ActionItem          `json:"action_items"`
	Videos      []VideoRecommendation `json:"video_recommendations,omitempty"`
}

// SectionRequest is the structured request submitted to the generation
// engine for one attempt of one section job.
type SectionRequest struct {
	RunID    string          `json:"runId"`
	Number   int             `json:"number"`
	Title    string          `json:"title"`
	Prompt   string          `json:"prompt"`
	Evidence json.RawMessage `json:"evidence"`
	// Feedback carries the validation error of the previous attempt so the
	// engine can correct its output. Empty on the first attempt.
	Feedback string `json:"feedback,omitempty"`
}

// SectionResult is the terminal outcome of one section job: either a
// validated payload, or an error marker after the retry budget is spent.
type SectionResult struct {
	Number   int             `json:"number"`
	Title    string          `json:"title"`
	Status   JobStatus       `json:"status"`
	Attempts int             `json:"attempts"`
	Payload  *SectionPayload `json:"payload,omitempty"`
	Raw      json.RawMessage `json:"raw,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Succeeded reports whether the job produced a validated payload.
func (r *SectionResult) Succeeded() bool {
	return r.Status == JobSucceeded && r.Payload != nil
}
