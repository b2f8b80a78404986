// Package compile validates the collected section results and merges them
// into the single aggregate report: exactly eleven slots in numeric
// order, placeholders for permanent failures, field-level rejection of
// malformed tables and KPIs, and the run manifest a reviewer needs to
// decide what to redo.
package compile

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/microsmart/mentorflow/internal/models"
)

// Compiler assembles compiled reports.
type Compiler struct {
	logger *slog.Logger
}

// New creates a compiler.
func New(logger *slog.Logger) *Compiler {
	return &Compiler{logger: logger}
}

// Compile produces the report for one run. Every section number 1-11 gets
// a slot: a sanitized payload for successes, an explicit placeholder for
// permanent failures, never a silent gap.
func (c *Compiler) Compile(runID string, b *models.EvidenceBundle, results map[int]*models.SectionResult, meta models.CompanyMetadata) *models.CompiledReport {
	company := c.resolveMetadata(meta, b)

	report := &models.CompiledReport{
		RunID:       runID,
		Company:     company,
		Title:       fmt.Sprintf("Comprehensive Mentoring & Business Development Report - %s", orFallback(company.CompanyName, "Greek SME")),
		LegalLinks:  defaultLegalLinks(),
		GeneratedAt: time.Now().UTC(),
	}
	report.ExecutiveSummary = executiveSummary(company)

	manifest := models.Manifest{RunID: runID}
	for n := 1; n <= models.SectionCount; n++ {
		res := results[n]
		if res == nil {
			// Should not happen; the orchestrator guarantees a result per
			// slot. Guard anyway so the invariant holds.
			res = &models.SectionResult{Number: n, Status: models.JobFailed, Error: "no result recorded"}
		}

		entry := models.ManifestEntry{Number: n, Title: res.Title, Attempts: res.Attempts, Error: res.Error}
		if res.Succeeded() {
			c.sanitizeSection(runID, res.Payload)
			if res.Attempts > 1 {
				entry.Outcome = models.OutcomeAfterRetry
				manifest.Retried++
			} else {
				entry.Outcome = models.OutcomeFirstAttempt
			}
			manifest.Succeeded++
		} else {
			res = placeholderResult(res)
			entry.Outcome = models.OutcomePlaceholder
			manifest.Failed++
		}
		manifest.Entries = append(manifest.Entries, entry)
		report.Sections = append(report.Sections, *res)
	}
	report.Manifest = manifest

	report.Videos = c.collectVideos(results)
	return report
}

// sanitizeSection enforces the field-level invariants: each KPI carries
// both label and value, and each table row matches the header length.
// Violations are rejected and logged, never padded or truncated, with the
// rest of the section preserved.
func (c *Compiler) sanitizeSection(runID string, p *models.SectionPayload) {
	logCtx := c.logger.With("runId", runID, "section", p.Number)

	kept := p.KPIs[:0]
	for _, k := range p.KPIs {
		if k.Label == "" || k.Value == "" {
			logCtx.Warn("Rejecting KPI without label or value.", "label", k.Label, "value", k.Value)
			continue
		}
		kept = append(kept, k)
	}
	p.KPIs = kept

	for ti := range p.Tables {
		t := &p.Tables[ti]
		rows := t.Rows[:0]
		for ri, row := range t.Rows {
			if len(row) != len(t.Headers) {
				logCtx.Warn("Rejecting table row with mismatched length.",
					"table", t.Title, "row", ri, "rowLen", len(row), "headerLen", len(t.Headers))
				continue
			}
			rows = append(rows, row)
		}
		t.Rows = rows
	}
}

// placeholderResult converts a terminal failure into the explicit
// placeholder occupying its section slot.
func placeholderResult(res *models.SectionResult) *models.SectionResult {
	title := res.Title
	if title == "" {
		title = fmt.Sprintf("Section %d", res.Number)
	}
	out := *res
	out.Title = title
	out.Payload = &models.SectionPayload{
		Number:  res.Number,
		Title:   title,
		Content: "<div><p>Η ενότητα αυτή δεν δημιουργήθηκε αυτόματα. Απαιτείται χειροκίνητη επανεκτέλεση.</p></div>",
	}
	return &out
}

// ΑΦΜ is exactly nine digits, ΚΑΔ a dotted code like 56.10.11. Word
// boundaries are useless in filenames full of underscores, so the guards
// are explicit.
var (
	afmPattern = regexp.MustCompile(`(?:\D|^)(\d{9})(?:\D|$)`)
	kadPattern = regexp.MustCompile(`(?:[^\d.]|^)(\d{2}\.\d{2}(?:\.\d{2}){0,2})`)
)

// resolveMetadata prefers the metadata extracted during generation and
// falls back to ΑΦΜ/ΚΑΔ patterns in the names of financial and legal
// classified documents.
func (c *Compiler) resolveMetadata(meta models.CompanyMetadata, b *models.EvidenceBundle) models.CompanyMetadata {
	if meta.AFM != "" && meta.CompanyName != "" {
		return meta
	}
	if b == nil {
		return meta
	}
	for _, cls := range b.Classifications {
		if cls.Category != models.CategoryFinancial && cls.Category != models.CategoryLegal && cls.Category != models.CategoryCredit {
			continue
		}
		for _, f := range b.Files {
			if f.ID != cls.FileID {
				continue
			}
			if meta.AFM == "" {
				if m := afmPattern.FindStringSubmatch(f.Name); m != nil {
					meta.AFM = m[1]
				}
			}
			if meta.KAD == "" {
				if m := kadPattern.FindStringSubmatch(f.Name); m != nil {
					meta.KAD = m[1]
				}
			}
		}
	}
	return meta
}

// collectVideos pulls the curated video list out of section 8, falling
// back to the standing defaults when the section failed or returned none.
func (c *Compiler) collectVideos(results map[int]*models.SectionResult) []models.VideoRecommendation {
	if res := results[8]; res != nil && res.Succeeded() && len(res.Payload.Videos) > 0 {
		return res.Payload.Videos
	}
	return defaultVideos()
}

func orFallback(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
