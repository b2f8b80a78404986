// Package sections defines the eleven fixed report sections and builds
// the generation prompt for each.
package sections

import (
	"fmt"
	"strings"

	"github.com/microsmart/mentorflow/internal/models"
)

// Spec identifies one of the eleven generation jobs: its fixed number and
// title, and the analysis focus handed to the engine.
type Spec struct {
	Number int
	Title  string
	Focus  string
}

// Specs is the fixed, exhaustive section table. Numbers 1-11 map one to
// one onto slots of the compiled report.
var Specs = []Spec{
	{1, "Business Profile & Strategic Positioning",
		"Analyze the business model, market positioning, ownership structure, regulatory context and competitive differentiation. Extract the company metadata (company_name, afm, kad, website) from the evidence and return it in the metadata object."},
	{2, "Financial Health & Performance Optimization",
		"Assess revenue, cash flow and cost structure. Look for a Teiresias credit score among the key metrics (labels like 'Βαθμολογία' or 'Score', formats like '450/600') and interpret it in the Greek SME context. Cover financial ratios and tax compliance signals from Ε1/Ε3 declarations."},
	{3, "Market Analysis & Competitive Strategy",
		"Analyze the Greek market for this activity code: market size and trends, competitive landscape, target segmentation, pricing and positioning tactics."},
	{4, "Funding Strategy & Investment Planning",
		"Evaluate ΕΣΠΑ 2021-2027 programs relevant to this business, traditional bank financing and alternative financing, with ROI framing and an investment prioritization."},
	{5, "Digital Transformation Roadmap",
		"Assess digital maturity. If the evidence shows an existing website, analyze and improve it; otherwise propose a greenfield online-presence plan with platform, timeline and budget. Cover booking/CRM, social media, payments and SEO."},
	{6, "Financial Management Systems",
		"Assess current accounting systems, compare Greek accounting/ERP software, cover myDATA integration and digital invoicing compliance, and propose automation and training."},
	{7, "ESG Implementation Framework",
		"Produce an ESG scorecard (environmental, social, governance on a 100 base), energy-efficiency and waste-reduction initiatives with ROI, governance improvements and certification pathways."},
	{8, "AI & Innovation Strategy",
		"Assess AI readiness, recommend industry-specific AI tooling with a phased adoption plan, change management and training. Include exactly five video recommendations (title, channel, url, duration, topic, relevance)."},
	{9, "Leadership Development & Team Building",
		"Examine any psychometric or leadership assessment material in the evidence, extract numeric scores, and build leadership style assessment, team development and succession guidance on the findings."},
	{10, "Implementation Roadmap & Success Metrics",
		"Synthesize the preceding analysis into 30-60-90 day action plans, a priority matrix, success metrics and resource allocation with follow-up schedules."},
	{11, "Legal & Regulatory Compliance Framework",
		"Assess legal structure and tax compliance from Ε1/Ε3/ΕΝΦΙΑ evidence, ΑΑΔΕ and ΕΦΚΑ obligations, KAD-specific regulatory requirements, GDPR, labor law and licensing."},
}

// ByNumber returns the spec for a section number.
func ByNumber(n int) (Spec, bool) {
	for _, s := range Specs {
		if s.Number == n {
			return s, true
		}
	}
	return Spec{}, false
}

const schemaInstructions = `Return ONLY a single valid JSON object with this exact structure:
{
  "number": <section number>,
  "title": "<section title>",
  "content": "<div>HTML formatted analysis in Greek...</div>",
  "kpis": [{"label": "...", "value": "..."}],
  "tables": [{"title": "...", "headers": ["..."], "rows": [["..."]]}],
  "action_items": [{"title": "...", "priority": "Υψηλή|Μέτρια|Χαμηλή", "timeline": "...", "description": "...", "expected_impact": "...", "resources_needed": "..."}]
}
Every KPI must carry both "label" and "value". Every table row must have exactly as many cells as the table's "headers". Do not include any text before or after the JSON object.`

const section1Extra = `Additionally include a "metadata" object: {"company_name": "...", "afm": "<9 digits>", "kad": "XX.XX.XX.XX", "website": "..."} extracted from the evidence (empty strings where not found).`

const section8Extra = `Additionally include "video_recommendations": exactly five entries, each with "title", "channel", "url", "duration", "topic" and "relevance".`

// BuildPrompt assembles the full prompt for one section attempt. The
// evidence excerpt travels separately in the request; the prompt carries
// role, focus, known company metadata and the output schema.
func BuildPrompt(spec Spec, meta models.CompanyMetadata, b *models.EvidenceBundle) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a senior business mentor writing section %d (%s) of a comprehensive mentoring report for a Greek SME. Think in English, write all output content in Greek; technical terms may remain in English.\n\n", spec.Number, spec.Title)
	fmt.Fprintf(&sb, "Focus: %s\n\n", spec.Focus)

	if meta.CompanyName != "" || meta.AFM != "" {
		fmt.Fprintf(&sb, "Company: %s (ΑΦΜ: %s, ΚΑΔ: %s)\n", orUnknown(meta.CompanyName), orUnknown(meta.AFM), orUnknown(meta.KAD))
		if meta.Website != "" {
			fmt.Fprintf(&sb, "Website: %s\n", meta.Website)
		}
		sb.WriteString("\n")
	}

	if spec.Number == 5 && b != nil {
		if b.WebsiteKnown {
			sb.WriteString("The evidence indicates an existing website: take the improvement branch, not the greenfield branch.\n\n")
		} else {
			sb.WriteString("No website was found in the evidence: take the greenfield branch.\n\n")
		}
	}

	sb.WriteString("The attached evidence bundle contains the classified document inventory, extracted spreadsheet tables with key metrics, and references to unprocessed documents. Ground every figure you quote in this evidence.\n\n")
	sb.WriteString(schemaInstructions)
	switch spec.Number {
	case 1:
		sb.WriteString("\n" + section1Extra)
	case 8:
		sb.WriteString("\n" + section8Extra)
	}
	return sb.String()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
