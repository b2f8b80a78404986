package gcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/microsmart/mentorflow/internal/models"
)

// --- Section Writer Model Prompts ---
const SectionWriterSystemPrompt = "You are a senior business mentor and analyst for Greek SMEs. You write one structured report section at a time, grounded strictly in the evidence bundle provided, and you output your response as a single valid JSON object conforming to the requested schema."

// VertexClient holds the pre-configured generative model used to write
// report sections.
type VertexClient struct {
	SectionModel *genai.GenerativeModel
	baseClient   *genai.Client
}

// NewVertexClient creates a client holding the section-writer model.
func NewVertexClient(ctx context.Context, projectID, region string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	sectionModel := baseClient.GenerativeModel("gemini-1.5-pro")
	sectionModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SectionWriterSystemPrompt)},
	}
	sectionModel.GenerationConfig = genai.GenerationConfig{
		// Force JSON output. Schema conformance is validated downstream;
		// this setting removes the markdown-fence failure mode.
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.2),
	}
	sectionModel.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
	}

	return &VertexClient{
		SectionModel: sectionModel,
		baseClient:   baseClient,
	}, nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

// Generate submits one section attempt to the model and returns the raw
// JSON payload. Transport errors, refusals and empty responses are all
// returned as errors; the orchestrator treats every one as a retryable
// failed attempt.
func (c *VertexClient) Generate(ctx context.Context, req *models.SectionRequest) (json.RawMessage, error) {
	prompt := req.Prompt
	if req.Feedback != "" {
		prompt += "\n\nYour previous attempt failed validation: " + req.Feedback + "\nCorrect these problems and return the full JSON object again."
	}

	resp, err := c.SectionModel.GenerateContent(ctx,
		genai.Text(prompt),
		genai.Text("Evidence bundle:\n"+string(req.Evidence)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate section %d content: %w", req.Number, err)
	}

	jsonString := extractJSONContent(resp)
	if jsonString == "" {
		return nil, fmt.Errorf("model returned an empty response for section %d", req.Number)
	}
	if phrase := refusalPhrase(jsonString); phrase != "" {
		return nil, fmt.Errorf("model response for section %d indicates refusal (%q)", req.Number, phrase)
	}
	return json.RawMessage(jsonString), nil
}

// refusalPhrases flag model responses that decline the task. Such a
// response must fail the attempt instead of flowing into validation.
var refusalPhrases = []string{
	"i am unable to",
	"i cannot fulfill",
	"i cannot answer",
	"i cannot provide",
	"as a large language model",
}

func refusalPhrase(content string) string {
	lower := strings.ToLower(content)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return phrase
		}
	}
	return ""
}

// extractJSONContent robustly gets the raw text content from the model
// response, stripping markdown fences if the model added them anyway.
func extractJSONContent(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	clean := strings.TrimSpace(sb.String())
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
