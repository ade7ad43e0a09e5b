package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/bucketwise/backend/internal/model"
)

// DefaultModel is the Gemini model used for explanations.
const DefaultModel = "gemini-2.0-flash"

// Gemini generates bucket explanations with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed generator.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: DefaultModel}, nil
}

// Explain sends the numeric facts and expects a STRICT JSON object mapping
// bucket type to one sentence of plain-language explanation.
func (g *Gemini) Explain(ctx context.Context, facts PlanFacts) (map[model.BucketType]string, error) {
	payload, err := json.Marshal(facts)
	if err != nil {
		return nil, fmt.Errorf("marshal facts: %w", err)
	}

	prompt := "You are a personal-finance assistant. The user's monthly budget " +
		"was split into buckets; the JSON below holds the derived numbers.\n\n" +
		"Task:\n" +
		"- For each bucket, write ONE short sentence (under 30 words) explaining " +
		"what the allocation does for the user, in plain second-person language.\n" +
		"- Output STRICT JSON only: an object mapping the bucket \"type\" value " +
		"to the sentence.\n" +
		"- Do NOT wrap the response in code fences or Markdown.\n" +
		"- Do NOT invent numbers; use only the figures provided.\n\n" +
		string(payload)

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	raw := resp.Text()
	if raw == "" {
		return nil, fmt.Errorf("empty response from model")
	}
	return parseExplanations(raw)
}

// parseExplanations decodes the model output, stripping Markdown fences if
// the model ignored instructions.
func parseExplanations(raw string) (map[model.BucketType]string, error) {
	clean := cleanModelJSON(raw)
	var out map[model.BucketType]string
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return nil, fmt.Errorf("unmarshal explanations: %w", err)
	}
	return out, nil
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = s[start : end+1]
		}
	}
	return strings.TrimSpace(s)
}
