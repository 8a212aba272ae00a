package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"genforge/internal/model"
)

// GeminiConfig holds the generation parameters for the Gemini API.
type GeminiConfig struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	SafetyThreshold string
	// Stream accumulates the response from incremental chunks instead of a
	// single blob. Chunk order is arrival order and is load-bearing.
	Stream bool
}

// GeminiClient implements Client on top of the Google GenAI SDK.
type GeminiClient struct {
	client *genai.Client
	cfg    GeminiConfig
}

// NewGeminiClient creates a Gemini-backed client.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required (set GEMINI_API_KEY)")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{client: client, cfg: cfg}, nil
}

// Complete sends a single prompt with no history.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, []model.Turn{{Role: model.RoleUser, Text: prompt}})
}

// Chat sends the conversation and returns the reply text.
func (c *GeminiClient) Chat(ctx context.Context, turns []model.Turn) (string, error) {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := genai.Role(genai.RoleUser)
		if t.Role == model.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.cfg.Temperature),
		MaxOutputTokens: c.cfg.MaxOutputTokens,
		SafetySettings:  safetySettings(c.cfg.SafetyThreshold),
	}

	if c.cfg.Stream {
		return c.generateStreaming(ctx, contents, config)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}

// generateStreaming concatenates chunks in arrival order to reconstruct the
// full response.
func (c *GeminiClient) generateStreaming(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	var sb strings.Builder
	for resp, err := range c.client.Models.GenerateContentStream(ctx, c.cfg.Model, contents, config) {
		if err != nil {
			return "", fmt.Errorf("gemini stream failed: %w", err)
		}
		sb.WriteString(resp.Text())
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return sb.String(), nil
}

// safetySettings maps the configured threshold onto every harm category.
func safetySettings(threshold string) []*genai.SafetySetting {
	var level genai.HarmBlockThreshold
	switch strings.ToUpper(strings.TrimSpace(threshold)) {
	case "BLOCK_NONE":
		level = genai.HarmBlockThresholdBlockNone
	case "BLOCK_LOW_AND_ABOVE":
		level = genai.HarmBlockThresholdBlockLowAndAbove
	case "BLOCK_MEDIUM_AND_ABOVE":
		level = genai.HarmBlockThresholdBlockMediumAndAbove
	case "BLOCK_ONLY_HIGH", "":
		level = genai.HarmBlockThresholdBlockOnlyHigh
	default:
		level = genai.HarmBlockThresholdBlockOnlyHigh
	}

	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, cat := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  cat,
			Threshold: level,
		})
	}
	return settings
}
