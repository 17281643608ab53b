package genai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// geminiCompleter produces generative replies through the Gemini API.
// It implements the Completer interface.
type geminiCompleter struct {
	client *genai.Client
	model  string
}

// newGeminiCompleter creates a Gemini-backed completer.
// Returns nil if apiKey is empty (provider disabled).
func newGeminiCompleter(ctx context.Context, apiKey, model string) (*geminiCompleter, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiCompleter{
		client: client,
		model:  model,
	}, nil
}

// Complete sends the prompt and returns the raw reply text.
func (c *geminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", ErrProviderDisabled
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		MaxOutputTokens: 400,
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "completion API call failed",
			"provider", ProviderGemini,
			"model", c.model,
			"prompt_length", len(prompt),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyCompletion
	}

	var reply strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			reply.WriteString(part.Text)
		}
	}

	result := strings.TrimSpace(reply.String())
	if result == "" {
		return "", ErrEmptyCompletion
	}

	if resp.UsageMetadata != nil {
		slog.DebugContext(ctx, "completion succeeded",
			"provider", ProviderGemini,
			"model", c.model,
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount,
			"total_tokens", resp.UsageMetadata.TotalTokenCount,
			"duration_ms", duration.Milliseconds())
	}

	return result, nil
}

// Provider returns the backend identity.
func (c *geminiCompleter) Provider() Provider {
	return ProviderGemini
}

// Close releases resources.
// Safe to call on nil receiver.
func (c *geminiCompleter) Close() error {
	// genai client doesn't require explicit cleanup
	return nil
}
