package genai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// openaiCompleter produces generative replies through the OpenAI
// chat-completions API. It implements the Completer interface.
type openaiCompleter struct {
	client openai.Client
	model  string
}

// newOpenAICompleter creates an OpenAI-backed completer.
// Returns nil if apiKey is empty (provider disabled).
func newOpenAICompleter(apiKey, model string) *openaiCompleter {
	if apiKey == "" {
		return nil
	}

	if model == "" {
		model = DefaultOpenAIModel
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &openaiCompleter{
		client: client,
		model:  model,
	}
}

// Complete sends the prompt and returns the raw reply text.
func (c *openaiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if c == nil {
		return "", ErrProviderDisabled
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(400),
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "completion API call failed",
			"provider", ProviderOpenAI,
			"model", c.model,
			"prompt_length", len(prompt),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	result := strings.TrimSpace(resp.Choices[0].Message.Content)
	if result == "" {
		return "", ErrEmptyCompletion
	}

	if resp.Usage.TotalTokens > 0 {
		slog.DebugContext(ctx, "completion succeeded",
			"provider", ProviderOpenAI,
			"model", c.model,
			"input_tokens", resp.Usage.PromptTokens,
			"output_tokens", resp.Usage.CompletionTokens,
			"total_tokens", resp.Usage.TotalTokens,
			"duration_ms", duration.Milliseconds())
	}

	return result, nil
}

// Provider returns the backend identity.
func (c *openaiCompleter) Provider() Provider {
	return ProviderOpenAI
}

// Close releases resources.
// Safe to call on nil receiver.
func (c *openaiCompleter) Close() error {
	// openai-go client doesn't require cleanup
	return nil
}
