package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/crm-analytics-service/internal/models"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// openAISystemPrompt frames every chat-completion request
const openAISystemPrompt = "You are an analytics assistant for a customer relationship management system. Follow the output format in the user message exactly."

// OpenAIProvider generates completions through the OpenAI chat
// completions API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	timeout     time.Duration
	temperature float32
	maxTokens   int32
	logger      zerolog.Logger
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(cfg *models.Config, logger zerolog.Logger) *OpenAIProvider {
	return &OpenAIProvider{
		client:      openai.NewClient(cfg.OpenAIAPIKey),
		model:       cfg.OpenAIModel,
		timeout:     time.Duration(cfg.LLMTimeout) * time.Second,
		temperature: cfg.LLMTemperature,
		maxTokens:   cfg.LLMMaxTokens,
		logger:      logger.With().Str("component", "llm_openai").Logger(),
	}
}

// Name identifies the provider/model for audit fields
func (p *OpenAIProvider) Name() string {
	return p.model
}

// Complete sends the prompt and returns the raw reply text, retrying
// transient failures with exponential backoff.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	maxRetries := 3
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			p.logger.Warn().
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Msg("Retrying OpenAI request")

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, err := p.generate(ctx, prompt)
		if err == nil {
			return text, nil
		}

		lastErr = err
		p.logger.Error().
			Err(err).
			Int("attempt", attempt+1).
			Str("model", p.model).
			Msg("OpenAI request failed")
	}

	return "", fmt.Errorf("failed after %d attempts: %w", maxRetries+1, lastErr)
}

// generate makes the actual API call to OpenAI
func (p *OpenAIProvider) generate(ctx context.Context, prompt string) (string, error) {
	p.logger.Debug().
		Str("model", p.model).
		Int("prompt_length", len(prompt)).
		Msg("Sending request to OpenAI")

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: p.temperature,
		MaxTokens:   int(p.maxTokens),
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: openAISystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices from OpenAI")
	}

	text := resp.Choices[0].Message.Content

	p.logger.Info().
		Str("model", p.model).
		Int("response_length", len(text)).
		Msg("OpenAI response generated successfully")

	return text, nil
}
