package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/crm-analytics-service/internal/models"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// GeminiProvider generates completions through the Gemini API
type GeminiProvider struct {
	apiKey      string
	model       string
	timeout     time.Duration
	temperature float32
	maxTokens   int32
	logger      zerolog.Logger
	genaiClient *genai.Client
	mu          sync.Mutex
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(cfg *models.Config, logger zerolog.Logger) *GeminiProvider {
	return &GeminiProvider{
		apiKey:      cfg.GeminiAPIKey,
		model:       cfg.GeminiModel,
		timeout:     time.Duration(cfg.LLMTimeout) * time.Second,
		temperature: cfg.LLMTemperature,
		maxTokens:   cfg.LLMMaxTokens,
		logger:      logger.With().Str("component", "llm_gemini").Logger(),
		genaiClient: nil, // Will be created on first use
	}
}

// Name identifies the provider/model for audit fields
func (p *GeminiProvider) Name() string {
	return p.model
}

// getClient returns or creates a genai client (thread-safe)
func (p *GeminiProvider) getClient(ctx context.Context) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.genaiClient != nil {
		return p.genaiClient, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	p.genaiClient = client
	p.logger.Info().Msg("Gemini client created and cached")
	return p.genaiClient, nil
}

// Close closes the provider and releases resources
func (p *GeminiProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.genaiClient != nil {
		err := p.genaiClient.Close()
		p.genaiClient = nil
		if err != nil {
			p.logger.Error().Err(err).Msg("Failed to close Gemini client")
			return err
		}
		p.logger.Info().Msg("Gemini client closed")
	}
	return nil
}

// Complete sends the prompt and returns the raw reply text, retrying
// transient failures with exponential backoff.
func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
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
				Msg("Retrying Gemini request")

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
			Msg("Gemini request failed")
	}

	return "", fmt.Errorf("failed after %d attempts: %w", maxRetries+1, lastErr)
}

// generate makes the actual API call to Gemini
func (p *GeminiProvider) generate(ctx context.Context, prompt string) (string, error) {
	client, err := p.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get genai client: %w", err)
	}

	model := client.GenerativeModel(p.model)
	model.SetTemperature(p.temperature)
	model.SetMaxOutputTokens(p.maxTokens)

	p.logger.Debug().
		Str("model", p.model).
		Int("prompt_length", len(prompt)).
		Msg("Sending request to Gemini")

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response candidates from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content parts in response")
	}

	var responseText strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	text := responseText.String()

	p.logger.Info().
		Str("model", p.model).
		Int("response_length", len(text)).
		Msg("Gemini response generated successfully")

	return text, nil
}
