package llm

import (
	"context"

	"github.com/crm-analytics-service/internal/models"
	"github.com/rs/zerolog"
)

// Provider generates free-text completions from a prompt. Implementations
// own their timeouts and retries; callers treat any error as "enrichment
// unavailable" and fall back to deterministic output.
type Provider interface {
	// Name identifies the provider/model for audit fields
	Name() string

	// Complete sends the prompt and returns the raw reply text
	Complete(ctx context.Context, prompt string) (string, error)
}

// FromConfig builds the configured provider, or nil when no provider is
// configured. A nil provider is an expected operating mode, not an error.
func FromConfig(cfg *models.Config, logger zerolog.Logger) Provider {
	if !cfg.AIConfigured() {
		logger.Info().Msg("No LLM provider configured, running in deterministic fallback mode")
		return nil
	}

	switch cfg.AIProvider {
	case "openai":
		return NewOpenAIProvider(cfg, logger)
	case "gemini":
		return NewGeminiProvider(cfg, logger)
	default:
		return nil
	}
}
