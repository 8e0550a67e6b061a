package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/crm-analytics-service/internal/models"
	"github.com/joho/godotenv"
)

// Load loads configuration from environment variables
// It first attempts to load from .env file, then reads environment variables
func Load() (*models.Config, error) {
	// Try to load .env file (optional, ignore error if not found)
	_ = godotenv.Load()

	config := &models.Config{
		// HTTP settings
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		// AI provider settings
		AIProvider:     getEnv("AI_PROVIDER", ""),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		LLMTimeout:     getEnvInt("LLM_TIMEOUT", 30),
		LLMTemperature: float32(getEnvFloat("LLM_TEMPERATURE", 0.4)),
		LLMMaxTokens:   int32(getEnvInt("LLM_MAX_TOKENS", 2048)),

		// Supabase settings
		SupabaseURL:     getEnv("SUPABASE_URL", ""),
		SupabaseKey:     getEnv("SUPABASE_KEY", ""),
		SupabaseTimeout: getEnvInt("SUPABASE_TIMEOUT", 10),

		// Telegram digest settings
		TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID: getEnvInt64("TELEGRAM_DIGEST_CHAT_ID", 0),
		DigestCron:     getEnv("DIGEST_CRON", "0 8 * * 1"),

		// App settings
		Timezone:    getEnv("TIMEZONE", "Asia/Jerusalem"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "production"),

		// Limits
		AIDailyLimit: getEnvInt("AI_DAILY_LIMIT", 50),
	}

	// Validate configuration
	if err := validate(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// validate checks that configuration values are consistent.
// LLM and Supabase credentials are optional: their absence selects the
// deterministic fallback mode and the in-memory store respectively.
func validate(cfg *models.Config) error {
	switch cfg.AIProvider {
	case "", "openai", "gemini":
	default:
		return fmt.Errorf("AI_PROVIDER must be one of: openai, gemini; got %s", cfg.AIProvider)
	}
	if cfg.AIProvider == "openai" && cfg.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when AI_PROVIDER=openai")
	}
	if cfg.AIProvider == "gemini" && cfg.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required when AI_PROVIDER=gemini")
	}

	if cfg.SupabaseURL != "" && cfg.SupabaseKey == "" {
		return fmt.Errorf("SUPABASE_KEY is required when SUPABASE_URL is set")
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_DIGEST_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	// Validate positive values
	if cfg.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive, got %d", cfg.LLMTimeout)
	}
	if cfg.SupabaseTimeout <= 0 {
		return fmt.Errorf("SUPABASE_TIMEOUT must be positive, got %d", cfg.SupabaseTimeout)
	}
	if cfg.LLMMaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive, got %d", cfg.LLMMaxTokens)
	}
	if cfg.AIDailyLimit <= 0 {
		return fmt.Errorf("AI_DAILY_LIMIT must be positive, got %d", cfg.AIDailyLimit)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %s", cfg.LogLevel)
	}

	return nil
}

// getEnv retrieves environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves environment variable as integer or returns default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvInt64 retrieves environment variable as int64 or returns default value
func getEnvInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvFloat retrieves environment variable as float64 or returns default value
func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}
