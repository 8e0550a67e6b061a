package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/crm-analytics-service/internal/analytics"
	"github.com/crm-analytics-service/internal/config"
	"github.com/crm-analytics-service/internal/llm"
	"github.com/crm-analytics-service/internal/notify"
	"github.com/crm-analytics-service/internal/ratelimit"
	"github.com/crm-analytics-service/internal/scheduler"
	"github.com/crm-analytics-service/internal/server"
	"github.com/crm-analytics-service/internal/storage"
	"github.com/crm-analytics-service/internal/summarize"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	logger := setupLogger(cfg.LogLevel, cfg.Environment)
	logger.Info().
		Str("environment", cfg.Environment).
		Str("timezone", cfg.Timezone).
		Str("addr", cfg.HTTPAddr).
		Bool("ai_configured", cfg.AIConfigured()).
		Bool("supabase_configured", cfg.SupabaseConfigured()).
		Msg("Starting CRM analytics service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize storage
	var store storage.Store
	if cfg.SupabaseConfigured() {
		logger.Info().Msg("Initializing Supabase store...")
		supabaseStore, err := storage.NewSupabase(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseTimeout, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create Supabase store")
		}
		if err := supabaseStore.Ping(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Supabase")
		}
		logger.Info().Msg("Supabase connection successful")
		store = supabaseStore
	} else {
		logger.Info().Msg("Supabase not configured, using in-memory store")
		store = storage.NewMemory(logger)
	}

	// Initialize LLM provider (nil selects deterministic fallback mode)
	provider := llm.FromConfig(cfg, logger)
	if closer, ok := provider.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close LLM provider")
			}
		}()
	}

	// Initialize rate limiter
	limiter, err := ratelimit.NewLimiter(cfg.AIDailyLimit, cfg.Timezone, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create rate limiter")
	}

	builder := analytics.NewBuilder(provider, logger)
	generator := summarize.NewGenerator(provider, logger)

	// Initialize the Telegram digest scheduler (if configured)
	var sched *scheduler.Scheduler
	if cfg.DigestConfigured() {
		logger.Info().Msg("Initializing Telegram digest...")
		notifier, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create Telegram notifier")
		}

		sched, err = scheduler.New(store, builder, notifier, cfg.DigestCron, cfg.Timezone, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create scheduler")
		}
		if err := sched.Start(); err != nil {
			logger.Fatal().Err(err).Msg("Failed to start scheduler")
		}
		logger.Info().Str("cron", cfg.DigestCron).Msg("Telegram digest scheduled")
	}

	// Initialize HTTP server
	srv := server.New(cfg, store, builder, generator, limiter, logger)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	logger.Info().Msg("Service is running. Press Ctrl+C to stop.")

	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Received termination signal")
	case err := <-serverErrChan:
		logger.Error().Err(err).Msg("HTTP server stopped with error")
	}

	// Graceful shutdown
	logger.Info().Msg("Initiating graceful shutdown...")
	cancel()

	if sched != nil {
		logger.Info().Msg("Stopping scheduler...")
		sched.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("Shutdown timeout exceeded, some requests may be lost")
	} else {
		logger.Info().Msg("Graceful shutdown completed")
	}

	logger.Info().Msg("Service stopped")
}

// setupLogger configures and returns a zerolog logger
func setupLogger(level, environment string) zerolog.Logger {
	// Parse log level
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	// Configure output format
	var logger zerolog.Logger
	if environment == "development" {
		// Pretty console output for development
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Caller().Logger()
	} else {
		// JSON output for production
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	return logger
}
