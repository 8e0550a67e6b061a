package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/crm-analytics-service/internal/analytics"
	"github.com/crm-analytics-service/internal/models"
	"github.com/crm-analytics-service/internal/storage"
)

// digestTimeout bounds one digest run end to end
const digestTimeout = 2 * time.Minute

// Notifier delivers a finished report digest
type Notifier interface {
	SendDigest(report *models.AnalyticsReport) error
}

// Scheduler runs the periodic portfolio digest: on each tick it pulls
// the current meeting/task snapshots, generates a month-window report
// and hands it to the notifier.
type Scheduler struct {
	store    storage.Store
	builder  *analytics.Builder
	notifier Notifier
	cronSpec string
	cron     *cron.Cron
	logger   zerolog.Logger
}

// New creates a scheduler. The cron spec is evaluated in the given timezone.
func New(store storage.Store, builder *analytics.Builder, notifier Notifier, cronSpec, timezone string, logger zerolog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", timezone, err)
	}

	return &Scheduler{
		store:    store,
		builder:  builder,
		notifier: notifier,
		cronSpec: cronSpec,
		cron:     cron.New(cron.WithLocation(loc)),
		logger:   logger.With().Str("component", "scheduler").Logger(),
	}, nil
}

// Start registers the digest job and starts the cron loop
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cronSpec, s.runDigest)
	if err != nil {
		return fmt.Errorf("failed to schedule digest job: %w", err)
	}

	s.cron.Start()
	s.logger.Info().
		Str("cron", s.cronSpec).
		Msg("Scheduler started")
	return nil
}

// Stop stops the cron loop and waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Scheduler stopped")
}

// runDigest generates the digest report and delivers it
func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	s.logger.Info().Msg("Running scheduled digest")

	meetings, err := s.store.ListMeetings(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Digest failed to load meetings")
		return
	}
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Digest failed to load tasks")
		return
	}

	report := s.builder.Generate(ctx, meetings, tasks, models.AnalyticsFilter{
		TimeRange: models.RangeMonth,
	})

	if err := s.notifier.SendDigest(report); err != nil {
		s.logger.Error().Err(err).Str("report_id", report.ID).Msg("Digest delivery failed")
		return
	}

	s.logger.Info().
		Str("report_id", report.ID).
		Int("meetings", report.Statistics.TotalMeetings).
		Int("tasks", report.Statistics.TotalTasks).
		Msg("Scheduled digest completed")
}
