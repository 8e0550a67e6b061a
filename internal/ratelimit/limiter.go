package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Limiter enforces a shared daily budget of AI generations. The counter
// rolls over at midnight in the configured timezone.
type Limiter struct {
	mu         sync.Mutex
	dailyLimit int
	day        string
	used       int
	timezone   *time.Location
	logger     zerolog.Logger
	now        func() time.Time
}

// NewLimiter creates a new daily AI budget limiter
func NewLimiter(dailyLimit int, timezone string, logger zerolog.Logger) (*Limiter, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", timezone, err)
	}

	return &Limiter{
		dailyLimit: dailyLimit,
		timezone:   loc,
		logger:     logger.With().Str("component", "ratelimit").Logger(),
		now:        time.Now,
	}, nil
}

// Allow consumes one unit of the daily budget, reporting whether the
// call may proceed.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollover()

	if l.used >= l.dailyLimit {
		l.logger.Warn().
			Str("day", l.day).
			Int("limit", l.dailyLimit).
			Msg("Daily AI budget exhausted")
		return false
	}

	l.used++
	l.logger.Debug().
		Str("day", l.day).
		Int("used", l.used).
		Int("limit", l.dailyLimit).
		Msg("AI budget consumed")
	return true
}

// Remaining returns how many AI generations are left today
func (l *Limiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollover()
	return l.dailyLimit - l.used
}

// ResetsInHours returns hours until the budget resets, at least 1
func (l *Limiter) ResetsInHours() int {
	now := l.now().In(l.timezone)
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, l.timezone)
	hours := int(midnight.Sub(now).Hours())
	if hours < 1 {
		hours = 1
	}
	return hours
}

// rollover resets the counter when the local day changes.
// Callers must hold the mutex.
func (l *Limiter) rollover() {
	today := l.now().In(l.timezone).Format("2006-01-02")
	if l.day != today {
		l.day = today
		l.used = 0
	}
}
