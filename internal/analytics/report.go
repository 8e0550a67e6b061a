package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/crm-analytics-service/internal/llm"
	"github.com/crm-analytics-service/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Builder assembles analytics reports. It holds no state between calls:
// every report is computed from the snapshots passed to Generate.
type Builder struct {
	provider llm.Provider
	logger   zerolog.Logger
	now      func() time.Time
}

// NewBuilder creates a report builder. Provider may be nil, in which
// case every report uses the deterministic narrative.
func NewBuilder(provider llm.Provider, logger zerolog.Logger) *Builder {
	return &Builder{
		provider: provider,
		logger:   logger.With().Str("component", "analytics").Logger(),
		now:      time.Now,
	}
}

// Generate builds a report for the given records and filter. It never
// fails: LLM errors are absorbed and replaced with the deterministic
// narrative, and empty inputs degrade to zero statistics with valid text.
func (b *Builder) Generate(ctx context.Context, meetings []models.MeetingRecord, tasks []models.TaskRecord, filter models.AnalyticsFilter) *models.AnalyticsReport {
	now := b.now()

	filteredMeetings := FilterMeetings(meetings, filter, now)
	filteredTasks := FilterTasks(tasks, filter, now)

	stats := Aggregate(filteredMeetings, filteredTasks, now)
	lang := DetectLanguage(filteredMeetings)

	narrative := b.enrich(ctx, stats, filteredMeetings, filteredTasks, filter, lang, now)
	extended := BuildExtended(filteredMeetings, filteredTasks, stats, now)

	return &models.AnalyticsReport{
		ID:              uuid.NewString(),
		Title:           reportTitle(lang, now),
		Summary:         narrative.Summary,
		Insights:        narrative.Insights,
		Recommendations: narrative.Recommendations,
		Statistics:      stats,
		Extended:        &extended,
		Language:        lang,
		GeneratedAt:     now,
	}
}

// enrich attempts the LLM narrative and falls back to the deterministic
// generator when no provider is configured or the attempt fails in any
// way. The fallback path never raises.
func (b *Builder) enrich(ctx context.Context, stats models.AggregatedStatistics, meetings []models.MeetingRecord, tasks []models.TaskRecord, filter models.AnalyticsFilter, lang models.Language, now time.Time) Narrative {
	if b.provider == nil {
		return FallbackNarrative(stats, meetings, tasks, filter, lang, now)
	}

	prompt := BuildPrompt(stats, meetings, tasks, filter, lang)
	reply, err := b.provider.Complete(ctx, prompt)
	if err != nil {
		b.logger.Warn().
			Err(err).
			Str("provider", b.provider.Name()).
			Msg("LLM enrichment failed, using deterministic narrative")
		return FallbackNarrative(stats, meetings, tasks, filter, lang, now)
	}

	narrative, err := parseNarrative(reply)
	if err != nil {
		b.logger.Warn().
			Err(err).
			Str("provider", b.provider.Name()).
			Int("reply_length", len(reply)).
			Msg("Could not parse LLM reply, using deterministic narrative")
		return FallbackNarrative(stats, meetings, tasks, filter, lang, now)
	}

	b.logger.Info().
		Str("provider", b.provider.Name()).
		Int("insights", len(narrative.Insights)).
		Int("recommendations", len(narrative.Recommendations)).
		Msg("Report narrative generated by LLM")

	return narrative
}

// parseNarrative extracts the first balanced {...} object from the reply
// text and decodes it. Models often wrap the JSON in prose or code
// fences, so anything outside the braces is ignored.
func parseNarrative(reply string) (Narrative, error) {
	obj, err := firstJSONObject(reply)
	if err != nil {
		return Narrative{}, err
	}

	var n Narrative
	if err := json.Unmarshal([]byte(obj), &n); err != nil {
		return Narrative{}, fmt.Errorf("failed to decode narrative JSON: %w", err)
	}

	if strings.TrimSpace(n.Summary) == "" {
		return Narrative{}, fmt.Errorf("narrative JSON has empty summary")
	}
	if n.Insights == nil {
		n.Insights = []string{}
	}
	if n.Recommendations == nil {
		n.Recommendations = []string{}
	}

	return n, nil
}

// firstJSONObject returns the first balanced top-level {...} substring
func firstJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object in reply")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unbalanced JSON object in reply")
}

func reportTitle(lang models.Language, now time.Time) string {
	date := now.Format("2006-01-02")
	if lang == models.LanguageHebrew {
		return fmt.Sprintf("דוח אנליטיקת לקוחות – %s", date)
	}
	return fmt.Sprintf("Customer Analytics Report – %s", date)
}
