package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crm-analytics-service/internal/models"
)

// fakeProvider returns a canned reply or error
type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return "fake-model" }

func (f *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func testBuilder(provider *fakeProvider, now time.Time) *Builder {
	var b *Builder
	if provider == nil {
		b = NewBuilder(nil, zerolog.Nop())
	} else {
		b = NewBuilder(provider, zerolog.Nop())
	}
	b.now = func() time.Time { return now }
	return b
}

func sampleRecords(now time.Time) ([]models.MeetingRecord, []models.TaskRecord) {
	meetings := []models.MeetingRecord{
		meetingOn("c1", "Acme", now.AddDate(0, 0, -1)),
		meetingOn("c2", "Globex", now.AddDate(0, 0, -3)),
	}
	tasks := []models.TaskRecord{
		taskWith("t1", "c1", models.PriorityHigh, models.StatusPending, nil),
		taskWith("t2", "c2", models.PriorityMedium, models.StatusCompleted, nil),
	}
	return meetings, tasks
}

func TestGenerateWithNilProviderUsesFallback(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	meetings, tasks := sampleRecords(now)

	report := testBuilder(nil, now).Generate(context.Background(), meetings, tasks, models.AnalyticsFilter{TimeRange: models.RangeMonth})

	require.NotNil(t, report)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, now, report.GeneratedAt)
	assert.Equal(t, 2, report.Statistics.TotalMeetings)
	assert.Equal(t, 2, report.Statistics.UniqueCustomers)
	assert.NotEmpty(t, report.Summary)
	assert.NotEmpty(t, report.Insights)
	assert.NotEmpty(t, report.Recommendations)
	require.NotNil(t, report.Extended)
	assert.Equal(t, models.LanguageEnglish, report.Language)
}

func TestGenerateParsesJSONWrappedInProse(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	meetings, tasks := sampleRecords(now)

	provider := &fakeProvider{
		reply: "Here is your report:\n```json\n" +
			`{"summary": "A busy month.", "insights": ["Acme is engaged"], "recommendations": ["Close the loop"]}` +
			"\n```\nLet me know if you need more.",
	}

	report := testBuilder(provider, now).Generate(context.Background(), meetings, tasks, models.AnalyticsFilter{TimeRange: models.RangeMonth})

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, "A busy month.", report.Summary)
	assert.Equal(t, []string{"Acme is engaged"}, report.Insights)
	assert.Equal(t, []string{"Close the loop"}, report.Recommendations)
}

func TestGenerateFallsBackOnProviderError(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	meetings, tasks := sampleRecords(now)

	provider := &fakeProvider{err: fmt.Errorf("model unavailable")}

	report := testBuilder(provider, now).Generate(context.Background(), meetings, tasks, models.AnalyticsFilter{TimeRange: models.RangeMonth})

	assert.NotEmpty(t, report.Summary)
	assert.NotEmpty(t, report.Insights)
	assert.NotEmpty(t, report.Recommendations)
}

func TestGenerateFallsBackOnMalformedReply(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	meetings, tasks := sampleRecords(now)

	tests := []struct {
		name  string
		reply string
	}{
		{"no_json", "I could not produce a report this time."},
		{"unbalanced", `{"summary": "truncated`},
		{"empty_summary", `{"summary": "", "insights": [], "recommendations": []}`},
		{"wrong_types", `{"summary": 42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{reply: tt.reply}
			report := testBuilder(provider, now).Generate(context.Background(), meetings, tasks, models.AnalyticsFilter{TimeRange: models.RangeMonth})

			assert.NotEmpty(t, report.Summary)
			assert.NotEmpty(t, report.Insights)
			assert.NotEmpty(t, report.Recommendations)
		})
	}
}

func TestGenerateNormalizesMissingLists(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	meetings, tasks := sampleRecords(now)

	provider := &fakeProvider{reply: `{"summary": "Quiet period."}`}

	report := testBuilder(provider, now).Generate(context.Background(), meetings, tasks, models.AnalyticsFilter{TimeRange: models.RangeMonth})

	assert.Equal(t, "Quiet period.", report.Summary)
	assert.NotNil(t, report.Insights)
	assert.NotNil(t, report.Recommendations)
	assert.Empty(t, report.Insights)
	assert.Empty(t, report.Recommendations)
}

func TestGenerateHebrewTitle(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	meetings := []models.MeetingRecord{
		{ID: "m1", CustomerID: "c1", CustomerName: "אקמי", Title: "פגישת היכרות עם הנהלת הלקוח", Date: now.AddDate(0, 0, -1)},
	}

	report := testBuilder(nil, now).Generate(context.Background(), meetings, nil, models.AnalyticsFilter{TimeRange: models.RangeMonth})

	assert.Equal(t, models.LanguageHebrew, report.Language)
	assert.Contains(t, report.Title, "2026-03-15")
	assert.Contains(t, report.Title, "דוח")
}

func TestFirstJSONObjectHandlesBracesInStrings(t *testing.T) {
	obj, err := firstJSONObject(`noise {"summary": "uses { and } inside", "insights": []} trailing`)

	require.NoError(t, err)
	assert.Equal(t, `{"summary": "uses { and } inside", "insights": []}`, obj)
}

func TestFirstJSONObjectHandlesEscapedQuotes(t *testing.T) {
	obj, err := firstJSONObject(`{"summary": "he said \"hi\" {"}`)

	require.NoError(t, err)
	assert.Equal(t, `{"summary": "he said \"hi\" {"}`, obj)
}
