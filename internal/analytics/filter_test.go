package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/crm-analytics-service/internal/models"
)

func meetingOn(customerID, customerName string, date time.Time) models.MeetingRecord {
	return models.MeetingRecord{
		ID:           customerID + "-" + date.Format("20060102"),
		CustomerID:   customerID,
		CustomerName: customerName,
		Title:        "Sync",
		Date:         date,
	}
}

func TestResolveWindowDefaultsToMonth(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	start, end := ResolveWindow(models.AnalyticsFilter{}, now)

	assert.Equal(t, now, end)
	assert.Equal(t, now.AddDate(0, 0, -30), start)
}

func TestResolveWindowNamedRanges(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		rng  models.TimeRange
		days int
	}{
		{models.RangeWeek, 7},
		{models.RangeMonth, 30},
		{models.RangeQuarter, 90},
		{models.RangeYear, 365},
	}

	for _, tt := range tests {
		t.Run(tt.rng.String(), func(t *testing.T) {
			start, end := ResolveWindow(models.AnalyticsFilter{TimeRange: tt.rng}, now)
			assert.Equal(t, now, end)
			assert.Equal(t, now.AddDate(0, 0, -tt.days), start)
		})
	}
}

func TestResolveWindowExplicitDatesWin(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	start, end := ResolveWindow(models.AnalyticsFilter{
		TimeRange: models.RangeYear,
		DateFrom:  &from,
		DateTo:    &to,
	}, now)

	assert.Equal(t, from, start)
	assert.Equal(t, to, end)
}

func TestFilterMeetingsWindow(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	meetings := []models.MeetingRecord{
		meetingOn("c1", "Acme", now),                     // today: in
		meetingOn("c1", "Acme", now.AddDate(0, 0, -8)),   // 8 days ago: in for month
		meetingOn("c1", "Acme", now.AddDate(0, 0, -40)),  // 40 days ago: out
	}

	filtered := FilterMeetings(meetings, models.AnalyticsFilter{TimeRange: models.RangeMonth}, now)

	assert.Len(t, filtered, 2)

	stats := Aggregate(filtered, nil, now)
	assert.Equal(t, 2, stats.TotalMeetings)
	assert.Equal(t, 1, stats.UniqueCustomers)
}

func TestFilterMeetingsWindowIsInclusive(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	boundary := now.AddDate(0, 0, -7)

	meetings := []models.MeetingRecord{
		meetingOn("c1", "Acme", boundary),                    // exactly on start: in
		meetingOn("c1", "Acme", now),                         // exactly on end: in
		meetingOn("c1", "Acme", boundary.Add(-time.Second)),  // one second earlier: out
	}

	filtered := FilterMeetings(meetings, models.AnalyticsFilter{TimeRange: models.RangeWeek}, now)

	assert.Len(t, filtered, 2)
}

func TestFilterMeetingsCustomerSet(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	meetings := []models.MeetingRecord{
		meetingOn("c1", "Acme", now),
		meetingOn("c2", "Globex", now),
		meetingOn("c3", "Initech", now),
	}

	filtered := FilterMeetings(meetings, models.AnalyticsFilter{
		TimeRange:   models.RangeWeek,
		CustomerIDs: []string{"c1", "c3"},
	}, now)

	assert.Len(t, filtered, 2)
	assert.Equal(t, "c1", filtered[0].CustomerID)
	assert.Equal(t, "c3", filtered[1].CustomerID)
}

func TestFilterMeetingsPreservesInput(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	meetings := []models.MeetingRecord{
		meetingOn("c2", "Globex", now.AddDate(0, 0, -40)),
		meetingOn("c1", "Acme", now),
	}

	_ = FilterMeetings(meetings, models.AnalyticsFilter{TimeRange: models.RangeMonth}, now)

	assert.Equal(t, "c2", meetings[0].CustomerID)
	assert.Equal(t, "c1", meetings[1].CustomerID)
}

func TestFilterTasksWindowsOnCreatedAt(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tasks := []models.TaskRecord{
		{ID: "t1", CustomerID: "c1", Title: "Recent", CreatedAt: now.AddDate(0, 0, -2)},
		{ID: "t2", CustomerID: "c1", Title: "Old", CreatedAt: now.AddDate(0, 0, -60)},
	}

	filtered := FilterTasks(tasks, models.AnalyticsFilter{TimeRange: models.RangeMonth}, now)

	assert.Len(t, filtered, 1)
	assert.Equal(t, "t1", filtered[0].ID)
}
