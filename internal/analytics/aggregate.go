package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/crm-analytics-service/internal/models"
)

// topCustomersLimit caps the top-customers breakdown
const topCustomersLimit = 5

// Aggregate computes descriptive statistics from already-filtered meeting
// and task lists. It is a pure function of its inputs: given identical
// inputs and the same now snapshot the output is bit-identical.
func Aggregate(meetings []models.MeetingRecord, tasks []models.TaskRecord, now time.Time) models.AggregatedStatistics {
	stats := models.AggregatedStatistics{
		TotalMeetings:   len(meetings),
		TotalTasks:      len(tasks),
		TopCustomers:    []models.CustomerMeetingCount{},
		DailyTrend:      []models.DailyCount{},
		UniqueCustomers: countUniqueCustomers(meetings),
	}

	stats.AvgMeetingsPerWeek = weeklyAverage(meetings, now)
	stats.TopCustomers = topCustomers(meetings)
	stats.DailyTrend = dailyTrend(meetings)

	for _, t := range tasks {
		if t.Status == models.StatusCompleted {
			stats.CompletedTasks++
		}
		switch t.Priority {
		case models.PriorityHigh:
			stats.TasksByPriority.High++
		case models.PriorityMedium:
			stats.TasksByPriority.Medium++
		case models.PriorityLow:
			stats.TasksByPriority.Low++
		}
		if isOverdue(t, now) {
			stats.OverdueTasks++
		}
	}

	if stats.TotalTasks > 0 {
		rate := float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100
		stats.TaskCompletionRate = int(math.Round(rate))
	}

	return stats
}

// isOverdue reports whether a task is not completed and its due date is
// strictly before now. Tasks without a due date are never overdue.
func isOverdue(t models.TaskRecord, now time.Time) bool {
	return t.Status != models.StatusCompleted && t.DueDate != nil && t.DueDate.Before(now)
}

func countUniqueCustomers(meetings []models.MeetingRecord) int {
	seen := make(map[string]struct{}, len(meetings))
	for _, m := range meetings {
		seen[m.CustomerID] = struct{}{}
	}
	return len(seen)
}

// weeklyAverage computes meetings per week over the span from the
// earliest meeting to now, floored at one week, rounded to one decimal.
// Callers should not rely on sub-day precision.
func weeklyAverage(meetings []models.MeetingRecord, now time.Time) float64 {
	if len(meetings) == 0 {
		return 0
	}

	earliest := meetings[0].Date
	for _, m := range meetings[1:] {
		if m.Date.Before(earliest) {
			earliest = m.Date
		}
	}

	spanDays := now.Sub(earliest).Hours() / 24
	weeks := spanDays / 7
	if weeks < 1 {
		weeks = 1
	}

	return math.Round(float64(len(meetings))/weeks*10) / 10
}

// topCustomers groups meetings by customer name and returns up to five
// entries sorted by descending count. Ties keep first-encountered order.
func topCustomers(meetings []models.MeetingRecord) []models.CustomerMeetingCount {
	counts := make(map[string]int, len(meetings))
	order := make([]string, 0, len(meetings))
	for _, m := range meetings {
		if _, seen := counts[m.CustomerName]; !seen {
			order = append(order, m.CustomerName)
		}
		counts[m.CustomerName]++
	}

	top := make([]models.CustomerMeetingCount, 0, len(order))
	for _, name := range order {
		top = append(top, models.CustomerMeetingCount{CustomerName: name, Meetings: counts[name]})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Meetings > top[j].Meetings
	})

	if len(top) > topCustomersLimit {
		top = top[:topCustomersLimit]
	}
	return top
}

// dailyTrend counts meetings per ISO date, sorted ascending by date string
func dailyTrend(meetings []models.MeetingRecord) []models.DailyCount {
	counts := make(map[string]int, len(meetings))
	for _, m := range meetings {
		counts[m.Date.Format("2006-01-02")]++
	}

	dates := make([]string, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	trend := make([]models.DailyCount, 0, len(dates))
	for _, d := range dates {
		trend = append(trend, models.DailyCount{Date: d, Meetings: counts[d]})
	}
	return trend
}
