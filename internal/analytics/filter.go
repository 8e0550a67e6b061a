package analytics

import (
	"time"

	"github.com/crm-analytics-service/internal/models"
)

// ResolveWindow returns the inclusive [start, end] window for a filter.
// An explicit from/to override wins; otherwise the window ends at now
// and starts a fixed number of days earlier per the named range
// (7/30/90/365 for week/month/quarter/year).
func ResolveWindow(f models.AnalyticsFilter, now time.Time) (time.Time, time.Time) {
	if f.DateFrom != nil && f.DateTo != nil {
		return *f.DateFrom, *f.DateTo
	}

	end := now
	if f.DateTo != nil {
		end = *f.DateTo
	}

	start := end.AddDate(0, 0, -f.TimeRange.Days())
	if f.DateFrom != nil {
		start = *f.DateFrom
	}

	return start, end
}

// FilterMeetings returns the meetings whose date falls within the filter
// window (inclusive) and whose customer matches the filter's customer set.
// Input order is preserved; the input slice is never modified.
func FilterMeetings(meetings []models.MeetingRecord, f models.AnalyticsFilter, now time.Time) []models.MeetingRecord {
	start, end := ResolveWindow(f, now)
	customers := customerSet(f)

	filtered := make([]models.MeetingRecord, 0, len(meetings))
	for _, m := range meetings {
		if !inWindow(m.Date, start, end) {
			continue
		}
		if !matchesCustomer(customers, m.CustomerID) {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered
}

// FilterTasks is the task counterpart of FilterMeetings. Tasks are
// windowed on their creation timestamp.
func FilterTasks(tasks []models.TaskRecord, f models.AnalyticsFilter, now time.Time) []models.TaskRecord {
	start, end := ResolveWindow(f, now)
	customers := customerSet(f)

	filtered := make([]models.TaskRecord, 0, len(tasks))
	for _, t := range tasks {
		if !inWindow(t.CreatedAt, start, end) {
			continue
		}
		if !matchesCustomer(customers, t.CustomerID) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

// inWindow reports whether d falls within [start, end] inclusive
func inWindow(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}

// customerSet builds a lookup set from the filter's customer IDs.
// A nil map means no restriction.
func customerSet(f models.AnalyticsFilter) map[string]struct{} {
	if len(f.CustomerIDs) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(f.CustomerIDs))
	for _, id := range f.CustomerIDs {
		set[id] = struct{}{}
	}
	return set
}

func matchesCustomer(set map[string]struct{}, customerID string) bool {
	if set == nil {
		return true
	}
	_, ok := set[customerID]
	return ok
}
