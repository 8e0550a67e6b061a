package models

import "time"

// TimeRange is a named reporting window
type TimeRange string

const (
	RangeWeek    TimeRange = "week"
	RangeMonth   TimeRange = "month"
	RangeQuarter TimeRange = "quarter"
	RangeYear    TimeRange = "year"
)

// String returns string representation of TimeRange
func (r TimeRange) String() string {
	return string(r)
}

// Days returns the fixed-offset window length in days.
// Unknown ranges fall back to a month.
func (r TimeRange) Days() int {
	switch r {
	case RangeWeek:
		return 7
	case RangeMonth:
		return 30
	case RangeQuarter:
		return 90
	case RangeYear:
		return 365
	default:
		return 30
	}
}

// AnalyticsFilter narrows the meeting/task lists considered by a report.
// An empty CustomerIDs set means all customers.
type AnalyticsFilter struct {
	TimeRange   TimeRange  `json:"time_range"`
	DateFrom    *time.Time `json:"date_from,omitempty"`
	DateTo      *time.Time `json:"date_to,omitempty"`
	CustomerIDs []string   `json:"customer_ids,omitempty"`
}

// CustomerMeetingCount is one row of the top-customers breakdown
type CustomerMeetingCount struct {
	CustomerName string `json:"customer_name"`
	Meetings     int    `json:"meetings"`
}

// DailyCount is one point of the per-day meeting trend
type DailyCount struct {
	Date     string `json:"date"` // Format: YYYY-MM-DD
	Meetings int    `json:"meetings"`
}

// PriorityCounts holds per-priority task counts
type PriorityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// AggregatedStatistics is a pure function of the filtered meeting and
// task lists plus a single "now" snapshot, recomputed on every report.
type AggregatedStatistics struct {
	TotalMeetings      int                    `json:"total_meetings"`
	UniqueCustomers    int                    `json:"unique_customers"`
	AvgMeetingsPerWeek float64                `json:"avg_meetings_per_week"`
	TopCustomers       []CustomerMeetingCount `json:"top_customers"`
	DailyTrend         []DailyCount           `json:"daily_trend"`
	TotalTasks         int                    `json:"total_tasks"`
	CompletedTasks     int                    `json:"completed_tasks"`
	TaskCompletionRate int                    `json:"task_completion_rate"`
	TasksByPriority    PriorityCounts         `json:"tasks_by_priority"`
	OverdueTasks       int                    `json:"overdue_tasks"`
}

// LanguageShare is the portion of meetings classified as one language
type LanguageShare struct {
	Language Language `json:"language"`
	Meetings int      `json:"meetings"`
	Percent  int      `json:"percent"`
}

// CustomerRisk names a high-risk customer and the factors behind it
type CustomerRisk struct {
	CustomerName string   `json:"customer_name"`
	Factors      []string `json:"factors"`
}

// RiskAssessment is a heuristic portfolio risk breakdown
type RiskAssessment struct {
	Score             int            `json:"score"` // 0-100
	HighRiskCustomers []CustomerRisk `json:"high_risk_customers"`
}

// ParticipantStat tracks how often a customer appears in meetings
type ParticipantStat struct {
	Name       string `json:"name"`
	Meetings   int    `json:"meetings"`
	Engagement string `json:"engagement"` // high, medium or low
}

// KeyTopic is a recurring topic detected across meeting text
type KeyTopic struct {
	Topic     string `json:"topic"`
	Count     int    `json:"count"`
	Sentiment string `json:"sentiment"` // positive, neutral or negative
}

// CategorizedInsight is an actionable observation with an urgency class
type CategorizedInsight struct {
	Category string `json:"category"` // urgent, warning or opportunity
	Text     string `json:"text"`
}

// ExtendedAnalytics carries the auxiliary breakdowns attached to a report.
// All fields are derived, read-only and recomputed each time.
type ExtendedAnalytics struct {
	LanguageDistribution []LanguageShare      `json:"language_distribution"`
	Risk                 RiskAssessment       `json:"risk_assessment"`
	Participants         []ParticipantStat    `json:"participants"`
	KeyTopics            []KeyTopic           `json:"key_topics"`
	ActionableInsights   []CategorizedInsight `json:"actionable_insights"`
}

// AnalyticsReport is the externally visible result of report generation.
// Created fresh on each invocation and never mutated afterward.
type AnalyticsReport struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Summary         string               `json:"summary"`
	Insights        []string             `json:"insights"`
	Recommendations []string             `json:"recommendations"`
	Statistics      AggregatedStatistics `json:"statistics"`
	Extended        *ExtendedAnalytics   `json:"extended,omitempty"`
	Language        Language             `json:"language"`
	GeneratedAt     time.Time            `json:"generated_at"`
}
