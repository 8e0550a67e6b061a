package analytics

import (
	"fmt"
	"time"

	"github.com/crm-analytics-service/internal/models"
)

// Narrative is the human-readable portion of a report: a summary
// sentence plus ordered insight and recommendation lists.
type Narrative struct {
	Summary         string   `json:"summary"`
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
}

// customerDigest collects one customer's activity for templating.
// Only customers with at least one filtered meeting get a digest.
type customerDigest struct {
	id        string
	name      string
	meetings  int
	latest    time.Time
	openTasks int
	completed int
	highOpen  int
	overdue   int
}

// FallbackNarrative synthesizes summary, insights and recommendations
// from the aggregates without any LLM involvement. It is total: for any
// well-formed input, including empty lists, it returns non-empty text.
func FallbackNarrative(stats models.AggregatedStatistics, meetings []models.MeetingRecord, tasks []models.TaskRecord, filter models.AnalyticsFilter, lang models.Language, now time.Time) Narrative {
	digests := digestCustomers(meetings, tasks, now)

	n := Narrative{
		Summary:         summarySentence(stats, filter, lang),
		Insights:        make([]string, 0, len(digests)+2),
		Recommendations: make([]string, 0, len(digests)+3),
	}

	for _, d := range digests {
		n.Insights = append(n.Insights, customerInsight(d, lang))
	}
	if len(digests) > 1 {
		n.Insights = append(n.Insights, portfolioInsights(stats, lang)...)
	}

	for _, d := range digests {
		if rec, ok := customerRecommendation(d, lang); ok {
			n.Recommendations = append(n.Recommendations, rec)
		}
	}
	n.Recommendations = append(n.Recommendations, generalRecommendations(stats, countOpenHigh(tasks), lang)...)

	// Never return empty lists: the caller renders these directly.
	if len(n.Insights) == 0 {
		n.Insights = append(n.Insights, tr(lang,
			"No meetings were recorded in this period.",
			"לא נרשמו פגישות בתקופה זו."))
	}
	if len(n.Recommendations) == 0 {
		n.Recommendations = append(n.Recommendations, tr(lang,
			"Schedule discovery meetings with customers to build engagement momentum.",
			"מומלץ לקבוע פגישות היכרות עם לקוחות כדי לבנות מומנטום."))
	}

	return n
}

// digestCustomers groups the filtered records per customer in
// first-encountered meeting order.
func digestCustomers(meetings []models.MeetingRecord, tasks []models.TaskRecord, now time.Time) []customerDigest {
	index := make(map[string]int, len(meetings))
	digests := make([]customerDigest, 0, len(meetings))

	for _, m := range meetings {
		i, seen := index[m.CustomerID]
		if !seen {
			i = len(digests)
			index[m.CustomerID] = i
			digests = append(digests, customerDigest{id: m.CustomerID, name: m.CustomerName})
		}
		digests[i].meetings++
		if m.Date.After(digests[i].latest) {
			digests[i].latest = m.Date
		}
	}

	for _, t := range tasks {
		i, seen := index[t.CustomerID]
		if !seen {
			continue // tasks for customers without meetings carry no insight line
		}
		if t.Status == models.StatusCompleted {
			digests[i].completed++
		} else {
			digests[i].openTasks++
			if t.Priority == models.PriorityHigh {
				digests[i].highOpen++
			}
		}
		if isOverdue(t, now) {
			digests[i].overdue++
		}
	}

	return digests
}

func summarySentence(stats models.AggregatedStatistics, filter models.AnalyticsFilter, lang models.Language) string {
	label := windowLabel(filter, lang)

	if stats.TotalMeetings == 0 && stats.TotalTasks == 0 {
		if lang == models.LanguageHebrew {
			return fmt.Sprintf("לא נרשמה פעילות לקוחות %s.", label)
		}
		return fmt.Sprintf("No customer activity was recorded over %s.", label)
	}

	if lang == models.LanguageHebrew {
		return fmt.Sprintf("%s התקיימו %d פגישות עם %d לקוחות; במעקב %d משימות עם שיעור השלמה של %d%%.",
			label, stats.TotalMeetings, stats.UniqueCustomers, stats.TotalTasks, stats.TaskCompletionRate)
	}
	return fmt.Sprintf("Over %s, %d meetings were held with %d customers; %d tasks are tracked with a %d%% completion rate.",
		label, stats.TotalMeetings, stats.UniqueCustomers, stats.TotalTasks, stats.TaskCompletionRate)
}

func customerInsight(d customerDigest, lang models.Language) string {
	latest := d.latest.Format("2006-01-02")
	if lang == models.LanguageHebrew {
		return fmt.Sprintf("%s: %d פגישות (האחרונה ב-%s), %d משימות פתוחות, %d הושלמו, %d בעדיפות גבוהה.",
			d.name, d.meetings, latest, d.openTasks, d.completed, d.highOpen)
	}
	return fmt.Sprintf("%s had %d %s (latest on %s) with %d open, %d completed and %d high-priority tasks.",
		d.name, d.meetings, plural(d.meetings, "meeting", "meetings"), latest, d.openTasks, d.completed, d.highOpen)
}

func portfolioInsights(stats models.AggregatedStatistics, lang models.Language) []string {
	if lang == models.LanguageHebrew {
		return []string{
			fmt.Sprintf("ממוצע הפגישות השבועי עומד על %.1f בקרב %d לקוחות.", stats.AvgMeetingsPerWeek, stats.UniqueCustomers),
			fmt.Sprintf("שיעור השלמת המשימות הכולל הוא %d%%.", stats.TaskCompletionRate),
		}
	}
	return []string{
		fmt.Sprintf("The portfolio averaged %.1f meetings per week across %d customers.", stats.AvgMeetingsPerWeek, stats.UniqueCustomers),
		fmt.Sprintf("Overall task completion rate is %d%%.", stats.TaskCompletionRate),
	}
}

// customerRecommendation picks the single most pressing action for a
// customer: overdue beats high-priority beats open tasks. A customer
// with no tasks at all gets a define-follow-ups nudge; a customer whose
// tasks are all completed needs nothing.
func customerRecommendation(d customerDigest, lang models.Language) (string, bool) {
	switch {
	case d.overdue > 0:
		return tr(lang,
			fmt.Sprintf("Follow up with %s: %d %s overdue.", d.name, d.overdue, plural(d.overdue, "task is", "tasks are")),
			fmt.Sprintf("יש לחזור אל %s: %d משימות באיחור.", d.name, d.overdue)), true
	case d.highOpen > 0:
		return tr(lang,
			fmt.Sprintf("Prioritize %d high-priority %s for %s.", d.highOpen, plural(d.highOpen, "task", "tasks"), d.name),
			fmt.Sprintf("יש לתעדף %d משימות בעדיפות גבוהה עבור %s.", d.highOpen, d.name)), true
	case d.openTasks > 0:
		return tr(lang,
			fmt.Sprintf("Advance the %d open %s for %s.", d.openTasks, plural(d.openTasks, "task", "tasks"), d.name),
			fmt.Sprintf("יש לקדם %d משימות פתוחות עבור %s.", d.openTasks, d.name)), true
	case d.completed == 0:
		return tr(lang,
			fmt.Sprintf("Define follow-up tasks for %s to keep the engagement moving.", d.name),
			fmt.Sprintf("מומלץ להגדיר משימות המשך עבור %s.", d.name)), true
	default:
		return "", false
	}
}

// generalRecommendations adds portfolio-level actions when thresholds
// are crossed: any overdue backlog, completion rate below 70% with more
// than 5 tasks, and three or more open high-priority tasks.
func generalRecommendations(stats models.AggregatedStatistics, openHigh int, lang models.Language) []string {
	var recs []string

	if stats.OverdueTasks > 0 {
		recs = append(recs, tr(lang,
			fmt.Sprintf("Clear the overdue backlog: %d %s past due.", stats.OverdueTasks, plural(stats.OverdueTasks, "task is", "tasks are")),
			fmt.Sprintf("יש לטפל בצבר המשימות שבאיחור: %d משימות עברו את מועד היעד.", stats.OverdueTasks)))
	}
	if stats.TaskCompletionRate < 70 && stats.TotalTasks > 5 {
		recs = append(recs, tr(lang,
			fmt.Sprintf("Task completion rate is %d%%; review stalled tasks and rebalance workload.", stats.TaskCompletionRate),
			fmt.Sprintf("שיעור השלמת המשימות הוא %d%% בלבד; מומלץ לעבור על משימות תקועות.", stats.TaskCompletionRate)))
	}
	if openHigh >= 3 {
		recs = append(recs, tr(lang,
			fmt.Sprintf("%d high-priority tasks are open across the portfolio; consider a triage session.", openHigh),
			fmt.Sprintf("%d משימות בעדיפות גבוהה פתוחות בכלל התיק; מומלץ לקיים ישיבת תיעדוף.", openHigh)))
	}

	return recs
}

// countOpenHigh counts high-priority tasks that are not completed
func countOpenHigh(tasks []models.TaskRecord) int {
	open := 0
	for _, t := range tasks {
		if t.Priority == models.PriorityHigh && t.Status != models.StatusCompleted {
			open++
		}
	}
	return open
}

// windowLabel names the reporting window: the explicit dates when the
// from/to override is in effect, the named range label otherwise.
func windowLabel(filter models.AnalyticsFilter, lang models.Language) string {
	if filter.DateFrom != nil && filter.DateTo != nil {
		from := filter.DateFrom.Format("2006-01-02")
		to := filter.DateTo.Format("2006-01-02")
		return tr(lang,
			fmt.Sprintf("the period %s to %s", from, to),
			fmt.Sprintf("בתקופה שבין %s ל-%s", from, to))
	}
	return rangeLabel(filter.TimeRange, lang)
}

func rangeLabel(rng models.TimeRange, lang models.Language) string {
	if lang == models.LanguageHebrew {
		switch rng {
		case models.RangeWeek:
			return "בשבוע האחרון"
		case models.RangeQuarter:
			return "ברבעון האחרון"
		case models.RangeYear:
			return "בשנה האחרונה"
		default:
			return "בחודש האחרון"
		}
	}
	switch rng {
	case models.RangeWeek:
		return "the past week"
	case models.RangeQuarter:
		return "the past quarter"
	case models.RangeYear:
		return "the past year"
	default:
		return "the past month"
	}
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

// tr picks the English or Hebrew variant of a rendered string
func tr(lang models.Language, en, he string) string {
	if lang == models.LanguageHebrew {
		return he
	}
	return en
}
