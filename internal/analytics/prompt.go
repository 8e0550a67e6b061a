package analytics

import (
	"fmt"
	"strings"

	"github.com/crm-analytics-service/internal/models"
)

// Caps on how many raw records are embedded in the prompt, to stay well
// inside provider token limits.
const (
	maxMeetingsInPrompt = 20
	maxTasksInPrompt    = 30
)

// BuildPrompt constructs the LLM prompt for narrative enrichment. It
// embeds the aggregates and a capped sample of the filtered records, and
// instructs the model to reply with a single JSON object containing
// summary, insights and recommendations.
func BuildPrompt(stats models.AggregatedStatistics, meetings []models.MeetingRecord, tasks []models.TaskRecord, filter models.AnalyticsFilter, lang models.Language) string {
	var sb strings.Builder

	if lang == models.LanguageHebrew {
		sb.WriteString("אתה אנליסט CRM עבור חברת ייעוץ בתחום אבטחת המידע. ")
		sb.WriteString("נתח את נתוני הפגישות והמשימות הבאים וכתוב תקציר, תובנות והמלצות בעברית.\n\n")
	} else {
		sb.WriteString("You are a CRM analyst for a cybersecurity consulting firm. ")
		sb.WriteString("Analyze the following meeting and task data and produce a summary, insights and recommendations in English.\n\n")
	}

	sb.WriteString(fmt.Sprintf("Reporting window: %s\n", windowLabel(filter, lang)))
	sb.WriteString(fmt.Sprintf("Total meetings: %d, unique customers: %d, avg meetings/week: %.1f\n",
		stats.TotalMeetings, stats.UniqueCustomers, stats.AvgMeetingsPerWeek))
	sb.WriteString(fmt.Sprintf("Tasks: %d total, %d completed (%d%%), %d overdue, priorities high=%d medium=%d low=%d\n",
		stats.TotalTasks, stats.CompletedTasks, stats.TaskCompletionRate, stats.OverdueTasks,
		stats.TasksByPriority.High, stats.TasksByPriority.Medium, stats.TasksByPriority.Low))

	if len(stats.TopCustomers) > 0 {
		sb.WriteString("Top customers by meetings:\n")
		for _, c := range stats.TopCustomers {
			sb.WriteString(fmt.Sprintf("- %s: %d\n", c.CustomerName, c.Meetings))
		}
	}

	sb.WriteString("\nMeeting sample:\n")
	count := len(meetings)
	if count > maxMeetingsInPrompt {
		count = maxMeetingsInPrompt
		sb.WriteString(fmt.Sprintf("[showing first %d of %d meetings]\n", count, len(meetings)))
	}
	for _, m := range meetings[:count] {
		sb.WriteString(fmt.Sprintf("- [%s] %s: %s", m.Date.Format("2006-01-02"), m.CustomerName, m.Title))
		if m.Summary != "" {
			sb.WriteString(" — " + m.Summary)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nTask sample:\n")
	count = len(tasks)
	if count > maxTasksInPrompt {
		count = maxTasksInPrompt
		sb.WriteString(fmt.Sprintf("[showing first %d of %d tasks]\n", count, len(tasks)))
	}
	for _, t := range tasks[:count] {
		due := "no due date"
		if t.DueDate != nil {
			due = "due " + t.DueDate.Format("2006-01-02")
		}
		sb.WriteString(fmt.Sprintf("- %s (%s, %s, %s)\n", t.Title, t.Priority, t.Status, due))
	}

	sb.WriteString("\nReply with exactly one JSON object and nothing else, in this shape:\n")
	sb.WriteString(`{"summary": "...", "insights": ["..."], "recommendations": ["..."]}` + "\n")
	sb.WriteString("Keep the summary to 2-3 sentences, 3-7 insights and 3-7 recommendations.\n")

	return sb.String()
}
