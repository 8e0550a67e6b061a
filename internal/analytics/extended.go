package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/crm-analytics-service/internal/models"
)

// riskKeywords are scanned (case-insensitive) across meeting text to
// estimate engagement risk. Hebrew equivalents are included so mixed
// portfolios are scored consistently.
var riskKeywords = []string{
	"incident", "breach", "vulnerability", "escalation", "churn",
	"delay", "complaint", "critical", "outage",
	"תקרית", "פרצה", "חולשה", "איחור", "תלונה",
}

// topicCatalog maps recurring consulting topics to a sentiment tag
var topicCatalog = []models.KeyTopic{
	{Topic: "security audit", Sentiment: "neutral"},
	{Topic: "penetration test", Sentiment: "neutral"},
	{Topic: "compliance", Sentiment: "neutral"},
	{Topic: "incident response", Sentiment: "negative"},
	{Topic: "breach", Sentiment: "negative"},
	{Topic: "phishing", Sentiment: "negative"},
	{Topic: "training", Sentiment: "positive"},
	{Topic: "renewal", Sentiment: "positive"},
	{Topic: "onboarding", Sentiment: "positive"},
}

const maxKeyTopics = 8

// BuildExtended computes the auxiliary report breakdowns. Everything
// here is a heuristic over the filtered records; when an LLM is
// configured the main narrative is enriched, but these stay local so
// they are always available and always deterministic.
func BuildExtended(meetings []models.MeetingRecord, tasks []models.TaskRecord, stats models.AggregatedStatistics, now time.Time) models.ExtendedAnalytics {
	return models.ExtendedAnalytics{
		LanguageDistribution: languageDistribution(meetings),
		Risk:                 assessRisk(meetings, tasks, stats, now),
		Participants:         participantStats(meetings),
		KeyTopics:            keyTopics(meetings),
		ActionableInsights:   actionableInsights(meetings, tasks, stats),
	}
}

// languageDistribution classifies each meeting independently and
// reports per-language counts with rounded percentages.
func languageDistribution(meetings []models.MeetingRecord) []models.LanguageShare {
	if len(meetings) == 0 {
		return []models.LanguageShare{}
	}

	counts := map[models.Language]int{}
	for _, m := range meetings {
		counts[detectMeetingLanguage(m)]++
	}

	total := len(meetings)
	shares := make([]models.LanguageShare, 0, 2)
	for _, lang := range []models.Language{models.LanguageEnglish, models.LanguageHebrew} {
		if counts[lang] == 0 {
			continue
		}
		shares = append(shares, models.LanguageShare{
			Language: lang,
			Meetings: counts[lang],
			Percent:  int(math.Round(float64(counts[lang]) / float64(total) * 100)),
		})
	}
	return shares
}

// assessRisk scores the portfolio 0-100 from overdue backlog, completion
// rate and risk-keyword mentions, and flags customers that accumulate
// either keyword hits or overdue tasks.
func assessRisk(meetings []models.MeetingRecord, tasks []models.TaskRecord, stats models.AggregatedStatistics, now time.Time) models.RiskAssessment {
	type customerSignal struct {
		name    string
		hits    int
		overdue int
	}

	index := map[string]int{}
	var signals []customerSignal
	totalHits := 0

	for _, m := range meetings {
		i, seen := index[m.CustomerID]
		if !seen {
			i = len(signals)
			index[m.CustomerID] = i
			signals = append(signals, customerSignal{name: m.CustomerName})
		}
		hits := countKeywordHits(m.Text())
		signals[i].hits += hits
		totalHits += hits
	}
	for _, t := range tasks {
		if i, seen := index[t.CustomerID]; seen && isOverdue(t, now) {
			signals[i].overdue++
		}
	}

	score := stats.OverdueTasks*8 + totalHits*6
	if stats.TotalTasks > 5 && stats.TaskCompletionRate < 70 {
		score += 15
	}
	if score > 100 {
		score = 100
	}

	highRisk := []models.CustomerRisk{}
	for _, s := range signals {
		if s.hits < 2 && s.overdue < 2 {
			continue
		}
		var factors []string
		if s.hits >= 2 {
			factors = append(factors, fmt.Sprintf("%d risk-related mentions in meeting notes", s.hits))
		}
		if s.overdue >= 2 {
			factors = append(factors, fmt.Sprintf("%d overdue tasks", s.overdue))
		}
		highRisk = append(highRisk, models.CustomerRisk{CustomerName: s.name, Factors: factors})
	}

	return models.RiskAssessment{Score: score, HighRiskCustomers: highRisk}
}

func countKeywordHits(text string) int {
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range riskKeywords {
		hits += strings.Count(lower, kw)
	}
	return hits
}

// participantStats counts meeting frequency per customer in
// first-encountered order with a coarse engagement tag.
func participantStats(meetings []models.MeetingRecord) []models.ParticipantStat {
	index := map[string]int{}
	stats := []models.ParticipantStat{}

	for _, m := range meetings {
		i, seen := index[m.CustomerName]
		if !seen {
			i = len(stats)
			index[m.CustomerName] = i
			stats = append(stats, models.ParticipantStat{Name: m.CustomerName})
		}
		stats[i].Meetings++
	}

	for i := range stats {
		switch {
		case stats[i].Meetings >= 4:
			stats[i].Engagement = "high"
		case stats[i].Meetings >= 2:
			stats[i].Engagement = "medium"
		default:
			stats[i].Engagement = "low"
		}
	}

	return stats
}

// keyTopics counts catalog topic mentions across all meeting text,
// sorted descending by count, catalog order on ties.
func keyTopics(meetings []models.MeetingRecord) []models.KeyTopic {
	var combined strings.Builder
	for _, m := range meetings {
		combined.WriteString(strings.ToLower(m.Text()))
		combined.WriteString(" ")
	}
	text := combined.String()

	topics := []models.KeyTopic{}
	for _, t := range topicCatalog {
		count := strings.Count(text, t.Topic)
		if count == 0 {
			continue
		}
		topics = append(topics, models.KeyTopic{Topic: t.Topic, Count: count, Sentiment: t.Sentiment})
	}

	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Count > topics[j].Count
	})
	if len(topics) > maxKeyTopics {
		topics = topics[:maxKeyTopics]
	}
	return topics
}

// actionableInsights classifies portfolio observations as urgent,
// warning or opportunity.
func actionableInsights(meetings []models.MeetingRecord, tasks []models.TaskRecord, stats models.AggregatedStatistics) []models.CategorizedInsight {
	insights := []models.CategorizedInsight{}

	if stats.OverdueTasks > 0 {
		insights = append(insights, models.CategorizedInsight{
			Category: "urgent",
			Text:     fmt.Sprintf("%d tasks are past their due date and still open.", stats.OverdueTasks),
		})
	}
	if stats.TotalTasks > 5 && stats.TaskCompletionRate < 70 {
		insights = append(insights, models.CategorizedInsight{
			Category: "warning",
			Text:     fmt.Sprintf("Task completion rate is %d%%, below the 70%% target.", stats.TaskCompletionRate),
		})
	}

	// Customers with steady meetings and no open tasks are expansion candidates
	openByCustomer := map[string]int{}
	for _, t := range tasks {
		if t.Status != models.StatusCompleted {
			openByCustomer[t.CustomerID]++
		}
	}
	meetingsByCustomer := map[string]int{}
	order := []models.MeetingRecord{}
	for _, m := range meetings {
		if meetingsByCustomer[m.CustomerID] == 0 {
			order = append(order, m)
		}
		meetingsByCustomer[m.CustomerID]++
	}
	for _, m := range order {
		if meetingsByCustomer[m.CustomerID] >= 3 && openByCustomer[m.CustomerID] == 0 {
			insights = append(insights, models.CategorizedInsight{
				Category: "opportunity",
				Text:     fmt.Sprintf("%s shows strong engagement with no open follow-ups; consider proposing the next phase.", m.CustomerName),
			})
		}
	}

	return insights
}
