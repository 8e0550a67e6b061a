package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crm-analytics-service/internal/models"
)

func TestLanguageDistribution(t *testing.T) {
	meetings := []models.MeetingRecord{
		{Title: "Security review with the platform team"},
		{Title: "Quarterly compliance planning session"},
		{Title: "פגישת סיכום רבעונית עם צוות האבטחה"},
	}

	shares := languageDistribution(meetings)

	require.Len(t, shares, 2)
	assert.Equal(t, models.LanguageEnglish, shares[0].Language)
	assert.Equal(t, 2, shares[0].Meetings)
	assert.Equal(t, 67, shares[0].Percent)
	assert.Equal(t, models.LanguageHebrew, shares[1].Language)
	assert.Equal(t, 1, shares[1].Meetings)
	assert.Equal(t, 33, shares[1].Percent)
}

func TestLanguageDistributionEmpty(t *testing.T) {
	assert.Empty(t, languageDistribution(nil))
}

func TestAssessRiskScore(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -2)

	meetings := []models.MeetingRecord{
		{ID: "m1", CustomerID: "c1", CustomerName: "Acme", Title: "Incident review", Notes: "Discussed the breach timeline", Date: now.AddDate(0, 0, -1)},
	}
	tasks := []models.TaskRecord{
		taskWith("t1", "c1", models.PriorityHigh, models.StatusPending, &past),
	}
	stats := Aggregate(meetings, tasks, now)

	risk := assessRisk(meetings, tasks, stats, now)

	// 1 overdue task (8) + 2 keyword hits (12); no low-completion penalty
	// with only one task.
	assert.Equal(t, 20, risk.Score)
	require.Len(t, risk.HighRiskCustomers, 1)
	assert.Equal(t, "Acme", risk.HighRiskCustomers[0].CustomerName)
	assert.NotEmpty(t, risk.HighRiskCustomers[0].Factors)
}

func TestAssessRiskScoreClampedAt100(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -2)

	meetings := []models.MeetingRecord{
		{ID: "m1", CustomerID: "c1", CustomerName: "Acme", Date: now.AddDate(0, 0, -1)},
	}
	var tasks []models.TaskRecord
	for i := 0; i < 20; i++ {
		tasks = append(tasks, taskWith(string(rune('a'+i)), "c1", models.PriorityHigh, models.StatusPending, &past))
	}
	stats := Aggregate(meetings, tasks, now)

	risk := assessRisk(meetings, tasks, stats, now)

	assert.Equal(t, 100, risk.Score)
}

func TestAssessRiskQuietPortfolio(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	meetings := []models.MeetingRecord{
		{ID: "m1", CustomerID: "c1", CustomerName: "Acme", Title: "Roadmap sync", Date: now.AddDate(0, 0, -1)},
	}
	stats := Aggregate(meetings, nil, now)

	risk := assessRisk(meetings, nil, stats, now)

	assert.Equal(t, 0, risk.Score)
	assert.Empty(t, risk.HighRiskCustomers)
}

func TestParticipantStatsEngagement(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	var meetings []models.MeetingRecord
	for i := 0; i < 4; i++ {
		meetings = append(meetings, meetingOn("c1", "Acme", now.AddDate(0, 0, -i)))
	}
	for i := 0; i < 2; i++ {
		meetings = append(meetings, meetingOn("c2", "Globex", now.AddDate(0, 0, -i)))
	}
	meetings = append(meetings, meetingOn("c3", "Initech", now))

	stats := participantStats(meetings)

	require.Len(t, stats, 3)
	assert.Equal(t, models.ParticipantStat{Name: "Acme", Meetings: 4, Engagement: "high"}, stats[0])
	assert.Equal(t, models.ParticipantStat{Name: "Globex", Meetings: 2, Engagement: "medium"}, stats[1])
	assert.Equal(t, models.ParticipantStat{Name: "Initech", Meetings: 1, Engagement: "low"}, stats[2])
}

func TestKeyTopicsSortedByCount(t *testing.T) {
	meetings := []models.MeetingRecord{
		{Title: "Phishing simulation results", Notes: "phishing awareness follow-up and more phishing training"},
		{Title: "Compliance gap analysis", Notes: "compliance roadmap"},
		{Title: "Renewal discussion"},
	}

	topics := keyTopics(meetings)

	require.GreaterOrEqual(t, len(topics), 3)
	assert.Equal(t, "phishing", topics[0].Topic)
	assert.Equal(t, 3, topics[0].Count)
	assert.Equal(t, "negative", topics[0].Sentiment)
	assert.Equal(t, "compliance", topics[1].Topic)
	assert.Equal(t, 2, topics[1].Count)
}

func TestKeyTopicsNoMentions(t *testing.T) {
	meetings := []models.MeetingRecord{
		{Title: "General catch-up"},
	}

	assert.Empty(t, keyTopics(meetings))
}

func TestActionableInsights(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -2)

	// Acme: three meetings, no open tasks -> opportunity.
	// Globex: overdue backlog plus low completion -> urgent and warning.
	meetings := []models.MeetingRecord{
		meetingOn("c1", "Acme", now.AddDate(0, 0, -1)),
		meetingOn("c1", "Acme", now.AddDate(0, 0, -4)),
		meetingOn("c1", "Acme", now.AddDate(0, 0, -8)),
		meetingOn("c2", "Globex", now.AddDate(0, 0, -2)),
	}
	var tasks []models.TaskRecord
	tasks = append(tasks, taskWith("t1", "c1", models.PriorityMedium, models.StatusCompleted, nil))
	tasks = append(tasks, taskWith("t2", "c2", models.PriorityHigh, models.StatusPending, &past))
	for _, id := range []string{"t3", "t4", "t5", "t6"} {
		tasks = append(tasks, taskWith(id, "c2", models.PriorityLow, models.StatusPending, nil))
	}
	stats := Aggregate(meetings, tasks, now)

	insights := actionableInsights(meetings, tasks, stats)

	categories := make(map[string]int)
	for _, in := range insights {
		categories[in.Category]++
	}
	assert.Equal(t, 1, categories["urgent"])
	assert.Equal(t, 1, categories["warning"])
	assert.Equal(t, 1, categories["opportunity"])
}

func TestBuildExtendedEmptyInput(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	stats := Aggregate(nil, nil, now)

	ext := BuildExtended(nil, nil, stats, now)

	assert.Empty(t, ext.LanguageDistribution)
	assert.Equal(t, 0, ext.Risk.Score)
	assert.Empty(t, ext.Participants)
	assert.Empty(t, ext.KeyTopics)
	assert.Empty(t, ext.ActionableInsights)
}
