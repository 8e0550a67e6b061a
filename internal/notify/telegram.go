package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/crm-analytics-service/internal/models"
)

// digestInsightCap limits how many insight/recommendation lines go into
// a single Telegram message.
const digestInsightCap = 5

// Telegram delivers report digests to a configured Telegram chat
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger
}

// NewTelegram creates a Telegram notifier
func NewTelegram(token string, chatID int64, logger zerolog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Telegram{
		api:    api,
		chatID: chatID,
		logger: logger.With().Str("component", "notify").Logger(),
	}, nil
}

// SendDigest formats the report as a Markdown message and sends it
func (t *Telegram) SendDigest(report *models.AnalyticsReport) error {
	msg := tgbotapi.NewMessage(t.chatID, formatDigest(report))
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := t.api.Send(msg); err != nil {
		t.logger.Error().
			Err(err).
			Int64("chat_id", t.chatID).
			Str("report_id", report.ID).
			Msg("Failed to send digest")
		return fmt.Errorf("failed to send digest: %w", err)
	}

	t.logger.Info().
		Int64("chat_id", t.chatID).
		Str("report_id", report.ID).
		Msg("Digest sent")

	return nil
}

// formatDigest renders the report into a compact Telegram message
func formatDigest(report *models.AnalyticsReport) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📊 *%s*\n\n", escapeMarkdown(report.Title)))
	sb.WriteString(escapeMarkdown(report.Summary))
	sb.WriteString("\n")

	stats := report.Statistics
	sb.WriteString(fmt.Sprintf("\nMeetings: %d | Customers: %d | Tasks: %d (%d%% done) | Overdue: %d\n",
		stats.TotalMeetings, stats.UniqueCustomers, stats.TotalTasks, stats.TaskCompletionRate, stats.OverdueTasks))

	if len(report.Insights) > 0 {
		sb.WriteString("\n*Insights:*\n")
		for i, insight := range report.Insights {
			if i >= digestInsightCap {
				break
			}
			sb.WriteString("• " + escapeMarkdown(insight) + "\n")
		}
	}

	if len(report.Recommendations) > 0 {
		sb.WriteString("\n*Recommendations:*\n")
		for i, rec := range report.Recommendations {
			if i >= digestInsightCap {
				break
			}
			sb.WriteString("• " + escapeMarkdown(rec) + "\n")
		}
	}

	return sb.String()
}

// escapeMarkdown escapes the characters Telegram Markdown V1 treats as
// formatting.
func escapeMarkdown(text string) string {
	replacements := map[string]string{
		"_": "\\_",
		"*": "\\*",
		"[": "\\[",
		"`": "\\`",
	}

	result := text
	for old, new := range replacements {
		result = strings.ReplaceAll(result, old, new)
	}
	return result
}
