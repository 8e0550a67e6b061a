package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/crm-analytics-service/internal/llm"
	"github.com/crm-analytics-service/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// templateModel marks content produced without an LLM
const templateModel = "template"

// Generator produces per-meeting AI content: a markdown summary and a
// follow-up email draft. When no provider is configured, or the provider
// fails, deterministic templates are used instead; generation never
// surfaces an error to the caller.
type Generator struct {
	provider llm.Provider
	logger   zerolog.Logger
}

// NewGenerator creates a new meeting content generator. Provider may be nil.
func NewGenerator(provider llm.Provider, logger zerolog.Logger) *Generator {
	return &Generator{
		provider: provider,
		logger:   logger.With().Str("component", "summarize").Logger(),
	}
}

// MeetingSummary generates a markdown summary for a meeting
func (g *Generator) MeetingSummary(ctx context.Context, meeting models.MeetingRecord, lang models.Language) models.MeetingSummary {
	summary := models.MeetingSummary{
		ID:          uuid.NewString(),
		MeetingID:   meeting.ID,
		Language:    lang,
		Model:       templateModel,
		CreatedByAI: false,
		CreatedAt:   time.Now().UTC(),
	}

	if g.provider != nil {
		text, err := g.provider.Complete(ctx, summaryPrompt(meeting, lang))
		if err == nil && strings.TrimSpace(text) != "" {
			summary.SummaryMD = strings.TrimSpace(text)
			summary.Model = g.provider.Name()
			summary.CreatedByAI = true
			return summary
		}
		g.logger.Warn().
			Err(err).
			Str("meeting_id", meeting.ID).
			Msg("LLM summary failed, using template")
	}

	summary.SummaryMD = summaryTemplate(meeting, lang)
	return summary
}

// EmailDraft generates a follow-up email draft for a meeting
func (g *Generator) EmailDraft(ctx context.Context, meeting models.MeetingRecord, lang models.Language) models.EmailDraft {
	draft := models.EmailDraft{
		ID:          uuid.NewString(),
		MeetingID:   meeting.ID,
		Language:    lang,
		Model:       templateModel,
		CreatedByAI: false,
		CreatedAt:   time.Now().UTC(),
	}

	if g.provider != nil {
		text, err := g.provider.Complete(ctx, emailPrompt(meeting, lang))
		if err == nil {
			if subject, body, ok := splitEmail(text); ok {
				draft.Subject = subject
				draft.BodyHTML = body
				draft.Model = g.provider.Name()
				draft.CreatedByAI = true
				return draft
			}
		}
		g.logger.Warn().
			Err(err).
			Str("meeting_id", meeting.ID).
			Msg("LLM email draft failed, using template")
	}

	draft.Subject, draft.BodyHTML = emailTemplate(meeting, lang)
	return draft
}

// splitEmail expects the reply's first line to be "Subject: ..." with
// the HTML body after a blank line.
func splitEmail(text string) (subject, body string, ok bool) {
	text = strings.TrimSpace(text)
	lines := strings.SplitN(text, "\n", 2)
	if len(lines) < 2 {
		return "", "", false
	}

	first := strings.TrimSpace(lines[0])
	if !strings.HasPrefix(strings.ToLower(first), "subject:") {
		return "", "", false
	}
	subject = strings.TrimSpace(first[len("subject:"):])
	body = strings.TrimSpace(lines[1])

	if subject == "" || body == "" {
		return "", "", false
	}
	return subject, body, true
}

func summaryPrompt(meeting models.MeetingRecord, lang models.Language) string {
	var sb strings.Builder

	if lang == models.LanguageHebrew {
		sb.WriteString("כתוב סיכום פגישה בפורמט markdown בעברית, עם הכותרות: סדר יום, החלטות מרכזיות, פעולות נדרשות, צעדים הבאים, השפעה על ARR.\n\n")
	} else {
		sb.WriteString("Write a meeting summary in markdown, in English, with the headings: Agenda, Key Decisions, Action Items, Next Steps, ARR Impact.\n\n")
	}

	sb.WriteString(fmt.Sprintf("Customer: %s\n", meeting.CustomerName))
	sb.WriteString(fmt.Sprintf("Meeting: %s (%s)\n", meeting.Title, meeting.Date.Format("2006-01-02")))
	if meeting.Notes != "" {
		sb.WriteString("Notes:\n" + meeting.Notes + "\n")
	}
	if meeting.Outcome != "" {
		sb.WriteString("Outcome:\n" + meeting.Outcome + "\n")
	}
	sb.WriteString("\nReply with the markdown summary only.\n")

	return sb.String()
}

func emailPrompt(meeting models.MeetingRecord, lang models.Language) string {
	var sb strings.Builder

	if lang == models.LanguageHebrew {
		sb.WriteString("כתוב טיוטת מייל מעקב ללקוח בעברית, בפורמט HTML. ")
	} else {
		sb.WriteString("Write a follow-up email draft to the customer, in English, as HTML. ")
	}
	sb.WriteString("The first line of your reply must be `Subject: ...`, followed by a blank line and the HTML body.\n\n")

	sb.WriteString(fmt.Sprintf("Customer: %s\n", meeting.CustomerName))
	sb.WriteString(fmt.Sprintf("Meeting: %s (%s)\n", meeting.Title, meeting.Date.Format("2006-01-02")))
	if meeting.Notes != "" {
		sb.WriteString("Notes:\n" + meeting.Notes + "\n")
	}

	return sb.String()
}
