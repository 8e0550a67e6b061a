package summarize

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/crm-analytics-service/internal/models"
)

type fakeProvider struct {
	reply string
	err   error
}

func (f *fakeProvider) Name() string { return "fake-model" }

func (f *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	return f.reply, f.err
}

func sampleMeeting() models.MeetingRecord {
	return models.MeetingRecord{
		ID:           "m1",
		CustomerID:   "c1",
		CustomerName: "Acme",
		Title:        "Security kickoff",
		Date:         time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		Notes:        "Agreed on the audit scope",
	}
}

func TestMeetingSummaryWithProvider(t *testing.T) {
	g := NewGenerator(&fakeProvider{reply: "# Meeting Summary\n\nAll good."}, zerolog.Nop())

	summary := g.MeetingSummary(context.Background(), sampleMeeting(), models.LanguageEnglish)

	assert.True(t, summary.CreatedByAI)
	assert.Equal(t, "fake-model", summary.Model)
	assert.Equal(t, "# Meeting Summary\n\nAll good.", summary.SummaryMD)
	assert.Equal(t, "m1", summary.MeetingID)
	assert.NotEmpty(t, summary.ID)
}

func TestMeetingSummaryFallsBackOnError(t *testing.T) {
	g := NewGenerator(&fakeProvider{err: fmt.Errorf("quota exceeded")}, zerolog.Nop())

	summary := g.MeetingSummary(context.Background(), sampleMeeting(), models.LanguageEnglish)

	assert.False(t, summary.CreatedByAI)
	assert.Equal(t, "template", summary.Model)
	assert.Contains(t, summary.SummaryMD, "Meeting Summary - Security kickoff")
	assert.Contains(t, summary.SummaryMD, "Agreed on the audit scope")
}

func TestMeetingSummaryFallsBackOnEmptyReply(t *testing.T) {
	g := NewGenerator(&fakeProvider{reply: "   \n"}, zerolog.Nop())

	summary := g.MeetingSummary(context.Background(), sampleMeeting(), models.LanguageEnglish)

	assert.False(t, summary.CreatedByAI)
	assert.Equal(t, "template", summary.Model)
}

func TestMeetingSummaryWithoutProvider(t *testing.T) {
	g := NewGenerator(nil, zerolog.Nop())

	summary := g.MeetingSummary(context.Background(), sampleMeeting(), models.LanguageHebrew)

	assert.False(t, summary.CreatedByAI)
	assert.Equal(t, models.LanguageHebrew, summary.Language)
	assert.Contains(t, summary.SummaryMD, "סיכום פגישה")
}

func TestEmailDraftWithProvider(t *testing.T) {
	g := NewGenerator(&fakeProvider{
		reply: "Subject: Follow-up on our kickoff\n\n<p>Thanks for the time today.</p>",
	}, zerolog.Nop())

	draft := g.EmailDraft(context.Background(), sampleMeeting(), models.LanguageEnglish)

	assert.True(t, draft.CreatedByAI)
	assert.Equal(t, "Follow-up on our kickoff", draft.Subject)
	assert.Equal(t, "<p>Thanks for the time today.</p>", draft.BodyHTML)
}

func TestEmailDraftFallsBackOnBadShape(t *testing.T) {
	g := NewGenerator(&fakeProvider{reply: "<p>No subject line at all</p>"}, zerolog.Nop())

	draft := g.EmailDraft(context.Background(), sampleMeeting(), models.LanguageEnglish)

	assert.False(t, draft.CreatedByAI)
	assert.Equal(t, "template", draft.Model)
	assert.Contains(t, draft.Subject, "Acme")
	assert.Contains(t, draft.Subject, "2026-03-10")
	assert.Contains(t, draft.BodyHTML, "Acme")
}

func TestEmailDraftHebrewTemplate(t *testing.T) {
	g := NewGenerator(nil, zerolog.Nop())

	draft := g.EmailDraft(context.Background(), sampleMeeting(), models.LanguageHebrew)

	assert.False(t, draft.CreatedByAI)
	assert.Contains(t, draft.Subject, "סיכום פגישה")
	assert.Contains(t, draft.BodyHTML, `dir="rtl"`)
}

func TestSplitEmail(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantSubject string
		wantOK      bool
	}{
		{"well_formed", "Subject: Hello\n\n<p>Body</p>", "Hello", true},
		{"case_insensitive_prefix", "subject: Hi\n\n<p>Body</p>", "Hi", true},
		{"missing_subject", "<p>Body only</p>\nmore", "", false},
		{"single_line", "Subject: Hello", "", false},
		{"empty_body", "Subject: Hello\n\n   ", "", false},
		{"empty_subject", "Subject:\n\n<p>Body</p>", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, _, ok := splitEmail(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantSubject, subject)
			}
		})
	}
}
