package summarize

import (
	"fmt"
	"strings"

	"github.com/crm-analytics-service/internal/models"
)

// summaryTemplate renders the deterministic markdown summary used when
// no LLM is available.
func summaryTemplate(meeting models.MeetingRecord, lang models.Language) string {
	notes := meeting.Notes
	if notes == "" {
		notes = meeting.Summary
	}

	if lang == models.LanguageHebrew {
		if notes == "" {
			notes = "אין הערות זמינות"
		}
		return strings.TrimSpace(fmt.Sprintf(`# סיכום פגישה - %s

## סדר יום
- דיון בנושאים עיקריים
- החלטות שהתקבלו

## החלטות מרכזיות
%s

## פעולות נדרשות
- [ ] מעקב אחר החלטות
- [ ] תיאום פגישה הבאה

## צעדים הבאים
- המשך תיאום
- דיווח לצוות

## השפעה על ARR
לא צוין`, meeting.Title, notes))
	}

	if notes == "" {
		notes = "No notes available"
	}
	return strings.TrimSpace(fmt.Sprintf(`# Meeting Summary - %s

## Agenda
- Discussion of key topics
- Decisions made

## Key Decisions
%s

## Action Items
- [ ] Follow up on decisions
- [ ] Schedule next meeting

## Next Steps
- Continue coordination
- Report to team

## ARR Impact
Not specified`, meeting.Title, notes))
}

// emailTemplate renders the deterministic follow-up email used when no
// LLM is available.
func emailTemplate(meeting models.MeetingRecord, lang models.Language) (subject, body string) {
	customerName := meeting.CustomerName
	if customerName == "" {
		customerName = "Customer"
	}
	date := meeting.Date.Format("2006-01-02")

	notes := meeting.Notes
	if lang == models.LanguageHebrew {
		if notes == "" {
			notes = "לא צוינו פרטים"
		}
		subject = fmt.Sprintf("%s – %s – סיכום פגישה וצעדים הבאים", customerName, date)
		body = strings.TrimSpace(fmt.Sprintf(`<div dir="rtl">
<p>שלום,</p>

<p>אני שולח/ת סיכום הפגישה שלנו מהיום (%s) עם %s.</p>

<h3>נושאים עיקריים שנדונו:</h3>
<ul>
<li>%s</li>
</ul>

<h3>פעולות נדרשות:</h3>
<ul>
<li>מעקב אחר החלטות שהתקבלו</li>
<li>תיאום הפגישה הבאה</li>
</ul>

<p>אשמח לשמוע הערות או שאלות.</p>

<p>תודה,<br>
[השם שלך]</p>
</div>`, date, customerName, notes))
		return subject, body
	}

	if notes == "" {
		notes = "No details provided"
	}
	subject = fmt.Sprintf("%s – %s – Meeting Summary & Next Steps", customerName, date)
	body = strings.TrimSpace(fmt.Sprintf(`<p>Hello,</p>

<p>I'm sending a summary of our meeting today (%s) with %s.</p>

<h3>Key Topics Discussed:</h3>
<ul>
<li>%s</li>
</ul>

<h3>Action Items:</h3>
<ul>
<li>Follow up on decisions made</li>
<li>Schedule next meeting</li>
</ul>

<p>Please let me know if you have any questions or feedback.</p>

<p>Best regards,<br>
[Your Name]</p>`, date, customerName, notes))
	return subject, body
}
