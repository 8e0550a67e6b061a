package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/crm-analytics-service/internal/analytics"
	"github.com/crm-analytics-service/internal/models"
)

// aiRequest is the optional body of the per-meeting AI endpoints.
// When language is omitted it is detected from the meeting text.
type aiRequest struct {
	Language string `json:"language"`
}

func (s *Server) handleSummarizeMeeting(w http.ResponseWriter, r *http.Request) {
	meeting, lang, ok := s.prepareAIRequest(w, r)
	if !ok {
		return
	}

	summary := s.generator.MeetingSummary(r.Context(), *meeting, lang)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDraftEmail(w http.ResponseWriter, r *http.Request) {
	meeting, lang, ok := s.prepareAIRequest(w, r)
	if !ok {
		return
	}

	contacts, err := s.store.ListCustomerContacts(r.Context(), meeting.CustomerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", meeting.CustomerID).Msg("Failed to list contacts")
		writeError(w, http.StatusInternalServerError, "failed to list contacts")
		return
	}

	draft := s.generator.EmailDraft(r.Context(), *meeting, lang)
	draft.ToEmails, draft.CcEmails = draftRecipients(contacts)
	writeJSON(w, http.StatusOK, draft)
}

// draftRecipients splits the customer's contact addresses into To and
// Cc lines: the first two addressable contacts are addressed directly,
// everyone else is copied. Contacts without an email are skipped.
func draftRecipients(contacts []models.Contact) (to, cc []string) {
	to = []string{}
	cc = []string{}
	for _, c := range contacts {
		if c.Email == "" {
			continue
		}
		if len(to) < 2 {
			to = append(to, c.Email)
		} else {
			cc = append(cc, c.Email)
		}
	}
	return to, cc
}

// prepareAIRequest loads the meeting, resolves the target language and
// charges the daily AI budget. On failure it writes the error response
// and returns ok=false.
func (s *Server) prepareAIRequest(w http.ResponseWriter, r *http.Request) (*models.MeetingRecord, models.Language, bool) {
	id := r.PathValue("id")

	var req aiRequest
	if err := decodeBody(r, &req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, "", false
	}

	var lang models.Language
	switch req.Language {
	case "":
		// detected below
	case string(models.LanguageEnglish), string(models.LanguageHebrew):
		lang = models.Language(req.Language)
	default:
		writeError(w, http.StatusBadRequest, "language must be en or he")
		return nil, "", false
	}

	meeting, err := s.store.GetMeeting(r.Context(), id)
	if err != nil {
		s.logger.Error().Err(err).Str("meeting_id", id).Msg("Failed to get meeting")
		writeError(w, http.StatusInternalServerError, "failed to get meeting")
		return nil, "", false
	}
	if meeting == nil {
		writeError(w, http.StatusNotFound, "meeting not found")
		return nil, "", false
	}

	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests,
			fmt.Sprintf("daily AI limit reached, resets in about %d hours", s.limiter.ResetsInHours()))
		return nil, "", false
	}

	if lang == "" {
		lang = analytics.DetectLanguage([]models.MeetingRecord{*meeting})
	}

	return meeting, lang, true
}
