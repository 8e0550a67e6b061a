package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/crm-analytics-service/internal/models"
)

// createMeetingRequest is the body of POST /api/v1/customers/{id}/meetings
type createMeetingRequest struct {
	Title           string   `json:"title"`
	Date            string   `json:"meeting_date"`
	DurationMinutes int      `json:"duration_minutes"`
	Summary         string   `json:"summary"`
	Notes           string   `json:"notes"`
	Outcome         string   `json:"outcome"`
	NextSteps       []string `json:"next_steps"`
}

func (s *Server) handleListCustomerMeetings(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("id")

	customer, err := s.store.GetCustomer(r.Context(), customerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("Failed to get customer")
		writeError(w, http.StatusInternalServerError, "failed to get customer")
		return
	}
	if customer == nil {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}

	meetings, err := s.store.ListCustomerMeetings(r.Context(), customerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("Failed to list meetings")
		writeError(w, http.StatusInternalServerError, "failed to list meetings")
		return
	}
	writeJSON(w, http.StatusOK, meetings)
}

func (s *Server) handleGetMeeting(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	meeting, err := s.store.GetMeeting(r.Context(), id)
	if err != nil {
		s.logger.Error().Err(err).Str("meeting_id", id).Msg("Failed to get meeting")
		writeError(w, http.StatusInternalServerError, "failed to get meeting")
		return
	}
	if meeting == nil {
		writeError(w, http.StatusNotFound, "meeting not found")
		return
	}
	writeJSON(w, http.StatusOK, meeting)
}

func (s *Server) handleCreateMeeting(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("id")

	var req createMeetingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid meeting_date, expected RFC3339 or YYYY-MM-DD")
		return
	}

	customer, err := s.store.GetCustomer(r.Context(), customerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("Failed to get customer")
		writeError(w, http.StatusInternalServerError, "failed to get customer")
		return
	}
	if customer == nil {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}

	meeting := models.MeetingRecord{
		CustomerID:      customerID,
		CustomerName:    customer.Name,
		Title:           req.Title,
		Date:            date,
		DurationMinutes: req.DurationMinutes,
		Summary:         req.Summary,
		Notes:           req.Notes,
		Outcome:         req.Outcome,
	}
	if err := s.store.CreateMeeting(r.Context(), &meeting, req.NextSteps); err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("Failed to create meeting")
		writeError(w, http.StatusInternalServerError, "failed to create meeting")
		return
	}

	writeJSON(w, http.StatusCreated, meeting)
}

// parseDate accepts RFC3339 timestamps and bare YYYY-MM-DD dates
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
