package server

import (
	"io"
	"net/http"

	"github.com/crm-analytics-service/internal/models"
)

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var filter models.AnalyticsFilter
	if err := decodeBody(r, &filter); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if filter.TimeRange != "" {
		switch filter.TimeRange {
		case models.RangeWeek, models.RangeMonth, models.RangeQuarter, models.RangeYear:
		default:
			writeError(w, http.StatusBadRequest, "time_range must be week, month, quarter or year")
			return
		}
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		writeError(w, http.StatusBadRequest, "date_from must not be after date_to")
		return
	}

	meetings, err := s.store.ListMeetings(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load meetings for report")
		writeError(w, http.StatusInternalServerError, "failed to load meetings")
		return
	}
	tasks, err := s.store.ListTasks(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load tasks for report")
		writeError(w, http.StatusInternalServerError, "failed to load tasks")
		return
	}

	report := s.builder.Generate(r.Context(), meetings, tasks, filter)

	s.logger.Info().
		Str("report_id", report.ID).
		Str("time_range", filter.TimeRange.String()).
		Int("meetings", report.Statistics.TotalMeetings).
		Msg("Report generated")

	writeJSON(w, http.StatusOK, report)
}
