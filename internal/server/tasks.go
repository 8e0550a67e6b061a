package server

import (
	"net/http"
	"time"

	"github.com/crm-analytics-service/internal/models"
)

// createTaskRequest is the body of POST /api/v1/tasks
type createTaskRequest struct {
	CustomerID  string `json:"customer_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list tasks")
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CustomerID == "" {
		writeError(w, http.StatusBadRequest, "customer_id is required")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	priority := models.PriorityMedium
	if req.Priority != "" {
		priority = models.Priority(req.Priority)
		if !priority.Valid() {
			writeError(w, http.StatusBadRequest, "priority must be low, medium or high")
			return
		}
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := parseDate(req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid due_date, expected RFC3339 or YYYY-MM-DD")
			return
		}
		dueDate = &parsed
	}

	customer, err := s.store.GetCustomer(r.Context(), req.CustomerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", req.CustomerID).Msg("Failed to get customer")
		writeError(w, http.StatusInternalServerError, "failed to get customer")
		return
	}
	if customer == nil {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}

	task := models.TaskRecord{
		CustomerID:   req.CustomerID,
		CustomerName: customer.Name,
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      dueDate,
		Priority:     priority,
		Status:       models.StatusPending,
		Source:       models.SourceManual,
	}
	if err := s.store.CreateTask(r.Context(), &task); err != nil {
		s.logger.Error().Err(err).Str("customer_id", req.CustomerID).Msg("Failed to create task")
		writeError(w, http.StatusInternalServerError, "failed to create task")
		return
	}

	writeJSON(w, http.StatusCreated, task)
}
