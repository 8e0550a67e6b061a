package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/crm-analytics-service/internal/analytics"
	"github.com/crm-analytics-service/internal/models"
	"github.com/crm-analytics-service/internal/ratelimit"
	"github.com/crm-analytics-service/internal/storage"
	"github.com/crm-analytics-service/internal/summarize"
)

// Server is the HTTP server exposing the CRM REST API
type Server struct {
	cfg       *models.Config
	store     storage.Store
	builder   *analytics.Builder
	generator *summarize.Generator
	limiter   *ratelimit.Limiter
	mux       *http.ServeMux
	httpSrv   *http.Server
	logger    zerolog.Logger
}

// New creates a new Server
func New(cfg *models.Config, store storage.Store, builder *analytics.Builder, generator *summarize.Generator, limiter *ratelimit.Limiter, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		store:     store,
		builder:   builder,
		generator: generator,
		limiter:   limiter,
		mux:       http.NewServeMux(),
		logger:    logger.With().Str("component", "server").Logger(),
	}
	s.routes()

	s.httpSrv = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.withRequestLog(s.mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("GET /api/v1/customers", s.handleListCustomers)
	s.mux.HandleFunc("POST /api/v1/customers", s.handleCreateCustomer)
	s.mux.HandleFunc("GET /api/v1/customers/{id}", s.handleGetCustomer)
	s.mux.HandleFunc("PUT /api/v1/customers/{id}", s.handleUpdateCustomer)
	s.mux.HandleFunc("DELETE /api/v1/customers/{id}", s.handleDeleteCustomer)
	s.mux.HandleFunc("GET /api/v1/customers/{id}/contacts", s.handleListContacts)
	s.mux.HandleFunc("POST /api/v1/customers/{id}/contacts", s.handleCreateContact)
	s.mux.HandleFunc("GET /api/v1/customers/{id}/meetings", s.handleListCustomerMeetings)
	s.mux.HandleFunc("POST /api/v1/customers/{id}/meetings", s.handleCreateMeeting)

	s.mux.HandleFunc("GET /api/v1/meetings/{id}", s.handleGetMeeting)
	s.mux.HandleFunc("POST /api/v1/meetings/{id}/ai/summarize", s.handleSummarizeMeeting)
	s.mux.HandleFunc("POST /api/v1/meetings/{id}/ai/draft-email", s.handleDraftEmail)

	s.mux.HandleFunc("GET /api/v1/tasks", s.handleListTasks)
	s.mux.HandleFunc("POST /api/v1/tasks", s.handleCreateTask)

	s.mux.HandleFunc("POST /api/v1/analytics/report", s.handleGenerateReport)
}

// Handler returns the root handler, used by tests
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Start runs the HTTP server until it is shut down
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.cfg.HTTPAddr).Msg("HTTP server listening")
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
