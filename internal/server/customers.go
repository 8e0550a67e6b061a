package server

import (
	"net/http"
	"strconv"

	"github.com/crm-analytics-service/internal/models"
)

// defaultCustomerPageSize caps an unpaged customer listing
const defaultCustomerPageSize = 50

// createCustomerRequest is the body of POST /api/v1/customers
type createCustomerRequest struct {
	Name    string  `json:"name"`
	LogoURL string  `json:"logo_url"`
	ARRUSD  float64 `json:"arr_usd"`
	Notes   string  `json:"notes"`
}

// updateCustomerRequest is the body of PUT /api/v1/customers/{id}.
// Pointer fields distinguish an omitted field from an explicit zero;
// only the fields present in the body are changed.
type updateCustomerRequest struct {
	Name    *string  `json:"name"`
	LogoURL *string  `json:"logo_url"`
	ARRUSD  *float64 `json:"arr_usd"`
	Notes   *string  `json:"notes"`
}

// queryInt parses a non-negative integer query parameter, returning
// the fallback when the parameter is absent
func queryInt(r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	limit, ok := queryInt(r, "limit", defaultCustomerPageSize)
	if !ok {
		writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	offset, ok := queryInt(r, "offset", 0)
	if !ok {
		writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	customers, err := s.store.ListCustomers(r.Context(), search, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list customers")
		writeError(w, http.StatusInternalServerError, "failed to list customers")
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	customer, err := s.store.GetCustomer(r.Context(), id)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", id).Msg("Failed to get customer")
		writeError(w, http.StatusInternalServerError, "failed to get customer")
		return
	}
	if customer == nil {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.ARRUSD < 0 {
		writeError(w, http.StatusBadRequest, "arr_usd must not be negative")
		return
	}

	customer := models.Customer{
		Name:    req.Name,
		LogoURL: req.LogoURL,
		ARRUSD:  req.ARRUSD,
		Notes:   req.Notes,
	}
	if err := s.store.CreateCustomer(r.Context(), &customer); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create customer")
		writeError(w, http.StatusInternalServerError, "failed to create customer")
		return
	}

	writeJSON(w, http.StatusCreated, customer)
}

func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateCustomerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name != nil && *req.Name == "" {
		writeError(w, http.StatusBadRequest, "name must not be empty")
		return
	}
	if req.ARRUSD != nil && *req.ARRUSD < 0 {
		writeError(w, http.StatusBadRequest, "arr_usd must not be negative")
		return
	}

	customer, err := s.store.GetCustomer(r.Context(), id)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", id).Msg("Failed to get customer")
		writeError(w, http.StatusInternalServerError, "failed to update customer")
		return
	}
	if customer == nil {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.LogoURL != nil {
		customer.LogoURL = *req.LogoURL
	}
	if req.ARRUSD != nil {
		customer.ARRUSD = *req.ARRUSD
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	if err := s.store.UpdateCustomer(r.Context(), customer); err != nil {
		s.logger.Error().Err(err).Str("customer_id", id).Msg("Failed to update customer")
		writeError(w, http.StatusInternalServerError, "failed to update customer")
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	customer, err := s.store.GetCustomer(r.Context(), id)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", id).Msg("Failed to get customer")
		writeError(w, http.StatusInternalServerError, "failed to delete customer")
		return
	}
	if customer == nil {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}

	if err := s.store.DeleteCustomer(r.Context(), id); err != nil {
		s.logger.Error().Err(err).Str("customer_id", id).Msg("Failed to delete customer")
		writeError(w, http.StatusInternalServerError, "failed to delete customer")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Customer deleted successfully"})
}
