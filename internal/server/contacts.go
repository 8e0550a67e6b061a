package server

import (
	"net/http"

	"github.com/crm-analytics-service/internal/models"
)

// createContactRequest is the body of POST /api/v1/customers/{id}/contacts
type createContactRequest struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
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

	contacts, err := s.store.ListCustomerContacts(r.Context(), customerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("Failed to list contacts")
		writeError(w, http.StatusInternalServerError, "failed to list contacts")
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("id")

	var req createContactRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
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

	contact := models.Contact{
		CustomerID: customerID,
		Name:       req.Name,
		Role:       req.Role,
		Phone:      req.Phone,
		Email:      req.Email,
	}
	if err := s.store.CreateContact(r.Context(), &contact); err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("Failed to create contact")
		writeError(w, http.StatusInternalServerError, "failed to create contact")
		return
	}

	writeJSON(w, http.StatusCreated, contact)
}
