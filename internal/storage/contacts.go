package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/crm-analytics-service/internal/models"
	"github.com/google/uuid"
)

// ListCustomerContacts retrieves all contacts for one customer ordered by name
func (s *Supabase) ListCustomerContacts(ctx context.Context, customerID string) ([]models.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var contacts []models.Contact
	operation := "list_contacts"

	err := s.withRetry(ctx, operation, func() error {
		data, _, err := s.client.From("contact").
			Select("*", "exact", false).
			Eq("customer_id", customerID).
			Order("name", nil).
			Execute()

		if err != nil {
			return fmt.Errorf("failed to fetch contacts: %w", err)
		}

		if err := json.Unmarshal(data, &contacts); err != nil {
			return fmt.Errorf("failed to unmarshal contacts: %w", err)
		}

		return nil
	})

	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("Failed to list contacts")
		return nil, err
	}

	return contacts, nil
}

// CreateContact inserts a new contact row
func (s *Supabase) CreateContact(ctx context.Context, contact *models.Contact) error {
	if contact.CustomerID == "" {
		return fmt.Errorf("contact customer_id is required")
	}
	if contact.Name == "" {
		return fmt.Errorf("contact name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}

	operation := "create_contact"
	err := s.withRetry(ctx, operation, func() error {
		data := map[string]interface{}{
			"id":          contact.ID,
			"customer_id": contact.CustomerID,
			"name":        contact.Name,
			"role":        contact.Role,
			"phone":       contact.Phone,
			"email":       contact.Email,
		}

		_, _, err := s.client.From("contact").
			Insert(data, false, "", "", "").
			Execute()

		if err != nil {
			return fmt.Errorf("failed to insert contact: %w", err)
		}

		return nil
	})

	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", contact.CustomerID).Msg("Failed to create contact")
		return err
	}

	s.logger.Debug().
		Str("contact_id", contact.ID).
		Str("customer_id", contact.CustomerID).
		Msg("Contact created")

	return nil
}
