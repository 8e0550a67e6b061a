package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crm-analytics-service/internal/models"
	"github.com/google/uuid"
)

// ListCustomers retrieves customers ordered by name, optionally
// narrowed by a case-insensitive name search and paged
func (s *Supabase) ListCustomers(ctx context.Context, search string, limit, offset int) ([]models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var customers []models.Customer
	operation := "list_customers"

	err := s.withRetry(ctx, operation, func() error {
		query := s.client.From("customer").
			Select("*", "exact", false).
			Order("name", nil)

		if search != "" {
			query = query.Ilike("name", "%"+search+"%")
		}
		if limit > 0 {
			query = query.Range(offset, offset+limit-1, "")
		}

		data, _, err := query.Execute()

		if err != nil {
			return fmt.Errorf("failed to fetch customers: %w", err)
		}

		if err := json.Unmarshal(data, &customers); err != nil {
			return fmt.Errorf("failed to unmarshal customers: %w", err)
		}

		return nil
	})

	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list customers")
		return nil, err
	}

	return customers, nil
}

// GetCustomer retrieves a single customer by id, nil when absent
func (s *Supabase) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var customers []models.Customer
	operation := "get_customer"

	err := s.withRetry(ctx, operation, func() error {
		data, _, err := s.client.From("customer").
			Select("*", "exact", false).
			Eq("id", id).
			Limit(1, "").
			Execute()

		if err != nil {
			return fmt.Errorf("failed to fetch customer: %w", err)
		}

		if err := json.Unmarshal(data, &customers); err != nil {
			return fmt.Errorf("failed to unmarshal customer: %w", err)
		}

		return nil
	})

	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", id).Msg("Failed to get customer")
		return nil, err
	}

	if len(customers) == 0 {
		return nil, nil
	}

	return &customers[0], nil
}

// CreateCustomer inserts a new customer row
func (s *Supabase) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if customer.Name == "" {
		return fmt.Errorf("customer name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := time.Now().UTC()
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = now
	}
	customer.UpdatedAt = now

	operation := "create_customer"
	err := s.withRetry(ctx, operation, func() error {
		data := map[string]interface{}{
			"id":         customer.ID,
			"name":       customer.Name,
			"logo_url":   customer.LogoURL,
			"arr_usd":    customer.ARRUSD,
			"notes":      customer.Notes,
			"created_at": customer.CreatedAt,
			"updated_at": customer.UpdatedAt,
		}

		_, _, err := s.client.From("customer").
			Insert(data, false, "", "", "").
			Execute()

		if err != nil {
			return fmt.Errorf("failed to insert customer: %w", err)
		}

		return nil
	})

	if err != nil {
		s.logger.Error().Err(err).Str("name", customer.Name).Msg("Failed to create customer")
		return err
	}

	s.logger.Info().
		Str("customer_id", customer.ID).
		Str("name", customer.Name).
		Msg("Customer created")

	return nil
}

// UpdateCustomer writes the customer's mutable fields back to its row
func (s *Supabase) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	if customer.Name == "" {
		return fmt.Errorf("customer name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	customer.UpdatedAt = time.Now().UTC()

	operation := "update_customer"
	err := s.withRetry(ctx, operation, func() error {
		data := map[string]interface{}{
			"name":       customer.Name,
			"logo_url":   customer.LogoURL,
			"arr_usd":    customer.ARRUSD,
			"notes":      customer.Notes,
			"updated_at": customer.UpdatedAt,
		}

		_, _, err := s.client.From("customer").
			Update(data, "", "").
			Eq("id", customer.ID).
			Execute()

		if err != nil {
			return fmt.Errorf("failed to update customer: %w", err)
		}

		return nil
	})

	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customer.ID).Msg("Failed to update customer")
		return err
	}

	s.logger.Info().
		Str("customer_id", customer.ID).
		Msg("Customer updated")

	return nil
}

// DeleteCustomer removes the customer row. Contact rows cascade via
// the contact table's foreign key.
func (s *Supabase) DeleteCustomer(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	operation := "delete_customer"
	err := s.withRetry(ctx, operation, func() error {
		_, _, err := s.client.From("customer").
			Delete("", "").
			Eq("id", id).
			Execute()

		if err != nil {
			return fmt.Errorf("failed to delete customer: %w", err)
		}

		return nil
	})

	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", id).Msg("Failed to delete customer")
		return err
	}

	s.logger.Info().
		Str("customer_id", id).
		Msg("Customer deleted")

	return nil
}
