package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crm-analytics-service/internal/models"
	"github.com/google/uuid"
)

// ListMeetings retrieves all meetings ordered by meeting date
func (s *Supabase) ListMeetings(ctx context.Context) ([]models.MeetingRecord, error) {
	return s.fetchMeetings(ctx, "")
}

// ListCustomerMeetings retrieves all meetings for one customer
func (s *Supabase) ListCustomerMeetings(ctx context.Context, customerID string) ([]models.MeetingRecord, error) {
	return s.fetchMeetings(ctx, customerID)
}

func (s *Supabase) fetchMeetings(ctx context.Context, customerID string) ([]models.MeetingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var meetings []models.MeetingRecord
	operation := "list_meetings"

	err := s.withRetry(ctx, operation, func() error {
		query := s.client.From("meeting").
			Select("*", "exact", false).
			Order("meeting_date", nil)
		if customerID != "" {
			query = query.Eq("customer_id", customerID)
		}

		data, _, err := query.Execute()
		if err != nil {
			return fmt.Errorf("failed to fetch meetings: %w", err)
		}

		if err := json.Unmarshal(data, &meetings); err != nil {
			return fmt.Errorf("failed to unmarshal meetings: %w", err)
		}

		return nil
	})

	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("Failed to list meetings")
		return nil, err
	}

	return meetings, nil
}

// GetMeeting retrieves a single meeting by id, nil when absent
func (s *Supabase) GetMeeting(ctx context.Context, id string) (*models.MeetingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var meetings []models.MeetingRecord
	operation := "get_meeting"

	err := s.withRetry(ctx, operation, func() error {
		data, _, err := s.client.From("meeting").
			Select("*", "exact", false).
			Eq("id", id).
			Limit(1, "").
			Execute()

		if err != nil {
			return fmt.Errorf("failed to fetch meeting: %w", err)
		}

		if err := json.Unmarshal(data, &meetings); err != nil {
			return fmt.Errorf("failed to unmarshal meeting: %w", err)
		}

		return nil
	})

	if err != nil {
		s.logger.Error().Err(err).Str("meeting_id", id).Msg("Failed to get meeting")
		return nil, err
	}

	if len(meetings) == 0 {
		return nil, nil
	}

	return &meetings[0], nil
}

// CreateMeeting inserts a meeting row and the tasks derived from its
// next-steps lines.
func (s *Supabase) CreateMeeting(ctx context.Context, meeting *models.MeetingRecord, nextSteps []string) error {
	if meeting.CustomerID == "" {
		return fmt.Errorf("meeting customer_id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := time.Now().UTC()
	if meeting.ID == "" {
		meeting.ID = uuid.NewString()
	}
	if meeting.CreatedAt.IsZero() {
		meeting.CreatedAt = now
	}
	if meeting.CustomerName == "" {
		customer, err := s.GetCustomer(ctx, meeting.CustomerID)
		if err == nil && customer != nil {
			meeting.CustomerName = customer.Name
		}
	}

	operation := "create_meeting"
	err := s.withRetry(ctx, operation, func() error {
		data := map[string]interface{}{
			"id":               meeting.ID,
			"customer_id":      meeting.CustomerID,
			"customer_name":    meeting.CustomerName,
			"title":            meeting.Title,
			"meeting_date":     meeting.Date,
			"duration_minutes": meeting.DurationMinutes,
			"summary":          meeting.Summary,
			"notes":            meeting.Notes,
			"outcome":          meeting.Outcome,
			"created_at":       meeting.CreatedAt,
		}

		_, _, err := s.client.From("meeting").
			Insert(data, false, "", "", "").
			Execute()

		if err != nil {
			return fmt.Errorf("failed to insert meeting: %w", err)
		}

		return nil
	})

	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", meeting.CustomerID).Msg("Failed to create meeting")
		return err
	}

	derived := deriveNextStepTasks(meeting, nextSteps, now)
	for i := range derived {
		if err := s.CreateTask(ctx, &derived[i]); err != nil {
			// The meeting row is already in; log and keep deriving the rest
			s.logger.Error().
				Err(err).
				Str("meeting_id", meeting.ID).
				Str("task_title", derived[i].Title).
				Msg("Failed to create derived task")
		}
	}

	s.logger.Info().
		Str("meeting_id", meeting.ID).
		Str("customer_id", meeting.CustomerID).
		Int("derived_tasks", len(derived)).
		Msg("Meeting created")

	return nil
}
