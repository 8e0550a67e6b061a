package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crm-analytics-service/internal/models"
	"github.com/google/uuid"
)

// ListTasks retrieves all tasks ordered by creation time
func (s *Supabase) ListTasks(ctx context.Context) ([]models.TaskRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var tasks []models.TaskRecord
	operation := "list_tasks"

	err := s.withRetry(ctx, operation, func() error {
		data, _, err := s.client.From("task").
			Select("*", "exact", false).
			Order("created_at", nil).
			Execute()

		if err != nil {
			return fmt.Errorf("failed to fetch tasks: %w", err)
		}

		if err := json.Unmarshal(data, &tasks); err != nil {
			return fmt.Errorf("failed to unmarshal tasks: %w", err)
		}

		return nil
	})

	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list tasks")
		return nil, err
	}

	return tasks, nil
}

// CreateTask inserts a new task row
func (s *Supabase) CreateTask(ctx context.Context, task *models.TaskRecord) error {
	if task.CustomerID == "" {
		return fmt.Errorf("task customer_id is required")
	}
	if task.Title == "" {
		return fmt.Errorf("task title is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Source == "" {
		task.Source = models.SourceManual
	}

	operation := "create_task"
	err := s.withRetry(ctx, operation, func() error {
		data := map[string]interface{}{
			"id":            task.ID,
			"customer_id":   task.CustomerID,
			"customer_name": task.CustomerName,
			"title":         task.Title,
			"description":   task.Description,
			"due_date":      task.DueDate,
			"priority":      task.Priority,
			"status":        task.Status,
			"source":        task.Source,
			"created_at":    task.CreatedAt,
			"completed_at":  task.CompletedAt,
		}

		_, _, err := s.client.From("task").
			Insert(data, false, "", "", "").
			Execute()

		if err != nil {
			return fmt.Errorf("failed to insert task: %w", err)
		}

		return nil
	})

	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", task.CustomerID).Msg("Failed to create task")
		return err
	}

	s.logger.Debug().
		Str("task_id", task.ID).
		Str("customer_id", task.CustomerID).
		Str("priority", task.Priority.String()).
		Msg("Task created")

	return nil
}
