package storage

import (
	"context"
	"strings"
	"time"

	"github.com/crm-analytics-service/internal/models"
	"github.com/google/uuid"
)

// Store is the persistence boundary consumed by the HTTP server, the
// analytics builder and the scheduler. Implementations return copies;
// callers treat returned records as immutable snapshots.
type Store interface {
	// Ping checks the backing store is reachable
	Ping(ctx context.Context) error

	// ListCustomers returns customers ordered by name. A non-empty
	// search narrows to names containing it case-insensitively; limit
	// and offset page the result (limit <= 0 means no cap).
	ListCustomers(ctx context.Context, search string, limit, offset int) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, id string) error

	ListCustomerContacts(ctx context.Context, customerID string) ([]models.Contact, error)
	CreateContact(ctx context.Context, contact *models.Contact) error

	ListMeetings(ctx context.Context) ([]models.MeetingRecord, error)
	ListCustomerMeetings(ctx context.Context, customerID string) ([]models.MeetingRecord, error)
	GetMeeting(ctx context.Context, id string) (*models.MeetingRecord, error)

	// CreateMeeting stores the meeting and derives one pending task per
	// non-empty next-steps line, tagged with SourceMeeting.
	CreateMeeting(ctx context.Context, meeting *models.MeetingRecord, nextSteps []string) error

	ListTasks(ctx context.Context) ([]models.TaskRecord, error)
	CreateTask(ctx context.Context, task *models.TaskRecord) error
}

// nextStepDueOffset is how long after the meeting a derived task is due
const nextStepDueOffset = 7 * 24 * time.Hour

// deriveNextStepTasks builds the tasks auto-created from a meeting's
// next-steps lines. Blank lines are skipped.
func deriveNextStepTasks(meeting *models.MeetingRecord, nextSteps []string, now time.Time) []models.TaskRecord {
	tasks := make([]models.TaskRecord, 0, len(nextSteps))
	for _, step := range nextSteps {
		step = strings.TrimSpace(step)
		if step == "" {
			continue
		}
		due := meeting.Date.Add(nextStepDueOffset)
		tasks = append(tasks, models.TaskRecord{
			ID:           uuid.NewString(),
			CustomerID:   meeting.CustomerID,
			CustomerName: meeting.CustomerName,
			Title:        step,
			DueDate:      &due,
			Priority:     models.PriorityMedium,
			Status:       models.StatusPending,
			Source:       models.SourceMeeting,
			CreatedAt:    now,
		})
	}
	return tasks
}
