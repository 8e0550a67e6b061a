package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/crm-analytics-service/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Memory is an in-process Store used when Supabase is not configured.
// State is owned by this explicitly constructed object and guarded by a
// single mutex; nothing lives at module level.
type Memory struct {
	mu        sync.RWMutex
	customers []models.Customer
	contacts  []models.Contact
	meetings  []models.MeetingRecord
	tasks     []models.TaskRecord
	logger    zerolog.Logger
}

// NewMemory creates an empty in-memory store
func NewMemory(logger zerolog.Logger) *Memory {
	return &Memory{
		logger: logger.With().Str("component", "storage_memory").Logger(),
	}
}

// Ping always succeeds for the in-memory store
func (s *Memory) Ping(ctx context.Context) error {
	return nil
}

// ListCustomers returns customers ordered by name, narrowed by the
// case-insensitive search and paged by limit and offset
func (s *Memory) ListCustomers(ctx context.Context, search string, limit, offset int) ([]models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(search)
	matched := make([]models.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		if needle != "" && !strings.Contains(strings.ToLower(c.Name), needle) {
			continue
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	if offset >= len(matched) {
		return []models.Customer{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]models.Customer, len(matched))
	copy(out, matched)
	return out, nil
}

// GetCustomer returns the customer with the given id, or nil when absent
func (s *Memory) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.customers {
		if c.ID == id {
			customer := c
			return &customer, nil
		}
	}
	return nil, nil
}

// CreateCustomer stores a new customer, filling id and timestamps
func (s *Memory) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if customer.Name == "" {
		return fmt.Errorf("customer name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = now
	}
	customer.UpdatedAt = now

	s.customers = append(s.customers, *customer)

	s.logger.Debug().
		Str("customer_id", customer.ID).
		Str("name", customer.Name).
		Msg("Customer created")

	return nil
}

// UpdateCustomer replaces the stored customer, refreshing updated_at
func (s *Memory) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	if customer.Name == "" {
		return fmt.Errorf("customer name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.customers {
		if s.customers[i].ID == customer.ID {
			customer.UpdatedAt = time.Now().UTC()
			s.customers[i] = *customer

			s.logger.Debug().
				Str("customer_id", customer.ID).
				Msg("Customer updated")

			return nil
		}
	}
	return fmt.Errorf("customer %s not found", customer.ID)
}

// DeleteCustomer removes the customer and its contacts
func (s *Memory) DeleteCustomer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	customers := s.customers[:0]
	for _, c := range s.customers {
		if c.ID == id {
			found = true
			continue
		}
		customers = append(customers, c)
	}
	if !found {
		return fmt.Errorf("customer %s not found", id)
	}
	s.customers = customers

	contacts := s.contacts[:0]
	for _, c := range s.contacts {
		if c.CustomerID != id {
			contacts = append(contacts, c)
		}
	}
	s.contacts = contacts

	s.logger.Debug().
		Str("customer_id", id).
		Msg("Customer deleted")

	return nil
}

// ListCustomerContacts returns all contacts for one customer
func (s *Memory) ListCustomerContacts(ctx context.Context, customerID string) ([]models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Contact, 0)
	for _, c := range s.contacts {
		if c.CustomerID == customerID {
			out = append(out, c)
		}
	}
	return out, nil
}

// CreateContact stores a new contact, filling the id
func (s *Memory) CreateContact(ctx context.Context, contact *models.Contact) error {
	if contact.CustomerID == "" {
		return fmt.Errorf("contact customer_id is required")
	}
	if contact.Name == "" {
		return fmt.Errorf("contact name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}

	s.contacts = append(s.contacts, *contact)

	s.logger.Debug().
		Str("contact_id", contact.ID).
		Str("customer_id", contact.CustomerID).
		Msg("Contact created")

	return nil
}

// ListMeetings returns a copy of all meetings
func (s *Memory) ListMeetings(ctx context.Context) ([]models.MeetingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.MeetingRecord, len(s.meetings))
	copy(out, s.meetings)
	return out, nil
}

// ListCustomerMeetings returns all meetings for one customer
func (s *Memory) ListCustomerMeetings(ctx context.Context, customerID string) ([]models.MeetingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.MeetingRecord, 0)
	for _, m := range s.meetings {
		if m.CustomerID == customerID {
			out = append(out, m)
		}
	}
	return out, nil
}

// GetMeeting returns the meeting with the given id, or nil when absent
func (s *Memory) GetMeeting(ctx context.Context, id string) (*models.MeetingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.meetings {
		if m.ID == id {
			meeting := m
			return &meeting, nil
		}
	}
	return nil, nil
}

// CreateMeeting stores the meeting and derives tasks from next steps
func (s *Memory) CreateMeeting(ctx context.Context, meeting *models.MeetingRecord, nextSteps []string) error {
	if meeting.CustomerID == "" {
		return fmt.Errorf("meeting customer_id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if meeting.ID == "" {
		meeting.ID = uuid.NewString()
	}
	if meeting.CreatedAt.IsZero() {
		meeting.CreatedAt = now
	}
	if meeting.CustomerName == "" {
		for _, c := range s.customers {
			if c.ID == meeting.CustomerID {
				meeting.CustomerName = c.Name
				break
			}
		}
	}

	s.meetings = append(s.meetings, *meeting)

	derived := deriveNextStepTasks(meeting, nextSteps, now)
	s.tasks = append(s.tasks, derived...)

	s.logger.Debug().
		Str("meeting_id", meeting.ID).
		Str("customer_id", meeting.CustomerID).
		Int("derived_tasks", len(derived)).
		Msg("Meeting created")

	return nil
}

// ListTasks returns a copy of all tasks
func (s *Memory) ListTasks(ctx context.Context) ([]models.TaskRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TaskRecord, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

// CreateTask stores a new task, filling id, defaults and timestamps
func (s *Memory) CreateTask(ctx context.Context, task *models.TaskRecord) error {
	if task.CustomerID == "" {
		return fmt.Errorf("task customer_id is required")
	}
	if task.Title == "" {
		return fmt.Errorf("task title is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

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

	s.tasks = append(s.tasks, *task)

	s.logger.Debug().
		Str("task_id", task.ID).
		Str("customer_id", task.CustomerID).
		Msg("Task created")

	return nil
}
