package storage

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crm-analytics-service/internal/models"
)

func TestMemoryCustomerLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(zerolog.Nop())

	customer := models.Customer{Name: "Acme", ARRUSD: 120000}
	require.NoError(t, store.CreateCustomer(ctx, &customer))
	assert.NotEmpty(t, customer.ID)
	assert.False(t, customer.CreatedAt.IsZero())

	got, err := store.GetCustomer(ctx, customer.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme", got.Name)

	missing, err := store.GetCustomer(ctx, "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, missing)

	customers, err := store.ListCustomers(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, customers, 1)
}

func TestMemoryListCustomersSearchAndPaging(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(zerolog.Nop())

	for _, name := range []string{"Globex", "Acme Corp", "Initech", "ACME Labs"} {
		c := models.Customer{Name: name}
		require.NoError(t, store.CreateCustomer(ctx, &c))
	}

	// case-insensitive substring match, ordered by name
	matched, err := store.ListCustomers(ctx, "acme", 0, 0)
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "ACME Labs", matched[0].Name)
	assert.Equal(t, "Acme Corp", matched[1].Name)

	page, err := store.ListCustomers(ctx, "", 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Acme Corp", page[0].Name)
	assert.Equal(t, "Globex", page[1].Name)

	past, err := store.ListCustomers(ctx, "", 10, 100)
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestMemoryUpdateCustomer(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(zerolog.Nop())

	customer := models.Customer{Name: "Acme", ARRUSD: 120000}
	require.NoError(t, store.CreateCustomer(ctx, &customer))
	createdAt := customer.CreatedAt

	customer.Name = "Acme Corp"
	customer.ARRUSD = 150000
	require.NoError(t, store.UpdateCustomer(ctx, &customer))

	got, err := store.GetCustomer(ctx, customer.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme Corp", got.Name)
	assert.Equal(t, float64(150000), got.ARRUSD)
	assert.Equal(t, createdAt, got.CreatedAt)
	assert.False(t, got.UpdatedAt.Before(createdAt))

	assert.Error(t, store.UpdateCustomer(ctx, &models.Customer{ID: "no-such-id", Name: "Ghost"}))
}

func TestMemoryDeleteCustomerRemovesContacts(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(zerolog.Nop())

	customer := models.Customer{Name: "Acme"}
	require.NoError(t, store.CreateCustomer(ctx, &customer))
	contact := models.Contact{CustomerID: customer.ID, Name: "Dana", Email: "dana@acme.example"}
	require.NoError(t, store.CreateContact(ctx, &contact))

	require.NoError(t, store.DeleteCustomer(ctx, customer.ID))

	got, err := store.GetCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	contacts, err := store.ListCustomerContacts(ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, contacts)

	assert.Error(t, store.DeleteCustomer(ctx, customer.ID))
}

func TestMemoryCreateCustomerRequiresName(t *testing.T) {
	store := NewMemory(zerolog.Nop())

	err := store.CreateCustomer(context.Background(), &models.Customer{})

	assert.Error(t, err)
}

func TestMemoryContactLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(zerolog.Nop())

	customer := models.Customer{Name: "Acme"}
	require.NoError(t, store.CreateCustomer(ctx, &customer))

	contact := models.Contact{CustomerID: customer.ID, Name: "Dana", Role: "CISO"}
	require.NoError(t, store.CreateContact(ctx, &contact))
	assert.NotEmpty(t, contact.ID)

	contacts, err := store.ListCustomerContacts(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Dana", contacts[0].Name)

	other, err := store.ListCustomerContacts(ctx, "no-such-id")
	require.NoError(t, err)
	assert.Empty(t, other)

	assert.Error(t, store.CreateContact(ctx, &models.Contact{Name: "No customer"}))
	assert.Error(t, store.CreateContact(ctx, &models.Contact{CustomerID: customer.ID}))
}

func TestMemoryCreateMeetingDerivesTasks(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(zerolog.Nop())

	customer := models.Customer{Name: "Acme"}
	require.NoError(t, store.CreateCustomer(ctx, &customer))

	meetingDate := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	meeting := models.MeetingRecord{
		CustomerID: customer.ID,
		Title:      "Kickoff",
		Date:       meetingDate,
	}
	nextSteps := []string{"Send proposal", "  ", "Schedule pentest", ""}

	require.NoError(t, store.CreateMeeting(ctx, &meeting, nextSteps))
	assert.NotEmpty(t, meeting.ID)
	assert.Equal(t, "Acme", meeting.CustomerName)

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2) // blank lines skipped

	for _, task := range tasks {
		assert.Equal(t, customer.ID, task.CustomerID)
		assert.Equal(t, models.SourceMeeting, task.Source)
		assert.Equal(t, models.StatusPending, task.Status)
		assert.Equal(t, models.PriorityMedium, task.Priority)
		require.NotNil(t, task.DueDate)
		assert.Equal(t, meetingDate.Add(7*24*time.Hour), *task.DueDate)
	}
	assert.Equal(t, "Send proposal", tasks[0].Title)
	assert.Equal(t, "Schedule pentest", tasks[1].Title)
}

func TestMemoryCreateMeetingRequiresCustomer(t *testing.T) {
	store := NewMemory(zerolog.Nop())

	err := store.CreateMeeting(context.Background(), &models.MeetingRecord{Title: "Orphan"}, nil)

	assert.Error(t, err)
}

func TestMemoryListCustomerMeetings(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(zerolog.Nop())

	acme := models.Customer{Name: "Acme"}
	globex := models.Customer{Name: "Globex"}
	require.NoError(t, store.CreateCustomer(ctx, &acme))
	require.NoError(t, store.CreateCustomer(ctx, &globex))

	for i, customerID := range []string{acme.ID, acme.ID, globex.ID} {
		m := models.MeetingRecord{
			CustomerID: customerID,
			Title:      "Sync",
			Date:       time.Date(2026, 3, 10+i, 10, 0, 0, 0, time.UTC),
		}
		require.NoError(t, store.CreateMeeting(ctx, &m, nil))
	}

	meetings, err := store.ListCustomerMeetings(ctx, acme.ID)
	require.NoError(t, err)
	assert.Len(t, meetings, 2)

	all, err := store.ListMeetings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryCreateTaskDefaults(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(zerolog.Nop())

	task := models.TaskRecord{CustomerID: "c1", Title: "Review findings"}
	require.NoError(t, store.CreateTask(ctx, &task))

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, models.SourceManual, task.Source)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestMemoryCreateTaskValidation(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(zerolog.Nop())

	assert.Error(t, store.CreateTask(ctx, &models.TaskRecord{Title: "No customer"}))
	assert.Error(t, store.CreateTask(ctx, &models.TaskRecord{CustomerID: "c1"}))
}

func TestMemoryListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(zerolog.Nop())

	customer := models.Customer{Name: "Acme"}
	require.NoError(t, store.CreateCustomer(ctx, &customer))

	first, err := store.ListCustomers(ctx, "", 0, 0)
	require.NoError(t, err)
	first[0].Name = "Mutated"

	second, err := store.ListCustomers(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "Acme", second[0].Name)
}

func TestMemoryPing(t *testing.T) {
	store := NewMemory(zerolog.Nop())

	assert.NoError(t, store.Ping(context.Background()))
}
