package models

import "time"

// Priority represents the urgency of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// String returns string representation of Priority
func (p Priority) String() string {
	return string(p)
}

// Valid reports whether the priority is one of the known values
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// String returns string representation of TaskStatus
func (s TaskStatus) String() string {
	return string(s)
}

// Valid reports whether the status is one of the known values
func (s TaskStatus) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// TaskSource indicates how a task entered the system
type TaskSource string

const (
	// SourceManual marks tasks created directly by a user
	SourceManual TaskSource = "manual"

	// SourceMeeting marks tasks auto-derived from a meeting's next steps
	SourceMeeting TaskSource = "meeting"
)

// Language is a two-letter narrative language code
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHebrew  Language = "he"
)

// Customer represents a consulting customer account
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LogoURL   string    `json:"logo_url,omitempty"`
	ARRUSD    float64   `json:"arr_usd"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Contact represents a person at a customer
type Contact struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Role       string `json:"role,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
}

// MeetingRecord represents a single customer meeting.
// Records are immutable once produced by the storage layer;
// the analytics code only reads them.
type MeetingRecord struct {
	ID              string    `json:"id"`
	CustomerID      string    `json:"customer_id"`
	CustomerName    string    `json:"customer_name"`
	Title           string    `json:"title"`
	Date            time.Time `json:"meeting_date"`
	DurationMinutes int       `json:"duration_minutes,omitempty"`
	Summary         string    `json:"summary,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	Outcome         string    `json:"outcome,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Text returns the combined free-text content of the meeting,
// used for language detection and topic heuristics.
func (m MeetingRecord) Text() string {
	return m.Title + " " + m.Summary + " " + m.Notes + " " + m.Outcome
}

// TaskRecord represents a follow-up task, either entered manually
// or derived from a meeting's next steps
type TaskRecord struct {
	ID           string     `json:"id"`
	CustomerID   string     `json:"customer_id"`
	CustomerName string     `json:"customer_name,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Priority     Priority   `json:"priority"`
	Status       TaskStatus `json:"status"`
	Source       TaskSource `json:"source,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// MeetingSummary is an AI- or template-generated markdown summary of a meeting
type MeetingSummary struct {
	ID          string    `json:"id"`
	MeetingID   string    `json:"meeting_id"`
	Language    Language  `json:"language"`
	SummaryMD   string    `json:"summary_md"`
	Model       string    `json:"model"`
	CreatedByAI bool      `json:"created_by_ai"`
	CreatedAt   time.Time `json:"created_at"`
}

// EmailDraft is a generated follow-up email for a meeting. Recipients
// come from the customer's stored contacts: the first two addresses
// go on the To line and the rest are CCed.
type EmailDraft struct {
	ID          string    `json:"id"`
	MeetingID   string    `json:"meeting_id"`
	Subject     string    `json:"subject"`
	BodyHTML    string    `json:"body_html"`
	ToEmails    []string  `json:"to_emails"`
	CcEmails    []string  `json:"cc_emails"`
	Language    Language  `json:"language"`
	Model       string    `json:"model"`
	CreatedByAI bool      `json:"created_by_ai"`
	CreatedAt   time.Time `json:"created_at"`
}

// Config represents service configuration
type Config struct {
	// HTTP settings
	HTTPAddr string

	// AI provider settings ("openai", "gemini" or empty for fallback-only mode)
	AIProvider     string
	OpenAIAPIKey   string
	OpenAIModel    string
	GeminiAPIKey   string
	GeminiModel    string
	LLMTimeout     int
	LLMTemperature float32
	LLMMaxTokens   int32

	// Supabase settings (optional; in-memory store when unset)
	SupabaseURL     string
	SupabaseKey     string
	SupabaseTimeout int

	// Telegram digest settings (optional)
	TelegramToken  string
	TelegramChatID int64
	DigestCron     string

	// App settings
	Timezone    string
	LogLevel    string
	Environment string

	// Daily budget of AI generations across all endpoints
	AIDailyLimit int
}

// AIConfigured reports whether an LLM provider credential is present.
// Absence is not an error: it selects the deterministic fallback mode.
func (c *Config) AIConfigured() bool {
	switch c.AIProvider {
	case "openai":
		return c.OpenAIAPIKey != ""
	case "gemini":
		return c.GeminiAPIKey != ""
	default:
		return false
	}
}

// SupabaseConfigured reports whether Supabase credentials are present
func (c *Config) SupabaseConfigured() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

// DigestConfigured reports whether the Telegram digest can be enabled
func (c *Config) DigestConfigured() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}
