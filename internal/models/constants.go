package models

const (
	// DateLayout is the wire and calendar format of appointment dates.
	DateLayout = "2006-01-02"

	// TimeLayout is the 12-hour format appointments are submitted with.
	TimeLayout = "03:04 PM"

	// MonthLayout keys calendar pages.
	MonthLayout = "2006-01"
)

const (
	// DefaultBackendURL is the REST API used when backend.base_url is empty.
	DefaultBackendURL = "http://localhost:8080"

	// DefaultSessionTTL is how long a chat session lives in Redis, in seconds.
	DefaultSessionTTL = 24 * 60 * 60

	// DefaultNotificationLife display time of a toast in seconds.
	DefaultNotificationLife = 3

	// DefaultSlotMinutes granularity of the time picker.
	DefaultSlotMinutes = 30

	DefaultDayStartHour = 9
	DefaultDayEndHour   = 20

	// RateLimitRPS and RateLimitBurst bound updates per chat.
	RateLimitRPS   = 2.0
	RateLimitBurst = 10
)

const (
	ParseModeMarkdown = "Markdown"
	ParseModeHTML     = "HTML"
)

// Wizard steps of a chat session.
const (
	StepIdle            = "idle"
	StepNewClientName   = "new_client_name"
	StepNewClientPhone  = "new_client_phone"
	StepEditClientName  = "edit_client_name"
	StepEditClientPhone = "edit_client_phone"
	StepCatalogRename   = "catalog_rename"
)
