package models

import "time"

// Mode is the interaction mode of a catalog list.
type Mode string

const (
	ModeViewing  Mode = "viewing"
	ModeEditing  Mode = "editing"
	ModeDeleting Mode = "deleting"
)

// CatalogKind selects which catalog a session is browsing.
type CatalogKind string

const (
	CatalogBarbers  CatalogKind = "barbers"
	CatalogServices CatalogKind = "services"
)

// AppointmentDraft holds the fields of the new/edit appointment forms.
// Zero values mean "no selection".
type AppointmentDraft struct {
	AppointmentID int64  `json:"appointment_id,omitempty"`
	ClientID      int64  `json:"client_id,omitempty"`
	BarberID      int64  `json:"barber_id,omitempty"`
	ServiceID     int64  `json:"service_id,omitempty"`
	ClientName    string `json:"client_name,omitempty"`
	ClientPhone   string `json:"client_phone,omitempty"`
	Date          string `json:"date,omitempty"`
	Time          *Clock `json:"time,omitempty"`
}

// CatalogState is the barber/service list a chat is working on.
type CatalogState struct {
	Kind       CatalogKind `json:"kind,omitempty"`
	Mode       Mode        `json:"mode,omitempty"`
	Barbers    []Barber    `json:"barbers,omitempty"`
	Services   []Service   `json:"services,omitempty"`
	SelectedID int64       `json:"selected_id,omitempty"`
}

// Session is everything a chat has on screen. The day index is derived
// from Appointments and never stored.
type Session struct {
	ChatID int64  `json:"chat_id"`
	Step   string `json:"step"`

	Barbers      []Option      `json:"barbers"`
	Services     []Option      `json:"services"`
	Appointments []Appointment `json:"appointments"`
	DayView      []Appointment `json:"day_view"`
	SelectedDate string        `json:"selected_date,omitempty"`
	CalendarPage string        `json:"calendar_page,omitempty"`

	Draft     AppointmentDraft `json:"draft"`
	EditDraft AppointmentDraft `json:"edit_draft"`
	Submitted bool             `json:"submitted"`

	DayViewOpen   bool  `json:"day_view_open"`
	CreateOpen    bool  `json:"create_open"`
	EditOpen      bool  `json:"edit_open"`
	PendingDelete int64 `json:"pending_delete,omitempty"`

	Catalog CatalogState `json:"catalog"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession returns an idle session for chatID.
func NewSession(chatID int64) *Session {
	return &Session{ChatID: chatID, Step: StepIdle, Catalog: CatalogState{Mode: ModeViewing}}
}

// Severity of a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarn    Severity = "warn"
	SeverityError   Severity = "error"
)

// Notification is a transient message shown to staff for a fixed time.
type Notification struct {
	Severity Severity
	Summary  string
	Detail   string
	Life     time.Duration
}
