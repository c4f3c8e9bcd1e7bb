package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	EventAppointmentCreated = "appointment_created"
	EventAppointmentUpdated = "appointment_updated"
	EventAppointmentDeleted = "appointment_deleted"
	EventClientCreated      = "client_created"
	EventBarberSaved        = "barber_saved"
	EventBarberDeleted      = "barber_deleted"
	EventServiceSaved       = "service_saved"
	EventServiceDeleted     = "service_deleted"
)

// AllTypes lists every event type published by the application.
var AllTypes = []string{
	EventAppointmentCreated,
	EventAppointmentUpdated,
	EventAppointmentDeleted,
	EventClientCreated,
	EventBarberSaved,
	EventBarberDeleted,
	EventServiceSaved,
	EventServiceDeleted,
}

// AppointmentEventPayload is the appointment snapshot handed to subscribers.
type AppointmentEventPayload struct {
	AppointmentID int64  `json:"appointment_id"`
	ClientID      int64  `json:"client_id,omitempty"`
	ClientName    string `json:"client_name,omitempty"`
	BarberID      int64  `json:"barber_id,omitempty"`
	ServiceID     int64  `json:"service_id,omitempty"`
	Date          string `json:"date,omitempty"`
	Time          string `json:"time,omitempty"`
	ChatID        int64  `json:"chat_id,omitempty"`
}

// CatalogEventPayload describes a barber or service mutation.
type CatalogEventPayload struct {
	ID     int64  `json:"id"`
	Label  string `json:"label,omitempty"`
	ChatID int64  `json:"chat_id,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	ID        string
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type. Handler errors are
// returned to nobody; handlers own their failure reporting.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	event, err := NewJSONEvent(eventType, payload)
	if err != nil {
		return err
	}
	b.Publish(&event)
	return nil
}

// NewJSONEvent builds an Event with JSON payload for manual publishing.
func NewJSONEvent(eventType string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	return Event{ID: uuid.NewString(), Type: eventType, Payload: raw, CreatedAt: time.Now()}, nil
}
