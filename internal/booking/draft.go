package booking

import (
	"strings"
	"time"

	"mapache/internal/models"
)

// Validate returns a *ValidationError when any required field of d is missing.
func Validate(d models.AppointmentDraft) error {
	var missing []string
	if d.BarberID == 0 {
		missing = append(missing, FieldBarber)
	}
	if d.ServiceID == 0 {
		missing = append(missing, FieldService)
	}
	if strings.TrimSpace(d.ClientName) == "" {
		missing = append(missing, FieldClientName)
	}
	if strings.TrimSpace(d.ClientPhone) == "" {
		missing = append(missing, FieldClientPhone)
	}
	if strings.TrimSpace(d.Date) == "" {
		missing = append(missing, FieldDate)
	}
	if d.Time == nil || !d.Time.Valid() {
		missing = append(missing, FieldTime)
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

func clientOf(d models.AppointmentDraft) models.Client {
	return models.Client{
		ID:    d.ClientID,
		Name:  strings.TrimSpace(d.ClientName),
		Phone: strings.TrimSpace(d.ClientPhone),
	}
}

func payloadOf(d models.AppointmentDraft, clientID int64) models.AppointmentPayload {
	return models.AppointmentPayload{
		ID:      d.AppointmentID,
		Date:    d.Date,
		Time:    d.Time.Format(),
		Barber:  models.BarberRef{ID: d.BarberID},
		Client:  models.ClientRef{ID: clientID},
		Service: models.ServiceRef{ID: d.ServiceID},
	}
}

// activeDraft is the edit form while it is open, the new-appointment form otherwise.
func activeDraft(s *models.Session) *models.AppointmentDraft {
	if s.EditOpen {
		return &s.EditDraft
	}
	return &s.Draft
}

func (c *Coordinator) SetBarber(s *models.Session, id int64) error {
	if _, ok := models.FindOption(s.Barbers, id); !ok {
		return ErrUnknownOption
	}
	activeDraft(s).BarberID = id
	return nil
}

func (c *Coordinator) SetService(s *models.Session, id int64) error {
	if _, ok := models.FindOption(s.Services, id); !ok {
		return ErrUnknownOption
	}
	activeDraft(s).ServiceID = id
	return nil
}

func (c *Coordinator) SetClientName(s *models.Session, name string) {
	activeDraft(s).ClientName = strings.TrimSpace(name)
}

func (c *Coordinator) SetClientPhone(s *models.Session, phone string) {
	activeDraft(s).ClientPhone = strings.TrimSpace(phone)
}

func (c *Coordinator) SetDate(s *models.Session, date time.Time) {
	activeDraft(s).Date = models.FormatDate(date)
}

func (c *Coordinator) SetTime(s *models.Session, clock models.Clock) {
	activeDraft(s).Time = &clock
}
