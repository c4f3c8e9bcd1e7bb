// Package booking ties calendar date selection to the appointment list and
// drives the create, edit and delete flows against the REST API.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mapache/internal/dayindex"
	"mapache/internal/domain"
	"mapache/internal/events"
	"mapache/internal/format"
	"mapache/internal/metrics"
	"mapache/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Gateways are the REST collections the coordinator talks to.
type Gateways struct {
	Barbers      domain.BarberGateway
	Services     domain.ServiceGateway
	Clients      domain.ClientGateway
	Appointments domain.AppointmentGateway
}

// Coordinator holds no per-chat state: everything a chat has on screen lives
// in the *models.Session passed to each call.
type Coordinator struct {
	gw       Gateways
	notifier domain.Notifier
	eventBus domain.EventPublisher
	life     time.Duration
	logger   *zerolog.Logger
}

// Confirmation is the prompt shown before an appointment is deleted.
type Confirmation struct {
	AppointmentID int64
	ClientName    string
	Time          string
	Prompt        string
}

func NewCoordinator(gw Gateways, notifier domain.Notifier, eventBus domain.EventPublisher, life time.Duration, logger *zerolog.Logger) *Coordinator {
	if life <= 0 {
		life = models.DefaultNotificationLife * time.Second
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Coordinator{
		gw:       gw,
		notifier: notifier,
		eventBus: eventBus,
		life:     life,
		logger:   logger,
	}
}

// Load fetches barbers and services concurrently, then the appointments.
// A failed list is left empty and reported; the other loads still run.
func (c *Coordinator) Load(ctx context.Context, s *models.Session) error {
	errs := []error{c.LoadReferences(ctx, s)}
	if err := c.ReloadAppointments(ctx, s); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LoadReferences replaces the barber and service option lists, fetching both
// concurrently. Forms call it on open so catalog changes show up at once.
func (c *Coordinator) LoadReferences(ctx context.Context, s *models.Session) error {
	var (
		barbers    []models.Barber
		services   []models.Service
		barberErr  error
		serviceErr error
		g          errgroup.Group
	)

	g.Go(func() error {
		barbers, barberErr = c.gw.Barbers.FindAll(ctx)
		return barberErr
	})
	g.Go(func() error {
		services, serviceErr = c.gw.Services.FindAll(ctx)
		return serviceErr
	})
	_ = g.Wait()

	var errs []error
	if barberErr != nil {
		barbers = nil
		c.fail(s, "load_barbers", barberErr, "No se pudieron cargar los barberos")
		errs = append(errs, fmt.Errorf("load barbers: %w", barberErr))
	}
	if serviceErr != nil {
		services = nil
		c.fail(s, "load_services", serviceErr, "No se pudieron cargar los servicios")
		errs = append(errs, fmt.Errorf("load services: %w", serviceErr))
	}
	s.Barbers = format.BarberOptions(barbers)
	s.Services = format.ServiceOptions(services)
	return errors.Join(errs...)
}

// ReloadAppointments replaces the full appointment list. On failure the list
// is emptied and the failure reported.
func (c *Coordinator) ReloadAppointments(ctx context.Context, s *models.Session) error {
	list, err := c.gw.Appointments.FindAll(ctx)
	if err != nil {
		s.Appointments = []models.Appointment{}
		c.fail(s, "load_appointments", err, "No se pudieron cargar las citas")
		return fmt.Errorf("load appointments: %w", err)
	}
	s.Appointments = list
	c.logger.Debug().Int64("chat_id", s.ChatID).Int("appointments", len(list)).Msg("appointments reloaded")
	return nil
}

// DayIndex is the set of dates with at least one loaded appointment.
func (c *Coordinator) DayIndex(s *models.Session) dayindex.Index {
	return dayindex.Build(s.Appointments)
}

// SelectDate records date as selected and, when it has appointments, opens
// the day view with them in list order. A date without appointments closes
// any day view left from the previous date. Reports whether the day view opened.
func (c *Coordinator) SelectDate(s *models.Session, date time.Time) bool {
	key := models.FormatDate(date)
	s.SelectedDate = key

	var matches []models.Appointment
	for _, a := range s.Appointments {
		if a.Date == key {
			matches = append(matches, a)
		}
	}
	if len(matches) == 0 {
		c.CloseDayView(s)
		return false
	}

	s.DayView = matches
	s.DayViewOpen = true
	return true
}

func (c *Coordinator) CloseDayView(s *models.Session) {
	s.DayViewOpen = false
	s.DayView = nil
	s.PendingDelete = 0
}

// OpenCreate starts an empty new-appointment form for date.
func (c *Coordinator) OpenCreate(s *models.Session, date time.Time) {
	s.Draft = models.AppointmentDraft{Date: models.FormatDate(date)}
	s.Submitted = false
	s.EditOpen = false
	s.CreateOpen = true
}

func (c *Coordinator) CancelCreate(s *models.Session) {
	s.Draft = models.AppointmentDraft{}
	s.Submitted = false
	s.CreateOpen = false
}

// Create books the drafted appointment: the client is created first and the
// appointment references the id the server returned for it.
func (c *Coordinator) Create(ctx context.Context, s *models.Session) error {
	const op = "create_appointment"

	d := s.Draft
	if err := Validate(d); err != nil {
		s.Submitted = true
		c.invalid(s, op, err)
		return err
	}

	client, err := c.gw.Clients.Create(ctx, clientOf(d))
	if err != nil {
		c.fail(s, op, err, "No se pudo registrar al cliente")
		return fmt.Errorf("create client: %w", err)
	}
	c.publish(events.EventClientCreated, events.AppointmentEventPayload{
		ClientID:   client.ID,
		ClientName: client.Name,
		ChatID:     s.ChatID,
	})

	appt, err := c.gw.Appointments.Create(ctx, payloadOf(d, client.ID))
	if err != nil {
		c.logger.Warn().Int64("chat_id", s.ChatID).Int64("client_id", client.ID).Msg("client created without appointment")
		c.fail(s, op, err, "No se pudo agendar la cita")
		return fmt.Errorf("create appointment: %w", err)
	}

	s.Draft = models.AppointmentDraft{}
	s.Submitted = false
	s.CreateOpen = false
	c.succeed(s, op, "Cita agendada", fmt.Sprintf("%s el %s a las %s", client.Name, d.Date, d.Time.Format()))
	c.publishAppointment(events.EventAppointmentCreated, s.ChatID, *appt)

	// reload failures are reported to the chat by ReloadAppointments
	_ = c.ReloadAppointments(ctx, s)
	return nil
}

// Edit opens the edit form pre-populated from appt. Barber and service ids
// no longer in the loaded lists, and unparseable times, become no selection.
func (c *Coordinator) Edit(s *models.Session, appt models.Appointment) {
	d := models.AppointmentDraft{
		AppointmentID: appt.ID,
		ClientID:      appt.Client.ID,
		ClientName:    appt.Client.Name,
		ClientPhone:   appt.Client.Phone,
		Date:          appt.Date,
	}
	if _, ok := models.FindOption(s.Barbers, appt.Barber.ID); ok {
		d.BarberID = appt.Barber.ID
	}
	if _, ok := models.FindOption(s.Services, appt.Service.ID); ok {
		d.ServiceID = appt.Service.ID
	}
	if clock, err := models.ParseClock(appt.Time); err == nil {
		d.Time = &clock
	} else {
		c.logger.Debug().Err(err).Int64("appointment_id", appt.ID).Msg("stored time not parsed")
	}

	s.EditDraft = d
	s.Submitted = false
	s.CreateOpen = false
	s.EditOpen = true
}

// EditByID opens the edit form for an appointment of the day view.
func (c *Coordinator) EditByID(s *models.Session, id int64) error {
	appt, ok := findAppointment(s.DayView, id)
	if !ok {
		return ErrNotInDayView
	}
	c.Edit(s, appt)
	return nil
}

func (c *Coordinator) CancelEdit(s *models.Session) {
	s.EditDraft = models.AppointmentDraft{}
	s.Submitted = false
	s.EditOpen = false
}

// Update saves the edit form: the client in place by its original id, then
// the appointment by its own id.
func (c *Coordinator) Update(ctx context.Context, s *models.Session) error {
	const op = "update_appointment"

	d := s.EditDraft
	if err := Validate(d); err != nil {
		s.Submitted = true
		c.invalid(s, op, err)
		return err
	}

	if _, err := c.gw.Clients.Update(ctx, d.ClientID, clientOf(d)); err != nil {
		c.fail(s, op, err, "No se pudo actualizar al cliente")
		return fmt.Errorf("update client %d: %w", d.ClientID, err)
	}

	appt, err := c.gw.Appointments.Update(ctx, d.AppointmentID, payloadOf(d, d.ClientID))
	if err != nil {
		c.fail(s, op, err, "No se pudo actualizar la cita")
		return fmt.Errorf("update appointment %d: %w", d.AppointmentID, err)
	}
	if appt.ID == 0 {
		appt.ID = d.AppointmentID
	}

	for i := range s.DayView {
		if s.DayView[i].ID == d.AppointmentID {
			s.DayView[i] = *appt
		}
	}

	s.EditDraft = models.AppointmentDraft{}
	s.Submitted = false
	s.EditOpen = false
	c.succeed(s, op, "Cita actualizada", "")
	c.publishAppointment(events.EventAppointmentUpdated, s.ChatID, *appt)

	// reload failures are reported to the chat by ReloadAppointments
	_ = c.ReloadAppointments(ctx, s)
	return nil
}

// RequestDelete marks an appointment of the day view for deletion and
// returns the prompt the user must confirm.
func (c *Coordinator) RequestDelete(s *models.Session, id int64) (Confirmation, error) {
	appt, ok := findAppointment(s.DayView, id)
	if !ok {
		return Confirmation{}, ErrNotInDayView
	}
	s.PendingDelete = id
	return Confirmation{
		AppointmentID: id,
		ClientName:    appt.Client.Name,
		Time:          appt.Time,
		Prompt:        fmt.Sprintf("¿Eliminar la cita de %s a las %s?", appt.Client.Name, appt.Time),
	}, nil
}

func (c *Coordinator) CancelDelete(s *models.Session) {
	s.PendingDelete = 0
}

// ConfirmDelete deletes the pending appointment. The day view only loses the
// entry after the server confirmed the delete.
func (c *Coordinator) ConfirmDelete(ctx context.Context, s *models.Session) error {
	const op = "delete_appointment"

	id := s.PendingDelete
	if id == 0 {
		return ErrNoPendingDelete
	}
	s.PendingDelete = 0

	appt, _ := findAppointment(s.DayView, id)
	if err := c.gw.Appointments.Delete(ctx, id); err != nil {
		c.fail(s, op, err, "No se pudo eliminar la cita")
		return fmt.Errorf("delete appointment %d: %w", id, err)
	}

	kept := s.DayView[:0]
	for _, a := range s.DayView {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.DayView = kept

	c.succeed(s, op, "Cita eliminada", "")
	appt.ID = id
	c.publishAppointment(events.EventAppointmentDeleted, s.ChatID, appt)

	// reload failures are reported to the chat by ReloadAppointments
	_ = c.ReloadAppointments(ctx, s)
	if len(s.DayView) == 0 {
		s.DayViewOpen = false
	}
	return nil
}

func findAppointment(list []models.Appointment, id int64) (models.Appointment, bool) {
	for _, a := range list {
		if a.ID == id {
			return a, true
		}
	}
	return models.Appointment{}, false
}

func (c *Coordinator) notify(s *models.Session, severity models.Severity, summary, detail string) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(s.ChatID, models.Notification{
		Severity: severity,
		Summary:  summary,
		Detail:   detail,
		Life:     c.life,
	})
}

func (c *Coordinator) succeed(s *models.Session, op, summary, detail string) {
	metrics.IncOperation(op, "ok")
	c.notify(s, models.SeveritySuccess, summary, detail)
}

func (c *Coordinator) invalid(s *models.Session, op string, err error) {
	metrics.IncOperation(op, "invalid")
	detail := err.Error()
	var verr *ValidationError
	if errors.As(err, &verr) {
		detail = "Completa: " + strings.Join(verr.Labels(), ", ")
	}
	c.notify(s, models.SeverityWarn, "Faltan datos", detail)
}

func (c *Coordinator) fail(s *models.Session, op string, err error, summary string) {
	metrics.IncOperation(op, "error")
	c.logger.Error().Err(err).Int64("chat_id", s.ChatID).Str("operation", op).Msg(summary)
	c.notify(s, models.SeverityError, summary, err.Error())
}

func (c *Coordinator) publishAppointment(eventType string, chatID int64, a models.Appointment) {
	c.publish(eventType, events.AppointmentEventPayload{
		AppointmentID: a.ID,
		ClientID:      a.Client.ID,
		ClientName:    a.Client.Name,
		BarberID:      a.Barber.ID,
		ServiceID:     a.Service.ID,
		Date:          a.Date,
		Time:          a.Time,
		ChatID:        chatID,
	})
}

func (c *Coordinator) publish(eventType string, payload interface{}) {
	if c.eventBus == nil {
		return
	}
	if err := c.eventBus.PublishJSON(eventType, payload); err != nil {
		c.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}
