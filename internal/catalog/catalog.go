// Package catalog manages the barber and service lists.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mapache/internal/domain"
	"mapache/internal/events"
	"mapache/internal/format"
	"mapache/internal/metrics"
	"mapache/internal/models"

	"github.com/rs/zerolog"
)

var (
	ErrValidation    = errors.New("catalog validation failed")
	ErrNotSelectable = errors.New("entries are only selectable while editing or deleting")
	ErrUnknownEntry  = errors.New("entry is not in the loaded list")
	ErrNoSelection   = errors.New("no entry selected")
)

type Catalog struct {
	barbers  domain.BarberGateway
	services domain.ServiceGateway
	notifier domain.Notifier
	eventBus domain.EventPublisher
	life     time.Duration
	logger   *zerolog.Logger
}

func New(barbers domain.BarberGateway, services domain.ServiceGateway, notifier domain.Notifier, eventBus domain.EventPublisher, life time.Duration, logger *zerolog.Logger) *Catalog {
	if life <= 0 {
		life = models.DefaultNotificationLife * time.Second
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Catalog{
		barbers:  barbers,
		services: services,
		notifier: notifier,
		eventBus: eventBus,
		life:     life,
		logger:   logger,
	}
}

// Open switches the session to kind in viewing mode and loads its list.
func (c *Catalog) Open(ctx context.Context, s *models.Session, kind models.CatalogKind) error {
	s.Catalog = models.CatalogState{Kind: kind, Mode: models.ModeViewing}
	return c.Load(ctx, s)
}

// Load refreshes the list of the open catalog. A failure empties it.
func (c *Catalog) Load(ctx context.Context, s *models.Session) error {
	switch s.Catalog.Kind {
	case models.CatalogBarbers:
		list, err := c.barbers.FindAll(ctx)
		if err != nil {
			s.Catalog.Barbers = []models.Barber{}
			c.fail(s, "load_barbers", err, "No se pudieron cargar los barberos")
			return fmt.Errorf("load barbers: %w", err)
		}
		s.Catalog.Barbers = list
	case models.CatalogServices:
		list, err := c.services.FindAll(ctx)
		if err != nil {
			s.Catalog.Services = []models.Service{}
			c.fail(s, "load_services", err, "No se pudieron cargar los servicios")
			return fmt.Errorf("load services: %w", err)
		}
		s.Catalog.Services = list
	default:
		return fmt.Errorf("unknown catalog %q", s.Catalog.Kind)
	}
	return nil
}

// Select picks an entry to edit or delete.
func (c *Catalog) Select(s *models.Session, id int64) error {
	if s.Catalog.Mode != models.ModeEditing && s.Catalog.Mode != models.ModeDeleting {
		return ErrNotSelectable
	}
	if _, ok := c.Label(s, id); !ok {
		return ErrUnknownEntry
	}
	s.Catalog.SelectedID = id
	return nil
}

// Label is the display label of entry id of the open catalog.
func (c *Catalog) Label(s *models.Session, id int64) (string, bool) {
	switch s.Catalog.Kind {
	case models.CatalogBarbers:
		for _, b := range s.Catalog.Barbers {
			if b.ID == id {
				return format.BarberOption(b).Label, true
			}
		}
	case models.CatalogServices:
		for _, sv := range s.Catalog.Services {
			if sv.ID == id {
				return format.ServiceOption(sv).Label, true
			}
		}
	}
	return "", false
}

// SaveBarber creates b when it has no id and updates it otherwise.
func (c *Catalog) SaveBarber(ctx context.Context, s *models.Session, b models.Barber) error {
	const op = "save_barber"

	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		c.invalid(s, op, "El nombre del barbero es obligatorio")
		return fmt.Errorf("%w: barber name is required", ErrValidation)
	}

	var (
		saved *models.Barber
		err   error
	)
	if b.ID == 0 {
		saved, err = c.barbers.Create(ctx, b)
	} else {
		saved, err = c.barbers.Update(ctx, b.ID, b)
	}
	if err != nil {
		c.fail(s, op, err, "No se pudo guardar el barbero")
		return fmt.Errorf("save barber: %w", err)
	}

	c.succeed(s, op, "Barbero guardado", saved.Name)
	c.publish(events.EventBarberSaved, events.CatalogEventPayload{ID: saved.ID, Label: saved.Name, ChatID: s.ChatID})
	c.afterMutation(ctx, s, models.CatalogBarbers)
	return nil
}

// SaveService creates sv when it has no id and updates it otherwise. Zero cost is allowed.
func (c *Catalog) SaveService(ctx context.Context, s *models.Session, sv models.Service) error {
	const op = "save_service"

	sv.Description = strings.TrimSpace(sv.Description)
	if sv.Description == "" || sv.Cost < 0 {
		c.invalid(s, op, "La descripción es obligatoria y el costo no puede ser negativo")
		return fmt.Errorf("%w: service needs a description and a non-negative cost", ErrValidation)
	}

	var (
		saved *models.Service
		err   error
	)
	if sv.ID == 0 {
		saved, err = c.services.Create(ctx, sv)
	} else {
		saved, err = c.services.Update(ctx, sv.ID, sv)
	}
	if err != nil {
		c.fail(s, op, err, "No se pudo guardar el servicio")
		return fmt.Errorf("save service: %w", err)
	}

	label := format.ServiceOption(*saved).Label
	c.succeed(s, op, "Servicio guardado", label)
	c.publish(events.EventServiceSaved, events.CatalogEventPayload{ID: saved.ID, Label: label, ChatID: s.ChatID})
	c.afterMutation(ctx, s, models.CatalogServices)
	return nil
}

// DeleteSelected deletes the entry picked with Select.
func (c *Catalog) DeleteSelected(ctx context.Context, s *models.Session) error {
	id := s.Catalog.SelectedID
	if id == 0 {
		return ErrNoSelection
	}
	return c.Delete(ctx, s, s.Catalog.Kind, id)
}

func (c *Catalog) Delete(ctx context.Context, s *models.Session, kind models.CatalogKind, id int64) error {
	var (
		op        string
		eventType string
		err       error
	)
	switch kind {
	case models.CatalogBarbers:
		op, eventType = "delete_barber", events.EventBarberDeleted
		err = c.barbers.Delete(ctx, id)
	case models.CatalogServices:
		op, eventType = "delete_service", events.EventServiceDeleted
		err = c.services.Delete(ctx, id)
	default:
		return fmt.Errorf("unknown catalog %q", kind)
	}
	if err != nil {
		c.fail(s, op, err, "No se pudo eliminar")
		return fmt.Errorf("delete %s %d: %w", kind, id, err)
	}

	c.succeed(s, op, "Eliminado", "")
	c.publish(eventType, events.CatalogEventPayload{ID: id, ChatID: s.ChatID})
	c.afterMutation(ctx, s, kind)
	return nil
}

func (c *Catalog) afterMutation(ctx context.Context, s *models.Session, kind models.CatalogKind) {
	s.Catalog.SelectedID = 0
	if s.Catalog.Kind == kind {
		_ = c.Load(ctx, s)
	}
}

func (c *Catalog) notify(s *models.Session, severity models.Severity, summary, detail string) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(s.ChatID, models.Notification{Severity: severity, Summary: summary, Detail: detail, Life: c.life})
}

func (c *Catalog) succeed(s *models.Session, op, summary, detail string) {
	metrics.IncOperation(op, "ok")
	c.notify(s, models.SeveritySuccess, summary, detail)
}

func (c *Catalog) invalid(s *models.Session, op, detail string) {
	metrics.IncOperation(op, "invalid")
	c.notify(s, models.SeverityWarn, "Faltan datos", detail)
}

func (c *Catalog) fail(s *models.Session, op string, err error, summary string) {
	metrics.IncOperation(op, "error")
	c.logger.Error().Err(err).Int64("chat_id", s.ChatID).Str("operation", op).Msg(summary)
	c.notify(s, models.SeverityError, summary, err.Error())
}

func (c *Catalog) publish(eventType string, payload interface{}) {
	if c.eventBus == nil {
		return
	}
	if err := c.eventBus.PublishJSON(eventType, payload); err != nil {
		c.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}
