package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mapache/internal/catalog"
	"mapache/internal/export"
	"mapache/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleMessage(ctx context.Context, s *models.Session, msg *tgbotapi.Message) {
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	zerolog.Ctx(ctx).Debug().Str("text", text).Str("step", s.Step).Msg("Handling message")

	if msg.IsCommand() {
		b.handleCommand(ctx, s, chatID, msg.Command(), strings.TrimSpace(msg.CommandArguments()))
		return
	}

	switch s.Step {
	case models.StepNewClientName, models.StepEditClientName:
		b.coordinator.SetClientName(s, text)
		if currentDraft(s).ClientPhone == "" {
			s.Step = phoneStep(s)
			b.sendMessage(chatID, "📞 Escribe el teléfono del cliente:")
			return
		}
		s.Step = models.StepIdle
		b.showForm(chatID, s)

	case models.StepNewClientPhone, models.StepEditClientPhone:
		b.coordinator.SetClientPhone(s, text)
		s.Step = models.StepIdle
		b.showForm(chatID, s)

	case models.StepCatalogRename:
		b.handleCatalogRename(ctx, s, chatID, text)

	default:
		b.sendMessage(chatID, "No entendí el mensaje.\n\n"+helpText)
	}
}

func nameStep(s *models.Session) string {
	if s.EditOpen {
		return models.StepEditClientName
	}
	return models.StepNewClientName
}

func phoneStep(s *models.Session) string {
	if s.EditOpen {
		return models.StepEditClientPhone
	}
	return models.StepNewClientPhone
}

func (b *Bot) handleCommand(ctx context.Context, s *models.Session, chatID int64, command, args string) {
	switch command {
	case "start":
		*s = *models.NewSession(chatID)
		b.sendMessage(chatID, "💈 Bienvenido a la agenda de la barbería.\n\n"+helpText)
		_ = b.coordinator.Load(ctx, s)
		b.showCalendar(chatID, s, 0)

	case "help":
		b.sendMessage(chatID, helpText)

	case "agenda":
		_ = b.coordinator.Load(ctx, s)
		b.showCalendar(chatID, s, 0)

	case "nueva":
		b.refreshReferences(ctx, s)
		date := b.now()
		if t, err := models.ParseDate(s.SelectedDate); err == nil {
			date = t
		}
		b.coordinator.OpenCreate(s, date)
		s.Step = models.StepIdle
		b.showForm(chatID, s)

	case "barberos":
		_ = b.catalog.Open(ctx, s, models.CatalogBarbers)
		b.showCatalog(chatID, s, 0)

	case "servicios":
		_ = b.catalog.Open(ctx, s, models.CatalogServices)
		b.showCatalog(chatID, s, 0)

	case "barbero_nuevo":
		if args == "" {
			b.sendMessage(chatID, "Uso: /barbero_nuevo <nombre>")
			return
		}
		if s.Catalog.Kind != models.CatalogBarbers {
			s.Catalog = models.CatalogState{Kind: models.CatalogBarbers, Mode: models.ModeViewing}
		}
		if err := b.catalog.SaveBarber(ctx, s, models.Barber{Name: args}); err == nil {
			b.showCatalog(chatID, s, 0)
		}

	case "servicio_nuevo":
		svc, err := parseService(args)
		if err != nil {
			b.sendMessage(chatID, "Uso: /servicio_nuevo <costo> <descripción>\nEjemplo: /servicio_nuevo 150 Corte clásico")
			return
		}
		if s.Catalog.Kind != models.CatalogServices {
			s.Catalog = models.CatalogState{Kind: models.CatalogServices, Mode: models.ModeViewing}
		}
		if err := b.catalog.SaveService(ctx, s, svc); err == nil {
			b.showCatalog(chatID, s, 0)
		}

	case "exportar":
		b.handleExport(ctx, s, chatID, args)

	case "cancelar":
		b.coordinator.CancelCreate(s)
		b.coordinator.CancelEdit(s)
		b.coordinator.CancelDelete(s)
		s.Step = models.StepIdle
		s.Catalog.Mode = models.ModeViewing
		s.Catalog.SelectedID = 0
		b.sendMessage(chatID, "Operación cancelada.")

	default:
		b.sendMessage(chatID, "Comando desconocido.\n\n"+helpText)
	}
}

// parseService reads "<cost> <description>", e.g. "150 Corte clásico".
func parseService(args string) (models.Service, error) {
	costText, description, ok := strings.Cut(strings.TrimSpace(args), " ")
	if !ok {
		return models.Service{}, errors.New("expected cost and description")
	}
	cost, err := strconv.ParseFloat(strings.TrimPrefix(strings.ReplaceAll(costText, ",", "."), "$"), 64)
	if err != nil {
		return models.Service{}, fmt.Errorf("invalid cost %q: %w", costText, err)
	}
	return models.Service{Description: strings.TrimSpace(description), Cost: cost}, nil
}

func (b *Bot) handleCatalogRename(ctx context.Context, s *models.Session, chatID int64, text string) {
	id := s.Catalog.SelectedID
	if id == 0 {
		s.Step = models.StepIdle
		b.reportError(chatID, catalog.ErrNoSelection)
		return
	}

	var err error
	switch s.Catalog.Kind {
	case models.CatalogServices:
		svc, perr := parseService(text)
		if perr != nil {
			b.sendMessage(chatID, "Escribe el costo y la descripción, por ejemplo: 150 Corte clásico")
			return
		}
		svc.ID = id
		err = b.catalog.SaveService(ctx, s, svc)
	default:
		err = b.catalog.SaveBarber(ctx, s, models.Barber{ID: id, Name: text})
	}
	if err != nil {
		// the catalog already told the user; keep waiting for a valid entry
		return
	}
	s.Step = models.StepIdle
	b.showCatalog(chatID, s, 0)
}

func (b *Bot) handleExport(ctx context.Context, s *models.Session, chatID int64, args string) {
	date := strings.TrimSpace(args)
	if date == "" {
		date = s.SelectedDate
	}
	if _, err := models.ParseDate(date); err != nil {
		b.sendMessage(chatID, "Uso: /exportar AAAA-MM-DD")
		return
	}

	if err := b.coordinator.ReloadAppointments(ctx, s); err != nil {
		return
	}

	var day []models.Appointment
	for _, a := range s.Appointments {
		if a.Date == date {
			day = append(day, a)
		}
	}
	if len(day) == 0 {
		b.sendMessage(chatID, fmt.Sprintf("No hay citas el %s.", date))
		return
	}

	path, err := export.DayView(b.config.Exports.Path, date, day)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("date", date).Msg("export day view")
		b.reportError(chatID, err)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = fmt.Sprintf("Agenda del %s (%d citas)", date, len(day))
	if _, err := b.tg.Send(doc); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("file_path", path).Msg("send export")
		b.reportError(chatID, err)
	}
}
