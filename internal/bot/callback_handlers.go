package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"mapache/internal/booking"
	"mapache/internal/catalog"
	"mapache/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, s *models.Session, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	messageID := cq.Message.MessageID
	action, arg, _ := strings.Cut(cq.Data, ":")

	zerolog.Ctx(ctx).Debug().Str("action", action).Str("arg", arg).Msg("Handling callback")

	switch action {
	case cbNoop:

	case cbCalNav:
		if _, err := time.Parse(models.MonthLayout, arg); err != nil {
			return
		}
		s.CalendarPage = arg
		b.showCalendar(chatID, s, messageID)

	case cbDate:
		date, err := models.ParseDate(arg)
		if err != nil {
			return
		}
		if b.coordinator.SelectDate(s, date) {
			b.showDayView(chatID, s)
			return
		}
		b.showEmptyDay(chatID, arg)

	case cbDayClose:
		b.coordinator.CloseDayView(s)
		b.showCalendar(chatID, s, 0)

	case cbNew:
		b.refreshReferences(ctx, s)
		date := b.now()
		if t, err := models.ParseDate(arg); err == nil {
			date = t
		}
		b.coordinator.OpenCreate(s, date)
		s.Step = models.StepIdle
		b.showForm(chatID, s)

	case cbEdit:
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return
		}
		b.refreshReferences(ctx, s)
		if err := b.coordinator.EditByID(s, id); err != nil {
			b.reportError(chatID, err)
			return
		}
		s.Step = models.StepIdle
		b.showForm(chatID, s)

	case cbDelete:
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return
		}
		confirmation, err := b.coordinator.RequestDelete(s, id)
		if err != nil {
			b.reportError(chatID, err)
			return
		}
		b.sendHTML(chatID, html.EscapeString(confirmation.Prompt), confirmKeyboard(cbDeleteYes, cbDeleteNo))

	case cbDeleteYes:
		if err := b.coordinator.ConfirmDelete(ctx, s); err != nil {
			if errors.Is(err, booking.ErrNoPendingDelete) {
				b.reportError(chatID, err)
			}
			return
		}
		b.showAfterChange(chatID, s)

	case cbDeleteNo:
		b.coordinator.CancelDelete(s)
		b.sendMessage(chatID, "Eliminación cancelada.")

	case cbFormShow:
		b.showForm(chatID, s)

	case cbFormBarber:
		b.refreshReferences(ctx, s)
		b.sendHTML(chatID, "<b>💈 Elige el barbero</b>", optionsKeyboard(cbBarber, s.Barbers, currentDraft(s).BarberID))

	case cbFormService:
		b.refreshReferences(ctx, s)
		b.sendHTML(chatID, "<b>✂️ Elige el servicio</b>", optionsKeyboard(cbService, s.Services, currentDraft(s).ServiceID))

	case cbFormTime:
		markup := GenerateTimeSlotsKeyboard(b.config.Bot.DayStartHour, b.config.Bot.DayEndHour, b.config.Bot.SlotMinutes, currentDraft(s).Time)
		b.sendHTML(chatID, "<b>🕒 Elige la hora</b>", markup)

	case cbFormDay:
		if t, err := models.ParseDate(currentDraft(s).Date); err == nil {
			s.CalendarPage = t.Format(models.MonthLayout)
		}
		b.showFormCalendar(chatID, s, 0)

	case cbFormCalNav:
		if _, err := time.Parse(models.MonthLayout, arg); err != nil {
			return
		}
		s.CalendarPage = arg
		b.showFormCalendar(chatID, s, messageID)

	case cbFormDate:
		date, err := models.ParseDate(arg)
		if err != nil {
			return
		}
		b.coordinator.SetDate(s, date)
		b.showForm(chatID, s)

	case cbBarber, cbService:
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return
		}
		if action == cbBarber {
			err = b.coordinator.SetBarber(s, id)
		} else {
			err = b.coordinator.SetService(s, id)
		}
		if err != nil {
			b.reportError(chatID, err)
			return
		}
		b.showForm(chatID, s)

	case cbTime:
		clock, err := models.ParseClock(arg)
		if err != nil || !clock.Valid() {
			return
		}
		b.coordinator.SetTime(s, clock)
		b.showForm(chatID, s)

	case cbFormName:
		s.Step = nameStep(s)
		b.sendMessage(chatID, "👤 Escribe el nombre del cliente:")

	case cbFormPhone:
		s.Step = phoneStep(s)
		b.sendMessage(chatID, "📞 Escribe el teléfono del cliente:")

	case cbFormSave:
		b.handleFormSave(ctx, s, chatID)

	case cbFormCancel:
		if s.EditOpen {
			b.coordinator.CancelEdit(s)
		} else {
			b.coordinator.CancelCreate(s)
		}
		s.Step = models.StepIdle
		b.showAfterChange(chatID, s)

	case cbCatEdit:
		b.catalog.ToggleEdit(s)
		s.Step = models.StepIdle
		b.showCatalog(chatID, s, messageID)

	case cbCatDelete:
		b.catalog.ToggleDelete(s)
		s.Step = models.StepIdle
		b.showCatalog(chatID, s, messageID)

	case cbCatPick:
		b.handleCatalogPick(s, chatID, arg)

	case cbCatYes:
		if err := b.catalog.DeleteSelected(ctx, s); err != nil {
			if errors.Is(err, catalog.ErrNoSelection) {
				b.reportError(chatID, err)
			}
			return
		}
		b.showCatalog(chatID, s, 0)

	case cbCatNo:
		s.Catalog.SelectedID = 0
		b.showCatalog(chatID, s, 0)

	default:
		zerolog.Ctx(ctx).Warn().Str("data", cq.Data).Msg("unknown callback")
	}
}

// handleFormSave submits the open form: an update while editing, else a create.
func (b *Bot) handleFormSave(ctx context.Context, s *models.Session, chatID int64) {
	s.Step = models.StepIdle

	if s.EditOpen {
		if err := b.coordinator.Update(ctx, s); err != nil {
			if errors.Is(err, booking.ErrValidation) {
				b.showForm(chatID, s)
			}
			return
		}
		b.showAfterChange(chatID, s)
		return
	}

	date := s.Draft.Date
	if err := b.coordinator.Create(ctx, s); err != nil {
		if errors.Is(err, booking.ErrValidation) {
			b.showForm(chatID, s)
		}
		return
	}

	if t, err := models.ParseDate(date); err == nil && b.coordinator.SelectDate(s, t) {
		b.showDayView(chatID, s)
		return
	}
	b.showCalendar(chatID, s, 0)
}

func (b *Bot) handleCatalogPick(s *models.Session, chatID int64, arg string) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return
	}
	if err := b.catalog.Select(s, id); err != nil {
		b.reportError(chatID, err)
		return
	}
	label, _ := b.catalog.Label(s, id)

	if s.Catalog.Mode == models.ModeDeleting {
		b.sendHTML(chatID, fmt.Sprintf("¿Eliminar <b>%s</b>?", html.EscapeString(label)), confirmKeyboard(cbCatYes, cbCatNo))
		return
	}

	s.Step = models.StepCatalogRename
	if s.Catalog.Kind == models.CatalogServices {
		b.sendHTML(chatID, fmt.Sprintf("Editando <b>%s</b>.\nEscribe el costo y la descripción, por ejemplo: 150 Corte clásico", html.EscapeString(label)), nil)
		return
	}
	b.sendHTML(chatID, fmt.Sprintf("Editando <b>%s</b>.\nEscribe el nuevo nombre:", html.EscapeString(label)), nil)
}
