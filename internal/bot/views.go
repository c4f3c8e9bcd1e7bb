package bot

import (
	"context"
	"fmt"
	"time"

	"mapache/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = `Comandos disponibles:
/agenda - calendario con las citas
/nueva - nueva cita
/barberos - lista de barberos
/servicios - lista de servicios
/barbero_nuevo <nombre> - agregar barbero
/servicio_nuevo <costo> <descripción> - agregar servicio
/exportar <AAAA-MM-DD> - agenda del día en Excel
/cancelar - cancelar la operación en curso`

// calendarPage is the month the calendar shows: the last page visited, else
// the month of the selected date, else the current month.
func (b *Bot) calendarPage(s *models.Session) time.Time {
	if t, err := time.Parse(models.MonthLayout, s.CalendarPage); err == nil {
		return t
	}
	if t, err := models.ParseDate(s.SelectedDate); err == nil {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	now := b.now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (b *Bot) calendarMarkup(s *models.Session, prefix, navPrefix string) tgbotapi.InlineKeyboardMarkup {
	page := b.calendarPage(s)
	return GenerateCalendarKeyboard(page.Year(), int(page.Month()), b.coordinator.DayIndex(s).Marks(), s.SelectedDate, prefix, navPrefix)
}

const calendarText = "<b>📅 Agenda</b>\nLos días con • tienen citas. Toca un día para ver sus citas."

// showCalendar sends the agenda calendar, or redraws it in place when messageID is set.
func (b *Bot) showCalendar(chatID int64, s *models.Session, messageID int) {
	markup := b.calendarMarkup(s, cbDate, cbCalNav)
	if messageID != 0 {
		b.editHTML(chatID, messageID, calendarText, markup)
		return
	}
	b.sendHTML(chatID, calendarText, markup)
}

func (b *Bot) showFormCalendar(chatID int64, s *models.Session, messageID int) {
	const text = "<b>📅 Elige la fecha de la cita</b>"
	markup := b.calendarMarkup(s, cbFormDate, cbFormCalNav)
	if messageID != 0 {
		b.editHTML(chatID, messageID, text, markup)
		return
	}
	b.sendHTML(chatID, text, markup)
}

func (b *Bot) showDayView(chatID int64, s *models.Session) {
	text, markup := dayViewMessage(s)
	b.sendHTML(chatID, text, markup)
}

// showEmptyDay is shown for a date without appointments; the day view stays closed.
func (b *Bot) showEmptyDay(chatID int64, date string) {
	markup := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Nueva cita", cbNew+":"+date),
	))
	b.sendHTML(chatID, fmt.Sprintf("No hay citas el %s.", date), markup)
}

func (b *Bot) showForm(chatID int64, s *models.Session) {
	if !s.CreateOpen && !s.EditOpen {
		b.sendMessage(chatID, "El formulario ya no está abierto. Usa /nueva o /agenda.")
		return
	}
	text, markup := formMessage(s)
	b.sendHTML(chatID, text, markup)
}

func (b *Bot) showCatalog(chatID int64, s *models.Session, messageID int) {
	text, markup := catalogMessage(s)
	if messageID != 0 {
		b.editHTML(chatID, messageID, text, markup)
		return
	}
	b.sendHTML(chatID, text, markup)
}

// showAfterChange returns the chat to the day view when it is still open,
// else to the calendar.
func (b *Bot) showAfterChange(chatID int64, s *models.Session) {
	if s.DayViewOpen && len(s.DayView) > 0 {
		b.showDayView(chatID, s)
		return
	}
	b.showCalendar(chatID, s, 0)
}

// refreshReferences reloads the barber and service options before a form or
// picker is shown. Load failures are reported to the chat by the coordinator.
func (b *Bot) refreshReferences(ctx context.Context, s *models.Session) {
	_ = b.coordinator.LoadReferences(ctx, s)
}

func currentDraft(s *models.Session) *models.AppointmentDraft {
	if s.EditOpen {
		return &s.EditDraft
	}
	return &s.Draft
}
