package bot

import (
	"fmt"
	"time"

	"mapache/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

func monthTitle(page time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[page.Month()-1], page.Year())
}

// GenerateCalendarKeyboard builds a Monday-first month grid. Days present in
// marked get a dot, selected is bracketed. Day buttons carry
// "<prefix>:YYYY-MM-DD"; the arrows carry "<navPrefix>:YYYY-MM".
func GenerateCalendarKeyboard(year, month int, marked map[string]bool, selected, prefix, navPrefix string) tgbotapi.InlineKeyboardMarkup {
	firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	offset := (int(firstDay.Weekday()) + 6) % 7
	days := daysIn(time.Month(month), year)

	prev := firstDay.AddDate(0, -1, 0)
	next := firstDay.AddDate(0, 1, 0)

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, 8)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("«", navPrefix+":"+prev.Format(models.MonthLayout)),
		tgbotapi.NewInlineKeyboardButtonData(monthTitle(firstDay), cbNoop),
		tgbotapi.NewInlineKeyboardButtonData("»", navPrefix+":"+next.Format(models.MonthLayout)),
	))

	header := make([]tgbotapi.InlineKeyboardButton, 0, 7)
	for _, d := range []string{"Lu", "Ma", "Mi", "Ju", "Vi", "Sá", "Do"} {
		header = append(header, tgbotapi.NewInlineKeyboardButtonData(d, cbNoop))
	}
	rows = append(rows, header)

	row := make([]tgbotapi.InlineKeyboardButton, 0, 7)
	for i := 0; i < offset; i++ {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(" ", cbNoop))
	}
	for day := 1; day <= days; day++ {
		dateStr := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		label := fmt.Sprintf("%d", day)
		if marked[dateStr] {
			label = "•" + label
		}
		if dateStr == selected {
			label = "[" + label + "]"
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, prefix+":"+dateStr))
		if len(row) == 7 {
			rows = append(rows, row)
			row = make([]tgbotapi.InlineKeyboardButton, 0, 7)
		}
	}
	if len(row) > 0 {
		for len(row) < 7 {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(" ", cbNoop))
		}
		rows = append(rows, row)
	}

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// GenerateTimeSlotsKeyboard offers every slot between startHour and endHour.
// Buttons show the 12-hour label and carry "<cbTime>:HH:MM".
func GenerateTimeSlotsKeyboard(startHour, endHour, slotMinutes int, selected *models.Clock) tgbotapi.InlineKeyboardMarkup {
	if slotMinutes <= 0 {
		slotMinutes = models.DefaultSlotMinutes
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0)
	row := make([]tgbotapi.InlineKeyboardButton, 0, 4)
	for m := startHour * 60; m < endHour*60; m += slotMinutes {
		clock := models.Clock{Hour: m / 60, Minute: m % 60}
		label := clock.Format()
		if selected != nil && *selected == clock {
			label = "✓ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s:%02d:%02d", cbTime, clock.Hour, clock.Minute)))
		if len(row) == 4 {
			rows = append(rows, row)
			row = make([]tgbotapi.InlineKeyboardButton, 0, 4)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Volver", cbFormShow),
	))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
