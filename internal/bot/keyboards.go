package bot

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"mapache/internal/booking"
	"mapache/internal/format"
	"mapache/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data prefixes. Telegram limits callback data to 64 bytes.
const (
	cbNoop        = "noop"
	cbCalNav      = "cal"
	cbDate        = "date"
	cbFormCalNav  = "fcal"
	cbFormDate    = "fdate"
	cbNew         = "new"
	cbEdit        = "edit"
	cbDelete      = "del"
	cbDeleteYes   = "del_yes"
	cbDeleteNo    = "del_no"
	cbDayClose    = "dv_close"
	cbBarber      = "barber"
	cbService     = "service"
	cbTime        = "time"
	cbFormShow    = "form"
	cbFormBarber  = "form_barber"
	cbFormService = "form_service"
	cbFormTime    = "form_time"
	cbFormDay     = "form_date"
	cbFormName    = "form_name"
	cbFormPhone   = "form_phone"
	cbFormSave    = "form_save"
	cbFormCancel  = "form_cancel"
	cbCatEdit     = "cat_edit"
	cbCatDelete   = "cat_delete"
	cbCatPick     = "cat_pick"
	cbCatYes      = "cat_yes"
	cbCatNo       = "cat_no"
)

func withID(prefix string, id int64) string {
	return fmt.Sprintf("%s:%d", prefix, id)
}

// dayViewMessage renders the appointments of the selected date as a table
// with edit and delete buttons per row.
func dayViewMessage(s *models.Session) (string, tgbotapi.InlineKeyboardMarkup) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>📅 Citas del %s</b>\n\n", html.EscapeString(s.SelectedDate))
	for i, a := range s.DayView {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, html.EscapeString(format.AppointmentLine(a)))
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(s.DayView)+1)
	for _, a := range s.DayView {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✏️ %s %s", a.Time, a.Client.Name), withID(cbEdit, a.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", withID(cbDelete, a.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Nueva cita", cbNew+":"+s.SelectedDate),
		tgbotapi.NewInlineKeyboardButtonData("✖️ Cerrar", cbDayClose),
	))
	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// formMessage renders the open appointment form. After a rejected submit
// the missing fields are flagged.
func formMessage(s *models.Session) (string, tgbotapi.InlineKeyboardMarkup) {
	d := s.Draft
	title := "📝 Nueva cita"
	if s.EditOpen {
		d = s.EditDraft
		title = "✏️ Editar cita"
	}

	missing := map[string]bool{}
	if s.Submitted {
		var verr *booking.ValidationError
		if errors.As(booking.Validate(d), &verr) {
			for _, f := range verr.Fields {
				missing[f] = true
			}
		}
	}

	field := func(label, field, value string) string {
		switch {
		case value != "":
			return fmt.Sprintf("%s: %s\n", label, html.EscapeString(value))
		case missing[field]:
			return fmt.Sprintf("%s: ⚠️ <i>requerido</i>\n", label)
		default:
			return fmt.Sprintf("%s: —\n", label)
		}
	}

	var clock string
	if d.Time != nil {
		clock = d.Time.Format()
	}
	barber, _ := models.FindOption(s.Barbers, d.BarberID)
	service, _ := models.FindOption(s.Services, d.ServiceID)

	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s</b>\n\n", title)
	sb.WriteString(field("Fecha", booking.FieldDate, d.Date))
	sb.WriteString(field("Hora", booking.FieldTime, clock))
	sb.WriteString(field("Barbero", booking.FieldBarber, barber.Label))
	sb.WriteString(field("Servicio", booking.FieldService, service.Label))
	sb.WriteString(field("Cliente", booking.FieldClientName, d.ClientName))
	sb.WriteString(field("Teléfono", booking.FieldClientPhone, d.ClientPhone))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Fecha", cbFormDay),
			tgbotapi.NewInlineKeyboardButtonData("🕒 Hora", cbFormTime),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💈 Barbero", cbFormBarber),
			tgbotapi.NewInlineKeyboardButtonData("✂️ Servicio", cbFormService),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 Nombre", cbFormName),
			tgbotapi.NewInlineKeyboardButtonData("📞 Teléfono", cbFormPhone),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💾 Guardar", cbFormSave),
			tgbotapi.NewInlineKeyboardButtonData("✖️ Cancelar", cbFormCancel),
		),
	)
	return sb.String(), keyboard
}

// optionsKeyboard is a dropdown: one button per option, the current one ticked.
func optionsKeyboard(prefix string, options []models.Option, selected int64) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options)+1)
	for _, o := range options {
		label := o.Label
		if o.ID == selected {
			label = "✓ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, withID(prefix, o.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Volver", cbFormShow),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func confirmKeyboard(yes, no string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✅ Sí, eliminar", yes),
		tgbotapi.NewInlineKeyboardButtonData("↩️ No", no),
	))
}

// catalogMessage lists barbers or services. Outside viewing mode every entry
// becomes a button that picks it.
func catalogMessage(s *models.Session) (string, tgbotapi.InlineKeyboardMarkup) {
	var (
		title   string
		options []models.Option
	)
	switch s.Catalog.Kind {
	case models.CatalogServices:
		title = "✂️ Servicios"
		options = format.ServiceOptions(s.Catalog.Services)
	default:
		title = "💈 Barberos"
		options = format.BarberOptions(s.Catalog.Barbers)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s</b>\n", title)
	switch s.Catalog.Mode {
	case models.ModeEditing:
		sb.WriteString("<i>Elige el registro a editar</i>\n")
	case models.ModeDeleting:
		sb.WriteString("<i>Elige el registro a eliminar</i>\n")
	}
	sb.WriteString("\n")
	if len(options) == 0 {
		sb.WriteString("Sin registros.\n")
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options)+1)
	for _, o := range options {
		if s.Catalog.Mode == models.ModeViewing {
			fmt.Fprintf(&sb, "• %s\n", html.EscapeString(o.Label))
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(o.Label, withID(cbCatPick, o.ID)),
		))
	}

	editLabel, deleteLabel := "✏️ Editar", "🗑 Eliminar"
	switch s.Catalog.Mode {
	case models.ModeEditing:
		editLabel = "✔️ Terminar edición"
	case models.ModeDeleting:
		deleteLabel = "✔️ Terminar"
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(editLabel, cbCatEdit),
		tgbotapi.NewInlineKeyboardButtonData(deleteLabel, cbCatDelete),
	))
	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}
