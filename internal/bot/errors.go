package bot

import (
	"errors"

	"mapache/internal/backend"
	"mapache/internal/booking"
	"mapache/internal/catalog"
)

// errorMessage maps errors the booking and catalog layers do not report
// themselves to a chat message.
func errorMessage(err error) string {
	switch {
	case err == nil:
	case errors.Is(err, booking.ErrNotInDayView):
		return "⚠️ Esa cita ya no está en la agenda del día. Vuelve a abrir la fecha."
	case errors.Is(err, booking.ErrNoPendingDelete):
		return "⚠️ No hay ninguna cita pendiente de eliminar."
	case errors.Is(err, booking.ErrUnknownOption):
		return "⚠️ Esa opción ya no existe. Usa /agenda para recargar las listas."
	case errors.Is(err, catalog.ErrNotSelectable):
		return "⚠️ Activa primero el modo Editar o Eliminar."
	case errors.Is(err, catalog.ErrUnknownEntry), errors.Is(err, backend.ErrNotFound):
		return "⚠️ Ese registro ya no existe."
	case errors.Is(err, catalog.ErrNoSelection):
		return "⚠️ No hay ningún registro seleccionado."
	case errors.Is(err, backend.ErrInternal):
		return "❌ No hay conexión con el servidor. Intenta de nuevo en unos momentos."
	}
	return "❌ Ocurrió un error al procesar tu solicitud. Intenta de nuevo."
}
