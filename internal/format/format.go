// Package format projects raw API entities into the shapes selection lists
// and tables display.
package format

import (
	"fmt"
	"strconv"

	"mapache/internal/models"
)

func BarberOption(b models.Barber) models.Option {
	return models.Option{ID: b.ID, Label: b.Name}
}

func ServiceOption(s models.Service) models.Option {
	return models.Option{ID: s.ID, Label: fmt.Sprintf("%s (%s)", s.Description, Money(s.Cost))}
}

func BarberOptions(barbers []models.Barber) []models.Option {
	out := make([]models.Option, 0, len(barbers))
	for _, b := range barbers {
		out = append(out, BarberOption(b))
	}
	return out
}

func ServiceOptions(services []models.Service) []models.Option {
	out := make([]models.Option, 0, len(services))
	for _, s := range services {
		out = append(out, ServiceOption(s))
	}
	return out
}

// Money renders a cost with a dollar sign, dropping zero cents: 150 -> "$150", 99.5 -> "$99.50".
func Money(v float64) string {
	if v == float64(int64(v)) {
		return "$" + strconv.FormatInt(int64(v), 10)
	}
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

// AppointmentLine is the one-line table row of an appointment.
func AppointmentLine(a models.Appointment) string {
	return fmt.Sprintf("%s · %s · %s · %s", a.Time, a.Client.Name, a.Barber.Name, a.Service.Description)
}
