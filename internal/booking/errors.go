package booking

import (
	"errors"
	"strings"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrNoPendingDelete = errors.New("no delete awaiting confirmation")
	ErrNotInDayView    = errors.New("appointment is not in the day view")
	ErrUnknownOption   = errors.New("option is not in the loaded list")
)

// Form field names reported by ValidationError.
const (
	FieldBarber      = "barber"
	FieldService     = "service"
	FieldClientName  = "client_name"
	FieldClientPhone = "client_phone"
	FieldDate        = "date"
	FieldTime        = "time"
)

var fieldLabels = map[string]string{
	FieldBarber:      "barbero",
	FieldService:     "servicio",
	FieldClientName:  "nombre del cliente",
	FieldClientPhone: "teléfono",
	FieldDate:        "fecha",
	FieldTime:        "hora",
}

// ValidationError lists the required form fields that are missing or blank.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Labels returns the missing fields as shown to staff.
func (e *ValidationError) Labels() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if label, ok := fieldLabels[f]; ok {
			out = append(out, label)
			continue
		}
		out = append(out, f)
	}
	return out
}
