package models

// Barber as exposed by /barberos. ID is zero until the server assigns one.
type Barber struct {
	ID   int64  `json:"idBarbero,omitempty"`
	Name string `json:"nombre,omitempty"`
}

// Service as exposed by /servicios. A zero cost is valid.
type Service struct {
	ID          int64   `json:"idServicio,omitempty"`
	Description string  `json:"descripcion"`
	Cost        float64 `json:"costo"`
}

// Client as exposed by /clientes.
type Client struct {
	ID    int64  `json:"idCliente,omitempty"`
	Name  string `json:"nombre"`
	Phone string `json:"telefono"`
}

// Appointment is the server representation returned by /citas.
type Appointment struct {
	ID      int64   `json:"idCita"`
	Date    string  `json:"fecha"`
	Time    string  `json:"hora"`
	Barber  Barber  `json:"barbero"`
	Client  Client  `json:"cliente"`
	Service Service `json:"servicio"`
}

type BarberRef struct {
	ID int64 `json:"idBarbero"`
}

type ClientRef struct {
	ID int64 `json:"idCliente"`
}

type ServiceRef struct {
	ID int64 `json:"idServicio"`
}

// AppointmentPayload is the body sent on create and update: relations
// travel as bare id references.
type AppointmentPayload struct {
	ID      int64      `json:"idCita,omitempty"`
	Date    string     `json:"fecha"`
	Time    string     `json:"hora"`
	Barber  BarberRef  `json:"barbero"`
	Client  ClientRef  `json:"cliente"`
	Service ServiceRef `json:"servicio"`
}

// Option is an entry of a selection list.
type Option struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// FindOption returns the option with the given id, if present.
func FindOption(opts []Option, id int64) (Option, bool) {
	for _, o := range opts {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}
