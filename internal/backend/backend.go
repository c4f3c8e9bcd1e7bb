package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"mapache/internal/config"
	"mapache/internal/domain"
	"mapache/internal/models"

	"github.com/rs/zerolog"
)

const (
	PathBarbers      = "barberos"
	PathServices     = "servicios"
	PathClients      = "clientes"
	PathAppointments = "citas"
)

// Backend bundles the four resource gateways of the barbershop API.
type Backend struct {
	Barbers      domain.BarberGateway
	Services     domain.ServiceGateway
	Clients      domain.ClientGateway
	Appointments domain.AppointmentGateway

	baseURL    string
	httpClient *http.Client
}

// New wires gateways against cfg.BaseURL. With MockServices the services
// collection lives in process instead of on the API.
func New(cfg config.BackendConfig, logger *zerolog.Logger) *Backend {
	httpClient := &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}

	b := &Backend{
		Barbers:      NewResource[models.Barber, models.Barber](cfg.BaseURL, PathBarbers, httpClient, logger),
		Services:     NewResource[models.Service, models.Service](cfg.BaseURL, PathServices, httpClient, logger),
		Clients:      NewResource[models.Client, models.Client](cfg.BaseURL, PathClients, httpClient, logger),
		Appointments: NewResource[models.AppointmentPayload, models.Appointment](cfg.BaseURL, PathAppointments, httpClient, logger),
		baseURL:      cfg.BaseURL,
		httpClient:   httpClient,
	}
	if cfg.MockServices {
		b.Services = NewMemoryServices(time.Duration(cfg.MockLatencyMS) * time.Millisecond)
		if logger != nil {
			logger.Warn().Msg("services resource is mocked in memory")
		}
	}
	return b
}

// Ping checks that the API answers at all. Any status below 500 counts as up.
func (b *Backend) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/"+PathBarbers, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	}
	return nil
}
