package bot

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"mapache/internal/backend"
	"mapache/internal/booking"
	"mapache/internal/catalog"
	"mapache/internal/config"
	"mapache/internal/models"
	"mapache/internal/repository"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	nextID   int
	updates  chan tgbotapi.Update
	stopped  bool
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeSender) GetSelf() tgbotapi.User {
	return tgbotapi.User{UserName: "mapache_test_bot"}
}

func (f *fakeSender) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

// texts returns the text of every sent message, edit and document caption.
func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		case tgbotapi.DocumentConfig:
			out = append(out, m.Caption)
		}
	}
	return out
}

func (f *fakeSender) last() tgbotapi.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}

// fakeAPI is an in-memory barbershop REST API.
type fakeAPI struct {
	mu           sync.Mutex
	barbers      []models.Barber
	services     []models.Service
	clients      []models.Client
	appointments []models.Appointment
	nextID       int64
	failCreate   bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		barbers:  []models.Barber{{ID: 1, Name: "Luis"}, {ID: 2, Name: "Marta"}},
		services: []models.Service{{ID: 1, Description: "Corte", Cost: 150}},
		nextID:   100,
	}
}

func (a *fakeAPI) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /barberos", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		writeTestJSON(w, http.StatusOK, a.barbers)
	})
	mux.HandleFunc("POST /barberos", func(w http.ResponseWriter, r *http.Request) {
		var b models.Barber
		_ = json.NewDecoder(r.Body).Decode(&b)
		a.mu.Lock()
		defer a.mu.Unlock()
		a.nextID++
		b.ID = a.nextID
		a.barbers = append(a.barbers, b)
		writeTestJSON(w, http.StatusCreated, b)
	})
	mux.HandleFunc("PUT /barberos/{id}", func(w http.ResponseWriter, r *http.Request) {
		var b models.Barber
		_ = json.NewDecoder(r.Body).Decode(&b)
		b.ID, _ = strconv.ParseInt(r.PathValue("id"), 10, 64)
		a.mu.Lock()
		defer a.mu.Unlock()
		for i := range a.barbers {
			if a.barbers[i].ID == b.ID {
				a.barbers[i] = b
			}
		}
		writeTestJSON(w, http.StatusOK, b)
	})
	mux.HandleFunc("DELETE /barberos/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		a.mu.Lock()
		defer a.mu.Unlock()
		kept := a.barbers[:0]
		for _, b := range a.barbers {
			if b.ID != id {
				kept = append(kept, b)
			}
		}
		a.barbers = kept
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /servicios", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		writeTestJSON(w, http.StatusOK, a.services)
	})
	mux.HandleFunc("POST /clientes", func(w http.ResponseWriter, r *http.Request) {
		var c models.Client
		_ = json.NewDecoder(r.Body).Decode(&c)
		a.mu.Lock()
		defer a.mu.Unlock()
		a.nextID++
		c.ID = a.nextID
		a.clients = append(a.clients, c)
		writeTestJSON(w, http.StatusCreated, c)
	})
	mux.HandleFunc("PUT /clientes/{id}", func(w http.ResponseWriter, r *http.Request) {
		var c models.Client
		_ = json.NewDecoder(r.Body).Decode(&c)
		c.ID, _ = strconv.ParseInt(r.PathValue("id"), 10, 64)
		a.mu.Lock()
		defer a.mu.Unlock()
		a.clients = append(a.clients, c)
		writeTestJSON(w, http.StatusOK, c)
	})
	mux.HandleFunc("GET /citas", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		writeTestJSON(w, http.StatusOK, a.appointments)
	})
	mux.HandleFunc("POST /citas", func(w http.ResponseWriter, r *http.Request) {
		var p models.AppointmentPayload
		_ = json.NewDecoder(r.Body).Decode(&p)
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.failCreate {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		a.nextID++
		p.ID = a.nextID
		appt := a.resolve(p)
		a.appointments = append(a.appointments, appt)
		writeTestJSON(w, http.StatusCreated, appt)
	})
	mux.HandleFunc("PUT /citas/{id}", func(w http.ResponseWriter, r *http.Request) {
		var p models.AppointmentPayload
		_ = json.NewDecoder(r.Body).Decode(&p)
		p.ID, _ = strconv.ParseInt(r.PathValue("id"), 10, 64)
		a.mu.Lock()
		defer a.mu.Unlock()
		appt := a.resolve(p)
		for i := range a.appointments {
			if a.appointments[i].ID == p.ID {
				a.appointments[i] = appt
			}
		}
		writeTestJSON(w, http.StatusOK, appt)
	})
	mux.HandleFunc("DELETE /citas/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		a.mu.Lock()
		defer a.mu.Unlock()
		kept := a.appointments[:0]
		for _, appt := range a.appointments {
			if appt.ID != id {
				kept = append(kept, appt)
			}
		}
		a.appointments = kept
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func (a *fakeAPI) resolve(p models.AppointmentPayload) models.Appointment {
	appt := models.Appointment{ID: p.ID, Date: p.Date, Time: p.Time}
	for _, b := range a.barbers {
		if b.ID == p.Barber.ID {
			appt.Barber = b
		}
	}
	for _, s := range a.services {
		if s.ID == p.Service.ID {
			appt.Service = s
		}
	}
	appt.Client = models.Client{ID: p.Client.ID}
	// last write wins
	for _, c := range a.clients {
		if c.ID == p.Client.ID {
			appt.Client = c
		}
	}
	return appt
}

func (a *fakeAPI) seed(appts ...models.Appointment) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, appt := range appts {
		a.clients = append(a.clients, appt.Client)
		a.appointments = append(a.appointments, appt)
	}
}

func (a *fakeAPI) snapshot() []models.Appointment {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.Appointment(nil), a.appointments...)
}

func (a *fakeAPI) appointmentCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.appointments)
}

func writeTestJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type testBot struct {
	bot      *Bot
	tg       *fakeSender
	api      *fakeAPI
	sessions *repository.MemorySessionRepository
}

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestBot(t *testing.T) *testBot {
	t.Helper()

	api := newFakeAPI()
	srv := httptest.NewServer(api.routes())
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Backend: config.BackendConfig{BaseURL: srv.URL, TimeoutSeconds: 5},
		Bot: config.BotConfig{
			RateLimitRPS:   100,
			RateLimitBurst: 100,
			SlotMinutes:    30,
			DayStartHour:   9,
			DayEndHour:     20,
		},
		Exports: config.ExportConfig{Path: t.TempDir()},
	}

	be := backend.New(cfg.Backend, nil)
	tg := &fakeSender{updates: make(chan tgbotapi.Update, 4)}

	notifier := NewChatNotifier(tg, nil)
	notifier.after = func(time.Duration, func()) *time.Timer { return nil }

	coordinator := booking.NewCoordinator(booking.Gateways{
		Barbers:      be.Barbers,
		Services:     be.Services,
		Clients:      be.Clients,
		Appointments: be.Appointments,
	}, notifier, nil, time.Second, nil)
	catalogs := catalog.New(be.Barbers, be.Services, notifier, nil, time.Second, nil)

	sessions := repository.NewMemorySessionRepository(time.Hour)
	b, err := NewBot(tg, cfg, sessions, coordinator, catalogs, nil)
	require.NoError(t, err)
	b.now = func() time.Time { return testNow }

	return &testBot{bot: b, tg: tg, api: api, sessions: sessions}
}

const testChatID int64 = 555

func commandUpdate(text string) tgbotapi.Update {
	command, _, _ := strings.Cut(text, " ")
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: testChatID},
		Chat:      &tgbotapi.Chat{ID: testChatID},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command)}},
	}}
}

func textUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: testChatID},
		Chat:      &tgbotapi.Chat{ID: testChatID},
		Text:      text,
	}}
}

func callbackUpdate(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: testChatID},
		Message: &tgbotapi.Message{MessageID: 42, Chat: &tgbotapi.Chat{ID: testChatID}},
		Data:    data,
	}}
}

func (tb *testBot) session(t *testing.T) *models.Session {
	t.Helper()
	s, err := tb.sessions.GetSession(t.Context(), testChatID)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}
