package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mapache/internal/api"
	"mapache/internal/backend"
	"mapache/internal/booking"
	"mapache/internal/bot"
	"mapache/internal/catalog"
	"mapache/internal/config"
	"mapache/internal/domain"
	"mapache/internal/events"
	"mapache/internal/logging"
	"mapache/internal/metrics"
	"mapache/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("create exports directory")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, sessions := initSessions(ctx, cfg, logger)
	defer func() { _ = repository.Close(redisClient) }()

	rest := backend.New(cfg.Backend, logging.Component(logger, "backend"))

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
	}

	eventBus := events.NewEventBus()
	subscribeAuditLog(eventBus, logging.Component(logger, "events"))

	healthServer := startHealthServer(cfg, redisClient, rest, logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = healthServer.Shutdown(shutdownCtx)
	}()

	return startBot(ctx, cfg, sessions, rest, eventBus, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logging.Component(baseLogger, "bot-main"), closer, nil
}

// initSessions keeps chat sessions in Redis when configured and falls back
// to process memory whenever Redis is missing or failing.
func initSessions(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, domain.SessionRepository) {
	ttl := time.Duration(cfg.Redis.SessionTTLSeconds) * time.Second

	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if errPing := repository.Ping(ctx, redisClient); errPing != nil {
			logger.Warn().Err(errPing).Msg("Redis unavailable, sessions kept in memory")
		}
	}

	primary := repository.NewRedisSessionRepository(redisClient, ttl)
	fallback := repository.NewMemorySessionRepository(ttl)
	return redisClient, repository.NewFailoverSessionRepository(primary, fallback, logging.Component(logger, "sessions"))
}

func startHealthServer(cfg *config.Config, redisClient *redis.Client, rest *backend.Backend, logger *zerolog.Logger) *api.HTTPServer {
	checks := []api.Check{{Name: "backend", Ping: rest.Ping}}
	if redisClient != nil {
		checks = append(checks, api.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return repository.Ping(ctx, redisClient)
		}})
	}

	server := api.NewHTTPServer(cfg.Monitoring.HealthCheckPort, cfg.Monitoring.PrometheusEnabled, checks, logging.Component(logger, "health"))
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("health server error")
		}
	}()
	logger.Info().Int("port", cfg.Monitoring.HealthCheckPort).Msg("Health server started")
	return server
}

// subscribeAuditLog counts every domain event and writes one audit line per event.
func subscribeAuditLog(bus *events.EventBus, logger *zerolog.Logger) {
	handler := func(ev *events.Event) error {
		metrics.IncEvent(ev.Type)

		var fields map[string]interface{}
		if err := json.Unmarshal(ev.Payload, &fields); err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		logger.Info().Str("event_id", ev.ID).Str("event", ev.Type).Fields(fields).Msg("audit")
		return nil
	}
	for _, eventType := range events.AllTypes {
		bus.Subscribe(eventType, handler)
	}
}

func startBot(
	ctx context.Context,
	cfg *config.Config,
	sessions domain.SessionRepository,
	rest *backend.Backend,
	eventBus *events.EventBus,
	logger *zerolog.Logger,
) error {
	tg, err := bot.NewBotWrapper(cfg.Telegram.BotToken, cfg.Telegram.Debug)
	if err != nil {
		logger.Error().Err(err).Msg("create bot api")
		return err
	}

	life := time.Duration(cfg.Notify.LifeSeconds) * time.Second
	notifier := bot.NewChatNotifier(tg, logging.Component(logger, "notifier"))

	coordinator := booking.NewCoordinator(booking.Gateways{
		Barbers:      rest.Barbers,
		Services:     rest.Services,
		Clients:      rest.Clients,
		Appointments: rest.Appointments,
	}, notifier, eventBus, life, logging.Component(logger, "booking"))
	catalogs := catalog.New(rest.Barbers, rest.Services, notifier, eventBus, life, logging.Component(logger, "catalog"))

	telegramBot, err := bot.NewBot(tg, cfg, sessions, coordinator, catalogs, logging.Component(logger, "bot"))
	if err != nil {
		logger.Error().Err(err).Msg("create bot")
		return err
	}

	logger.Info().Str("backend", cfg.Backend.BaseURL).Msg("Bot started")
	telegramBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}
