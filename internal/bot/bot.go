// Package bot is the Telegram front end of the agenda: calendar, day view,
// appointment forms and the barber and service catalogs.
package bot

import (
	"context"
	"errors"
	"time"

	"mapache/internal/booking"
	"mapache/internal/catalog"
	"mapache/internal/config"
	"mapache/internal/domain"
	"mapache/internal/metrics"
	"mapache/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Bot struct {
	tg          domain.TelegramSender
	config      *config.Config
	sessions    domain.SessionRepository
	coordinator *booking.Coordinator
	catalog     *catalog.Catalog
	limiter     *rateLimiter
	now         func() time.Time
	logger      *zerolog.Logger
}

func NewBot(
	tg domain.TelegramSender,
	cfg *config.Config,
	sessions domain.SessionRepository,
	coordinator *booking.Coordinator,
	catalogs *catalog.Catalog,
	logger *zerolog.Logger,
) (*Bot, error) {
	if tg == nil || cfg == nil || sessions == nil || coordinator == nil || catalogs == nil {
		return nil, errors.New("bot: missing dependency")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Bot{
		tg:          tg,
		config:      cfg,
		sessions:    sessions,
		coordinator: coordinator,
		catalog:     catalogs,
		limiter:     newRateLimiter(cfg.Bot.RateLimitRPS, cfg.Bot.RateLimitBurst),
		now:         time.Now,
		logger:      logger,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tg.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tg.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			b.tg.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

func updateChatID(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() { metrics.ObserveUpdate(time.Since(start)) }()

	chatID := updateChatID(update)
	if chatID == 0 {
		return
	}

	updateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	l := b.logger.With().Str("request_id", uuid.NewString()).Int64("chat_id", chatID).Logger()
	updateCtx = l.WithContext(updateCtx)

	if update.CallbackQuery != nil {
		// answer right away so the client stops showing the spinner
		_, _ = b.tg.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, ""))
	}

	if !b.config.IsStaff(chatID) {
		l.Warn().Msg("update from chat outside staff list")
		b.sendMessage(chatID, "⛔ Este bot es solo para el personal de la barbería.")
		return
	}

	if !b.limiter.Allow(chatID) {
		l.Warn().Msg("Rate limit exceeded")
		if update.Message != nil {
			b.sendMessage(chatID, "⚠️ Estás enviando mensajes demasiado rápido. Espera un momento.")
		}
		return
	}

	b.withRecovery(chatID, func() {
		s := b.loadSession(updateCtx, chatID)

		if update.CallbackQuery != nil {
			b.handleCallbackQuery(updateCtx, s, update.CallbackQuery)
		} else {
			b.handleMessage(updateCtx, s, update.Message)
		}

		if err := b.sessions.SaveSession(updateCtx, s); err != nil {
			l.Error().Err(err).Msg("save session")
		}
	})
}

// loadSession never fails: a missing or unreadable session starts fresh.
func (b *Bot) loadSession(ctx context.Context, chatID int64) *models.Session {
	s, err := b.sessions.GetSession(ctx, chatID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("load session")
	}
	if s == nil {
		s = models.NewSession(chatID)
	}
	return s
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.tg.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send message")
	}
}

func (b *Bot) sendHTML(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = models.ParseModeHTML
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send message")
	}
}

// editHTML replaces a message in place, e.g. when paging the calendar.
func (b *Bot) editHTML(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	edit.ParseMode = models.ParseModeHTML
	if _, err := b.tg.Send(edit); err != nil {
		b.logger.Debug().Err(err).Int64("chat_id", chatID).Msg("edit message")
	}
}

func (b *Bot) reportError(chatID int64, err error) {
	b.logger.Debug().Err(err).Int64("chat_id", chatID).Msg("request rejected")
	b.sendMessage(chatID, errorMessage(err))
}
