package bot

import (
	"fmt"
	"time"

	"mapache/internal/domain"
	"mapache/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

var severityIcons = map[models.Severity]string{
	models.SeveritySuccess: "✅",
	models.SeverityInfo:    "ℹ️",
	models.SeverityWarn:    "⚠️",
	models.SeverityError:   "❌",
}

// ChatNotifier shows notifications as chat messages and deletes them once
// their display time is over.
type ChatNotifier struct {
	tg     domain.TelegramSender
	logger *zerolog.Logger
	after  func(d time.Duration, f func()) *time.Timer
}

func NewChatNotifier(tg domain.TelegramSender, logger *zerolog.Logger) *ChatNotifier {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &ChatNotifier{tg: tg, logger: logger, after: time.AfterFunc}
}

func notificationText(n models.Notification) string {
	text := fmt.Sprintf("%s %s", severityIcons[n.Severity], n.Summary)
	if n.Detail != "" && n.Severity != models.SeverityError {
		text += "\n" + n.Detail
	}
	return text
}

func (c *ChatNotifier) Notify(chatID int64, n models.Notification) {
	sent, err := c.tg.Send(tgbotapi.NewMessage(chatID, notificationText(n)))
	if err != nil {
		c.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send notification")
		return
	}
	if n.Life <= 0 || sent.MessageID == 0 {
		return
	}
	c.after(n.Life, func() {
		if _, err := c.tg.Request(tgbotapi.NewDeleteMessage(chatID, sent.MessageID)); err != nil {
			c.logger.Debug().Err(err).Int64("chat_id", chatID).Msg("expire notification")
		}
	})
}
