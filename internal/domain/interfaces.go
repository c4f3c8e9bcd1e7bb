package domain

import (
	"context"

	"mapache/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Gateway is the uniform verb set of a REST collection.
type Gateway[Req, Resp any] interface {
	FindAll(ctx context.Context) ([]Resp, error)
	FindByID(ctx context.Context, id int64) (*Resp, error)
	Create(ctx context.Context, entity Req) (*Resp, error)
	Update(ctx context.Context, id int64, entity Req) (*Resp, error)
	Delete(ctx context.Context, id int64) error
}

type (
	BarberGateway      = Gateway[models.Barber, models.Barber]
	ServiceGateway     = Gateway[models.Service, models.Service]
	ClientGateway      = Gateway[models.Client, models.Client]
	AppointmentGateway = Gateway[models.AppointmentPayload, models.Appointment]
)

// Notifier shows transient messages to the staff member driving a chat.
type Notifier interface {
	Notify(chatID int64, n models.Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(chatID int64, n models.Notification)

func (f NotifierFunc) Notify(chatID int64, n models.Notification) { f(chatID, n) }

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type SessionRepository interface {
	GetSession(ctx context.Context, chatID int64) (*models.Session, error)
	SaveSession(ctx context.Context, session *models.Session) error
	ClearSession(ctx context.Context, chatID int64) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}
