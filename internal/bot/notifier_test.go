package bot

import (
	"testing"
	"time"

	"mapache/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatNotifier(t *testing.T) {
	tg := &fakeSender{}
	n := NewChatNotifier(tg, nil)

	var (
		scheduled time.Duration
		expire    func()
	)
	n.after = func(d time.Duration, f func()) *time.Timer {
		scheduled, expire = d, f
		return nil
	}

	n.Notify(10, models.Notification{
		Severity: models.SeveritySuccess,
		Summary:  "Cita agendada",
		Detail:   "Ana el 2024-05-10",
		Life:     3 * time.Second,
	})

	assert.Equal(t, []string{"✅ Cita agendada\nAna el 2024-05-10"}, tg.texts())
	assert.Equal(t, 3*time.Second, scheduled)
	require.NotNil(t, expire)

	expire()
	require.Len(t, tg.requests, 1)
	del, ok := tg.requests[0].(tgbotapi.DeleteMessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(10), del.ChatID)
	assert.Equal(t, 1, del.MessageID)
}

func TestNotificationText(t *testing.T) {
	tests := []struct {
		name string
		n    models.Notification
		want string
	}{
		{
			name: "warning keeps detail",
			n:    models.Notification{Severity: models.SeverityWarn, Summary: "Faltan datos", Detail: "Completa: Barbero"},
			want: "⚠️ Faltan datos\nCompleta: Barbero",
		},
		{
			name: "error hides detail",
			n:    models.Notification{Severity: models.SeverityError, Summary: "No se pudo eliminar", Detail: "status 500"},
			want: "❌ No se pudo eliminar",
		},
		{
			name: "no detail",
			n:    models.Notification{Severity: models.SeverityInfo, Summary: "Listo"},
			want: "ℹ️ Listo",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, notificationText(tt.n))
		})
	}
}

func TestChatNotifierWithoutLife(t *testing.T) {
	tg := &fakeSender{}
	n := NewChatNotifier(tg, nil)
	called := false
	n.after = func(time.Duration, func()) *time.Timer {
		called = true
		return nil
	}

	n.Notify(10, models.Notification{Severity: models.SeverityInfo, Summary: "Listo"})

	assert.False(t, called)
	assert.Len(t, tg.texts(), 1)
}
