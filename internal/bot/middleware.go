package bot

import (
	"sync"

	"mapache/internal/models"

	"golang.org/x/time/rate"
)

func (b *Bot) withRecovery(chatID int64, handler func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().Interface("panic", r).Int64("chat_id", chatID).Msg("Recovered from panic in update handler")
			b.sendMessage(chatID, errorMessage(nil))
		}
	}()
	handler()
}

// rateLimiter keeps one token bucket per chat.
type rateLimiter struct {
	limiters sync.Map
	rps      float64
	burst    int
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	if rps <= 0 {
		rps = models.RateLimitRPS
	}
	if burst <= 0 {
		burst = models.RateLimitBurst
	}
	return &rateLimiter{rps: rps, burst: burst}
}

func (l *rateLimiter) getLimiter(chatID int64) *rate.Limiter {
	if v, ok := l.limiters.Load(chatID); ok {
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(rate.Limit(l.rps), l.burst)
	actual, _ := l.limiters.LoadOrStore(chatID, lim)
	return actual.(*rate.Limiter)
}

func (l *rateLimiter) Allow(chatID int64) bool {
	return l.getLimiter(chatID).Allow()
}
