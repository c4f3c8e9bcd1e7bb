package repository

import (
	"context"
	"sync/atomic"
	"time"

	"mapache/internal/domain"
	"mapache/internal/models"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverSessionRepository serves from primary until it fails, then from
// fallback, probing primary again once per recoveryInterval.
type FailoverSessionRepository struct {
	primary   domain.SessionRepository
	fallback  domain.SessionRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverSessionRepository(primary, fallback domain.SessionRepository, logger *zerolog.Logger) *FailoverSessionRepository {
	return &FailoverSessionRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Degraded reports whether sessions are currently served from the fallback.
func (r *FailoverSessionRepository) Degraded() bool {
	return r.isDown.Load()
}

func (r *FailoverSessionRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverSessionRepository) shouldProbe() bool {
	return r.isDown.Load() && time.Since(time.Unix(0, r.lastCheck.Load())) > recoveryInterval
}

func (r *FailoverSessionRepository) GetSession(ctx context.Context, chatID int64) (*models.Session, error) {
	if !r.isDown.Load() {
		session, err := r.primary.GetSession(ctx, chatID)
		if err == nil {
			return session, nil
		}
		r.markDown(err)
	}

	if r.shouldProbe() {
		session, err := r.primary.GetSession(ctx, chatID)
		if err == nil {
			r.isDown.Store(false)
			r.logger.Info().Msg("Primary session repository recovered")
			if session == nil {
				return r.fallback.GetSession(ctx, chatID)
			}
			return session, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.GetSession(ctx, chatID)
}

func (r *FailoverSessionRepository) SaveSession(ctx context.Context, session *models.Session) error {
	if !r.isDown.Load() {
		err := r.primary.SaveSession(ctx, session)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SaveSession(ctx, session)
}

func (r *FailoverSessionRepository) ClearSession(ctx context.Context, chatID int64) error {
	if !r.isDown.Load() {
		err := r.primary.ClearSession(ctx, chatID)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.ClearSession(ctx, chatID)
}
