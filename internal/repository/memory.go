package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"mapache/internal/models"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemorySessionRepository stores sessions as JSON so callers never share a
// *models.Session with the store, matching the Redis behaviour.
type MemorySessionRepository struct {
	sessions sync.Map
	ttl      time.Duration
	now      func() time.Time
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		ttl: ttl,
		now: time.Now,
	}
}

func (r *MemorySessionRepository) GetSession(ctx context.Context, chatID int64) (*models.Session, error) {
	val, ok := r.sessions.Load(chatID)
	if !ok {
		return nil, nil
	}
	entry := val.(memoryEntry)
	if !entry.expiresAt.IsZero() && r.now().After(entry.expiresAt) {
		r.sessions.Delete(chatID)
		return nil, nil
	}

	var session models.Session
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (r *MemorySessionRepository) SaveSession(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = r.now()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	entry := memoryEntry{data: data}
	if r.ttl > 0 {
		entry.expiresAt = session.UpdatedAt.Add(r.ttl)
	}
	r.sessions.Store(session.ChatID, entry)
	return nil
}

func (r *MemorySessionRepository) ClearSession(ctx context.Context, chatID int64) error {
	r.sessions.Delete(chatID)
	return nil
}
