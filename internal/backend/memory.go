package backend

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"mapache/internal/models"
)

// MemoryServices stands in for /servicios during development: ids are
// random and every call waits for an artificial latency.
type MemoryServices struct {
	mu      sync.Mutex
	order   []int64
	byID    map[int64]models.Service
	latency time.Duration
}

func NewMemoryServices(latency time.Duration, seed ...models.Service) *MemoryServices {
	m := &MemoryServices{byID: make(map[int64]models.Service), latency: latency}
	for _, s := range seed {
		m.insert(s)
	}
	return m
}

func (m *MemoryServices) FindAll(ctx context.Context) ([]models.Service, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Service, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out, nil
}

func (m *MemoryServices) FindByID(ctx context.Context, id int64) (*models.Service, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("get %s/%d: %w", PathServices, id, ErrNotFound)
	}
	return &s, nil
}

func (m *MemoryServices) Create(ctx context.Context, s models.Service) (*models.Service, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = 0
	created := m.insert(s)
	return &created, nil
}

func (m *MemoryServices) Update(ctx context.Context, id int64, s models.Service) (*models.Service, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return nil, fmt.Errorf("update %s/%d: %w", PathServices, id, ErrNotFound)
	}
	s.ID = id
	m.byID[id] = s
	return &s, nil
}

func (m *MemoryServices) Delete(ctx context.Context, id int64) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("delete %s/%d: %w", PathServices, id, ErrNotFound)
	}
	delete(m.byID, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// insert must be called with mu held (or before the value is shared).
func (m *MemoryServices) insert(s models.Service) models.Service {
	if s.ID == 0 {
		for {
			s.ID = rand.Int64N(1_000_000) + 1
			if _, taken := m.byID[s.ID]; !taken {
				break
			}
		}
	}
	if _, exists := m.byID[s.ID]; !exists {
		m.order = append(m.order, s.ID)
	}
	m.byID[s.ID] = s
	return s
}

func (m *MemoryServices) wait(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(m.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrInternal, ctx.Err())
	case <-timer.C:
		return nil
	}
}
