package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mapache/internal/backend"
	"mapache/internal/models"

	"github.com/stretchr/testify/mock"
)

var errBoom = errors.New("boom")

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// fakeGateway records every call as "<name>.<verb>[ id]" on a shared recorder.
type fakeGateway[Req, Resp any] struct {
	name string
	rec  *recorder

	list    []Resp
	listErr error

	createFn  func(Req) (*Resp, error)
	updateFn  func(int64, Req) (*Resp, error)
	deleteErr error

	created []Req
	updated map[int64]Req
}

func (f *fakeGateway[Req, Resp]) FindAll(_ context.Context) ([]Resp, error) {
	f.rec.record("%s.list", f.name)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Resp(nil), f.list...), nil
}

func (f *fakeGateway[Req, Resp]) FindByID(_ context.Context, id int64) (*Resp, error) {
	f.rec.record("%s.get %d", f.name, id)
	return nil, backend.ErrNotFound
}

func (f *fakeGateway[Req, Resp]) Create(_ context.Context, entity Req) (*Resp, error) {
	f.rec.record("%s.create", f.name)
	f.created = append(f.created, entity)
	if f.createFn == nil {
		return new(Resp), nil
	}
	return f.createFn(entity)
}

func (f *fakeGateway[Req, Resp]) Update(_ context.Context, id int64, entity Req) (*Resp, error) {
	f.rec.record("%s.update %d", f.name, id)
	if f.updated == nil {
		f.updated = make(map[int64]Req)
	}
	f.updated[id] = entity
	if f.updateFn == nil {
		return new(Resp), nil
	}
	return f.updateFn(id, entity)
}

func (f *fakeGateway[Req, Resp]) Delete(_ context.Context, id int64) error {
	f.rec.record("%s.delete %d", f.name, id)
	return f.deleteErr
}

type notifications struct {
	mu   sync.Mutex
	list []models.Notification
}

func (n *notifications) Notify(_ int64, note models.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.list = append(n.list, note)
}

func (n *notifications) Severities() []models.Severity {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]models.Severity, 0, len(n.list))
	for _, note := range n.list {
		out = append(out, note.Severity)
	}
	return out
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}
