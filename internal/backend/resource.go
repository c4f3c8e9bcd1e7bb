package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"mapache/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxErrorBody = 512

// Resource is a stateless REST gateway over one collection endpoint.
// Req is the body sent on create/update, Resp what the server returns.
type Resource[Req, Resp any] struct {
	name       string
	endpoint   string
	httpClient *http.Client
	logger     *zerolog.Logger
}

// NewResource builds a gateway for <baseURL>/<name>.
func NewResource[Req, Resp any](baseURL, name string, httpClient *http.Client, logger *zerolog.Logger) *Resource[Req, Resp] {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Resource[Req, Resp]{
		name:       name,
		endpoint:   baseURL + "/" + name,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Name returns the collection path segment, e.g. "barberos".
func (r *Resource[Req, Resp]) Name() string {
	return r.name
}

// FindAll lists the whole collection.
func (r *Resource[Req, Resp]) FindAll(ctx context.Context) ([]Resp, error) {
	var out []Resp
	if err := r.do(ctx, http.MethodGet, r.endpoint, nil, &out); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.name, err)
	}
	if out == nil {
		out = []Resp{}
	}
	return out, nil
}

// FindByID fetches one entity.
func (r *Resource[Req, Resp]) FindByID(ctx context.Context, id int64) (*Resp, error) {
	var out Resp
	if err := r.do(ctx, http.MethodGet, r.byID(id), nil, &out); err != nil {
		return nil, fmt.Errorf("get %s/%d: %w", r.name, id, err)
	}
	return &out, nil
}

// Create posts a new entity and returns the server copy with its id.
func (r *Resource[Req, Resp]) Create(ctx context.Context, entity Req) (*Resp, error) {
	var out Resp
	if err := r.do(ctx, http.MethodPost, r.endpoint, entity, &out); err != nil {
		return nil, fmt.Errorf("create %s: %w", r.name, err)
	}
	return &out, nil
}

// Update replaces the entity stored under id.
func (r *Resource[Req, Resp]) Update(ctx context.Context, id int64, entity Req) (*Resp, error) {
	var out Resp
	if err := r.do(ctx, http.MethodPut, r.byID(id), entity, &out); err != nil {
		return nil, fmt.Errorf("update %s/%d: %w", r.name, id, err)
	}
	return &out, nil
}

// Delete removes the entity stored under id.
func (r *Resource[Req, Resp]) Delete(ctx context.Context, id int64) error {
	if err := r.do(ctx, http.MethodDelete, r.byID(id), nil, nil); err != nil {
		return fmt.Errorf("delete %s/%d: %w", r.name, id, err)
	}
	return nil
}

func (r *Resource[Req, Resp]) byID(id int64) string {
	return r.endpoint + "/" + strconv.FormatInt(id, 10)
}

func (r *Resource[Req, Resp]) do(ctx context.Context, method, url string, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: marshal request: %v", ErrInternal, err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		metrics.ObserveBackend(r.name, method, 0, time.Since(start))
		r.logger.Error().Err(err).Str("resource", r.name).Str("method", method).Str("request_id", requestID).Msg("backend request failed")
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	metrics.ObserveBackend(r.name, method, resp.StatusCode, elapsed)
	r.logger.Debug().
		Str("resource", r.name).
		Str("method", method).
		Str("url", url).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("backend request")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(excerpt))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}
