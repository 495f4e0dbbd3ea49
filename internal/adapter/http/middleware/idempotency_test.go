package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// memoryIdempotencyStore is an in-memory usecase.IdempotencyStore.
type memoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{entries: make(map[string][]byte)}
}

func (s *memoryIdempotencyStore) CheckAndSet(_ context.Context, key string, response []byte, _ time.Duration) (bool, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[key]; ok {
		return true, existing, nil
	}

	if response == nil {
		s.entries[key] = []byte("processing")
	} else {
		s.entries[key] = response
	}

	return false, nil, nil
}

func (s *memoryIdempotencyStore) Update(_ context.Context, key string, response []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = response

	return nil
}

func TestIdempotencyMiddleware_ReplaysCachedResponse(t *testing.T) {
	t.Parallel()

	calls := 0
	handler := NewIdempotencyMiddleware(newMemoryIdempotencyStore()).Wrap(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Write([]byte(`{"n":1}`))
		}))

	newReq := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
		req.Header.Set(IdempotencyKeyHeader, "key-1")
		return req
	}

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, newReq())

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, newReq())

	if calls != 1 {
		t.Fatalf("expected handler invoked once, got %d", calls)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("expected replayed body, got %q", second.Body.String())
	}
	if second.Header().Get("X-Idempotency-Replay") != "true" {
		t.Fatal("expected replay marker header")
	}
}

func TestIdempotencyMiddleware_NoKeyPassesThrough(t *testing.T) {
	t.Parallel()

	calls := 0
	handler := NewIdempotencyMiddleware(newMemoryIdempotencyStore()).Wrap(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
		}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
	}

	if calls != 2 {
		t.Fatalf("expected both requests handled, got %d", calls)
	}
}

func TestIdempotencyMiddleware_GetNotCached(t *testing.T) {
	t.Parallel()

	calls := 0
	handler := NewIdempotencyMiddleware(newMemoryIdempotencyStore()).Wrap(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
		}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/abc", nil)
		req.Header.Set(IdempotencyKeyHeader, "key-1")
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	if calls != 2 {
		t.Fatalf("expected reads never deduplicated, got %d", calls)
	}
}

func TestIdempotencyMiddleware_ErrorResponseNotCached(t *testing.T) {
	t.Parallel()

	store := newMemoryIdempotencyStore()
	calls := 0
	handler := NewIdempotencyMiddleware(store).Wrap(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusBadGateway)
		}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if string(store.entries["key-1"]) != "processing" {
		t.Fatalf("expected failed response not cached, got %q", store.entries["key-1"])
	}
}
