package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeIdempotencyStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{data: map[string]string{}}
}

func (f *fakeIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeIdempotencyStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value.(string)
	return nil
}

func (f *fakeIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.data[key]; exists {
		return false, nil
	}
	f.data[key] = value.(string)
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "manime:idempotency:" + scope + ":" + id
}

func (f *fakeIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func bookingRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shipments", strings.NewReader(body))
	req.Header.Set("Idempotency-Key", "book-123")
	return req
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"tracking_number":"MM-ABC1234567"}}`))
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, bookingRequest(`{"parcel_type":"drum"}`))
	if first.Code != http.StatusCreated {
		t.Fatalf("first call status %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, bookingRequest(`{"parcel_type":"drum"}`))
	if second.Code != http.StatusCreated {
		t.Fatalf("replay status %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", second.Body.String(), first.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler must run once, ran %d times", calls)
	}
}

func TestIdempotency_RejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := newFakeIdempotencyStore()
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), bookingRequest(`{"parcel_type":"drum"}`))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, bookingRequest(`{"parcel_type":"tv"}`))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for reused key with new body, got %d", rec.Code)
	}
}

func TestIdempotency_RequiresHeaderOnCoveredRoutes(t *testing.T) {
	store := newFakeIdempotencyStore()
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without Idempotency-Key")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/shipments", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestIdempotency_SkipsUncoveredRoutes(t *testing.T) {
	store := newFakeIdempotencyStore()
	ran := false
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shipments/track/MM-ABC1234567", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !ran {
		t.Fatal("tracking lookups are reads and must bypass idempotency")
	}
}
