package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
)

type fakeIdemStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeIdemStore() *fakeIdemStore {
	return &fakeIdemStore{data: map[string]string{}}
}

func (f *fakeIdemStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[key], nil
}

func (f *fakeIdemStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = value.(string)
	return true, nil
}

func (f *fakeIdemStore) IdempotencyKey(scope, id string) string {
	return "test:idempotency:" + scope + ":" + id
}

func (f *fakeIdemStore) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func idemHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"quotation_number":"QUO-1"}}`))
	})
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeIdemStore()
	logg := logger.New(logger.Options{ServiceName: "test"})
	calls := 0
	handler := Idempotency(store, logg)(idemHandler(&calls))

	body := `{"customer_id":"abc"}`
	first := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", strings.NewReader(body))
	first.Header.Set("Idempotency-Key", "key-1")
	w1 := httptest.NewRecorder()
	handler.ServeHTTP(w1, first)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", strings.NewReader(body))
	second.Header.Set("Idempotency-Key", "key-1")
	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, second)

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d", calls)
	}
	if w2.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201, got %d", w2.Code)
	}
	if w1.Body.String() != w2.Body.String() {
		t.Fatalf("replayed body mismatch: %q vs %q", w1.Body.String(), w2.Body.String())
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := newFakeIdemStore()
	logg := logger.New(logger.Options{ServiceName: "test"})
	calls := 0
	handler := Idempotency(store, logg)(idemHandler(&calls))

	first := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", strings.NewReader(`{"a":1}`))
	first.Header.Set("Idempotency-Key", "key-1")
	handler.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", strings.NewReader(`{"a":2}`))
	second.Header.Set("Idempotency-Key", "key-1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, second)

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d", calls)
	}
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for mismatched reuse, got %d", w.Code)
	}
}

func TestIdempotencyRequiresHeaderOnProtectedRoutes(t *testing.T) {
	store := newFakeIdemStore()
	logg := logger.New(logger.Options{ServiceName: "test"})
	calls := 0
	handler := Idempotency(store, logg)(idemHandler(&calls))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if calls != 0 {
		t.Fatalf("expected handler to be skipped, ran %d", calls)
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing key, got %d", w.Code)
	}
}

func TestIdempotencyIgnoresUnprotectedRoutes(t *testing.T) {
	store := newFakeIdemStore()
	logg := logger.New(logger.Options{ServiceName: "test"})
	calls := 0
	handler := Idempotency(store, logg)(idemHandler(&calls))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotations", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if calls != 1 {
		t.Fatalf("expected handler to run, ran %d", calls)
	}
	if w.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d", w.Code)
	}
}

func TestIdempotencySkipsStorageOnServerError(t *testing.T) {
	store := newFakeIdemStore()
	logg := logger.New(logger.Options{ServiceName: "test"})
	calls := 0
	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	})
	handler := Idempotency(store, logg)(failing)

	body := `{"customer_id":"abc"}`
	first := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", strings.NewReader(body))
	first.Header.Set("Idempotency-Key", "key-1")
	handler.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", strings.NewReader(body))
	second.Header.Set("Idempotency-Key", "key-1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, second)

	if calls != 2 {
		t.Fatalf("expected retry to reach the handler, ran %d", calls)
	}
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected live 503 on retry, got %d", w.Code)
	}
	if len(store.data) != 0 {
		t.Fatalf("expected no record stored for server error, found %d", len(store.data))
	}
}

func TestIdempotencyMatchesPathWithTrailingSlash(t *testing.T) {
	store := newFakeIdemStore()
	logg := logger.New(logger.Options{ServiceName: "test"})
	calls := 0
	handler := Idempotency(store, logg)(idemHandler(&calls))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations/", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if calls != 0 {
		t.Fatalf("expected handler to be skipped, ran %d", calls)
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing key, got %d", w.Code)
	}
}
