package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vetricrackers/vetricrackers-backend/pkg/config"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
)

type fakeLimiter struct {
	counts map[string]int64
	err    error
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func okHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*calls++
		w.WriteHeader(http.StatusOK)
	})
}

func TestWriteRateLimitBlocksOverLimit(t *testing.T) {
	cfg := config.RateLimitConfig{WriteLimit: 2, WriteWindow: time.Minute}
	logg := logger.New(logger.Options{ServiceName: "test"})
	calls := 0
	handler := WriteRateLimit(cfg, &fakeLimiter{}, logg)(okHandler(&calls))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d should pass, got %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if calls != 2 {
		t.Fatalf("expected 2 handled requests, got %d", calls)
	}
}

func TestWriteRateLimitIgnoresReads(t *testing.T) {
	cfg := config.RateLimitConfig{WriteLimit: 1, WriteWindow: time.Minute}
	logg := logger.New(logger.Options{ServiceName: "test"})
	calls := 0
	handler := WriteRateLimit(cfg, &fakeLimiter{}, logg)(okHandler(&calls))

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/quotations", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("read %d should pass, got %d", i+1, w.Code)
		}
	}
	if calls != 5 {
		t.Fatalf("expected 5 handled reads, got %d", calls)
	}
}

func TestWriteRateLimitFailsOpen(t *testing.T) {
	cfg := config.RateLimitConfig{WriteLimit: 1, WriteWindow: time.Minute}
	logg := logger.New(logger.Options{ServiceName: "test"})
	calls := 0
	handler := WriteRateLimit(cfg, &fakeLimiter{err: errors.New("redis down")}, logg)(okHandler(&calls))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected pass-through on store error, got %d", w.Code)
	}
	if calls != 1 {
		t.Fatalf("expected handler to run, ran %d", calls)
	}
}

func TestWriteRateLimitSeparatesClients(t *testing.T) {
	cfg := config.RateLimitConfig{WriteLimit: 1, WriteWindow: time.Minute}
	logg := logger.New(logger.Options{ServiceName: "test"})
	calls := 0
	handler := WriteRateLimit(cfg, &fakeLimiter{}, logg)(okHandler(&calls))

	for _, addr := range []string{"10.0.0.1:5000", "10.0.0.2:5000"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", nil)
		req.RemoteAddr = addr
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("first write from %s should pass, got %d", addr, w.Code)
		}
	}
}
