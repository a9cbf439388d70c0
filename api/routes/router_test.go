package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vetricrackers/vetricrackers-backend/internal/quotations"
	"github.com/vetricrackers/vetricrackers-backend/pkg/config"
	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
	"github.com/vetricrackers/vetricrackers-backend/pkg/pagination"
)

func testDeps() Deps {
	return Deps{
		Config: &config.Config{
			App: config.AppConfig{Env: "test", Port: "8080"},
		},
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		DBPing: func(context.Context) error { return nil },
		RedisPing: func(context.Context) error {
			return nil
		},
	}
}

func TestRouterHealthLive(t *testing.T) {
	router := NewRouter(testDeps())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("X-Vetri-Env"); got != "test" {
		t.Fatalf("expected env header, got %q", got)
	}
}

func TestRouterHealthReady(t *testing.T) {
	router := NewRouter(testDeps())

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRouterNilServiceAnswersInternal(t *testing.T) {
	router := NewRouter(testDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unwired service, got %d", w.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router := NewRouter(testDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

type memIdemStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemIdemStore() *memIdemStore {
	return &memIdemStore{data: map[string]string{}}
}

func (m *memIdemStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memIdemStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value.(string)
	return true, nil
}

func (m *memIdemStore) IdempotencyKey(scope, id string) string {
	return "test:idempotency:" + scope + ":" + id
}

func (m *memIdemStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type countingQuoteService struct {
	creates int
}

func (s *countingQuoteService) Create(context.Context, quotations.CreateInput) (*models.Quotation, error) {
	s.creates++
	return &models.Quotation{QuotationNumber: "QUO-2025-00001"}, nil
}

func (s *countingQuoteService) Edit(context.Context, uuid.UUID, quotations.EditInput) (*models.Quotation, error) {
	return nil, nil
}

func (s *countingQuoteService) Cancel(context.Context, uuid.UUID) (*models.Quotation, error) {
	return nil, nil
}

func (s *countingQuoteService) ConvertToBooking(context.Context, uuid.UUID) (*models.Booking, error) {
	return nil, nil
}

func (s *countingQuoteService) Get(context.Context, uuid.UUID) (*models.Quotation, error) {
	return nil, nil
}

func (s *countingQuoteService) List(context.Context, quotations.ListFilters, pagination.Params) ([]models.Quotation, string, error) {
	return nil, "", nil
}

func quotationBody(discount int) string {
	return fmt.Sprintf(`{
		"customer_id": "7b0d9c3e-9c32-4f43-9a7d-0a6f2f0f5ab1",
		"items": [{"product_id": "3f0c2d1a-55aa-4f2b-8c3d-2f9e8d7c6b5a", "product_type": "products", "quantity": 2, "discount": %d}]
	}`, discount)
}

func TestRouterIdempotencyGuardsQuotationCreate(t *testing.T) {
	svc := &countingQuoteService{}
	deps := testDeps()
	deps.Quotes = svc
	deps.Idempotency = newMemIdemStore()
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", strings.NewReader(quotationBody(10)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key, got %d", w.Code)
	}
	if svc.creates != 0 {
		t.Fatalf("expected controller to be blocked, creates=%d", svc.creates)
	}
}

func TestRouterIdempotencyReplaysQuotationCreate(t *testing.T) {
	svc := &countingQuoteService{}
	deps := testDeps()
	deps.Quotes = svc
	deps.Idempotency = newMemIdemStore()
	router := NewRouter(deps)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", strings.NewReader(quotationBody(10)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "router-key-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := send()
	second := send()

	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("expected 201 on both attempts, got %d then %d", first.Code, second.Code)
	}
	if svc.creates != 1 {
		t.Fatalf("expected a single create, got %d", svc.creates)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replayed body mismatch: %q vs %q", first.Body.String(), second.Body.String())
	}
}

func TestRouterIdempotencyRejectsBodyMismatch(t *testing.T) {
	svc := &countingQuoteService{}
	deps := testDeps()
	deps.Quotes = svc
	deps.Idempotency = newMemIdemStore()
	router := NewRouter(deps)

	first := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", strings.NewReader(quotationBody(10)))
	first.Header.Set("Content-Type", "application/json")
	first.Header.Set("Idempotency-Key", "router-key-2")
	router.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", strings.NewReader(quotationBody(25)))
	second.Header.Set("Content-Type", "application/json")
	second.Header.Set("Idempotency-Key", "router-key-2")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, second)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for key reuse with new body, got %d", w.Code)
	}
	if svc.creates != 1 {
		t.Fatalf("expected a single create, got %d", svc.creates)
	}
}

func TestRouterWithoutRedisSkipsIdempotency(t *testing.T) {
	svc := &countingQuoteService{}
	deps := testDeps()
	deps.Quotes = svc
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", strings.NewReader(quotationBody(10)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected request to reach the controller, got %d", w.Code)
	}
	if svc.creates != 1 {
		t.Fatalf("expected one create, got %d", svc.creates)
	}
}
