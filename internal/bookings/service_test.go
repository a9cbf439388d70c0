package bookings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
	"github.com/vetricrackers/vetricrackers-backend/pkg/outbox"
	"github.com/vetricrackers/vetricrackers-backend/pkg/pagination"
)

type stubBookingRepo struct {
	bookings map[uuid.UUID]*models.Booking
	moved    int64
	lastTo   enums.BookingStatus
	extra    map[string]any
	err      error
}

func (s *stubBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	b, ok := s.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *stubBookingRepo) List(_ context.Context, _ ListFilters, _ pagination.Params) ([]models.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Booking
	for _, b := range s.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (s *stubBookingRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, _, to enums.BookingStatus, extra map[string]any) (int64, error) {
	s.lastTo = to
	s.extra = extra
	if s.moved == 0 {
		return 0, nil
	}
	if b, ok := s.bookings[id]; ok {
		b.Status = to
	}
	return s.moved, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubEmitter struct {
	events []outbox.DomainEvent
}

func (s *stubEmitter) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newTestService(t *testing.T, repo *stubBookingRepo, emitter *stubEmitter) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, emitter, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func seedBooking(repo *stubBookingRepo, status enums.BookingStatus) *models.Booking {
	b := &models.Booking{
		ID:          uuid.New(),
		OrderNumber: "ORD-1712000000000",
		CustomerID:  uuid.New(),
		Status:      status,
	}
	if repo.bookings == nil {
		repo.bookings = map[uuid.UUID]*models.Booking{}
	}
	repo.bookings[b.ID] = b
	return b
}

func TestUpdateStatusHappyPath(t *testing.T) {
	repo := &stubBookingRepo{moved: 1}
	emitter := &stubEmitter{}
	svc := newTestService(t, repo, emitter)
	b := seedBooking(repo, enums.BookingStatusBooked)

	updated, err := svc.UpdateStatus(context.Background(), b.ID, enums.BookingStatusPacked)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != enums.BookingStatusPacked {
		t.Errorf("status = %s, want packed", updated.Status)
	}
	if len(emitter.events) != 1 || emitter.events[0].EventType != enums.OutboxEventBookingStatusChanged {
		t.Errorf("expected booking.status_changed event, got %v", emitter.events)
	}
}

func TestUpdateStatusSetsDispatchTimestamp(t *testing.T) {
	repo := &stubBookingRepo{moved: 1}
	svc := newTestService(t, repo, &stubEmitter{})
	b := seedBooking(repo, enums.BookingStatusPacked)

	updated, err := svc.UpdateStatus(context.Background(), b.ID, enums.BookingStatusDispatched)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.DispatchedAt == nil {
		t.Error("dispatched_at not set")
	}
	if _, ok := repo.extra["dispatched_at"]; !ok {
		t.Error("dispatched_at not persisted")
	}
}

func TestUpdateStatusInvalidTransitions(t *testing.T) {
	cases := []struct {
		name string
		from enums.BookingStatus
		to   enums.BookingStatus
	}{
		{"skip packed", enums.BookingStatusBooked, enums.BookingStatusDispatched},
		{"cancel after dispatch", enums.BookingStatusDispatched, enums.BookingStatusCancelled},
		{"leave delivered", enums.BookingStatusDelivered, enums.BookingStatusPacked},
		{"leave cancelled", enums.BookingStatusCancelled, enums.BookingStatusBooked},
		{"backwards", enums.BookingStatusPacked, enums.BookingStatusBooked},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubBookingRepo{moved: 1}
			svc := newTestService(t, repo, &stubEmitter{})
			b := seedBooking(repo, tc.from)

			_, err := svc.UpdateStatus(context.Background(), b.ID, tc.to)
			coded := pkgerrors.As(err)
			if coded == nil || coded.Code() != pkgerrors.CodeStateConflict {
				t.Fatalf("expected state conflict for %s -> %s, got %v", tc.from, tc.to, err)
			}
		})
	}
}

func TestUpdateStatusCancellableUntilDispatch(t *testing.T) {
	for _, from := range []enums.BookingStatus{enums.BookingStatusBooked, enums.BookingStatusPacked} {
		repo := &stubBookingRepo{moved: 1}
		svc := newTestService(t, repo, &stubEmitter{})
		b := seedBooking(repo, from)

		if _, err := svc.UpdateStatus(context.Background(), b.ID, enums.BookingStatusCancelled); err != nil {
			t.Errorf("cancel from %s: %v", from, err)
		}
	}
}

func TestUpdateStatusConcurrentLoss(t *testing.T) {
	repo := &stubBookingRepo{moved: 0}
	svc := newTestService(t, repo, &stubEmitter{})
	b := seedBooking(repo, enums.BookingStatusBooked)

	_, err := svc.UpdateStatus(context.Background(), b.ID, enums.BookingStatusPacked)
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	svc := newTestService(t, &stubBookingRepo{bookings: map[uuid.UUID]*models.Booking{}}, &stubEmitter{})

	_, err := svc.Get(context.Background(), uuid.New())
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
