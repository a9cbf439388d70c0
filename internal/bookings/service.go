package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
	"github.com/vetricrackers/vetricrackers-backend/pkg/outbox"
	"github.com/vetricrackers/vetricrackers-backend/pkg/outbox/payloads"
	"github.com/vetricrackers/vetricrackers-backend/pkg/pagination"
)

// allowedTransitions is the dispatch pipeline. Cancellation is possible until
// the consignment leaves the godown.
var allowedTransitions = map[enums.BookingStatus][]enums.BookingStatus{
	enums.BookingStatusBooked:     {enums.BookingStatusPacked, enums.BookingStatusCancelled},
	enums.BookingStatusPacked:     {enums.BookingStatusDispatched, enums.BookingStatusCancelled},
	enums.BookingStatusDispatched: {enums.BookingStatusDelivered},
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// BookingRepository defines the persistence surface the service needs.
type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Booking, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to enums.BookingStatus, extra map[string]any) (int64, error)
}

// Service exposes booking tracking and dispatch operations.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Booking, string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to enums.BookingStatus) (*models.Booking, error)
}

type service struct {
	repo   BookingRepository
	tx     txRunner
	events eventEmitter
	logg   *logger.Logger
	now    func() time.Time
}

// NewService builds a booking service.
func NewService(repo BookingRepository, tx txRunner, events eventEmitter, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("booking repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, events: events, logg: logg, now: time.Now}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id is required")
	}
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	return booking, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Booking, string, error) {
	rows, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, to enums.BookingStatus) (*models.Booking, error) {
	if !to.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid booking status")
	}

	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := booking.Status
	if !transitionAllowed(from, to) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("booking cannot move from %s to %s", from, to))
	}

	extra := map[string]any{}
	changedAt := s.now()
	switch to {
	case enums.BookingStatusDispatched:
		extra["dispatched_at"] = changedAt
		booking.DispatchedAt = &changedAt
	case enums.BookingStatusDelivered:
		extra["delivered_at"] = changedAt
		booking.DeliveredAt = &changedAt
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		moved, err := s.repo.UpdateStatusTx(tx, booking.ID, from, to, extra)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking status")
		}
		if moved == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "booking status changed concurrently")
		}
		booking.Status = to
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventBookingStatusChanged,
			AggregateType: enums.OutboxAggregateBooking,
			AggregateID:   booking.ID,
			Version:       1,
			Data: payloads.BookingStatusChangedEvent{
				BookingID:   booking.ID,
				OrderNumber: booking.OrderNumber,
				FromStatus:  string(from),
				ToStatus:    string(to),
				ChangedAt:   &changedAt,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"order_number": booking.OrderNumber,
		"from_status":  from,
		"to_status":    to,
	}
	s.logg.Info(s.logg.WithFields(ctx, fields), "booking status updated")
	return booking, nil
}

func transitionAllowed(from, to enums.BookingStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
