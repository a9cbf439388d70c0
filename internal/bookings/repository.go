package bookings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
	"github.com/vetricrackers/vetricrackers-backend/pkg/pagination"
)

// ListFilters describe booking list filtering.
type ListFilters struct {
	Status     *enums.BookingStatus
	CustomerID *uuid.UUID
	District   string
}

// Repository wires booking persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a booking with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// List returns a cursor page of bookings without items, newest first.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Booking, error) {
	q := r.db.WithContext(ctx).Model(&models.Booking{})

	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.CustomerID != nil {
		q = q.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.District != "" {
		q = q.Where("district = ?", filters.District)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var bookings []models.Booking
	err = q.Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&bookings).Error
	return bookings, err
}

// CreateTx inserts a booking and its items inside the caller's transaction.
func (r *Repository) CreateTx(tx *gorm.DB, booking *models.Booking) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(booking).Error
}

// UpdateStatusTx moves a booking between statuses with a from guard and
// applies any extra column updates (dispatch/delivery timestamps) atomically.
func (r *Repository) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to enums.BookingStatus, extra map[string]any) (int64, error) {
	if tx == nil {
		return 0, errors.New("transaction required")
	}
	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := tx.Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}
