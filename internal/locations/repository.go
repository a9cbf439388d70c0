package locations

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
)

// Repository wires delivery rate persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a delivery rate by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DeliveryRate, error) {
	var rate models.DeliveryRate
	if err := r.db.WithContext(ctx).First(&rate, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

// FindByLocation loads the rate configured for a district/state pair.
func (r *Repository) FindByLocation(ctx context.Context, district, state string) (*models.DeliveryRate, error) {
	var rate models.DeliveryRate
	err := r.db.WithContext(ctx).
		First(&rate, "LOWER(district) = ? AND LOWER(state) = ?",
			strings.ToLower(strings.TrimSpace(district)),
			strings.ToLower(strings.TrimSpace(state))).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// Create inserts a new delivery rate row.
func (r *Repository) Create(ctx context.Context, rate *models.DeliveryRate) (*models.DeliveryRate, error) {
	if err := r.db.WithContext(ctx).Create(rate).Error; err != nil {
		return nil, err
	}
	return rate, nil
}

// Save persists the full delivery rate row.
func (r *Repository) Save(ctx context.Context, rate *models.DeliveryRate) (*models.DeliveryRate, error) {
	if err := r.db.WithContext(ctx).Save(rate).Error; err != nil {
		return nil, err
	}
	return rate, nil
}

// Delete removes a delivery rate by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.DeliveryRate{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns all delivery rates grouped by state then district.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]models.DeliveryRate, error) {
	q := r.db.WithContext(ctx).Model(&models.DeliveryRate{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var rates []models.DeliveryRate
	err := q.Order("state ASC").
		Order("district ASC").
		Find(&rates).Error
	return rates, err
}
