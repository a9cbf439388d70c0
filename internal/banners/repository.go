package banners

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
)

// Repository wires banner persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a banner by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	var banner models.Banner
	if err := r.db.WithContext(ctx).First(&banner, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &banner, nil
}

// Create inserts a new banner.
func (r *Repository) Create(ctx context.Context, banner *models.Banner) (*models.Banner, error) {
	if err := r.db.WithContext(ctx).Create(banner).Error; err != nil {
		return nil, err
	}
	return banner, nil
}

// Save persists the full banner row.
func (r *Repository) Save(ctx context.Context, banner *models.Banner) (*models.Banner, error) {
	if err := r.db.WithContext(ctx).Save(banner).Error; err != nil {
		return nil, err
	}
	return banner, nil
}

// Delete removes a banner by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Banner{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByPosition returns banners ordered for display.
func (r *Repository) ListByPosition(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	q := r.db.WithContext(ctx).Model(&models.Banner{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var banners []models.Banner
	err := q.Order("position ASC").
		Order("created_at DESC").
		Find(&banners).Error
	return banners, err
}
