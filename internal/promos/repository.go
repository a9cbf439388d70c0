package promos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
)

// Repository wires promo code persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a promo code by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PromoCode, error) {
	var promo models.PromoCode
	if err := r.db.WithContext(ctx).First(&promo, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &promo, nil
}

// FindByCode loads a promo by its code, case-insensitively.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := r.db.WithContext(ctx).
		First(&promo, "UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// Create inserts a new promo code.
func (r *Repository) Create(ctx context.Context, promo *models.PromoCode) (*models.PromoCode, error) {
	if err := r.db.WithContext(ctx).Create(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

// Save persists the full promo row.
func (r *Repository) Save(ctx context.Context, promo *models.PromoCode) (*models.PromoCode, error) {
	if err := r.db.WithContext(ctx).Save(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

// ListActive returns active promos in creation order.
func (r *Repository) ListActive(ctx context.Context) ([]models.PromoCode, error) {
	var promos []models.PromoCode
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&promos).Error
	return promos, err
}

// DeactivateExpired flips off promos whose validity window has passed and
// returns how many rows changed. Used by the cron sweep.
func (r *Repository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.PromoCode{}).
		Where("is_active = ? AND valid_till < ?", true, now).
		Updates(map[string]any{
			"is_active":      false,
			"deactivated_at": now,
		})
	return res.RowsAffected, res.Error
}
