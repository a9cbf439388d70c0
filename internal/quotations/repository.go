package quotations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
	"github.com/vetricrackers/vetricrackers-backend/pkg/pagination"
)

// ListFilters describe quotation list filtering.
type ListFilters struct {
	Status     *enums.QuotationStatus
	CustomerID *uuid.UUID
}

// Repository wires quotation persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a quotation with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	var quotation models.Quotation
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&quotation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

// FindByNumber loads a quotation by its human-readable number.
func (r *Repository) FindByNumber(ctx context.Context, number string) (*models.Quotation, error) {
	var quotation models.Quotation
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&quotation, "quotation_number = ?", number).Error
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

// List returns a cursor page of quotations without items, newest first.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Quotation, error) {
	q := r.db.WithContext(ctx).Model(&models.Quotation{})

	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.CustomerID != nil {
		q = q.Where("customer_id = ?", *filters.CustomerID)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var quotations []models.Quotation
	err = q.Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&quotations).Error
	return quotations, err
}

// CreateTx inserts a quotation and its items inside the caller's transaction.
func (r *Repository) CreateTx(tx *gorm.DB, quotation *models.Quotation) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(quotation).Error
}

// SaveTx persists header fields inside the caller's transaction.
func (r *Repository) SaveTx(tx *gorm.DB, quotation *models.Quotation) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Omit("Items").Save(quotation).Error
}

// ReplaceItemsTx deletes and re-inserts the quotation's items.
func (r *Repository) ReplaceItemsTx(tx *gorm.DB, quotationID uuid.UUID, items []models.QuotationItem) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	if err := tx.Where("quotation_id = ?", quotationID).Delete(&models.QuotationItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].QuotationID = quotationID
	}
	return tx.Create(&items).Error
}

// UpdateStatusTx moves a quotation from one status to another. The from guard
// makes concurrent transitions lose cleanly instead of double-applying.
func (r *Repository) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to enums.QuotationStatus) (int64, error) {
	if tx == nil {
		return 0, errors.New("transaction required")
	}
	res := tx.Model(&models.Quotation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}
