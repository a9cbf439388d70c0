package reports

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
)

// Repository runs read-only aggregate queries over bookings and quotations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SalesByDay is one daily bucket of booking activity.
type SalesByDay struct {
	Day       time.Time `gorm:"column:day" json:"day"`
	Bookings  int64     `gorm:"column:bookings" json:"bookings"`
	NetRate   int64     `gorm:"column:net_rate" json:"net_rate"`
	YouSave   int64     `gorm:"column:you_save" json:"you_save"`
	Collected int64     `gorm:"column:collected" json:"collected"`
}

// SalesByStatus groups booking totals by fulfillment status.
type SalesByStatus struct {
	Status   enums.BookingStatus `gorm:"column:status" json:"status"`
	Bookings int64               `gorm:"column:bookings" json:"bookings"`
	Total    int64               `gorm:"column:total" json:"total"`
}

// QuotationFunnel counts quotations by lifecycle outcome in a window.
type QuotationFunnel struct {
	Status     enums.QuotationStatus `gorm:"column:status" json:"status"`
	Quotations int64                 `gorm:"column:quotations" json:"quotations"`
	Total      int64                 `gorm:"column:total" json:"total"`
}

func (r *Repository) SalesByDay(ctx context.Context, from, to time.Time) ([]SalesByDay, error) {
	var rows []SalesByDay
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("date_trunc('day', created_at) AS day, COUNT(*) AS bookings, COALESCE(SUM(net_rate), 0) AS net_rate, COALESCE(SUM(you_save), 0) AS you_save, COALESCE(SUM(total), 0) AS collected").
		Where("created_at >= ? AND created_at < ?", from, to).
		Where("status <> ?", enums.BookingStatusCancelled).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) SalesByStatus(ctx context.Context, from, to time.Time) ([]SalesByStatus, error) {
	var rows []SalesByStatus
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("status, COUNT(*) AS bookings, COALESCE(SUM(total), 0) AS total").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("status").
		Order("status ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) QuotationFunnel(ctx context.Context, from, to time.Time) ([]QuotationFunnel, error) {
	var rows []QuotationFunnel
	err := r.db.WithContext(ctx).
		Model(&models.Quotation{}).
		Select("status, COUNT(*) AS quotations, COALESCE(SUM(total), 0) AS total").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("status").
		Order("status ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TopProducts ranks booking line items by revenue inside a window.
type TopProduct struct {
	ProductID   string `gorm:"column:product_id" json:"product_id"`
	ProductName string `gorm:"column:product_name" json:"product_name"`
	Quantity    int64  `gorm:"column:quantity" json:"quantity"`
	Revenue     int64  `gorm:"column:revenue" json:"revenue"`
}

func (r *Repository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error) {
	var rows []TopProduct
	err := r.db.WithContext(ctx).
		Model(&models.BookingItem{}).
		Select("booking_items.product_id, booking_items.product_name, COALESCE(SUM(booking_items.quantity), 0) AS quantity, COALESCE(SUM(booking_items.price * booking_items.quantity), 0) AS revenue").
		Joins("JOIN bookings ON bookings.id = booking_items.booking_id").
		Where("bookings.created_at >= ? AND bookings.created_at < ?", from, to).
		Where("bookings.status <> ?", enums.BookingStatusCancelled).
		Group("booking_items.product_id, booking_items.product_name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
