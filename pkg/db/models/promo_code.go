package models

import (
	"time"

	"github.com/google/uuid"
)

// PromoCode is an order-level discount code with a validity window and a
// minimum order value in whole rupees.
type PromoCode struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code            string     `gorm:"column:code;not null;uniqueIndex"`
	DiscountPercent float64    `gorm:"column:discount_percent;type:numeric(5,2);not null"`
	MinOrderValue   int        `gorm:"column:min_order_value;not null;default:0"`
	ValidFrom       time.Time  `gorm:"column:valid_from;not null"`
	ValidTill       time.Time  `gorm:"column:valid_till;not null"`
	IsActive        bool       `gorm:"column:is_active;not null;default:true"`
	DeactivatedAt   *time.Time `gorm:"column:deactivated_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
