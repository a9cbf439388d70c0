package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
)

// Product represents a sellable catalog item. Prices are whole rupees; the
// catalog discount percent is the default per-line discount the console seeds
// new cart lines with. A catalog discount of exactly 0 marks the row as
// discount-locked for bulk discount changes.
type Product struct {
	ID                  uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductType         enums.ProductType `gorm:"column:product_type;not null;index:ux_products_serial_type,unique"`
	Name                string            `gorm:"column:name;not null"`
	SerialNumber        string            `gorm:"column:serial_number;not null;index:ux_products_serial_type,unique"`
	BasePrice           int               `gorm:"column:base_price;not null"`
	DirectCustomerPrice int               `gorm:"column:direct_customer_price;not null"`
	DiscountPercent     float64           `gorm:"column:discount_percent;type:numeric(5,2);not null;default:0"`
	Unit                string            `gorm:"column:unit;not null;default:'Box'"`
	Tags                pq.StringArray    `gorm:"column:tags;type:text[]"`
	ImageURL            *string           `gorm:"column:image_url"`
	IsActive            bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt           time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
