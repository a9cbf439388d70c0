package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryRate configures the per-box transport charge for a district. The
// console's delivery screens read these rows; rates are whole rupees.
type DeliveryRate struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	District      string    `gorm:"column:district;not null;index:ux_delivery_rates_location,unique"`
	State         string    `gorm:"column:state;not null;index:ux_delivery_rates_location,unique"`
	MinOrderValue int       `gorm:"column:min_order_value;not null;default:0"`
	RatePerBox    int       `gorm:"column:rate_per_box;not null"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
