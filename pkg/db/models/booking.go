package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
)

// Booking is a confirmed, fulfillment-bound order. When converted from a
// quotation the source document id is kept for traceability.
type Booking struct {
	ID                        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber               string              `gorm:"column:order_number;not null;uniqueIndex"`
	QuotationID               *uuid.UUID          `gorm:"column:quotation_id;type:uuid;index"`
	CustomerID                uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	CustomerType              enums.CustomerType  `gorm:"column:customer_type;not null"`
	CustomerName              string              `gorm:"column:customer_name;not null"`
	Address                   string              `gorm:"column:address;not null"`
	MobileNumber              string              `gorm:"column:mobile_number;not null"`
	Email                     *string             `gorm:"column:email"`
	District                  string              `gorm:"column:district;not null"`
	State                     string              `gorm:"column:state;not null"`
	NetRate                   int                 `gorm:"column:net_rate;not null"`
	YouSave                   int                 `gorm:"column:you_save;not null"`
	Total                     int                 `gorm:"column:total;not null"`
	AdditionalDiscountPercent float64             `gorm:"column:additional_discount;type:numeric(5,2);not null;default:0"`
	Status                    enums.BookingStatus `gorm:"column:status;not null;default:'booked';index"`
	DispatchedAt              *time.Time          `gorm:"column:dispatched_at"`
	DeliveredAt               *time.Time          `gorm:"column:delivered_at"`
	Items                     []BookingItem       `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
	CreatedAt                 time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                 time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// BookingItem is one line of a booking, copied from the quotation at
// conversion time.
type BookingItem struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BookingID       uuid.UUID         `gorm:"column:booking_id;type:uuid;not null;index"`
	ProductID       uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	ProductType     enums.ProductType `gorm:"column:product_type;not null"`
	ProductName     string            `gorm:"column:product_name;not null"`
	Price           int               `gorm:"column:price;not null"`
	DiscountPercent float64           `gorm:"column:discount;type:numeric(5,2);not null;default:0"`
	Quantity        int               `gorm:"column:quantity;not null"`
	Unit            string            `gorm:"column:per;not null;default:'Box'"`
}
