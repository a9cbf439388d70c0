package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
)

// Quotation is a pending, editable price quote. Customer contact fields are
// snapshotted so the document survives later customer edits. Monetary totals
// are whole rupees.
type Quotation struct {
	ID                        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuotationNumber           string                `gorm:"column:quotation_number;not null;uniqueIndex"`
	CustomerID                uuid.UUID             `gorm:"column:customer_id;type:uuid;not null;index"`
	CustomerType              enums.CustomerType    `gorm:"column:customer_type;not null"`
	CustomerName              string                `gorm:"column:customer_name;not null"`
	Address                   string                `gorm:"column:address"`
	MobileNumber              string                `gorm:"column:mobile_number"`
	Email                     *string               `gorm:"column:email"`
	District                  string                `gorm:"column:district"`
	State                     string                `gorm:"column:state"`
	NetRate                   int                   `gorm:"column:net_rate;not null"`
	YouSave                   int                   `gorm:"column:you_save;not null"`
	Total                     int                   `gorm:"column:total;not null"`
	AdditionalDiscountPercent float64               `gorm:"column:additional_discount;type:numeric(5,2);not null;default:0"`
	Status                    enums.QuotationStatus `gorm:"column:status;not null;default:'pending';index"`
	Items                     []QuotationItem       `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE"`
	CreatedAt                 time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                 time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// QuotationItem is one priced cart line frozen into a quotation document.
type QuotationItem struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuotationID     uuid.UUID         `gorm:"column:quotation_id;type:uuid;not null;index"`
	ProductID       uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	ProductType     enums.ProductType `gorm:"column:product_type;not null"`
	ProductName     string            `gorm:"column:product_name;not null"`
	Price           int               `gorm:"column:price;not null"`
	DiscountPercent float64           `gorm:"column:discount;type:numeric(5,2);not null;default:0"`
	Quantity        int               `gorm:"column:quantity;not null"`
	Unit            string            `gorm:"column:per;not null;default:'Box'"`
}
