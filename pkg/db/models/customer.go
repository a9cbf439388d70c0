package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
)

// Customer is a buyer record. Only CustomerType feeds pricing; the contact and
// address fields are carried into quotation and booking payloads.
type Customer struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string             `gorm:"column:name;not null"`
	CustomerType enums.CustomerType `gorm:"column:customer_type;not null;default:'Customer'"`
	MobileNumber string             `gorm:"column:mobile_number;not null"`
	Email        *string            `gorm:"column:email"`
	Address      string             `gorm:"column:address"`
	District     string             `gorm:"column:district"`
	State        string             `gorm:"column:state"`
	Pincode      *string            `gorm:"column:pincode"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
