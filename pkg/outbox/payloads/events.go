package payloads

import (
	"time"

	"github.com/google/uuid"
)

// QuotationEvent is emitted for quotation.created, quotation.edited and
// quotation.cancelled.
type QuotationEvent struct {
	QuotationID     uuid.UUID `json:"quotationId"`
	QuotationNumber string    `json:"quotationNumber"`
	CustomerID      uuid.UUID `json:"customerId"`
	CustomerType    string    `json:"customerType"`
	Status          string    `json:"status"`
	NetRate         int       `json:"netRate"`
	YouSave         int       `json:"youSave"`
	Total           int       `json:"total"`
	ItemCount       int       `json:"itemCount"`
}

// BookingCreatedEvent is emitted when a quotation is converted to a booking.
type BookingCreatedEvent struct {
	BookingID   uuid.UUID  `json:"bookingId"`
	OrderNumber string     `json:"orderNumber"`
	QuotationID *uuid.UUID `json:"quotationId,omitempty"`
	CustomerID  uuid.UUID  `json:"customerId"`
	Total       int        `json:"total"`
	District    string     `json:"district"`
	State       string     `json:"state"`
}

// BookingStatusChangedEvent is emitted on every booking status transition.
type BookingStatusChangedEvent struct {
	BookingID   uuid.UUID  `json:"bookingId"`
	OrderNumber string     `json:"orderNumber"`
	FromStatus  string     `json:"fromStatus"`
	ToStatus    string     `json:"toStatus"`
	ChangedAt   *time.Time `json:"changedAt,omitempty"`
}
