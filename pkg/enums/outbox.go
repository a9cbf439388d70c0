package enums

// OutboxEventType names the domain events written through the outbox.
type OutboxEventType string

const (
	OutboxEventQuotationCreated     OutboxEventType = "quotation.created"
	OutboxEventQuotationEdited      OutboxEventType = "quotation.edited"
	OutboxEventQuotationCancelled   OutboxEventType = "quotation.cancelled"
	OutboxEventBookingCreated       OutboxEventType = "booking.created"
	OutboxEventBookingStatusChanged OutboxEventType = "booking.status_changed"
)

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	OutboxAggregateQuotation OutboxAggregateType = "quotation"
	OutboxAggregateBooking   OutboxAggregateType = "booking"
)
