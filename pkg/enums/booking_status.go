package enums

import "fmt"

// BookingStatus tracks a confirmed order from booking to delivery.
type BookingStatus string

const (
	BookingStatusBooked     BookingStatus = "booked"
	BookingStatusPacked     BookingStatus = "packed"
	BookingStatusDispatched BookingStatus = "dispatched"
	BookingStatusDelivered  BookingStatus = "delivered"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

var validBookingStatuses = []BookingStatus{
	BookingStatusBooked,
	BookingStatusPacked,
	BookingStatusDispatched,
	BookingStatusDelivered,
	BookingStatusCancelled,
}

// String implements fmt.Stringer.
func (b BookingStatus) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BookingStatus.
func (b BookingStatus) IsValid() bool {
	for _, candidate := range validBookingStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (b BookingStatus) IsTerminal() bool {
	return b == BookingStatusDelivered || b == BookingStatusCancelled
}

// ParseBookingStatus converts raw input into a BookingStatus.
func ParseBookingStatus(value string) (BookingStatus, error) {
	for _, candidate := range validBookingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid booking status %q", value)
}
