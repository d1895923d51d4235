package booking

import "fmt"

// BookingError is a business-rule rejection. Handlers map these to clear 4xx
// responses, as opposed to store failures which surface as generic 500s.
type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrSlotUnavailable rejects a booking whose bucket has no unit left.
	ErrSlotUnavailable = &BookingError{Code: "slotUnavailable", Message: "no seating available for the requested party size and date"}
	// ErrNoAvailability rejects a reschedule/resize whose target slot is full.
	ErrNoAvailability = &BookingError{Code: "noAvailability", Message: "no availability for the updated reservation"}
	// ErrAlreadyReminded guards against duplicate reminder notifications.
	ErrAlreadyReminded = &BookingError{Code: "alreadyReminded", Message: "reminder already sent"}
	// ErrNotFound covers missing reservations, slots and customers.
	ErrNotFound = &BookingError{Code: "notFound", Message: "not found"}
)

// ValidationError rejects malformed input before any ledger is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}
