package bookingRepo

import (
	"context"

	"linque/models"
)

// BookingRepository runs the multi-document steps of the booking workflows as
// single transactions, so a crash mid-way can never double-count or lose
// capacity. The conditional slot decrement stays the guarded step inside the
// transaction; an unmatched decrement surfaces slotRepo.ErrUnavailable.
type BookingRepository interface {
	// CreateWithSlot reserves one unit of the (restaurant, date, bucket) slot
	// and inserts the reservation attributed to it, atomically. On
	// ErrUnavailable nothing is written.
	CreateWithSlot(ctx context.Context, res *models.Reservation, bucket int) (*models.Slot, error)
	// SwapSlot reserves a unit of the target bucket, returns the unit held by
	// oldSlotID, and repoints the reservation's attribution while persisting
	// the field edits, all-or-nothing.
	SwapSlot(ctx context.Context, reservationID, oldSlotID, restaurantID, date string, bucket int, set map[string]interface{}) (*models.Reservation, error)
	// ReleaseAndClear detaches the reservation's slot attribution and
	// returns the unit to the slot in one transaction. It reports whether a
	// unit was actually released; a reservation without an attribution
	// no-ops, which is what makes repeated cancels safe.
	ReleaseAndClear(ctx context.Context, reservationID string) (bool, error)
}
