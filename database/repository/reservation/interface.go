package reservationRepo

import (
	"context"
	"errors"

	"linque/models"
)

// ErrAlreadyReminded signals that the reminder flag was already set when a
// guarded MarkReminderSent ran. Expected outcome, not a fault.
var ErrAlreadyReminded = errors.New("reminder already sent")

// ErrNotFound signals that the reservation does not exist, e.g. it was
// deleted between the caller's lookup and the guarded update.
var ErrNotFound = errors.New("reservation not found")

// ReservationRepository owns reservation records and the two atomic guards
// the booking workflows rely on: exactly-once slot release and exactly-once
// reminders.
type ReservationRepository interface {
	Create(ctx context.Context, res *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error)
	// Ticker returns the latest reservations for a restaurant, optionally
	// narrowed to a date and time, newest first.
	Ticker(ctx context.Context, restaurantID, date, timeOfDay string, limit int64) ([]models.Reservation, error)
	// UpdateFields persists field edits, returning the updated document.
	UpdateFields(ctx context.Context, id string, set map[string]interface{}) (*models.Reservation, error)
	Delete(ctx context.Context, id string) error
	// ClearSlotAttribution atomically detaches the reservation from its
	// consumed slot and returns the detached slot ID. When the reservation
	// no longer holds an attribution it returns "", signalling the release
	// already happened.
	ClearSlotAttribution(ctx context.Context, id string) (string, error)
	// MarkReminderSent flips the reminder flag, failing with
	// ErrAlreadyReminded when a concurrent or earlier call won.
	MarkReminderSent(ctx context.Context, id string) (*models.Reservation, error)
	EnsureIndexes() error
}
