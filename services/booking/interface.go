package booking

import (
	"context"

	"go.uber.org/zap"

	bookingRepo "linque/database/repository/booking"
	reservationRepo "linque/database/repository/reservation"
	slotRepo "linque/database/repository/slot"
	userRepo "linque/database/repository/user"
	"linque/models"
	"linque/services/notification"
)

// BookingService composes the bucketing function, slot ledger and reservation
// ledger into the booking, update, cancel and reminder workflows. The same
// service serves customer self-service bookings and vendor-entered walk-ins.
type BookingService interface {
	// Book creates a self-service reservation for an authenticated customer.
	Book(ctx context.Context, customer *models.User, in models.BookReservationInput) (*models.Reservation, error)
	// CreateWalkIn creates a vendor-entered reservation, lazily provisioning
	// the target bucket when needed.
	CreateWalkIn(ctx context.Context, vendorID string, in models.WalkInInput) (*models.Reservation, error)
	// Update applies field edits, swapping the attributed slot when the
	// edited date or party size lands in a different bucket.
	Update(ctx context.Context, id string, upd models.ReservationUpdate) (*models.Reservation, error)
	// Cancel marks the reservation cancelled, returning its slot unit
	// exactly once. Safe to call repeatedly.
	Cancel(ctx context.Context, id string) (*models.Reservation, error)
	// Delete removes the reservation, returning its slot unit exactly once.
	Delete(ctx context.Context, id string) error
	// SendReminder notifies the customer once; repeats fail with
	// ErrAlreadyReminded.
	SendReminder(ctx context.Context, id string) error
	// Availability reports available units per bucket for a date.
	Availability(ctx context.Context, restaurantID, date string) ([]models.BucketAvailability, error)
	// AdjustCapacity applies signed per-bucket corrections, clamped at zero,
	// and returns the refreshed summary.
	AdjustCapacity(ctx context.Context, restaurantID, date string, adjustments []models.BucketAdjustment) ([]models.BucketAvailability, error)
	// ResetCapacity restores every bucket of the date to default capacity.
	ResetCapacity(ctx context.Context, restaurantID, date string) error
}

// ReminderScheduler enqueues a future reminder for a reservation. Enqueue
// failures must not fail the booking.
type ReminderScheduler interface {
	ScheduleReminder(res *models.Reservation) error
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	SlotRepo        slotRepo.SlotRepository
	ReservationRepo reservationRepo.ReservationRepository
	Ledger          bookingRepo.BookingRepository
	Users           userRepo.UserRepository
	NotificationSvc notification.NotificationService
	Reminders       ReminderScheduler // optional
	AvailCache      AvailabilityCache // optional
	Logger          *zap.Logger
}
