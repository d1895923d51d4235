package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	reservationRepo "linque/database/repository/reservation"
	slotRepo "linque/database/repository/slot"
	"linque/models"
)

func validateStay(date, timeOfDay string, partySize int) error {
	if partySize < 1 {
		return &ValidationError{Field: "partySize", Reason: "must be at least 1"}
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	if _, err := time.Parse("15:04", timeOfDay); err != nil {
		return &ValidationError{Field: "time", Reason: "must be HH:MM"}
	}
	return nil
}

func (s *DefaultBookingService) Book(ctx context.Context, customer *models.User, in models.BookReservationInput) (*models.Reservation, error) {
	if customer == nil || customer.ID == "" {
		return nil, &ValidationError{Field: "customer", Reason: "authenticated customer required"}
	}
	if in.RestaurantID == "" {
		return nil, &ValidationError{Field: "restaurantId", Reason: "required"}
	}
	if err := validateStay(in.Date, in.Time, in.PartySize); err != nil {
		return nil, err
	}

	bucket := BucketFor(in.PartySize)
	if err := s.SlotRepo.EnsureForDate(ctx, in.RestaurantID, in.Date); err != nil {
		return nil, fmt.Errorf("provisioning slots for %s: %w", in.Date, err)
	}

	now := time.Now()
	res := &models.Reservation{
		ID:           uuid.New().String(),
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		RestaurantID: in.RestaurantID,
		Date:         in.Date,
		Time:         in.Time,
		PartySize:    in.PartySize,
		Notes:        in.Notes,
		PromoCode:    in.PromoCode,
		Status:       models.ReservationStatusBooked,
		Origin:       models.ReservationOriginLinque,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Reserve-then-create runs as one transaction: if no unit remains the
	// whole booking is rejected and nothing is written or notified.
	if _, err := s.Ledger.CreateWithSlot(ctx, res, bucket); err != nil {
		if errors.Is(err, slotRepo.ErrUnavailable) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("booking reservation: %w", err)
	}
	s.invalidateAvailability(ctx, in.RestaurantID, in.Date)

	s.NotificationSvc.NotifyCustomer(ctx, customer.ID,
		fmt.Sprintf("Your reservation at %s on %s is confirmed.", in.Time, in.Date))
	s.NotificationSvc.NotifyVendor(ctx, in.RestaurantID,
		fmt.Sprintf("%s booked %d seat(s) on %s at %s.", customer.Name, in.PartySize, in.Date, in.Time))
	s.scheduleReminder(res)

	return res, nil
}

func (s *DefaultBookingService) CreateWalkIn(ctx context.Context, vendorID string, in models.WalkInInput) (*models.Reservation, error) {
	if vendorID == "" {
		return nil, &ValidationError{Field: "vendor", Reason: "authenticated vendor required"}
	}
	if err := validateStay(in.Date, in.Time, in.PartySize); err != nil {
		return nil, err
	}

	customerName := in.CustomerName
	if in.CustomerID != "" {
		customer, err := s.Users.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, ErrNotFound
		}
		if customerName == "" {
			customerName = customer.Name
		}
	}
	if customerName == "" {
		customerName = "Walk-in guest"
	}

	// A walk-in may target a bucket never provisioned for the date; seed just
	// that bucket rather than the whole ladder.
	bucket := BucketFor(in.PartySize)
	if err := s.SlotRepo.EnsureBucket(ctx, vendorID, in.Date, bucket); err != nil {
		return nil, fmt.Errorf("provisioning walk-in slot: %w", err)
	}

	now := time.Now()
	res := &models.Reservation{
		ID:           uuid.New().String(),
		CustomerID:   in.CustomerID,
		CustomerName: customerName,
		RestaurantID: vendorID,
		Date:         in.Date,
		Time:         in.Time,
		PartySize:    in.PartySize,
		Notes:        in.Notes,
		Status:       models.ReservationStatusBooked,
		Origin:       models.ReservationOriginWalkIn,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.Ledger.CreateWithSlot(ctx, res, bucket); err != nil {
		if errors.Is(err, slotRepo.ErrUnavailable) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("booking walk-in: %w", err)
	}
	s.invalidateAvailability(ctx, vendorID, in.Date)

	s.NotificationSvc.NotifyVendor(ctx, vendorID, "New reservation created")
	if in.CustomerID != "" {
		s.NotificationSvc.NotifyCustomer(ctx, in.CustomerID,
			fmt.Sprintf("Your reservation at %s on %s is confirmed.", in.Time, in.Date))
	}
	s.scheduleReminder(res)

	return res, nil
}

func (s *DefaultBookingService) Update(ctx context.Context, id string, upd models.ReservationUpdate) (*models.Reservation, error) {
	current, err := s.ReservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := map[string]interface{}{}
	if upd.CustomerName != nil {
		set["customerName"] = *upd.CustomerName
	}
	if upd.Notes != nil {
		set["notes"] = *upd.Notes
	}
	if upd.PromoCode != nil {
		set["promoCode"] = *upd.PromoCode
	}
	if upd.Status != nil {
		switch *upd.Status {
		case models.ReservationStatusBooked, models.ReservationStatusCancelled, models.ReservationStatusCompleted:
		default:
			return nil, &ValidationError{Field: "status", Reason: "unknown status"}
		}
		set["status"] = *upd.Status
	}

	targetDate := current.Date
	if upd.Date != nil {
		if _, err := time.Parse("2006-01-02", *upd.Date); err != nil {
			return nil, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
		}
		targetDate = *upd.Date
		set["date"] = targetDate
	}
	if upd.Time != nil {
		if _, err := time.Parse("15:04", *upd.Time); err != nil {
			return nil, &ValidationError{Field: "time", Reason: "must be HH:MM"}
		}
		set["time"] = *upd.Time
	}
	targetSize := current.PartySize
	if upd.PartySize != nil {
		if *upd.PartySize < 1 {
			return nil, &ValidationError{Field: "partySize", Reason: "must be at least 1"}
		}
		targetSize = *upd.PartySize
		set["partySize"] = targetSize
	}

	cancelling := upd.Status != nil && *upd.Status == models.ReservationStatusCancelled

	// Work out whether the edit moves the reservation into a different slot.
	// Slots are keyed by (restaurant, date, bucket); a time-only change stays
	// in place.
	targetBucket := BucketFor(targetSize)
	needSwap := false
	if !cancelling && current.SlotID != "" && (upd.Date != nil || upd.PartySize != nil) {
		currentSlot, err := s.SlotRepo.GetByID(ctx, current.SlotID)
		if err != nil {
			return nil, fmt.Errorf("loading attributed slot: %w", err)
		}
		needSwap = currentSlot.Date != targetDate || currentSlot.Bucket != targetBucket
	}

	var updated *models.Reservation
	switch {
	case needSwap:
		// Release old, reserve new and repoint the attribution in one
		// transaction. Unlike create, a reschedule does not lazily provision
		// the target slot: nothing there means no availability.
		updated, err = s.Ledger.SwapSlot(ctx, id, current.SlotID, current.RestaurantID, targetDate, targetBucket, set)
		if errors.Is(err, slotRepo.ErrUnavailable) {
			return nil, ErrNoAvailability
		}
		if err != nil {
			return nil, fmt.Errorf("rescheduling reservation: %w", err)
		}
	case len(set) > 0:
		updated, err = s.ReservationRepo.UpdateFields(ctx, id, set)
		if err != nil {
			return nil, fmt.Errorf("updating reservation: %w", err)
		}
	default:
		updated = current
	}

	if cancelling {
		if _, err := s.Ledger.ReleaseAndClear(ctx, id); err != nil {
			return nil, fmt.Errorf("releasing cancelled reservation: %w", err)
		}
		updated.SlotID = ""
	}

	if needSwap || cancelling {
		s.invalidateAvailability(ctx, current.RestaurantID, current.Date, targetDate)
	}

	s.NotificationSvc.NotifyVendor(ctx, current.RestaurantID, "Reservation updated")
	return updated, nil
}

func (s *DefaultBookingService) Cancel(ctx context.Context, id string) (*models.Reservation, error) {
	current, err := s.ReservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	// ReleaseAndClear no-ops when the attribution is already gone, so a
	// second cancel never frees a second unit.
	if _, err := s.Ledger.ReleaseAndClear(ctx, id); err != nil {
		return nil, fmt.Errorf("releasing reservation slot: %w", err)
	}
	s.invalidateAvailability(ctx, current.RestaurantID, current.Date)

	updated, err := s.ReservationRepo.UpdateFields(ctx, id, map[string]interface{}{
		"status": models.ReservationStatusCancelled,
	})
	if err != nil {
		return nil, fmt.Errorf("marking reservation cancelled: %w", err)
	}

	s.NotificationSvc.NotifyVendor(ctx, current.RestaurantID, "Reservation cancelled")
	if current.CustomerID != "" {
		s.NotificationSvc.NotifyCustomer(ctx, current.CustomerID,
			fmt.Sprintf("Your reservation on %s at %s was cancelled.", current.Date, current.Time))
	}
	return updated, nil
}

func (s *DefaultBookingService) Delete(ctx context.Context, id string) error {
	current, err := s.ReservationRepo.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}

	if _, err := s.Ledger.ReleaseAndClear(ctx, id); err != nil {
		return fmt.Errorf("releasing reservation slot: %w", err)
	}
	s.invalidateAvailability(ctx, current.RestaurantID, current.Date)
	if err := s.ReservationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting reservation: %w", err)
	}

	s.NotificationSvc.NotifyVendor(ctx, current.RestaurantID, "Reservation deleted")
	return nil
}

func (s *DefaultBookingService) SendReminder(ctx context.Context, id string) error {
	res, err := s.ReservationRepo.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}

	if _, err := s.ReservationRepo.MarkReminderSent(ctx, id); err != nil {
		switch {
		case errors.Is(err, reservationRepo.ErrAlreadyReminded):
			return ErrAlreadyReminded
		case errors.Is(err, reservationRepo.ErrNotFound):
			// Deleted between the lookup above and the guarded update.
			return ErrNotFound
		default:
			return fmt.Errorf("marking reminder sent: %w", err)
		}
	}

	s.NotificationSvc.NotifyCustomer(ctx, res.CustomerID,
		fmt.Sprintf("Reminder: your reservation is on %s at %s.", res.Date, res.Time))
	return nil
}

func (s *DefaultBookingService) Availability(ctx context.Context, restaurantID, date string) ([]models.BucketAvailability, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}

	if s.AvailCache != nil {
		if cached, ok := s.AvailCache.Get(ctx, restaurantID, date); ok {
			return cached, nil
		}
	}

	summary, err := s.SlotRepo.AvailabilitySummary(ctx, restaurantID, date)
	if err != nil {
		return nil, fmt.Errorf("fetching availability: %w", err)
	}
	if s.AvailCache != nil {
		s.AvailCache.Set(ctx, restaurantID, date, summary)
	}
	return summary, nil
}

func (s *DefaultBookingService) AdjustCapacity(ctx context.Context, restaurantID, date string, adjustments []models.BucketAdjustment) ([]models.BucketAvailability, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}

	if err := s.SlotRepo.AdjustBulk(ctx, restaurantID, date, adjustments); err != nil {
		return nil, fmt.Errorf("adjusting capacity: %w", err)
	}
	s.invalidateAvailability(ctx, restaurantID, date)

	summary, err := s.SlotRepo.AvailabilitySummary(ctx, restaurantID, date)
	if err != nil {
		return nil, fmt.Errorf("fetching availability after adjustment: %w", err)
	}
	return summary, nil
}

func (s *DefaultBookingService) ResetCapacity(ctx context.Context, restaurantID, date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}

	if err := s.SlotRepo.ForceReset(ctx, restaurantID, date); err != nil {
		return fmt.Errorf("resetting capacity: %w", err)
	}
	s.invalidateAvailability(ctx, restaurantID, date)
	return nil
}

// invalidateAvailability drops cached summaries for the touched dates.
func (s *DefaultBookingService) invalidateAvailability(ctx context.Context, restaurantID string, dates ...string) {
	if s.AvailCache == nil {
		return
	}
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		s.AvailCache.Invalidate(ctx, restaurantID, d)
	}
}

func (s *DefaultBookingService) scheduleReminder(res *models.Reservation) {
	if s.Reminders == nil {
		return
	}
	if err := s.Reminders.ScheduleReminder(res); err != nil {
		s.Logger.Warn("failed to schedule reservation reminder",
			zap.String("reservationId", res.ID), zap.Error(err))
	}
}
