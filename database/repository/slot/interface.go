package slotRepo

import (
	"context"
	"errors"

	"linque/models"
)

// ErrUnavailable signals that a conditional reserve matched no slot: either
// the slot row does not exist or its available count is already zero. It is a
// normal business outcome, not a storage fault.
var ErrUnavailable = errors.New("slot unavailable")

// SlotRepository owns the capacity ledger rows. All mutation goes through
// these operations; workflow code never does a raw read-modify-write on a
// slot's available count.
type SlotRepository interface {
	// EnsureForDate idempotently provisions one slot row per ladder bucket
	// for the (restaurant, date) pair, seeded from the default-capacity
	// table. Existing rows are never altered.
	EnsureForDate(ctx context.Context, restaurantID, date string) error
	// EnsureBucket provisions a single bucket row, used when a walk-in
	// targets a bucket not yet provisioned for the date.
	EnsureBucket(ctx context.Context, restaurantID, date string, bucket int) error
	GetByID(ctx context.Context, slotID string) (*models.Slot, error)
	// ReserveUnit atomically decrements the slot's available count by one,
	// failing with ErrUnavailable when no unit remains. Two concurrent
	// callers can never both win the last unit.
	ReserveUnit(ctx context.Context, restaurantID, date string, bucket int) (*models.Slot, error)
	// ReleaseUnit returns one unit to the slot. Callers must have cleared
	// the reservation's attribution pointer first, which bounds each
	// reservation to at most one release.
	ReleaseUnit(ctx context.Context, slotID string) error
	// AdjustBulk applies signed capacity corrections, floor-clamped at zero.
	AdjustBulk(ctx context.Context, restaurantID, date string, adjustments []models.BucketAdjustment) error
	// AvailabilitySummary reports available units per bucket, provisioning
	// the date lazily when nothing exists yet.
	AvailabilitySummary(ctx context.Context, restaurantID, date string) ([]models.BucketAvailability, error)
	// ForceReset restores every bucket of the date to its default capacity.
	ForceReset(ctx context.Context, restaurantID, date string) error
	EnsureIndexes() error
}
