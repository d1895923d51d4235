package models

import "time"

// Reservation statuses.
const (
	ReservationStatusBooked    = "booked"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusCompleted = "completed"
)

// Reservation origins.
const (
	ReservationOriginWalkIn = "walk-in" // entered by the vendor at the door
	ReservationOriginLinque = "linque"  // self-service booking through the app
)

// Reservation represents a booked occupancy of one slot unit.
type Reservation struct {
	ID           string    `bson:"id" json:"id"`
	CustomerID   string    `bson:"customerId,omitempty" json:"customerId,omitempty"` // empty for walk-ins without an app account
	CustomerName string    `bson:"customerName" json:"customerName"`
	RestaurantID string    `bson:"restaurantId" json:"restaurantId"`
	Date         string    `bson:"date" json:"date"` // "2025-07-05"
	Time         string    `bson:"time" json:"time"` // "19:00"
	PartySize    int       `bson:"partySize" json:"partySize"`
	Notes        string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Status       string    `bson:"status" json:"status"`
	Origin       string    `bson:"origin" json:"origin"`
	PromoCode    string    `bson:"promoCode,omitempty" json:"promoCode,omitempty"`
	ReminderSent bool      `bson:"reminderSent" json:"reminderSent"`
	// SlotID tracks the slot unit consumed so it can be reverted exactly once
	// on update, cancel or delete.
	SlotID    string    `bson:"slotId,omitempty" json:"slotId,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Active reports whether the reservation still occupies its slot unit.
func (r *Reservation) Active() bool {
	return r.Status == ReservationStatusBooked && r.SlotID != ""
}

// ReservationUpdate carries the mutable reservation fields for a vendor edit.
// Pointer fields distinguish "leave unchanged" from an explicit new value.
type ReservationUpdate struct {
	CustomerName *string `json:"customerName,omitempty"`
	Date         *string `json:"date,omitempty"`
	Time         *string `json:"time,omitempty"`
	PartySize    *int    `json:"partySize,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	Status       *string `json:"status,omitempty"`
	PromoCode    *string `json:"promoCode,omitempty"`
}

// ReservationFilter narrows vendor reservation listings.
type ReservationFilter struct {
	RestaurantID string
	Date         string
	Period       string // "", "week" or "month": window on creation time
	Status       string
	Origin       string
}
