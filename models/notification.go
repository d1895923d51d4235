package models

import "time"

// Notification addressee kinds.
const (
	NotificationKindCustomer = "customer"
	NotificationKindVendor   = "vendor"
)

// Notification is a persisted message for a customer or vendor, with a
// best-effort realtime push on top.
type Notification struct {
	ID          string    `bson:"id" json:"id"`
	Kind        string    `bson:"kind" json:"kind"`
	AddresseeID string    `bson:"addresseeId" json:"addresseeId"`
	Message     string    `bson:"message" json:"message"`
	Read        bool      `bson:"read" json:"read"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
