package models

import "time"

// Layout update request statuses.
const (
	LayoutRequestPending   = "pending"
	LayoutRequestProcessed = "processed"
)

// LayoutUpdateRequest records a vendor asking for a floor layout change.
// Processing happens offline; only the record is kept here.
type LayoutUpdateRequest struct {
	ID             string    `bson:"id" json:"id"`
	VendorID       string    `bson:"vendorId" json:"vendorId"`
	RestaurantName string    `bson:"restaurantName,omitempty" json:"restaurantName,omitempty"`
	ContactEmail   string    `bson:"contactEmail,omitempty" json:"contactEmail,omitempty"`
	Message        string    `bson:"message,omitempty" json:"message,omitempty"`
	Status         string    `bson:"status" json:"status"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
