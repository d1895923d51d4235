package models

import "time"

// User is a customer account with an app identity.
type User struct {
	ID            string    `bson:"id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Email         string    `bson:"email" json:"email"`
	ContactNumber string    `bson:"contactNumber,omitempty" json:"contactNumber,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}
