package models

import "time"

// Vendor is a restaurant account. PasswordHash is never serialized to JSON.
type Vendor struct {
	ID             string    `bson:"id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	PasswordHash   string    `bson:"passwordHash" json:"-"`
	MailingAddress string    `bson:"mailingAddress" json:"mailingAddress"`
	ContactNumber  string    `bson:"contactNumber" json:"contactNumber"`
	City           string    `bson:"city" json:"city"`
	Category       string    `bson:"category" json:"category"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

// VendorRegistration is the signup payload.
type VendorRegistration struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	MailingAddress  string `json:"mailingAddress" binding:"required"`
	ContactNumber   string `json:"contactNumber" binding:"required"`
	City            string `json:"city" binding:"required"`
	Category        string `json:"category" binding:"required"`
}
