package models

import "time"

// Slot is the capacity ledger row for one (restaurant, date, bucket)
// combination. Available never goes below zero; all mutation happens through
// the slot repository's conditional updates.
type Slot struct {
	ID           string    `bson:"id" json:"id"`
	RestaurantID string    `bson:"restaurantId" json:"restaurantId"`
	Date         string    `bson:"date" json:"date"`     // "2025-07-05"
	Bucket       int       `bson:"bucket" json:"bucket"` // max persons per unit
	Available    int       `bson:"available" json:"available"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BucketAdjustment is one signed capacity correction for a bucket.
type BucketAdjustment struct {
	Bucket int `json:"bucket" binding:"required"`
	Delta  int `json:"delta" binding:"required"`
}

// BucketAvailability is one row of an availability summary.
type BucketAvailability struct {
	Bucket    int `json:"bucket"`
	Available int `json:"available"`
}
