package slotRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"linque/config"
	"linque/database"
	"linque/models"
)

// MongoSlotRepo implements SlotRepository using MongoDB.
type MongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new instance of MongoSlotRepo.
func NewMongoSlotRepo() SlotRepository {
	db := database.MongoClient.Database("linque")
	return &MongoSlotRepo{coll: db.Collection("slots")}
}

func defaultCapacity(bucket int) int {
	if c, ok := config.DefaultSlotCapacities[bucket]; ok {
		return c
	}
	return config.FallbackSlotCapacity
}

func (r *MongoSlotRepo) EnsureForDate(ctx context.Context, restaurantID, date string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for _, bucket := range config.SeatBuckets {
		if err := r.upsertBucket(ctx, restaurantID, date, bucket); err != nil {
			return err
		}
	}
	return nil
}

func (r *MongoSlotRepo) EnsureBucket(ctx context.Context, restaurantID, date string, bucket int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.upsertBucket(ctx, restaurantID, date, bucket)
}

// upsertBucket provisions one slot row. $setOnInsert keeps repeated calls from
// touching an existing row's count, and the unique (restaurantId, date,
// bucket) index makes concurrent upserts converge on a single document.
func (r *MongoSlotRepo) upsertBucket(ctx context.Context, restaurantID, date string, bucket int) error {
	now := time.Now()
	filter := bson.M{"restaurantId": restaurantID, "date": date, "bucket": bucket}
	update := bson.M{
		"$setOnInsert": bson.M{
			"id":           uuid.New().String(),
			"restaurantId": restaurantID,
			"date":         date,
			"bucket":       bucket,
			"available":    defaultCapacity(bucket),
			"createdAt":    now,
			"updatedAt":    now,
		},
	}
	if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("error provisioning slot %s/%s bucket %d: %w", restaurantID, date, bucket, err)
	}
	return nil
}

func (r *MongoSlotRepo) GetByID(ctx context.Context, slotID string) (*models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.Slot
	if err := r.coll.FindOne(ctx, bson.M{"id": slotID}).Decode(&slot); err != nil {
		return nil, fmt.Errorf("slot %s not found: %w", slotID, err)
	}
	return &slot, nil
}

// ReserveUnit is the single storage-level guard against overbooking: the
// filter admits only a row with a positive count, so the decrement and the
// check are one atomic step.
func (r *MongoSlotRepo) ReserveUnit(ctx context.Context, restaurantID, date string, bucket int) (*models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"restaurantId": restaurantID,
		"date":         date,
		"bucket":       bucket,
		"available":    bson.M{"$gt": 0},
	}
	update := bson.M{
		"$inc": bson.M{"available": -1},
		"$set": bson.M{"updatedAt": time.Now()},
	}

	var slot models.Slot
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&slot)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("error reserving slot unit: %w", err)
	}
	return &slot, nil
}

func (r *MongoSlotRepo) ReleaseUnit(ctx context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"available": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": slotID}, update)
	if err != nil {
		return fmt.Errorf("error releasing slot unit %s: %w", slotID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoSlotRepo) AdjustBulk(ctx context.Context, restaurantID, date string, adjustments []models.BucketAdjustment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for _, adj := range adjustments {
		filter := bson.M{"restaurantId": restaurantID, "date": date, "bucket": adj.Bucket}
		// Pipeline update so the floor clamp happens server-side.
		pipeline := bson.A{
			bson.M{"$set": bson.M{
				"available": bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{"$available", adj.Delta}}}},
				"updatedAt": time.Now(),
			}},
		}
		if _, err := r.coll.UpdateOne(ctx, filter, pipeline); err != nil {
			return fmt.Errorf("error adjusting bucket %d: %w", adj.Bucket, err)
		}
	}
	return nil
}

func (r *MongoSlotRepo) AvailabilitySummary(ctx context.Context, restaurantID, date string) ([]models.BucketAvailability, error) {
	// Always ensure the whole ladder: a walk-in may have provisioned a single
	// bucket on a fresh date, and the vendor's view must still show every
	// tier. The upserts are idempotent.
	if err := r.EnsureForDate(ctx, restaurantID, date); err != nil {
		return nil, err
	}
	return r.findSummary(ctx, restaurantID, date)
}

func (r *MongoSlotRepo) findSummary(ctx context.Context, restaurantID, date string) ([]models.BucketAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"restaurantId": restaurantID, "date": date}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "bucket", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error fetching slots for %s/%s: %w", restaurantID, date, err)
	}
	defer cursor.Close(ctx)

	var summary []models.BucketAvailability
	for cursor.Next(ctx) {
		var slot models.Slot
		if err := cursor.Decode(&slot); err != nil {
			return nil, fmt.Errorf("error decoding slot: %w", err)
		}
		summary = append(summary, models.BucketAvailability{Bucket: slot.Bucket, Available: slot.Available})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return summary, nil
}

func (r *MongoSlotRepo) ForceReset(ctx context.Context, restaurantID, date string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	for _, bucket := range config.SeatBuckets {
		filter := bson.M{"restaurantId": restaurantID, "date": date, "bucket": bucket}
		update := bson.M{
			"$set": bson.M{"available": defaultCapacity(bucket), "updatedAt": now},
			"$setOnInsert": bson.M{
				"id":           uuid.New().String(),
				"restaurantId": restaurantID,
				"date":         date,
				"bucket":       bucket,
				"createdAt":    now,
			},
		}
		if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("error resetting bucket %d: %w", bucket, err)
		}
	}
	return nil
}
