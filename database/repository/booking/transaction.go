package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"linque/database"
	slotRepo "linque/database/repository/slot"
	"linque/models"
)

// MongoBookingRepo implements BookingRepository over the slot and reservation
// collections.
type MongoBookingRepo struct {
	slotColl        *mongo.Collection
	reservationColl *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database("linque")
	return &MongoBookingRepo{
		slotColl:        db.Collection("slots"),
		reservationColl: db.Collection("reservations"),
	}
}

// reserveUnit performs the conditional decrement inside a session context.
func (r *MongoBookingRepo) reserveUnit(sc mongo.SessionContext, restaurantID, date string, bucket int) (*models.Slot, error) {
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
	err := r.slotColl.FindOneAndUpdate(sc, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&slot)
	if err == mongo.ErrNoDocuments {
		return nil, slotRepo.ErrUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("error reserving slot unit: %w", err)
	}
	return &slot, nil
}

func (r *MongoBookingRepo) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := r.slotColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

func (r *MongoBookingRepo) CreateWithSlot(ctx context.Context, res *models.Reservation, bucket int) (*models.Slot, error) {
	var reserved *models.Slot

	txnFn := func(sc mongo.SessionContext) error {
		slot, err := r.reserveUnit(sc, res.RestaurantID, res.Date, bucket)
		if err != nil {
			return err
		}
		res.SlotID = slot.ID
		if _, err := r.reservationColl.InsertOne(sc, res); err != nil {
			return fmt.Errorf("insert reservation failed: %w", err)
		}
		reserved = slot
		return nil
	}

	if err := r.withTransaction(ctx, txnFn); err != nil {
		return nil, err
	}
	return reserved, nil
}

func (r *MongoBookingRepo) SwapSlot(ctx context.Context, reservationID, oldSlotID, restaurantID, date string, bucket int, set map[string]interface{}) (*models.Reservation, error) {
	var updated models.Reservation

	txnFn := func(sc mongo.SessionContext) error {
		slot, err := r.reserveUnit(sc, restaurantID, date, bucket)
		if err != nil {
			return err
		}

		if oldSlotID != "" {
			release := bson.M{
				"$inc": bson.M{"available": 1},
				"$set": bson.M{"updatedAt": time.Now()},
			}
			if _, err := r.slotColl.UpdateOne(sc, bson.M{"id": oldSlotID}, release); err != nil {
				return fmt.Errorf("release of slot %s failed: %w", oldSlotID, err)
			}
		}

		set["slotId"] = slot.ID
		set["updatedAt"] = time.Now()
		err = r.reservationColl.FindOneAndUpdate(sc,
			bson.M{"id": reservationID},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err != nil {
			return fmt.Errorf("repointing reservation %s failed: %w", reservationID, err)
		}
		return nil
	}

	if err := r.withTransaction(ctx, txnFn); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *MongoBookingRepo) ReleaseAndClear(ctx context.Context, reservationID string) (bool, error) {
	released := false

	txnFn := func(sc mongo.SessionContext) error {
		// Only a reservation still holding an attribution matches, so of any
		// number of concurrent cancels exactly one performs the release.
		filter := bson.M{"id": reservationID, "slotId": bson.M{"$nin": bson.A{nil, ""}}}
		update := bson.M{
			"$unset": bson.M{"slotId": ""},
			"$set":   bson.M{"updatedAt": time.Now()},
		}

		var before models.Reservation
		err := r.reservationColl.FindOneAndUpdate(sc, filter, update,
			options.FindOneAndUpdate().SetReturnDocument(options.Before),
		).Decode(&before)
		if err == mongo.ErrNoDocuments {
			return nil
		}
		if err != nil {
			return fmt.Errorf("clearing attribution of %s failed: %w", reservationID, err)
		}

		release := bson.M{
			"$inc": bson.M{"available": 1},
			"$set": bson.M{"updatedAt": time.Now()},
		}
		if _, err := r.slotColl.UpdateOne(sc, bson.M{"id": before.SlotID}, release); err != nil {
			return fmt.Errorf("release of slot %s failed: %w", before.SlotID, err)
		}
		released = true
		return nil
	}

	if err := r.withTransaction(ctx, txnFn); err != nil {
		return false, err
	}
	return released, nil
}
