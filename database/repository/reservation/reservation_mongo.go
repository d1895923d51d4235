package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"linque/database"
	"linque/models"
)

// MongoReservationRepo implements ReservationRepository using MongoDB.
type MongoReservationRepo struct {
	coll *mongo.Collection
}

// NewMongoReservationRepo constructs a new instance of MongoReservationRepo.
func NewMongoReservationRepo() ReservationRepository {
	db := database.MongoClient.Database("linque")
	return &MongoReservationRepo{coll: db.Collection("reservations")}
}

func (r *MongoReservationRepo) Create(ctx context.Context, res *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, res); err != nil {
		return fmt.Errorf("error creating reservation: %w", err)
	}
	return nil
}

func (r *MongoReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var res models.Reservation
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&res); err != nil {
		return nil, fmt.Errorf("reservation %s not found: %w", id, err)
	}
	return &res, nil
}

func (r *MongoReservationRepo) List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{"restaurantId": filter.RestaurantID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Origin != "" {
		query["origin"] = filter.Origin
	}
	if filter.Date != "" {
		query["date"] = filter.Date
	}

	// Period windows look at creation time, anchored on the filter date when
	// one is given.
	if filter.Period == "week" || filter.Period == "month" {
		anchor := time.Now()
		if filter.Date != "" {
			if parsed, err := time.Parse("2006-01-02", filter.Date); err == nil {
				anchor = parsed
			}
		}
		start := anchor.AddDate(0, 0, -7)
		if filter.Period == "month" {
			start = anchor.AddDate(0, -1, 0)
		}
		delete(query, "date")
		query["createdAt"] = bson.M{"$gte": start, "$lte": anchor}
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []models.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("error decoding reservations: %w", err)
	}
	return reservations, nil
}

func (r *MongoReservationRepo) Ticker(ctx context.Context, restaurantID, date, timeOfDay string, limit int64) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{"restaurantId": restaurantID}
	if date != "" {
		query["date"] = date
	}
	if timeOfDay != "" {
		query["time"] = timeOfDay
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching booking ticker: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []models.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("error decoding ticker reservations: %w", err)
	}
	return reservations, nil
}

func (r *MongoReservationRepo) UpdateFields(ctx context.Context, id string, set map[string]interface{}) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set["updatedAt"] = time.Now()
	var updated models.Reservation
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("error updating reservation %s: %w", id, err)
	}
	return &updated, nil
}

func (r *MongoReservationRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting reservation %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ClearSlotAttribution detaches the consumed-slot pointer. The filter only
// matches while a pointer is present, so of any number of concurrent cancels
// exactly one observes the slot ID and performs the release.
func (r *MongoReservationRepo) ClearSlotAttribution(ctx context.Context, id string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "slotId": bson.M{"$nin": bson.A{nil, ""}}}
	update := bson.M{
		"$unset": bson.M{"slotId": ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	}

	var before models.Reservation
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&before)
	if err == mongo.ErrNoDocuments {
		// No attribution to revert: either already released or never held.
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("error clearing slot attribution for %s: %w", id, err)
	}
	return before.SlotID, nil
}

func (r *MongoReservationRepo) MarkReminderSent(ctx context.Context, id string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "reminderSent": false}
	update := bson.M{"$set": bson.M{"reminderSent": true, "updatedAt": time.Now()}}

	var updated models.Reservation
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		// No match either means the flag is already set or the reservation is
		// gone; look again to tell them apart.
		ferr := r.coll.FindOne(ctx, bson.M{"id": id}).Err()
		if ferr == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		if ferr != nil {
			return nil, fmt.Errorf("error checking reservation %s: %w", id, ferr)
		}
		return nil, ErrAlreadyReminded
	}
	if err != nil {
		return nil, fmt.Errorf("error marking reminder sent for %s: %w", id, err)
	}
	return &updated, nil
}
