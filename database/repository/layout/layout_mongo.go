package layoutRepo

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

// LayoutRepository records vendor layout-change requests for offline admin
// processing.
type LayoutRepository interface {
	Create(ctx context.Context, req *models.LayoutUpdateRequest) error
	List(ctx context.Context) ([]models.LayoutUpdateRequest, error)
}

// MongoLayoutRepo implements LayoutRepository using MongoDB.
type MongoLayoutRepo struct {
	coll *mongo.Collection
}

// NewMongoLayoutRepo constructs a new instance of MongoLayoutRepo.
func NewMongoLayoutRepo() LayoutRepository {
	db := database.MongoClient.Database("linque")
	return &MongoLayoutRepo{coll: db.Collection("layout_update_requests")}
}

func (r *MongoLayoutRepo) Create(ctx context.Context, req *models.LayoutUpdateRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("error creating layout update request: %w", err)
	}
	return nil
}

func (r *MongoLayoutRepo) List(ctx context.Context) ([]models.LayoutUpdateRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing layout update requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.LayoutUpdateRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("error decoding layout update requests: %w", err)
	}
	return requests, nil
}
