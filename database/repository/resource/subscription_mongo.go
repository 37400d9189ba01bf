package resourceRepo

import (
	"context"
	"fmt"
	"time"

	"soothe/database"
	"soothe/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSubscriptionRepo implements SubscriptionRepository using MongoDB.
type MongoSubscriptionRepo struct {
	coll *mongo.Collection
}

// NewMongoSubscriptionRepo creates a new instance of SubscriptionRepository using MongoDB.
func NewMongoSubscriptionRepo() SubscriptionRepository {
	repo := &MongoSubscriptionRepo{coll: database.Collection("subscriptions")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoSubscriptionRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a subscription credit pool by id.
func (r *MongoSubscriptionRepo) GetByID(ctx context.Context, id string) (*models.SubscriptionCredit, error) {
	var sub models.SubscriptionCredit
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&sub); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch subscription %s: %w", id, err)
	}
	return &sub, nil
}

// RedeemCredit decrements the remaining quantity by one. The filter
// re-checks status and quantity so two concurrent redemptions cannot both
// pass once the pool is down to its last credit.
func (r *MongoSubscriptionRepo) RedeemCredit(ctx context.Context, id string) (*models.SubscriptionCredit, error) {
	filter := bson.M{
		"id":                id,
		"status":            models.SubscriptionActive,
		"remainingQuantity": bson.M{"$gte": 1},
	}
	update := bson.M{
		"$inc": bson.M{"remainingQuantity": -1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var sub models.SubscriptionCredit
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&sub); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInsufficientCredit
		}
		return nil, fmt.Errorf("failed to redeem subscription credit %s: %w", id, err)
	}

	if sub.RemainingQuantity == 0 {
		if _, err := r.coll.UpdateOne(ctx,
			bson.M{"id": id, "remainingQuantity": 0},
			bson.M{"$set": bson.M{"status": models.SubscriptionDepleted}},
		); err != nil {
			return nil, fmt.Errorf("failed to mark subscription %s depleted: %w", id, err)
		}
		sub.Status = models.SubscriptionDepleted
	}
	return &sub, nil
}
