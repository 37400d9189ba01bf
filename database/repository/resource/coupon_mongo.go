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

// MongoCouponRepo implements CouponRepository using MongoDB.
type MongoCouponRepo struct {
	coll *mongo.Collection
}

// NewMongoCouponRepo creates a new instance of CouponRepository using MongoDB.
func NewMongoCouponRepo() CouponRepository {
	repo := &MongoCouponRepo{coll: database.Collection("coupons")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoCouponRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a coupon by id.
func (r *MongoCouponRepo) GetByID(ctx context.Context, id string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&coupon); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch coupon %s: %w", id, err)
	}
	return &coupon, nil
}

// IncrementUsage bumps the times-used counter of an active coupon.
func (r *MongoCouponRepo) IncrementUsage(ctx context.Context, id string) (*models.Coupon, error) {
	filter := bson.M{"id": id, "isActive": true}
	update := bson.M{
		"$inc": bson.M{"timesUsed": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var coupon models.Coupon
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&coupon); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCouponInactive
		}
		return nil, fmt.Errorf("failed to increment coupon %s usage: %w", id, err)
	}
	return &coupon, nil
}
