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

// MongoVoucherRepo implements VoucherRepository using MongoDB.
type MongoVoucherRepo struct {
	coll *mongo.Collection
}

// NewMongoVoucherRepo creates a new instance of VoucherRepository using MongoDB.
func NewMongoVoucherRepo() VoucherRepository {
	repo := &MongoVoucherRepo{coll: database.Collection("vouchers")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoVoucherRepo) ensureIndexes() error {
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

// GetByID retrieves a voucher by id.
func (r *MongoVoucherRepo) GetByID(ctx context.Context, id string) (*models.GiftVoucher, error) {
	var voucher models.GiftVoucher
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&voucher); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch voucher %s: %w", id, err)
	}
	return &voucher, nil
}

// ApplyAmount decrements a monetary voucher balance. The transactional
// re-read plus the balance guard in the filter keep two concurrent
// redemptions from draining the voucher past zero: the second attempt sees
// no matching document and fails with ErrVoucherInsufficientBalance.
func (r *MongoVoucherRepo) ApplyAmount(ctx context.Context, id string, amount float64, bookingID string) (*models.GiftVoucher, error) {
	voucher, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !voucher.Redeemable() {
		return nil, ErrVoucherInactive
	}
	if voucher.RemainingAmount < amount {
		return nil, ErrVoucherInsufficientBalance
	}

	now := time.Now()
	usage := models.VoucherUsage{BookingID: bookingID, Amount: amount, UsedAt: now}

	filter := bson.M{
		"id":              id,
		"isActive":        true,
		"remainingAmount": bson.M{"$gte": amount},
	}
	update := bson.M{
		"$inc":  bson.M{"remainingAmount": -amount},
		"$push": bson.M{"usageHistory": usage},
		"$set":  bson.M{"updatedAt": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.GiftVoucher
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrVoucherInsufficientBalance
		}
		return nil, fmt.Errorf("failed to apply voucher %s: %w", id, err)
	}

	return r.settleStatus(ctx, &updated)
}

// ConsumeTreatment fully consumes a treatment-type voucher: remaining
// amount zeroed, status fully_used, inactive.
func (r *MongoVoucherRepo) ConsumeTreatment(ctx context.Context, id string, bookingID string) (*models.GiftVoucher, error) {
	voucher, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !voucher.Redeemable() {
		return nil, ErrVoucherInactive
	}

	now := time.Now()
	usage := models.VoucherUsage{BookingID: bookingID, Amount: voucher.RemainingAmount, UsedAt: now}

	filter := bson.M{"id": id, "isActive": true}
	update := bson.M{
		"$set": bson.M{
			"remainingAmount": float64(0),
			"status":          models.VoucherFullyUsed,
			"isActive":        false,
			"updatedAt":       now,
		},
		"$push": bson.M{"usageHistory": usage},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.GiftVoucher
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrVoucherInactive
		}
		return nil, fmt.Errorf("failed to consume voucher %s: %w", id, err)
	}
	return &updated, nil
}

// settleStatus writes the post-decrement status: fully_used and inactive
// at zero balance, partially_used otherwise.
func (r *MongoVoucherRepo) settleStatus(ctx context.Context, voucher *models.GiftVoucher) (*models.GiftVoucher, error) {
	status := models.VoucherPartiallyUsed
	active := true
	if voucher.RemainingAmount <= 0 {
		status = models.VoucherFullyUsed
		active = false
		voucher.RemainingAmount = 0
	}

	update := bson.M{"$set": bson.M{
		"status":          status,
		"isActive":        active,
		"remainingAmount": voucher.RemainingAmount,
	}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": voucher.ID}, update); err != nil {
		return nil, fmt.Errorf("failed to settle voucher %s status: %w", voucher.ID, err)
	}
	voucher.Status = status
	voucher.IsActive = active
	return voucher, nil
}

// SetStatus overwrites the voucher status. Administrative use only.
func (r *MongoVoucherRepo) SetStatus(ctx context.Context, id string, status models.VoucherStatus) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to set voucher %s status: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
