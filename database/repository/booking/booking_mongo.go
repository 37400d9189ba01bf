package bookingRepo

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

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	repo := &MongoBookingRepo{coll: database.Collection("bookings")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "bookingNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "booker.userId", Value: 1}}},
		{Keys: bson.D{{Key: "professionalId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its unique id.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &booking, nil
}

// GetByNumber retrieves a booking by its human-facing number.
func (r *MongoBookingRepo) GetByNumber(ctx context.Context, number string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"bookingNumber": number}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", number, err)
	}
	return &booking, nil
}

// ListByUser returns all bookings owned by the given user, newest first.
func (r *MongoBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"booker.userId": userID})
}

// ListByProfessional returns all bookings assigned to the professional.
func (r *MongoBookingRepo) ListByProfessional(ctx context.Context, professionalID string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"professionalId": professionalID})
}

func (r *MongoBookingRepo) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// SetSuitableProfessionals writes the eligibility snapshot onto the booking.
func (r *MongoBookingRepo) SetSuitableProfessionals(ctx context.Context, id string, pros []models.SuitableProfessional) error {
	update := bson.M{"$set": bson.M{
		"suitableProfessionals": pros,
		"updatedAt":             time.Now(),
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to snapshot suitable professionals for %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordPayment freezes the payment details and payout snapshot. The
// filter excludes already-paid bookings so two concurrent gateway
// deliveries cannot both write; the payout, once written, is never
// recomputed.
func (r *MongoBookingRepo) RecordPayment(ctx context.Context, id string, payment models.PaymentDetails, payout *models.PayoutSnapshot) (bool, error) {
	set := bson.M{
		"payment":   payment,
		"updatedAt": time.Now(),
	}
	if payout != nil {
		set["payout"] = payout
	}
	filter := bson.M{
		"id":                    id,
		"payment.paymentStatus": bson.M{"$ne": models.PaymentPaid},
	}
	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to record payment for booking %s: %w", id, err)
	}
	return result.MatchedCount > 0, nil
}

// ApplyTransition writes the status and its side-effect records in a
// single UpdateOne so they cannot diverge.
func (r *MongoBookingRepo) ApplyTransition(ctx context.Context, id string, expectFrom []models.BookingStatus, upd models.TransitionUpdate) (bool, error) {
	filter := bson.M{"id": id}
	if len(expectFrom) > 0 {
		filter["status"] = bson.M{"$in": expectFrom}
	}

	set := bson.M{
		"status":    upd.Status,
		"updatedAt": time.Now(),
	}
	if upd.SetProfessionalID != "" {
		set["professionalId"] = upd.SetProfessionalID
	}
	if upd.Cancellation != nil {
		set["cancellation"] = upd.Cancellation
	}
	if upd.Refund != nil {
		set["refund"] = upd.Refund
	}

	update := bson.M{"$set": set}
	if upd.ClearProfessional {
		update["$unset"] = bson.M{"professionalId": ""}
	}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to transition booking %s: %w", id, err)
	}
	return result.MatchedCount > 0, nil
}
