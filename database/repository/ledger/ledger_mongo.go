package ledgerRepo

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

// MongoLedgerRepo implements LedgerRepository using MongoDB.
type MongoLedgerRepo struct {
	coll *mongo.Collection
}

// NewMongoLedgerRepo creates a new instance of LedgerRepository using MongoDB.
func NewMongoLedgerRepo() LedgerRepository {
	repo := &MongoLedgerRepo{coll: database.Collection("transactions")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoLedgerRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "transactionNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "entityType", Value: 1}, {Key: "entityId", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create appends a ledger entry. Entries are never mutated afterwards
// except for status mirroring.
func (r *MongoLedgerRepo) Create(ctx context.Context, entry *models.TransactionEntry) error {
	entry.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}
	return nil
}

// ExistsFor reports whether an entry already exists for the entity pair.
func (r *MongoLedgerRepo) ExistsFor(ctx context.Context, entityType models.LedgerEntityType, entityID string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"entityType": entityType, "entityId": entityID})
	if err != nil {
		return false, fmt.Errorf("failed to check ledger for %s %s: %w", entityType, entityID, err)
	}
	return count > 0, nil
}

// UpdateStatusFor mirrors the source entity's status onto its entries.
func (r *MongoLedgerRepo) UpdateStatusFor(ctx context.Context, entityType models.LedgerEntityType, entityID string, status string) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"entityType": entityType, "entityId": entityID},
		bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("failed to mirror status for %s %s: %w", entityType, entityID, err)
	}
	return nil
}

// ListByEntity returns the entries recorded for an entity, oldest first.
func (r *MongoLedgerRepo) ListByEntity(ctx context.Context, entityType models.LedgerEntityType, entityID string) ([]models.TransactionEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"entityType": entityType, "entityId": entityID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.TransactionEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode ledger entries: %w", err)
	}
	return entries, nil
}
