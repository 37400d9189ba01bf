package sequenceRepo

import (
	"context"
	"fmt"

	"soothe/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSequenceRepo implements SequenceRepository on a counters collection.
type MongoSequenceRepo struct {
	coll *mongo.Collection
}

// NewMongoSequenceRepo creates a new instance of SequenceRepository using MongoDB.
func NewMongoSequenceRepo() SequenceRepository {
	return &MongoSequenceRepo{coll: database.Collection("counters")}
}

type counterDoc struct {
	Name  string `bson:"name"`
	Value int64  `bson:"value"`
}

// Next atomically increments and returns the counter. The upsert makes the
// first call on a fresh counter return 1.
func (r *MongoSequenceRepo) Next(ctx context.Context, counterName string) (int64, error) {
	filter := bson.M{"name": counterName}
	update := bson.M{"$inc": bson.M{"value": 1}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc counterDoc
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return 0, fmt.Errorf("failed to advance counter %q: %w", counterName, err)
	}
	return doc.Value, nil
}
