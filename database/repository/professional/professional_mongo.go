package professionalRepo

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

// MongoProfessionalRepo implements ProfessionalRepository using MongoDB.
type MongoProfessionalRepo struct {
	coll *mongo.Collection
}

// NewMongoProfessionalRepo creates a new instance of ProfessionalRepository using MongoDB.
func NewMongoProfessionalRepo() ProfessionalRepository {
	repo := &MongoProfessionalRepo{coll: database.Collection("professionals")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoProfessionalRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "treatments.treatmentId", Value: 1}}},
		{Keys: bson.D{{Key: "workAreas.city", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a professional by its unique id.
func (r *MongoProfessionalRepo) GetByID(ctx context.Context, id string) (*models.Professional, error) {
	var pro models.Professional
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&pro); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch professional %s: %w", id, err)
	}
	return &pro, nil
}

// FindEligible runs the flat eligibility filter: active account, treatment
// listed (with no duration restriction or a matching one), city covered,
// gender preference honored. No ranking beyond filter order.
func (r *MongoProfessionalRepo) FindEligible(ctx context.Context, criteria EligibilityCriteria) ([]models.Professional, error) {
	treatmentMatch := bson.M{"treatmentId": criteria.TreatmentID}
	if criteria.DurationMinutes > 0 {
		treatmentMatch["$or"] = bson.A{
			bson.M{"durationMinutes": bson.M{"$exists": false}},
			bson.M{"durationMinutes": 0},
			bson.M{"durationMinutes": criteria.DurationMinutes},
		}
	}

	filter := bson.M{
		"active":     true,
		"status":     models.ProfessionalActive,
		"treatments": bson.M{"$elemMatch": treatmentMatch},
		"$or": bson.A{
			bson.M{"workAreas.city": criteria.City},
			bson.M{"workAreas.coveredCities": criteria.City},
		},
	}
	if criteria.GenderPreference != "" && criteria.GenderPreference != "any" {
		filter["gender"] = criteria.GenderPreference
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("eligibility query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var pros []models.Professional
	if err := cursor.All(ctx, &pros); err != nil {
		return nil, fmt.Errorf("failed to decode professionals: %w", err)
	}
	return pros, nil
}
