package professionalRepo

import (
	"context"
	"errors"

	"soothe/models"
)

// ErrNotFound is returned when no professional matches the given id.
var ErrNotFound = errors.New("professional not found")

// EligibilityCriteria is the multi-criteria filter for matching a booking
// to professionals. GenderPreference "any" (or empty) matches all genders;
// DurationMinutes 0 skips the duration restriction.
type EligibilityCriteria struct {
	TreatmentID      string
	City             string
	GenderPreference string
	DurationMinutes  int
}

// ProfessionalRepository defines the data access for service professionals.
type ProfessionalRepository interface {
	GetByID(ctx context.Context, id string) (*models.Professional, error)
	FindEligible(ctx context.Context, criteria EligibilityCriteria) ([]models.Professional, error)
}
