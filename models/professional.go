package models

import "time"

// ProfessionalStatus enumerates professional account states.
type ProfessionalStatus string

const (
	ProfessionalActive    ProfessionalStatus = "active"
	ProfessionalSuspended ProfessionalStatus = "suspended"
	ProfessionalPending   ProfessionalStatus = "pending"
)

// TreatmentEntry is one treatment a professional offers. A zero
// DurationMinutes means no duration restriction.
type TreatmentEntry struct {
	TreatmentID     string `bson:"treatmentId" json:"treatmentId"`
	DurationMinutes int    `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
}

// WorkArea is a city a professional serves, optionally extended by a list
// of covered satellite cities.
type WorkArea struct {
	City          string   `bson:"city" json:"city"`
	CoveredCities []string `bson:"coveredCities,omitempty" json:"coveredCities,omitempty"`
}

// Professional is a service professional eligible for booking assignment.
type Professional struct {
	ID         string             `bson:"id" json:"id"`
	ProfileID  string             `bson:"profileId,omitempty" json:"profileId,omitempty"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Phone      string             `bson:"phone" json:"phone"`
	Gender     string             `bson:"gender" json:"gender"`
	Status     ProfessionalStatus `bson:"status" json:"status"`
	Active     bool               `bson:"active" json:"active"`
	Treatments []TreatmentEntry   `bson:"treatments" json:"treatments"`
	WorkAreas  []WorkArea         `bson:"workAreas" json:"workAreas"`
	FCMToken   string             `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Covers reports whether the professional serves the given city, either as
// a declared work-area city or among its covered cities.
func (p *Professional) Covers(city string) bool {
	for _, area := range p.WorkAreas {
		if area.City == city {
			return true
		}
		for _, covered := range area.CoveredCities {
			if covered == city {
				return true
			}
		}
	}
	return false
}

// SuitableProfessional is the snapshot of an eligible professional written
// onto a booking at match time.
type SuitableProfessional struct {
	ProfessionalID string    `bson:"professionalId" json:"professionalId"`
	ProfileID      string    `bson:"profileId,omitempty" json:"profileId,omitempty"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	Phone          string    `bson:"phone" json:"phone"`
	Gender         string    `bson:"gender" json:"gender"`
	MatchedAt      time.Time `bson:"matchedAt" json:"matchedAt"`
}
