package booking

import (
	"context"
	"time"

	professionalRepo "soothe/database/repository/professional"
	"soothe/models"
	"soothe/utils"

	"go.uber.org/zap"
)

// MatchAndSnapshot runs the eligibility filter for a booking and freezes
// the result onto it. The snapshot is advisory; it is what later
// notifications use, not a live query.
func (s *DefaultMatchingService) MatchAndSnapshot(ctx context.Context, booking *models.Booking) ([]models.SuitableProfessional, error) {
	pros, err := s.findEligible(ctx, booking)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	snapshot := make([]models.SuitableProfessional, 0, len(pros))
	for _, p := range pros {
		snapshot = append(snapshot, models.SuitableProfessional{
			ProfessionalID: p.ID,
			Name:           p.Name,
			Email:          p.Email,
			Phone:          p.Phone,
			Gender:         p.Gender,
			ProfileID:      p.ProfileID,
			MatchedAt:      now,
		})
	}

	if err := s.Bookings.SetSuitableProfessionals(ctx, booking.ID, snapshot); err != nil {
		return nil, err
	}
	booking.SuitableProfessionals = snapshot

	utils.GetLogger().Info("professionals matched for booking",
		zap.String("bookingId", booking.ID),
		zap.Int("count", len(snapshot)))
	return snapshot, nil
}

// FindSuitable runs the eligibility filter live for an existing booking,
// without touching the stored snapshot.
func (s *DefaultMatchingService) FindSuitable(ctx context.Context, bookingID string) ([]models.Professional, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.findEligible(ctx, booking)
}

func (s *DefaultMatchingService) findEligible(ctx context.Context, booking *models.Booking) ([]models.Professional, error) {
	criteria := professionalRepo.EligibilityCriteria{
		TreatmentID:      booking.TreatmentID,
		City:             booking.Address.City,
		GenderPreference: booking.GenderPreference,
		DurationMinutes:  booking.DurationMinutes,
	}
	return s.Professionals.FindEligible(ctx, criteria)
}
