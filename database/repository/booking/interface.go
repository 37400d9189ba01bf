package bookingRepo

import (
	"context"
	"errors"

	"soothe/models"
)

// ErrNotFound is returned when no booking matches the given id.
var ErrNotFound = errors.New("booking not found")

// BookingRepository defines the data access for the booking aggregate.
// The repository owns the authoritative status field; ApplyTransition is
// the only way to move it.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByNumber(ctx context.Context, number string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListByProfessional(ctx context.Context, professionalID string) ([]models.Booking, error)

	// SetSuitableProfessionals writes the advisory eligibility snapshot.
	SetSuitableProfessionals(ctx context.Context, id string, pros []models.SuitableProfessional) error

	// RecordPayment freezes payment details and the payout snapshot. It
	// only matches a booking that is not already paid and reports false
	// when a concurrent signal won, so the payout is written exactly once.
	RecordPayment(ctx context.Context, id string, payment models.PaymentDetails, payout *models.PayoutSnapshot) (bool, error)

	// ApplyTransition atomically writes the new status together with its
	// side-effect records. The update matches only while the booking is in
	// one of expectFrom (all non-terminal states when empty); it reports
	// false when the guard failed.
	ApplyTransition(ctx context.Context, id string, expectFrom []models.BookingStatus, upd models.TransitionUpdate) (bool, error)
}
