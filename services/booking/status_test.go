package booking

import (
	"context"
	"testing"

	"soothe/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) seedBooking(id string, status models.BookingStatus, professionalID string) *models.Booking {
	b := &models.Booking{
		ID:            id,
		BookingNumber: "BK-000042",
		Status:        status,
		TreatmentID:   "treat-1",
		TreatmentName: "Deep Tissue Massage",
		Price:         ComputePriceBreakdown(200, 0, nil, 0, 0, false),
		Payment: models.PaymentDetails{
			PaymentStatus: models.PaymentPaid,
			AmountPaid:    200,
		},
		ProfessionalID: professionalID,
		Booker: models.ContactSnapshot{
			UserID: "user-1", Name: "Dana Levi", Email: "dana@example.com",
		},
		Address: models.AddressSnapshot{City: "Tel Aviv", FullAddress: "Dizengoff 100, Tel Aviv"},
		Consents: models.NotificationConsents{
			Booker: &models.ChannelPreference{Channels: []models.NotificationChannel{models.ChannelPush}},
		},
	}
	e.stores.mu.Lock()
	e.stores.bookings[id] = b
	e.stores.mu.Unlock()
	return b
}

func TestOwnerCancelClearsProfessional(t *testing.T) {
	env := newTestEnv()
	env.seedBooking("bk-1", models.StatusConfirmed, "pro-9")

	result, err := env.status.ChangeStatus(context.Background(), "bk-1",
		Actor{ID: "user-1", Role: RoleUser},
		TransitionInput{Target: models.StatusCancelled, Reason: "schedule conflict"})
	require.NoError(t, err)

	assert.Equal(t, models.StatusConfirmed, result.Previous)
	assert.Equal(t, models.StatusCancelled, result.Booking.Status)
	assert.Empty(t, result.Booking.ProfessionalID)
	require.NotNil(t, result.Booking.Cancellation)
	assert.Equal(t, "user", result.Booking.Cancellation.CancelledBy)
	assert.Equal(t, "schedule conflict", result.Booking.Cancellation.Reason)

	// Booker plus the previously assigned professional.
	assert.Equal(t, 2, result.NotificationsAttempted)

	stored, err := env.bookings.GetByID(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, stored.Status)
	assert.Empty(t, stored.ProfessionalID)
}

func TestNonOwnerCancelRejected(t *testing.T) {
	env := newTestEnv()
	env.seedBooking("bk-1", models.StatusConfirmed, "pro-9")

	_, err := env.status.ChangeStatus(context.Background(), "bk-1",
		Actor{ID: "someone-else", Role: RoleUser},
		TransitionInput{Target: models.StatusCancelled})
	assert.ErrorIs(t, err, ErrUnauthorized)

	stored, err := env.bookings.GetByID(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
	assert.Equal(t, "pro-9", stored.ProfessionalID)
}

func TestRefundIsAdminOnly(t *testing.T) {
	env := newTestEnv()
	env.seedBooking("bk-1", models.StatusConfirmed, "pro-9")

	_, err := env.status.ChangeStatus(context.Background(), "bk-1",
		Actor{ID: "user-1", Role: RoleUser},
		TransitionInput{Target: models.StatusRefunded})
	assert.ErrorIs(t, err, ErrUnauthorized)

	result, err := env.status.ChangeStatus(context.Background(), "bk-1",
		Actor{ID: "admin-1", Role: RoleAdmin},
		TransitionInput{Target: models.StatusRefunded, Reason: "service issue"})
	require.NoError(t, err)

	assert.True(t, result.RefundProcessed)
	require.NotNil(t, result.Booking.Refund)
	assert.Equal(t, 200.0, result.Booking.Refund.RefundAmount)
	assert.Equal(t, "credit", result.Booking.Refund.RefundMethod)
	assert.Equal(t, "admin-1", result.Booking.Refund.RefundedBy)
	assert.Empty(t, result.Booking.ProfessionalID)
}

func TestRefundAmountDefaultsToAmountPaid(t *testing.T) {
	env := newTestEnv()
	b := env.seedBooking("bk-1", models.StatusConfirmed, "")
	b.Payment.AmountPaid = 200

	result, err := env.status.ChangeStatus(context.Background(), "bk-1",
		Actor{ID: "admin-1", Role: RoleAdmin},
		TransitionInput{Target: models.StatusRefunded})
	require.NoError(t, err)
	assert.Equal(t, 200.0, result.Booking.Refund.RefundAmount)
}

func TestRefundFallsBackToFinalAmountWhenUnpaid(t *testing.T) {
	env := newTestEnv()
	b := env.seedBooking("bk-1", models.StatusPendingPayment, "")
	b.Payment.AmountPaid = 0
	b.Payment.PaymentStatus = models.PaymentPending

	result, err := env.status.ChangeStatus(context.Background(), "bk-1",
		Actor{ID: "admin-1", Role: RoleAdmin},
		TransitionInput{Target: models.StatusRefunded})
	require.NoError(t, err)
	assert.Equal(t, 200.0, result.Booking.Refund.RefundAmount)
}

func TestAssignedProfessionalCompletes(t *testing.T) {
	env := newTestEnv()
	env.seedBooking("bk-1", models.StatusConfirmed, "pro-9")

	result, err := env.status.ChangeStatus(context.Background(), "bk-1",
		Actor{ID: "pro-9", Role: RoleProfessional},
		TransitionInput{Target: models.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, result.Booking.Status)
}

func TestUnassignedProfessionalCannotComplete(t *testing.T) {
	env := newTestEnv()
	env.seedBooking("bk-1", models.StatusConfirmed, "pro-9")

	_, err := env.status.ChangeStatus(context.Background(), "bk-1",
		Actor{ID: "pro-2", Role: RoleProfessional},
		TransitionInput{Target: models.StatusCompleted})
	assert.ErrorIs(t, err, ErrUnauthorized)

	stored, err := env.bookings.GetByID(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
}

func TestAdminConfirmAssignsProfessional(t *testing.T) {
	env := newTestEnv()
	env.seedBooking("bk-1", models.StatusInProcess, "")

	result, err := env.status.ChangeStatus(context.Background(), "bk-1",
		Actor{ID: "admin-1", Role: RoleAdmin},
		TransitionInput{Target: models.StatusConfirmed, ProfessionalID: "pro-9"})
	require.NoError(t, err)
	assert.Equal(t, "pro-9", result.Booking.ProfessionalID)

	// Booker plus the newly assigned professional.
	assert.Equal(t, 2, result.NotificationsAttempted)
}

func TestTerminalStatesAreClosed(t *testing.T) {
	terminals := []models.BookingStatus{
		models.StatusCompleted,
		models.StatusCancelled,
		models.StatusRefunded,
		models.StatusNoShow,
	}
	targets := []models.BookingStatus{
		models.StatusPendingPayment,
		models.StatusInProcess,
		models.StatusConfirmed,
		models.StatusCompleted,
		models.StatusCancelled,
		models.StatusRefunded,
		models.StatusNoShow,
	}

	for _, terminal := range terminals {
		for _, target := range targets {
			env := newTestEnv()
			env.seedBooking("bk-1", terminal, "")

			_, err := env.status.ChangeStatus(context.Background(), "bk-1",
				Actor{ID: "admin-1", Role: RoleAdmin},
				TransitionInput{Target: target})
			assert.ErrorIs(t, err, ErrInvalidTransition,
				"transition %s -> %s must be rejected", terminal, target)

			stored, err := env.bookings.GetByID(context.Background(), "bk-1")
			require.NoError(t, err)
			assert.Equal(t, terminal, stored.Status)
		}
	}
}

func TestNoShowOnlyFromConfirmed(t *testing.T) {
	env := newTestEnv()
	env.seedBooking("bk-1", models.StatusConfirmed, "pro-9")

	result, err := env.status.ChangeStatus(context.Background(), "bk-1",
		Actor{ID: "admin-1", Role: RoleAdmin},
		TransitionInput{Target: models.StatusNoShow})
	require.NoError(t, err)
	assert.Equal(t, models.StatusNoShow, result.Booking.Status)
}

func TestSystemBypassesOwnershipGate(t *testing.T) {
	env := newTestEnv()
	env.seedBooking("bk-1", models.StatusPendingPayment, "")

	result, err := env.status.ChangeStatus(context.Background(), "bk-1",
		Actor{Role: RoleSystem},
		TransitionInput{Target: models.StatusInProcess})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProcess, result.Booking.Status)
}

func TestGenericAdminPathSkipsSideEffects(t *testing.T) {
	env := newTestEnv()
	env.seedBooking("bk-1", models.StatusConfirmed, "pro-9")

	// confirmed -> in_process is not a named transition; admins may force
	// it verbatim with no notifications.
	result, err := env.status.ChangeStatus(context.Background(), "bk-1",
		Actor{ID: "admin-1", Role: RoleAdmin},
		TransitionInput{Target: models.StatusInProcess})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProcess, result.Booking.Status)
	assert.Zero(t, result.NotificationsAttempted)
	assert.Zero(t, env.notifier.count())
}

func TestUserCannotForceUnknownTransition(t *testing.T) {
	env := newTestEnv()
	env.seedBooking("bk-1", models.StatusConfirmed, "")

	_, err := env.status.ChangeStatus(context.Background(), "bk-1",
		Actor{ID: "user-1", Role: RoleUser},
		TransitionInput{Target: models.StatusInProcess})
	assert.Error(t, err)
}

func TestChangeStatusUnknownBooking(t *testing.T) {
	env := newTestEnv()

	_, err := env.status.ChangeStatus(context.Background(), "missing",
		Actor{ID: "admin-1", Role: RoleAdmin},
		TransitionInput{Target: models.StatusCancelled})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
