package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "soothe/database/repository/booking"
	"soothe/models"
	"soothe/utils"

	"go.uber.org/zap"
)

// Role is the resolved role of the actor requesting a transition.
type Role string

const (
	RoleUser         Role = "user"
	RoleAdmin        Role = "admin"
	RoleProfessional Role = "professional"
	RoleSystem       Role = "system"
)

// Actor is the authenticated identity behind a status change. RoleSystem
// is reserved for server-triggered lifecycle events and is never bound to
// an end-user request.
type Actor struct {
	ID   string
	Role Role
}

// TransitionInput carries the target status and its optional extras.
type TransitionInput struct {
	Target         models.BookingStatus
	Reason         string
	ProfessionalID string
	RefundAmount   float64
	RefundMethod   string
}

// TransitionResult reports what a transition actually did. The
// notification count is attempts handed to the dispatcher; the dispatcher
// may still drop a send for consent or dedupe reasons.
type TransitionResult struct {
	Booking                *models.Booking
	Previous               models.BookingStatus
	RefundProcessed        bool
	NotificationsAttempted int
}

// ChangeStatus moves a booking through the state machine. The permission
// gate runs before any mutation; an unauthorized attempt changes nothing
// and returns only a generic rejection. The status write and its record
// side effects land in a single store update guarded by the expected
// prior status, so a concurrent transition on the same booking loses
// cleanly instead of interleaving.
func (s *DefaultStatusService) ChangeStatus(ctx context.Context, bookingID string, actor Actor, input TransitionInput) (*TransitionResult, error) {
	logger := utils.GetLogger()

	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if !input.Target.Valid() {
		return nil, ErrInvalidTransition
	}
	if err := authorize(actor, booking, input.Target); err != nil {
		return nil, err
	}
	if booking.Status.Terminal() || input.Target == booking.Status {
		return nil, ErrInvalidTransition
	}

	generic := false
	if !allowedTransition(booking.Status, input.Target) {
		// System and admin may force any non-terminal booking to a
		// verbatim status with no further side effects.
		if actor.Role != RoleAdmin && actor.Role != RoleSystem {
			return nil, ErrInvalidTransition
		}
		generic = true
	}

	previous := booking.Status
	previousProfessional := booking.ProfessionalID
	upd := models.TransitionUpdate{Status: input.Target}
	refundProcessed := false

	if !generic {
		switch input.Target {
		case models.StatusCancelled:
			upd.ClearProfessional = true
			upd.Cancellation = &models.CancellationRecord{
				Reason:      input.Reason,
				CancelledBy: string(actor.Role),
				CancelledAt: time.Now().UTC(),
			}
		case models.StatusRefunded:
			amount := input.RefundAmount
			if amount == 0 {
				amount = booking.Payment.AmountPaid
				if amount == 0 {
					amount = booking.Price.FinalAmount
				}
			}
			method := input.RefundMethod
			if method == "" {
				method = "credit"
			}
			upd.ClearProfessional = true
			upd.Refund = &models.RefundRecord{
				RefundAmount: amount,
				RefundMethod: method,
				Reason:       input.Reason,
				RefundedBy:   actor.ID,
				RefundedAt:   time.Now().UTC(),
			}
			refundProcessed = true
		case models.StatusConfirmed:
			if input.ProfessionalID != "" {
				upd.SetProfessionalID = input.ProfessionalID
			}
		}
	}

	ok, err := s.Bookings.ApplyTransition(ctx, bookingID, []models.BookingStatus{previous}, upd)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race to a concurrent transition.
		return nil, ErrInvalidTransition
	}

	booking.Status = input.Target
	booking.Cancellation = upd.Cancellation
	if upd.Refund != nil {
		booking.Refund = upd.Refund
	}
	if upd.ClearProfessional {
		booking.ProfessionalID = ""
	}
	if upd.SetProfessionalID != "" {
		booking.ProfessionalID = upd.SetProfessionalID
	}

	if err := s.Ledger.MirrorStatus(ctx, models.LedgerBooking, bookingID, string(input.Target)); err != nil {
		logger.Warn("ledger status mirror failed",
			zap.String("bookingId", bookingID), zap.Error(err))
	}
	if refundProcessed {
		if err := s.Ledger.Record(ctx, models.LedgerBooking, bookingID+":refund",
			-upd.Refund.RefundAmount, string(models.StatusRefunded), "refund issued for "+booking.BookingNumber); err != nil {
			logger.Warn("refund ledger write failed",
				zap.String("bookingId", bookingID), zap.Error(err))
		}
	}

	attempted := 0
	if !generic {
		attempted = s.notifyTransition(ctx, booking, previous, previousProfessional)
	}

	logger.Info("booking status changed",
		zap.String("bookingId", bookingID),
		zap.String("from", string(previous)),
		zap.String("to", string(input.Target)),
		zap.String("actorRole", string(actor.Role)))

	return &TransitionResult{
		Booking:                booking,
		Previous:               previous,
		RefundProcessed:        refundProcessed,
		NotificationsAttempted: attempted,
	}, nil
}

// authorize is the single permission gate for every transition. RoleSystem
// bypasses it unconditionally.
func authorize(actor Actor, booking *models.Booking, target models.BookingStatus) error {
	if actor.Role == RoleSystem || actor.Role == RoleAdmin {
		return nil
	}
	switch target {
	case models.StatusCancelled:
		if actor.Role == RoleUser && actor.ID != "" && actor.ID == booking.Booker.UserID {
			return nil
		}
	case models.StatusCompleted:
		if actor.Role == RoleProfessional && booking.ProfessionalID != "" && actor.ID == booking.ProfessionalID {
			return nil
		}
	}
	return ErrUnauthorized
}

// allowedTransition encodes the state graph. Cancellation and refund are
// reachable from any non-terminal state; no_show only from confirmed.
func allowedTransition(from, to models.BookingStatus) bool {
	if from.Terminal() {
		return false
	}
	switch to {
	case models.StatusCancelled, models.StatusRefunded:
		return true
	case models.StatusInProcess:
		return from == models.StatusPendingPayment
	case models.StatusConfirmed:
		return from == models.StatusPendingPayment || from == models.StatusInProcess
	case models.StatusCompleted:
		return from == models.StatusInProcess || from == models.StatusConfirmed
	case models.StatusNoShow:
		return from == models.StatusConfirmed
	}
	return false
}
