package booking

import (
	"context"
	"errors"

	bookingRepo "soothe/database/repository/booking"
	"soothe/models"
	"soothe/utils"

	"go.uber.org/zap"
)

// HandlePaymentSuccess consumes the gateway's settlement signal. It
// freezes the payout snapshot, moves the booking to in_process, runs the
// professional matcher, and fires notifications. A repeated signal for an
// already-paid booking is a no-op.
func (s *DefaultOrderService) HandlePaymentSuccess(ctx context.Context, sig models.PaymentSuccess) (*models.Booking, error) {
	logger := utils.GetLogger()

	booking, err := s.Bookings.GetByID(ctx, sig.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.Payment.PaymentStatus == models.PaymentPaid {
		logger.Info("duplicate payment signal ignored",
			zap.String("bookingId", booking.ID),
			zap.String("transactionId", sig.TransactionID))
		return booking, nil
	}

	payout := ComputePayout(booking.Price.BasePrice, booking.Price.AddonsTotal,
		booking.Price.Surcharges, sig.AmountPaid)
	if payout.SystemFee < 0 {
		// Accepted, not clamped. Surfaced loudly so finance can follow up.
		logger.Warn("payout exceeds amount paid",
			zap.String("bookingId", booking.ID),
			zap.Float64("professionalPay", payout.ProfessionalPay),
			zap.Float64("amountPaid", sig.AmountPaid))
	}

	paidAt := sig.PaidAt
	payment := models.PaymentDetails{
		PaymentStatus: models.PaymentPaid,
		TransactionID: sig.TransactionID,
		AmountPaid:    sig.AmountPaid,
		CardLast4:     sig.CardLast4,
		PaymentDate:   &paidAt,
	}
	recorded, err := s.Bookings.RecordPayment(ctx, booking.ID, payment, &payout)
	if err != nil {
		return nil, err
	}
	if !recorded {
		// A concurrent delivery won the conditional write between our
		// read and this update. Hand back whatever it recorded.
		logger.Info("duplicate payment signal ignored",
			zap.String("bookingId", booking.ID),
			zap.String("transactionId", sig.TransactionID))
		return s.GetBooking(ctx, booking.ID)
	}
	booking.Payment = payment
	booking.Payout = &payout

	ok, err := s.Bookings.ApplyTransition(ctx, booking.ID,
		[]models.BookingStatus{models.StatusPendingPayment},
		models.TransitionUpdate{Status: models.StatusInProcess})
	if err != nil {
		return nil, err
	}
	if ok {
		booking.Status = models.StatusInProcess
	}

	if err := s.Ledger.MirrorStatus(ctx, models.LedgerBooking, booking.ID, string(booking.Status)); err != nil {
		logger.Warn("ledger status mirror failed after payment",
			zap.String("bookingId", booking.ID), zap.Error(err))
	}

	if _, err := s.Matcher.MatchAndSnapshot(ctx, booking); err != nil {
		logger.Warn("professional matching failed after payment",
			zap.String("bookingId", booking.ID), zap.Error(err))
	}

	notifyPaymentReceived(ctx, s.Notifier, booking)
	return booking, nil
}
