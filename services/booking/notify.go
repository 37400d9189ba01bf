package booking

import (
	"context"
	"fmt"

	"soothe/models"
	"soothe/services/notification"
	"soothe/utils"

	"go.uber.org/zap"
)

// Notification type tags carried in the payload so clients can route and
// localize.
const (
	notifBookingCreated  = "booking_created"
	notifPaymentReceived = "booking_payment_received"
	notifBookingStatus   = "booking_status_changed"
	notifReviewRequest   = "booking_review_request"
)

func bookingData(b *models.Booking) map[string]string {
	return map[string]string{
		"bookingId":     b.ID,
		"bookingNumber": b.BookingNumber,
		"status":        string(b.Status),
	}
}

// notifyBookingCreated fires the creation notification to the booker and,
// when distinct, the recipient. Failures are logged and swallowed.
func notifyBookingCreated(ctx context.Context, notifier notification.Dispatcher, b *models.Booking) {
	payload := models.NotificationPayload{
		Type:  notifBookingCreated,
		Title: "Booking received",
		Body: fmt.Sprintf("Your booking %s for %s is registered and awaiting payment.",
			b.BookingNumber, b.TreatmentName),
		Data:    bookingData(b),
		Contact: b.Booker,
	}
	dispatchToParties(ctx, notifier, b, payload, "")
}

// notifyPaymentReceived fires after the payment settles.
func notifyPaymentReceived(ctx context.Context, notifier notification.Dispatcher, b *models.Booking) {
	payload := models.NotificationPayload{
		Type:  notifPaymentReceived,
		Title: "Payment confirmed",
		Body: fmt.Sprintf("Payment for booking %s is confirmed. We are lining up a professional for you.",
			b.BookingNumber),
		Data:    bookingData(b),
		Contact: b.Booker,
	}
	dispatchToParties(ctx, notifier, b, payload, "")
}

// notifyTransition fires the per-transition notifications and returns how
// many sends were attempted.
func (s *DefaultStatusService) notifyTransition(ctx context.Context, b *models.Booking, previous models.BookingStatus, previousProfessional string) int {
	var payload models.NotificationPayload
	professionalID := ""

	switch b.Status {
	case models.StatusCancelled:
		payload = models.NotificationPayload{
			Type:  notifBookingStatus,
			Title: "Booking cancelled",
			Body:  fmt.Sprintf("Booking %s has been cancelled.", b.BookingNumber),
		}
		professionalID = previousProfessional
	case models.StatusRefunded:
		payload = models.NotificationPayload{
			Type:  notifBookingStatus,
			Title: "Refund issued",
			Body:  fmt.Sprintf("A refund for booking %s is on its way.", b.BookingNumber),
		}
	case models.StatusConfirmed:
		payload = models.NotificationPayload{
			Type:  notifBookingStatus,
			Title: "Booking confirmed",
			Body:  fmt.Sprintf("Booking %s is confirmed. Your professional will see you as scheduled.", b.BookingNumber),
		}
		professionalID = b.ProfessionalID
	case models.StatusCompleted:
		payload = models.NotificationPayload{
			Type:  notifReviewRequest,
			Title: "How was your treatment?",
			Body: fmt.Sprintf("Booking %s is complete. Tell us how it went: https://soothe.app/review/%s",
				b.BookingNumber, b.ID),
		}
	default:
		return 0
	}

	payload.Data = bookingData(b)
	payload.Contact = b.Booker
	return dispatchToParties(ctx, s.Notifier, b, payload, professionalID)
}

// dispatchToParties sends one payload to the booker, the distinct
// recipient when present, and optionally a professional. Best-effort;
// every failure is logged with the booking id and swallowed.
func dispatchToParties(ctx context.Context, notifier notification.Dispatcher, b *models.Booking, payload models.NotificationPayload, professionalID string) int {
	logger := utils.GetLogger()
	attempted := 0

	attempted++
	if err := notifier.SendToUser(ctx, b.Booker.UserID, payload, b.Consents.Booker); err != nil {
		logger.Warn("booker notification failed",
			zap.String("bookingId", b.ID),
			zap.String("type", payload.Type),
			zap.Error(err))
	}

	if b.HasDistinctRecipient() {
		recipient := *b.Recipient
		guestPayload := payload
		guestPayload.Contact = recipient
		attempted++
		if err := notifier.SendToGuest(ctx, recipient, guestPayload, b.Consents.Recipient); err != nil {
			logger.Warn("recipient notification failed",
				zap.String("bookingId", b.ID),
				zap.String("type", payload.Type),
				zap.Error(err))
		}
	}

	if professionalID != "" {
		attempted++
		if err := notifier.SendToProfessional(ctx, professionalID, payload); err != nil {
			logger.Warn("professional notification failed",
				zap.String("bookingId", b.ID),
				zap.String("professionalId", professionalID),
				zap.String("type", payload.Type),
				zap.Error(err))
		}
	}

	return attempted
}
