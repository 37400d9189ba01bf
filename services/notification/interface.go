package notification

import (
	"context"

	"soothe/models"
)

// Dispatcher delivers notifications best-effort. Callers treat every send
// as fire-and-forget: a dispatch failure is logged by the implementation
// and must never fail the booking flow that triggered it.
type Dispatcher interface {
	// SendToUser resolves the user's contact details and delivers over the
	// channels the preference allows.
	SendToUser(ctx context.Context, userID string, payload models.NotificationPayload, pref *models.ChannelPreference) error

	// SendToGuest delivers to a contact snapshot with no account behind it
	// (a booking recipient who is not the booker). Push is unavailable for
	// guests; only email applies.
	SendToGuest(ctx context.Context, contact models.ContactSnapshot, payload models.NotificationPayload, pref *models.ChannelPreference) error

	// SendToProfessional resolves the professional's FCM token and email
	// and delivers the payload.
	SendToProfessional(ctx context.Context, professionalID string, payload models.NotificationPayload) error
}
