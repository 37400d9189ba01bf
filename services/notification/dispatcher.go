package notification

import (
	"context"
	"fmt"

	"soothe/database/repository"
	"soothe/models"
	"soothe/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DefaultDispatcher is the production Dispatcher. It resolves contact
// targets from the user and professional stores, dedupes repeat sends
// through Redis, and fans out over push and email per the channel
// preference.
type DefaultDispatcher struct {
	Users         repository.UserRepository
	Professionals repository.ProfessionalRepository
	Mailer        *Mailer
	Dedupe        *redis.Client
}

// NewDefaultDispatcher wires the dispatcher.
func NewDefaultDispatcher(users repository.UserRepository, pros repository.ProfessionalRepository, mailer *Mailer) *DefaultDispatcher {
	return &DefaultDispatcher{
		Users:         users,
		Professionals: pros,
		Mailer:        mailer,
		Dedupe:        utils.GetDispatchCacheClient(),
	}
}

func (d *DefaultDispatcher) SendToUser(ctx context.Context, userID string, payload models.NotificationPayload, pref *models.ChannelPreference) error {
	logger := utils.GetLogger()

	// An explicit preference on the booking wins; an absent one falls
	// back to the opt-in stored on the account. Only "none" (or an
	// account with no opt-in either) disables dispatch.
	if pref != nil && pref.Disabled() {
		return nil
	}

	user, err := d.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("dispatch: failed to resolve user %s: %w", userID, err)
	}
	if user == nil {
		return fmt.Errorf("dispatch: user %s not found", userID)
	}
	if pref == nil {
		pref = user.Notifications
	}
	if pref.Disabled() {
		return nil
	}
	if !d.claimDedupe(ctx, payload.Type, "user:"+userID, payload.Data) {
		return nil
	}

	data := withLanguage(payload.Data, preferredLanguage(pref, user))

	var firstErr error
	for _, channel := range pref.Channels {
		switch channel {
		case models.ChannelPush:
			if user.FCMToken == "" {
				continue
			}
			if err := sendPush(ctx, user.FCMToken, pushContent{
				Type:  payload.Type,
				Title: payload.Title,
				Body:  payload.Body,
				Data:  data,
			}); err != nil {
				logger.Warn("push dispatch failed",
					zap.String("userId", userID),
					zap.String("type", payload.Type),
					zap.Error(err))
				if firstErr == nil {
					firstErr = err
				}
			}
		case models.ChannelEmail:
			if err := d.Mailer.Send(user.Email, payload.Title, payload.Body); err != nil {
				logger.Warn("email dispatch failed",
					zap.String("userId", userID),
					zap.String("type", payload.Type),
					zap.Error(err))
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}
	return firstErr
}

func (d *DefaultDispatcher) SendToGuest(ctx context.Context, contact models.ContactSnapshot, payload models.NotificationPayload, pref *models.ChannelPreference) error {
	if pref.Disabled() {
		return nil
	}
	if contact.Email == "" {
		return nil
	}
	if !d.claimDedupe(ctx, payload.Type, "guest:"+contact.Email, payload.Data) {
		return nil
	}

	for _, channel := range pref.Channels {
		if channel != models.ChannelEmail {
			continue
		}
		if err := d.Mailer.Send(contact.Email, payload.Title, payload.Body); err != nil {
			utils.GetLogger().Warn("guest email dispatch failed",
				zap.String("email", contact.Email),
				zap.String("type", payload.Type),
				zap.Error(err))
			return err
		}
	}
	return nil
}

func (d *DefaultDispatcher) SendToProfessional(ctx context.Context, professionalID string, payload models.NotificationPayload) error {
	logger := utils.GetLogger()

	if !d.claimDedupe(ctx, payload.Type, "professional:"+professionalID, payload.Data) {
		return nil
	}

	pro, err := d.Professionals.GetByID(ctx, professionalID)
	if err != nil {
		return fmt.Errorf("dispatch: failed to resolve professional %s: %w", professionalID, err)
	}
	if pro == nil {
		return fmt.Errorf("dispatch: professional %s not found", professionalID)
	}

	var firstErr error
	if pro.FCMToken != "" {
		if err := sendPush(ctx, pro.FCMToken, pushContent{
			Type:  payload.Type,
			Title: payload.Title,
			Body:  payload.Body,
			Data:  payload.Data,
		}); err != nil {
			logger.Warn("professional push dispatch failed",
				zap.String("professionalId", professionalID),
				zap.String("type", payload.Type),
				zap.Error(err))
			firstErr = err
		}
	}
	if pro.Email != "" {
		if err := d.Mailer.Send(pro.Email, payload.Title, payload.Body); err != nil {
			logger.Warn("professional email dispatch failed",
				zap.String("professionalId", professionalID),
				zap.String("type", payload.Type),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// preferredLanguage picks the delivery language: the preference's own,
// else the one stored on the account.
func preferredLanguage(pref *models.ChannelPreference, user *models.User) string {
	if pref != nil && pref.Language != "" {
		return pref.Language
	}
	return user.Language
}

// withLanguage tags the payload data with the delivery language so push
// clients can localize. The input map is never mutated; it is shared
// across the recipients of one notification.
func withLanguage(data map[string]string, lang string) map[string]string {
	if lang == "" {
		return data
	}
	out := make(map[string]string, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out["language"] = lang
	return out
}

// claimDedupe marks a (type, target, booking) triple as dispatched. It
// returns false when another instance already claimed it inside the TTL
// window, which keeps at-least-once queue delivery from double-sending.
func (d *DefaultDispatcher) claimDedupe(ctx context.Context, notifType, target string, data map[string]string) bool {
	if d.Dedupe == nil {
		return true
	}
	key := utils.DispatchDedupePrefix + notifType + ":" + target
	if bookingID := data["bookingId"]; bookingID != "" {
		key += ":" + bookingID
	}
	ok, err := d.Dedupe.SetNX(ctx, key, 1, utils.DispatchDedupeTTL).Result()
	if err != nil {
		// Redis trouble must not block the notification itself.
		return true
	}
	return ok
}
