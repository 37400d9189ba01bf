package notification

import (
	"context"

	"soothe/models"
	"soothe/services/tasks"
	"soothe/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueuedDispatcher pushes sends onto the asynq queue instead of
// delivering inline, so booking flows never wait on FCM or SMTP. The
// worker process drains the queue through a DefaultDispatcher.
type QueuedDispatcher struct {
	Client *asynq.Client
}

// NewQueuedDispatcher wraps an asynq client.
func NewQueuedDispatcher(client *asynq.Client) *QueuedDispatcher {
	return &QueuedDispatcher{Client: client}
}

func (q *QueuedDispatcher) SendToUser(ctx context.Context, userID string, payload models.NotificationPayload, pref *models.ChannelPreference) error {
	// A nil preference is still enqueued; the worker-side dispatcher
	// falls back to the opt-in stored on the user account.
	if pref != nil && pref.Disabled() {
		return nil
	}
	return q.enqueue(ctx, models.DispatchPayload{
		Target:   models.DispatchUser,
		TargetID: userID,
		Payload:  payload,
		Pref:     pref,
	})
}

func (q *QueuedDispatcher) SendToGuest(ctx context.Context, contact models.ContactSnapshot, payload models.NotificationPayload, pref *models.ChannelPreference) error {
	if pref.Disabled() {
		return nil
	}
	return q.enqueue(ctx, models.DispatchPayload{
		Target:  models.DispatchGuest,
		Contact: contact,
		Payload: payload,
		Pref:    pref,
	})
}

func (q *QueuedDispatcher) SendToProfessional(ctx context.Context, professionalID string, payload models.NotificationPayload) error {
	return q.enqueue(ctx, models.DispatchPayload{
		Target:   models.DispatchProfessional,
		TargetID: professionalID,
		Payload:  payload,
	})
}

func (q *QueuedDispatcher) enqueue(ctx context.Context, payload models.DispatchPayload) error {
	task, opts, err := tasks.NewDispatchTask(payload)
	if err != nil {
		return err
	}
	if _, err := q.Client.EnqueueContext(ctx, task, opts...); err != nil {
		utils.GetLogger().Warn("failed to enqueue notification",
			zap.String("target", string(payload.Target)),
			zap.String("type", payload.Payload.Type),
			zap.Error(err))
		return err
	}
	return nil
}
