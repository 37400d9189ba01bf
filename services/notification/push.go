package notification

import (
	"context"
	"fmt"

	"soothe/utils"

	"firebase.google.com/go/v4/messaging"
)

// sendPush delivers one FCM message to a device token.
func sendPush(ctx context.Context, token string, payload pushContent) error {
	if utils.FCMClient == nil {
		return fmt.Errorf("sendPush: FCM client not initialized")
	}
	if token == "" {
		return fmt.Errorf("sendPush: empty device token")
	}

	data := payload.Data
	if data == nil {
		data = map[string]string{}
	}
	data["type"] = payload.Type

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "bookings",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("sendPush: failed to send FCM message: %w", err)
	}
	return nil
}

// pushContent is the channel-neutral subset a push message carries.
type pushContent struct {
	Type  string
	Title string
	Body  string
	Data  map[string]string
}
