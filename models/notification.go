package models

// NotificationChannel is one delivery channel for a notification.
type NotificationChannel string

const (
	ChannelPush  NotificationChannel = "push"
	ChannelEmail NotificationChannel = "email"
	ChannelNone  NotificationChannel = "none"
)

// ChannelPreference is a person's notification opt-in: which channels to
// use and in which language. The "none" channel disables dispatch.
type ChannelPreference struct {
	Channels []NotificationChannel `bson:"channels" json:"channels"`
	Language string                `bson:"language,omitempty" json:"language,omitempty"`
}

// Disabled reports whether dispatch is switched off entirely.
func (p *ChannelPreference) Disabled() bool {
	if p == nil || len(p.Channels) == 0 {
		return true
	}
	for _, c := range p.Channels {
		if c == ChannelNone {
			return true
		}
	}
	return false
}

// NotificationPayload is the transport-agnostic content of one message.
type NotificationPayload struct {
	Type    string            `json:"type"`
	Title   string            `json:"title"`
	Body    string            `json:"body"`
	Data    map[string]string `json:"data,omitempty"`
	Contact ContactSnapshot   `json:"contact"`
}

// DispatchTarget selects which resolver a queued dispatch uses.
type DispatchTarget string

const (
	DispatchUser         DispatchTarget = "user"
	DispatchGuest        DispatchTarget = "guest"
	DispatchProfessional DispatchTarget = "professional"
)

// DispatchPayload is the queued form of one notification send.
type DispatchPayload struct {
	Target   DispatchTarget      `json:"target"`
	TargetID string              `json:"targetId,omitempty"`
	Contact  ContactSnapshot     `json:"contact,omitempty"`
	Payload  NotificationPayload `json:"payload"`
	Pref     *ChannelPreference  `json:"pref,omitempty"`
}
