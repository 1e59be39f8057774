package model

import "time"

// NotificationPreferences holds one session's push/email opt-in state. The
// push subscription itself lives with the third-party SDK; the console only
// tracks the choice and the player id needed for upstream opt-out.
type NotificationPreferences struct {
	PushEnabled  bool      `json:"pushEnabled"`
	EmailEnabled bool      `json:"emailEnabled"`
	Email        string    `json:"email,omitempty"`
	PlayerID     string    `json:"playerId,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
