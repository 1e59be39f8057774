package storage

import (
	"context"

	"github.com/hireloop-labs/hireloop-console/internal/model"
)

// Store abstracts the console's key-value persistence: the per-session
// upstream token cell (the browser localStorage analog) and notification
// opt-in preferences. Any persistent key-value store satisfies it.
type Store interface {
	SetToken(ctx context.Context, sessionID, token string) error
	Token(ctx context.Context, sessionID string) (string, error)
	RemoveToken(ctx context.Context, sessionID string) error
	SavePreferences(ctx context.Context, sessionID string, prefs *model.NotificationPreferences) error
	Preferences(ctx context.Context, sessionID string) (*model.NotificationPreferences, error)
	Close() error
}
