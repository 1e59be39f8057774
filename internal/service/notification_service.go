package service

import (
	"context"
	"errors"

	"github.com/hireloop-labs/hireloop-console/internal/apiclient"
	"github.com/hireloop-labs/hireloop-console/internal/logger"
	"github.com/hireloop-labs/hireloop-console/internal/model"
	"github.com/hireloop-labs/hireloop-console/internal/storage"
)

// NotificationService keeps per-session push/email opt-in choices. The push
// subscription itself is owned by the external SDK in the browser; the
// console stores the preference and tells the upstream API when a push
// player id is deregistered.
type NotificationService struct {
	store storage.Store
	api   *apiclient.Client
	log   *logger.Logger
}

// NewNotificationService builds NotificationService.
func NewNotificationService(store storage.Store, api *apiclient.Client, log *logger.Logger) *NotificationService {
	return &NotificationService{store: store, api: api, log: log}
}

// Preferences returns the stored choices, or the opted-out defaults when the
// session has none yet.
func (s *NotificationService) Preferences(ctx context.Context, sessionID string) (*model.NotificationPreferences, error) {
	prefs, err := s.store.Preferences(ctx, sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return &model.NotificationPreferences{}, nil
	}
	return prefs, err
}

// Update persists new choices. Disabling push deregisters the previously
// stored player id upstream; an expired upstream token aborts the update so
// the caller can force a logout.
func (s *NotificationService) Update(ctx context.Context, sessionID, token string, prefs model.NotificationPreferences) (*model.NotificationPreferences, error) {
	current, err := s.Preferences(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current.PushEnabled && !prefs.PushEnabled && current.PlayerID != "" {
		if err := s.api.RemoveDevice(ctx, token, current.PlayerID); err != nil {
			if errors.Is(err, apiclient.ErrUnauthorized) {
				return nil, err
			}
			// the preference change still applies locally
			s.log.Warnw("device deregistration failed", "err", err)
		}
	}
	if err := s.store.SavePreferences(ctx, sessionID, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}
