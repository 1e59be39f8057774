package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hireloop-labs/hireloop-console/internal/apiclient"
	"github.com/hireloop-labs/hireloop-console/internal/config"
	"github.com/hireloop-labs/hireloop-console/internal/storage"
)

// AuthService exchanges credentials against the upstream login endpoint,
// keeps the upstream bearer token in the store and issues local session
// JWTs that reference it. Handlers only ever see the session JWT; the
// upstream token never leaves the server.
type AuthService struct {
	api    *apiclient.Client
	store  storage.Store
	secret []byte
	ttl    time.Duration
}

// Claims represents the session JWT payload.
type Claims struct {
	SessionID string `json:"sid"`
	Handle    string `json:"handle"`
	jwt.RegisteredClaims
}

// NewAuthService builds AuthService from config.
func NewAuthService(cfg *config.Config, api *apiclient.Client, store storage.Store) *AuthService {
	secret := strings.TrimSpace(cfg.Session.JWTSecret)
	if secret == "" {
		secret = "hireloop-console-default-secret"
	}
	ttl := cfg.Session.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AuthService{
		api:    api,
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Login authenticates against the upstream API and returns a session JWT
// plus the new session id.
func (a *AuthService) Login(ctx context.Context, handle, password string) (string, string, error) {
	upstreamToken, err := a.api.Login(ctx, handle, password)
	if err != nil {
		return "", "", err
	}
	sessionID := uuid.NewString()
	if err := a.store.SetToken(ctx, sessionID, upstreamToken); err != nil {
		return "", "", err
	}
	claims := Claims{
		SessionID: sessionID,
		Handle:    handle,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", "", err
	}
	return signed, sessionID, nil
}

// Validate parses a session JWT and returns its claims if valid.
func (a *AuthService) Validate(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := parsed.Claims.(*Claims); ok && parsed.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid session token")
}

// Logout drops the stored upstream token for a session.
func (a *AuthService) Logout(ctx context.Context, sessionID string) error {
	err := a.store.RemoveToken(ctx, sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}

// SessionToken resolves the upstream bearer token for a session.
func (a *AuthService) SessionToken(ctx context.Context, sessionID string) (string, error) {
	return a.store.Token(ctx, sessionID)
}

// TokenFunc returns a token-provider capability bound to one session, for
// injection into the dashboard orchestrator.
func (a *AuthService) TokenFunc(sessionID string) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		return a.store.Token(ctx, sessionID)
	}
}
