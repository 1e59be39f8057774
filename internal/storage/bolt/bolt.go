package bolt

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/hireloop-labs/hireloop-console/internal/crypto"
	"github.com/hireloop-labs/hireloop-console/internal/model"
	"github.com/hireloop-labs/hireloop-console/internal/storage"
	bolt "go.etcd.io/bbolt"
)

var _ storage.Store = (*Store)(nil)

var (
	bucketTokens      = []byte("tokens")
	bucketPreferences = []byte("preferences")
)

const keySalt = "hireloop-console.tokens"

// Store is a BoltDB-backed Store implementation. Upstream tokens are
// encrypted at rest with a key derived from the configured secret.
type Store struct {
	db  *bolt.DB
	key []byte
}

// sealedToken is the stored shape of one encrypted token.
type sealedToken struct {
	IV         string `json:"iv"`
	Ciphertext string `json:"ciphertext"`
}

// New initialises the Bolt store.
func New(path, secret string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketTokens); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketPreferences)
		return err
	}); err != nil {
		return nil, err
	}
	return &Store{db: db, key: crypto.DeriveKey(secret, keySalt)}, nil
}

// Close closes the underlying Bolt DB.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetToken seals and stores the upstream token for a session.
func (s *Store) SetToken(ctx context.Context, sessionID, token string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	iv, err := crypto.RandomIV()
	if err != nil {
		return err
	}
	ciphertext, err := crypto.EncryptToBase64([]byte(token), s.key, iv)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(sealedToken{
		IV:         base64.StdEncoding.EncodeToString(iv),
		Ciphertext: ciphertext,
	})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTokens).Put([]byte(sessionID), payload)
	})
}

// Token fetches and unseals the stored token for a session.
func (s *Store) Token(ctx context.Context, sessionID string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	var sealed *sealedToken
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(bucketTokens).Get([]byte(sessionID))
		if value == nil {
			return nil
		}
		sealed = &sealedToken{}
		return json.Unmarshal(value, sealed)
	})
	if err != nil {
		return "", err
	}
	if sealed == nil {
		return "", storage.ErrNotFound
	}
	iv, err := base64.StdEncoding.DecodeString(sealed.IV)
	if err != nil {
		return "", err
	}
	token, err := crypto.DecryptFromBase64(sealed.Ciphertext, s.key, iv)
	if err != nil {
		return "", err
	}
	return string(token), nil
}

// RemoveToken deletes a session's stored token. Removing a token that is
// already gone is not an error.
func (s *Store) RemoveToken(ctx context.Context, sessionID string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTokens).Delete([]byte(sessionID))
	})
}

// SavePreferences stores a session's notification opt-in choices.
func (s *Store) SavePreferences(ctx context.Context, sessionID string, prefs *model.NotificationPreferences) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	prefs.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPreferences).Put([]byte(sessionID), payload)
	})
}

// Preferences returns a session's stored notification choices.
func (s *Store) Preferences(ctx context.Context, sessionID string) (*model.NotificationPreferences, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	var prefs *model.NotificationPreferences
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(bucketPreferences).Get([]byte(sessionID))
		if value == nil {
			return nil
		}
		prefs = &model.NotificationPreferences{}
		return json.Unmarshal(value, prefs)
	})
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return nil, storage.ErrNotFound
	}
	return prefs, nil
}
