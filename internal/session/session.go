package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/threadmind/threadmind/internal/kv"
)

const keyPrefix = "sess:"

// KV is the subset of the key-value store the session store needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Store binds opaque session ids to user ids in Redis. A session id lives
// in the caller's cookie; everything else stays server-side.
type Store struct {
	kv  KV
	ttl time.Duration
}

// New creates a new session store
func New(store KV, ttl time.Duration) *Store {
	return &Store{kv: store, ttl: ttl}
}

// Create starts a new session for the given user and returns its id
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	sid := uuid.NewString()
	if err := s.kv.Set(ctx, keyPrefix+sid, strconv.FormatInt(userID, 10), s.ttl); err != nil {
		return "", err
	}
	return sid, nil
}

// UserID resolves a session id to the bound user id. Unknown or expired
// sessions return (0, false).
func (s *Store) UserID(ctx context.Context, sid string) (int64, bool, error) {
	if sid == "" {
		return 0, false, nil
	}
	val, err := s.kv.Get(ctx, keyPrefix+sid)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return id, true, nil
}

// Destroy ends a session synchronously. Destroying an unknown session is
// not an error.
func (s *Store) Destroy(ctx context.Context, sid string) error {
	return s.kv.Delete(ctx, keyPrefix+sid)
}
