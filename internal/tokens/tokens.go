package tokens

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/threadmind/threadmind/internal/kv"
)

const keyPrefix = "reset:"

// ErrNotFound is returned when a token is absent, expired, or already
// consumed.
var ErrNotFound = errors.New("tokens: token not found")

// KV is the subset of the key-value store the token store needs.
type KV interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	GetDel(ctx context.Context, key string) (string, error)
}

// Store issues and consumes single-use password reset tokens. Tokens are
// opaque uuid strings mapping to a user id, invalidated on first use or by
// TTL, whichever comes first.
type Store struct {
	kv  KV
	ttl time.Duration
}

// New creates a new token store
func New(store KV, ttl time.Duration) *Store {
	return &Store{kv: store, ttl: ttl}
}

// Issue mints a fresh unguessable token for the given user. Previously
// issued tokens for the same user stay valid.
func (s *Store) Issue(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := s.kv.Set(ctx, keyPrefix+token, strconv.FormatInt(userID, 10), s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Consume resolves a token to its user id and deletes it atomically, so a
// token is consumed exactly once even under concurrent calls. Absent or
// expired tokens return ErrNotFound.
func (s *Store) Consume(ctx context.Context, token string) (int64, error) {
	val, err := s.kv.GetDel(ctx, keyPrefix+token)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrNotFound
	}
	return id, nil
}
