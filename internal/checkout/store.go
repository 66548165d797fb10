package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	CheckoutKey(userID string) string
}

// Store persists per-user checkout sessions.
type Store interface {
	Load(ctx context.Context, userID uuid.UUID) (*Session, error)
	Save(ctx context.Context, userID uuid.UUID, session *Session) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type redisStore struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// NewRedisStore wires checkout sessions onto the shared Redis client.
func NewRedisStore(store sessionStore, keyer sessionKeyer, ttl time.Duration) (Store, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if keyer == nil {
		return nil, fmt.Errorf("session keyer required")
	}
	return &redisStore{store: store, keyer: keyer, ttl: ttl}, nil
}

// Load returns the stored session, or nil when no checkout is in flight.
func (s *redisStore) Load(ctx context.Context, userID uuid.UUID) (*Session, error) {
	raw, err := s.store.Get(ctx, s.keyer.CheckoutKey(userID.String()))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading checkout session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("decoding checkout session: %w", err)
	}
	if !session.Step.IsValid() {
		return nil, fmt.Errorf("decoding checkout session: unknown step %q", session.Step)
	}
	return &session, nil
}

func (s *redisStore) Save(ctx context.Context, userID uuid.UUID, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding checkout session: %w", err)
	}
	if err := s.store.Set(ctx, s.keyer.CheckoutKey(userID.String()), string(payload), s.ttl); err != nil {
		return fmt.Errorf("saving checkout session: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.Del(ctx, s.keyer.CheckoutKey(userID.String())); err != nil {
		return fmt.Errorf("deleting checkout session: %w", err)
	}
	return nil
}
