package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

type snapshotStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type snapshotKeyer interface {
	CartKey(userID string) string
}

// Store persists per-user cart snapshots.
type Store interface {
	Load(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, userID uuid.UUID, cart *Cart) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type redisStore struct {
	store snapshotStore
	keyer snapshotKeyer
	ttl   time.Duration
}

// NewRedisStore wires cart snapshots onto the shared Redis client. A zero ttl
// keeps snapshots until they are explicitly cleared.
func NewRedisStore(store snapshotStore, keyer snapshotKeyer, ttl time.Duration) (Store, error) {
	if store == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if keyer == nil {
		return nil, fmt.Errorf("snapshot keyer required")
	}
	return &redisStore{store: store, keyer: keyer, ttl: ttl}, nil
}

// Load returns the stored cart, or a fresh empty cart when none exists.
func (s *redisStore) Load(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	raw, err := s.store.Get(ctx, s.keyer.CartKey(userID.String()))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return New(), nil
		}
		return nil, fmt.Errorf("loading cart snapshot: %w", err)
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("decoding cart snapshot: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []LineItem{}
	}
	return &cart, nil
}

func (s *redisStore) Save(ctx context.Context, userID uuid.UUID, cart *Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encoding cart snapshot: %w", err)
	}
	if err := s.store.Set(ctx, s.keyer.CartKey(userID.String()), string(payload), s.ttl); err != nil {
		return fmt.Errorf("saving cart snapshot: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.Del(ctx, s.keyer.CartKey(userID.String())); err != nil {
		return fmt.Errorf("deleting cart snapshot: %w", err)
	}
	return nil
}
