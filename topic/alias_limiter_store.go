package topic

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hivelink/broker/store"
)

// PebbleUsageStore persists the AliasLimiter's tracked-byte total through
// the broker's generic store.PebbleStore[T], so a restarted broker recovers
// its accounting without waiting for every session to reconnect and
// re-establish aliases. Adapts store/pebble.go's Save/Load pair, which
// already does exactly the key/value bookkeeping this needs, instead of
// talking to *pebble.DB directly.
type PebbleUsageStore struct {
	store *store.PebbleStore[int64]
	key   string
	mu    sync.Mutex
}

// NewPebbleUsageStore wires a limiter to an already-opened Pebble-backed
// store for alias-usage accounting under key.
func NewPebbleUsageStore(s *store.PebbleStore[int64], key string) *PebbleUsageStore {
	return &PebbleUsageStore{store: s, key: key}
}

// Load returns the persisted total, 0 if the key has never been written.
func (s *PebbleUsageStore) Load() (int64, error) {
	total, err := s.store.Load(context.Background(), s.key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return total, nil
}

// Add applies delta to the persisted total under a read-modify-write lock;
// store.PebbleStore has no atomic increment, so the limiter serializes
// writers itself.
func (s *PebbleUsageStore) Add(delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	total, err := s.Load()
	if err != nil {
		return err
	}
	total += delta
	return s.store.Save(context.Background(), s.key, total)
}

// RedisUsageStore persists the AliasLimiter's tracked-byte total through the
// broker's generic store.RedisStore[T], for a clustered broker where byte
// accounting must be shared across broker processes. Adapts store/redis.go's
// Save/Load pair rather than issuing raw INCRBY against a bare client.
type RedisUsageStore struct {
	store *store.RedisStore[int64]
	key   string
	mu    sync.Mutex
}

// NewRedisUsageStore wires a limiter to an already-opened Redis-backed store
// at key.
func NewRedisUsageStore(s *store.RedisStore[int64], key string) *RedisUsageStore {
	return &RedisUsageStore{store: s, key: key}
}

// Load reads the counter's current value, 0 if unset.
func (s *RedisUsageStore) Load() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	total, err := s.store.Load(ctx, s.key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return total, nil
}

// Add applies delta under a read-modify-write lock, mirroring
// PebbleUsageStore — store.RedisStore's Save/Load round-trips through JSON
// rather than exposing INCRBY, so the limiter again serializes writers
// itself instead of relying on a server-side atomic.
func (s *RedisUsageStore) Add(delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	total, err := s.Load()
	if err != nil {
		return err
	}
	total += delta

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.store.Save(ctx, s.key, total)
}
