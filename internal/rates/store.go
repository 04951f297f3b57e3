package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Entry is one cached rate with its fetch timestamp. Freshness is judged
// by the service, not the store; stores only retain and return entries.
type Entry struct {
	Rate      decimal.Decimal `json:"rate"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Store caches rate entries keyed by currency pair.
type Store interface {
	Get(ctx context.Context, pair string) (Entry, bool, error)
	Set(ctx context.Context, pair string, entry Entry) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Get(_ context.Context, pair string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[pair]
	return entry, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, pair string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[pair] = entry
	return nil
}

// RedisStore keeps rate entries in Redis so cached rates survive process
// restarts and are shared across instances. Keys expire after the
// retention window; within it, stale entries remain available for the
// degraded-provider fallback.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
	retention time.Duration
}

// NewRedisStore returns a Redis-backed store with a 24h retention window.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: "riskcore:rates:",
		retention: 24 * time.Hour,
	}
}

func (s *RedisStore) key(pair string) string {
	return s.keyPrefix + pair
}

func (s *RedisStore) Get(ctx context.Context, pair string) (Entry, bool, error) {
	payload, err := s.client.Get(ctx, s.key(pair)).Result()
	if err == redis.Nil {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis get %s: %w", pair, err)
	}
	var entry Entry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return Entry{}, false, fmt.Errorf("decode cached rate %s: %w", pair, err)
	}
	return entry, true, nil
}

func (s *RedisStore) Set(ctx context.Context, pair string, entry Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode rate %s: %w", pair, err)
	}
	if err := s.client.Set(ctx, s.key(pair), payload, s.retention).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", pair, err)
	}
	return nil
}
