// Package redis provides Redis backed session status storage and router claims.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/midiroute/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by this package.
const DefaultPrefix = "midiroute:status:"

// DefaultHistorySize bounds the per-router session history list.
const DefaultHistorySize = 20

// saveScript writes the snapshot and pushes its session ID onto the history
// list unless it is already at the head.
// KEYS: snapshot, history. ARGV: payload, session ID, history size, ttl ms.
var saveScript = backend.NewScript(`
local ttl = tonumber(ARGV[4])
if ttl > 0 then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ttl)
else
	redis.call("SET", KEYS[1], ARGV[1])
end
if redis.call("LINDEX", KEYS[2], 0) ~= ARGV[2] then
	redis.call("LPUSH", KEYS[2], ARGV[2])
	redis.call("LTRIM", KEYS[2], 0, tonumber(ARGV[3]) - 1)
end
if ttl > 0 then
	redis.call("PEXPIRE", KEYS[2], ttl)
end
return 1
`)

// Store implements ports.StatusStore using Redis.
type Store struct {
	client      *backend.Client
	prefix      string
	ttl         time.Duration
	historySize int
}

type Option func(*Store)

// WithTTL expires snapshots that are not refreshed within ttl.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithHistorySize sets how many session IDs are kept per router.
func WithHistorySize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.historySize = n
		}
	}
}

// New creates a store connected to address.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromURL creates a store from a redis:// URL.
func NewFromURL(url string, opts ...Option) (*Store, error) {
	o, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(o), opts...), nil
}

// NewFromClient creates a store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client:      client,
		prefix:      DefaultPrefix,
		historySize: DefaultHistorySize,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client returns the underlying client.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(routerID string) string {
	return s.prefix + routerID
}

func (s *Store) historyKey(routerID string) string {
	return s.prefix + routerID + ":history"
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Save stores snap as the latest snapshot of routerID.
func (s *Store) Save(ctx context.Context, routerID string, snap domain.SessionSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	keys := []string{s.key(routerID), s.historyKey(routerID)}
	err = saveScript.Run(ctx, s.client, keys, data, snap.SessionID, s.historySize, s.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load returns the latest snapshot of routerID.
func (s *Store) Load(ctx context.Context, routerID string) (domain.SessionSnapshot, error) {
	val, err := s.client.Get(ctx, s.key(routerID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.SessionSnapshot{}, domain.ErrSnapshotNotFound
		}
		return domain.SessionSnapshot{}, fmt.Errorf("failed to get from redis: %w", err)
	}

	var snap domain.SessionSnapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return domain.SessionSnapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap, nil
}

// History returns recent session IDs of routerID, newest first.
func (s *Store) History(ctx context.Context, routerID string) ([]string, error) {
	ids, err := s.client.LRange(ctx, s.historyKey(routerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return ids, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
