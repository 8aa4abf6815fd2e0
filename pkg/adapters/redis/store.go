package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anaradzetski/keyboard/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store and the locker.
const DefaultPrefix = "keyboard:"

// Store implements ports.SessionStore using Redis.
// It lets several engine replicas serve the same sessions; it is not meant to
// keep positions across restarts of a single process.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for sessions. Every write refreshes it.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(sessionID string) string {
	return s.prefix + "session:" + sessionID
}

func (s *Store) indexKey() string {
	return s.prefix + "sessions"
}

// score is the index expiry of a session written now.
func (s *Store) score() float64 {
	if s.ttl == 0 {
		return 4102444800 // 2100-01-01
	}
	return float64(time.Now().Add(s.ttl).Unix())
}

// Start positions the session at root.
func (s *Store) Start(ctx context.Context, sessionID, root string) (bool, error) {
	pipe := s.client.TxPipeline()
	exists := pipe.Exists(ctx, s.key(sessionID))
	pipe.Set(ctx, s.key(sessionID), root, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: s.score(), Member: sessionID})

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to start session in redis: %w", err)
	}
	return exists.Val() > 0, nil
}

// Get returns the current address of the session.
func (s *Store) Get(ctx context.Context, sessionID string) (string, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", domain.ErrNotStarted
		}
		return "", fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

// Set moves a live session. SET XX never resurrects an expired or ended session.
func (s *Store) Set(ctx context.Context, sessionID, address string) error {
	ok, err := s.client.SetXX(ctx, s.key(sessionID), address, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	if !ok {
		return domain.ErrNotStarted
	}
	if err := s.client.ZAdd(ctx, s.indexKey(), backend.Z{Score: s.score(), Member: sessionID}).Err(); err != nil {
		return fmt.Errorf("failed to refresh session index: %w", err)
	}
	return nil
}

// End removes the session.
func (s *Store) End(ctx context.Context, sessionID string) (bool, error) {
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, s.key(sessionID))
	pipe.ZRem(ctx, s.indexKey(), sessionID)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to end session in redis: %w", err)
	}
	return del.Val() > 0, nil
}

// List returns active sessions from the index, pruning expired entries lazily.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired sessions: %w", err)
	}

	sessions, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
