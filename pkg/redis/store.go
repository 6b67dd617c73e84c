package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/tickstate/pkg/snapshot"
)

// DefaultKeyPrefix namespaces snapshot keys.
const DefaultKeyPrefix = "tickstate:snapshot:"

// indexName is the key suffix of the sorted-set index. No snapshot may use it
// as its name.
const indexName = "_index"

// noExpiryScore is the index score of snapshots saved without a TTL (2100-01-01).
const noExpiryScore = 4102444800

// Store is a snapshot.Store backed by Redis. Each snapshot is stored as JSON
// under its own key, and a sorted set indexes names by expiry time so List
// does not need to scan the keyspace.
type Store struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ snapshot.Store = (*Store)(nil)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) StoreOption {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithTTL expires snapshots that have not been saved for ttl. Zero disables
// expiry.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.ttl = max(ttl, 0)
	}
}

// NewStore creates a snapshot store on top of an existing client.
func NewStore(client redis.UniversalClient, opts ...StoreOption) *Store {
	s := &Store{
		client: client,
		prefix: DefaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

func (s *Store) indexKey() string {
	return s.prefix + indexName
}

// Save stores snap under its name. The name _index is reserved for the index
// and rejected with ErrReservedName.
func (s *Store) Save(ctx context.Context, snap snapshot.Snapshot) error {
	if snap.Name == "" {
		return snapshot.ErrEmptyName
	}
	if snap.Name == indexName {
		return fmt.Errorf("%w: %q", ErrReservedName, snap.Name)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	score := float64(noExpiryScore)
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).Unix())
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(snap.Name), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: score, Member: snap.Name})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot %q: %w", snap.Name, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, name string) (snapshot.Snapshot, error) {
	if name == indexName {
		return snapshot.Snapshot{}, snapshot.ErrNotFound
	}
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return snapshot.Snapshot{}, snapshot.ErrNotFound
		}
		return snapshot.Snapshot{}, fmt.Errorf("failed to load snapshot %q: %w", name, err)
	}

	var snap snapshot.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return snapshot.Snapshot{}, errors.Join(ErrCorruptSnapshot, err)
	}
	return snap, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	if name == indexName {
		return nil
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete snapshot %q: %w", name, err)
	}
	return nil
}

// List returns stored names, pruning index entries whose keys have expired.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := fmt.Sprintf("%d", time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", "("+now).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune snapshot index: %w", err)
	}

	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return names, nil
}
