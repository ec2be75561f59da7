package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redispkg "github.com/arlomendez/techstore-backend/pkg/redis"
)

// SnapshotStore persists one user's full cart. Load reports whether a
// snapshot exists; Save overwrites it wholesale.
type SnapshotStore interface {
	Load(ctx context.Context) ([]Line, bool, error)
	Save(ctx context.Context, lines []Line) error
}

type snapshotClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CartSnapshotKey(userID string) string
}

// RedisSnapshotStore keeps cart snapshots as JSON blobs under a per-user key.
type RedisSnapshotStore struct {
	client snapshotClient
	userID string
	ttl    time.Duration
}

// NewRedisSnapshotStore builds a snapshot store for one user's key.
func NewRedisSnapshotStore(client *redispkg.Client, userID string, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, userID: userID, ttl: ttl}
}

// Load fetches and decodes the user's snapshot. A missing key reports no
// snapshot; a blob that fails to decode is treated the same way so a corrupt
// value cannot wedge the cart.
func (r *RedisSnapshotStore) Load(ctx context.Context) ([]Line, bool, error) {
	raw, err := r.client.Get(ctx, r.client.CartSnapshotKey(r.userID))
	if err != nil {
		if errors.Is(err, redispkg.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, false, nil
	}
	return lines, true, nil
}

// Save serializes the full cart and overwrites the user's snapshot key.
func (r *RedisSnapshotStore) Save(ctx context.Context, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	blob, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.client.CartSnapshotKey(r.userID), blob, r.ttl)
}

// MemorySnapshotStore is an in-process SnapshotStore for tests and for
// running without Redis.
type MemorySnapshotStore struct {
	blob []byte
	set  bool
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

func (m *MemorySnapshotStore) Load(_ context.Context) ([]Line, bool, error) {
	if !m.set {
		return nil, false, nil
	}
	var lines []Line
	if err := json.Unmarshal(m.blob, &lines); err != nil {
		return nil, false, nil
	}
	return lines, true, nil
}

func (m *MemorySnapshotStore) Save(_ context.Context, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	blob, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	m.blob = blob
	m.set = true
	return nil
}

// Seed overwrites the stored blob directly, bypassing encoding. Tests use it
// to stage corrupt or legacy payloads.
func (m *MemorySnapshotStore) Seed(blob []byte) {
	m.blob = blob
	m.set = true
}
