package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	redispkg "github.com/arlomendez/techstore-backend/pkg/redis"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	data map[string]string
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.data[key]
	if !ok {
		return "", redispkg.Nil
	}
	return v, nil
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if f.err != nil {
		return f.err
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return nil
}

func (f *fakeRedis) CartSnapshotKey(userID string) string {
	return "ts:cart:" + userID
}

func TestRedisSnapshotRoundTrip(t *testing.T) {
	client := newFakeRedis()
	store := &RedisSnapshotStore{client: client, userID: "user-1", ttl: time.Hour}
	ctx := context.Background()

	lines := []Line{{
		ProductID:      uuid.New(),
		Color:          "Silver",
		Storage:        "512GB",
		Name:           "Laptop Air",
		UnitPriceCents: 129900,
		Quantity:       1,
	}}
	require.NoError(t, store.Save(ctx, lines))

	got, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, lines, got)
}

func TestRedisSnapshotMissingKey(t *testing.T) {
	store := &RedisSnapshotStore{client: newFakeRedis(), userID: "user-1"}

	got, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRedisSnapshotCorruptBlobTreatedAsAbsent(t *testing.T) {
	client := newFakeRedis()
	client.data["ts:cart:user-1"] = "{{{"
	store := &RedisSnapshotStore{client: client, userID: "user-1"}

	got, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRedisSnapshotSurfacesTransportErrors(t *testing.T) {
	client := newFakeRedis()
	client.err = errors.New("connection reset")
	store := &RedisSnapshotStore{client: client, userID: "user-1"}

	_, _, err := store.Load(context.Background())
	require.Error(t, err)
	require.Error(t, store.Save(context.Background(), nil))
}

func TestRedisSnapshotSaveNilWritesEmptyArray(t *testing.T) {
	client := newFakeRedis()
	store := &RedisSnapshotStore{client: client, userID: "user-1"}

	require.NoError(t, store.Save(context.Background(), nil))
	assert.Equal(t, "[]", client.data["ts:cart:user-1"])
}
