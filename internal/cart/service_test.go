package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, map[string]*MemorySnapshotStore) {
	t.Helper()
	snaps := map[string]*MemorySnapshotStore{}
	factory := func(userID string) SnapshotStore {
		if _, ok := snaps[userID]; !ok {
			snaps[userID] = NewMemorySnapshotStore()
		}
		return snaps[userID]
	}
	svc, err := NewService(factory, 16, testLogger(), nil, nil)
	require.NoError(t, err)
	return svc, snaps
}

func TestServiceRequiresFactoryAndLogger(t *testing.T) {
	_, err := NewService(nil, 16, testLogger(), nil, nil)
	assert.Error(t, err)

	_, err = NewService(func(string) SnapshotStore { return NewMemorySnapshotStore() }, 16, nil, nil, nil)
	assert.Error(t, err)
}

func TestStoreForIsLazyAndCached(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.StoreFor(ctx, "user-1")
	require.NoError(t, err)
	again, err := svc.StoreFor(ctx, "user-1")
	require.NoError(t, err)
	assert.Same(t, first, again)

	other, err := svc.StoreFor(ctx, "user-2")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestStoreForRejectsEmptyUser(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.StoreFor(context.Background(), "")
	assert.Error(t, err)
}

func TestStoresAreIsolatedPerUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.StoreFor(ctx, "user-1")
	require.NoError(t, err)
	b, err := svc.StoreFor(ctx, "user-2")
	require.NoError(t, err)

	require.NoError(t, a.Add(ctx, phoneItem(99900), 2))
	assert.Equal(t, 2, a.ItemCount())
	assert.Equal(t, 0, b.ItemCount())
}

func TestServiceRehydratesFromSnapshotAfterClose(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	store, err := svc.StoreFor(ctx, "user-1")
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, phoneItem(99900), 3))
	require.NoError(t, svc.Close(ctx))

	rehydrated, err := svc.StoreFor(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, rehydrated.ItemCount())
}

func TestCloseAggregatesFlushErrors(t *testing.T) {
	calls := 0
	factory := func(userID string) SnapshotStore {
		calls++
		return &failingSnapshotStore{saveErr: errors.New("write refused")}
	}
	svc, err := NewService(factory, 16, testLogger(), nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.StoreFor(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.StoreFor(ctx, "user-2")
	require.NoError(t, err)

	err = svc.Close(ctx)
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestOnSubscribeHookReceivesEventChannel(t *testing.T) {
	var gotUser string
	var gotCh <-chan Event
	factory := func(string) SnapshotStore { return NewMemorySnapshotStore() }
	svc, err := NewService(factory, 16, testLogger(), nil, func(userID string, events <-chan Event) {
		gotUser = userID
		gotCh = events
	})
	require.NoError(t, err)
	ctx := context.Background()

	store, err := svc.StoreFor(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, gotCh)
	assert.Equal(t, "user-1", gotUser)

	require.NoError(t, store.Add(ctx, phoneItem(99900), 1))
	select {
	case evt := <-gotCh:
		assert.Equal(t, EventItemAdded, evt.Type)
		assert.Equal(t, "user-1", evt.UserID)
	default:
		t.Fatal("expected event on subscribed channel")
	}
}
