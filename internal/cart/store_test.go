package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/arlomendez/techstore-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cart-test", Output: io.Discard})
}

func newTestStore(t *testing.T) (*Store, *MemorySnapshotStore) {
	t.Helper()
	snaps := NewMemorySnapshotStore()
	store, err := NewStore(context.Background(), "user-1", snaps, 16, testLogger(), nil)
	require.NoError(t, err)
	return store, snaps
}

func phoneItem(price int) Item {
	return Item{
		ProductID:      uuid.MustParse("3e8c2a1f-1111-4222-8333-444455556666"),
		Color:          "Titanium Black",
		Storage:        "256GB",
		Name:           "Phone Pro",
		Image:          "https://cdn.example.com/phone.jpg",
		UnitPriceCents: price,
	}
}

func TestAddMergesSameIdentity(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, phoneItem(99900), 2))
	require.NoError(t, store.Add(ctx, phoneItem(99900), 3))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestAddKeepsFirstPriceOnMerge(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, phoneItem(99900), 1))
	require.NoError(t, store.Add(ctx, phoneItem(109900), 1))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 99900, lines[0].UnitPriceCents)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAddDiscriminatesVariantAxes(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	black := phoneItem(99900)
	silver := phoneItem(99900)
	silver.Color = "Silver"

	require.NoError(t, store.Add(ctx, black, 2))
	require.NoError(t, store.Add(ctx, silver, 4))

	lines := store.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 4, lines[1].Quantity)
}

func TestEmptyVariantAxesCollapseToDefault(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	bare := Item{ProductID: uuid.New(), Name: "Earbuds", UnitPriceCents: 12900}
	explicit := bare
	explicit.Color = DefaultVariant
	explicit.Storage = DefaultVariant

	require.NoError(t, store.Add(ctx, bare, 1))
	require.NoError(t, store.Add(ctx, explicit, 1))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, DefaultVariant, lines[0].Color)
	assert.Equal(t, DefaultVariant, lines[0].Storage)
}

func TestRemoveAbsentIdentityIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, phoneItem(99900), 2))
	store.Remove(ctx, NewLineKey(uuid.New(), "Silver", "1TB"))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestUpdateQuantitySetsAbsoluteValue(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	item := phoneItem(99900)
	require.NoError(t, store.Add(ctx, item, 2))
	store.UpdateQuantity(ctx, item.Key(), 5)

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	item := phoneItem(99900)
	require.NoError(t, store.Add(ctx, item, 2))
	store.UpdateQuantity(ctx, item.Key(), 0)

	assert.Empty(t, store.Lines())
	assert.Equal(t, 0, store.ItemCount())
}

func TestUpdateQuantityAbsentKeyIsNoop(t *testing.T) {
	store, snaps := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, phoneItem(99900), 2))
	before, _, err := snaps.Load(ctx)
	require.NoError(t, err)

	store.UpdateQuantity(ctx, NewLineKey(uuid.New(), "", ""), 7)

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	after, _, err := snaps.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTotalAndItemCount(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	a := phoneItem(1000)
	b := Item{ProductID: uuid.New(), Name: "Case", UnitPriceCents: 500}
	require.NoError(t, store.Add(ctx, a, 2))
	require.NoError(t, store.Add(ctx, b, 3))

	assert.Equal(t, 3500, store.Total())
	assert.Equal(t, 5, store.ItemCount())
}

func TestClearedCartDefaults(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, phoneItem(99900), 2))
	store.Clear(ctx)

	assert.Equal(t, 0, store.Total())
	assert.Equal(t, 0, store.ItemCount())
	assert.Empty(t, store.Lines())
}

func TestEveryMutationPersistsFullSnapshot(t *testing.T) {
	store, snaps := newTestStore(t)
	ctx := context.Background()

	item := phoneItem(99900)
	require.NoError(t, store.Add(ctx, item, 2))
	assertSnapshotMatchesMemory(t, store, snaps)

	store.UpdateQuantity(ctx, item.Key(), 5)
	assertSnapshotMatchesMemory(t, store, snaps)

	other := Item{ProductID: uuid.New(), Name: "Charger", UnitPriceCents: 2900}
	require.NoError(t, store.Add(ctx, other, 1))
	assertSnapshotMatchesMemory(t, store, snaps)

	store.Remove(ctx, other.Key())
	assertSnapshotMatchesMemory(t, store, snaps)

	store.Clear(ctx)
	assertSnapshotMatchesMemory(t, store, snaps)
}

func assertSnapshotMatchesMemory(t *testing.T, store *Store, snaps *MemorySnapshotStore) {
	t.Helper()
	persisted, ok, err := snaps.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	want := map[LineKey]Line{}
	for _, l := range store.Lines() {
		want[l.Key()] = l
	}
	got := map[LineKey]Line{}
	for _, l := range persisted {
		got[l.Key()] = l
	}
	assert.Equal(t, want, got)
}

func TestHydrationFromSnapshot(t *testing.T) {
	snaps := NewMemorySnapshotStore()
	ctx := context.Background()

	first, err := NewStore(ctx, "user-1", snaps, 16, testLogger(), nil)
	require.NoError(t, err)
	require.NoError(t, first.Add(ctx, phoneItem(99900), 2))

	second, err := NewStore(ctx, "user-1", snaps, 16, testLogger(), nil)
	require.NoError(t, err)
	assert.Equal(t, first.Lines(), second.Lines())
	assert.Equal(t, first.Total(), second.Total())
}

func TestHydrationCorruptSnapshotYieldsEmptyCart(t *testing.T) {
	snaps := NewMemorySnapshotStore()
	snaps.Seed([]byte("{not json"))

	store, err := NewStore(context.Background(), "user-1", snaps, 16, testLogger(), nil)
	require.NoError(t, err)
	assert.Empty(t, store.Lines())
	assert.Equal(t, 0, store.Total())
	assert.Equal(t, 0, store.ItemCount())
}

type failingSnapshotStore struct {
	loadErr error
	saveErr error
	saved   [][]Line
}

func (f *failingSnapshotStore) Load(context.Context) ([]Line, bool, error) {
	return nil, false, f.loadErr
}

func (f *failingSnapshotStore) Save(_ context.Context, lines []Line) error {
	f.saved = append(f.saved, lines)
	return f.saveErr
}

func TestHydrationLoadErrorYieldsEmptyCart(t *testing.T) {
	snaps := &failingSnapshotStore{loadErr: errors.New("redis down")}

	store, err := NewStore(context.Background(), "user-1", snaps, 16, testLogger(), nil)
	require.NoError(t, err)
	assert.Empty(t, store.Lines())
}

func TestPersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	snaps := &failingSnapshotStore{saveErr: errors.New("write refused")}
	store, err := NewStore(context.Background(), "user-1", snaps, 16, testLogger(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, phoneItem(99900), 2))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Len(t, snaps.saved, 1)
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Error(t, store.Add(context.Background(), phoneItem(99900), 0))
	assert.Error(t, store.Add(context.Background(), phoneItem(99900), -1))
	assert.Empty(t, store.Lines())
}

func TestAddEmitsItemAddedEvent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	item := phoneItem(99900)
	require.NoError(t, store.Add(ctx, item, 2))

	select {
	case evt := <-store.Subscribe():
		assert.Equal(t, EventItemAdded, evt.Type)
		assert.Equal(t, "Phone Pro", evt.ProductName)
		assert.Equal(t, item.Key(), evt.Key)
		assert.Equal(t, 2, evt.Quantity)
		assert.False(t, evt.OccurredAt.IsZero())
	default:
		t.Fatal("expected an item_added event")
	}
}

func TestFullEventBufferDropsInsteadOfBlocking(t *testing.T) {
	snaps := NewMemorySnapshotStore()
	store, err := NewStore(context.Background(), "user-1", snaps, 1, testLogger(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, phoneItem(99900), 1))
	require.NoError(t, store.Add(ctx, phoneItem(99900), 1))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestSnapshotBlobIsPlainJSON(t *testing.T) {
	store, snaps := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, phoneItem(99900), 2))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(snaps.blob, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Phone Pro", decoded[0]["name"])
	assert.Equal(t, float64(2), decoded[0]["quantity"])
}
