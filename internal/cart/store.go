package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arlomendez/techstore-backend/pkg/logger"
	"github.com/arlomendez/techstore-backend/pkg/metrics"
)

// Store holds one user's cart in memory and mirrors every mutation to the
// snapshot store. Memory is authoritative: a failed write is logged and the
// in-memory state stands. A single mutex covers all operations; carts are
// small and per-user contention is rare.
type Store struct {
	mu    sync.Mutex
	lines []Line

	userID  string
	snaps   SnapshotStore
	events  chan Event
	closed  bool
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// NewStore builds a store for one user and hydrates it from the snapshot
// store. An absent or unreadable snapshot yields an empty cart, never an
// error: the user can always shop.
func NewStore(ctx context.Context, userID string, snaps SnapshotStore, eventBuffer int, logg *logger.Logger, cartMetrics *metrics.CartMetrics) (*Store, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}
	if snaps == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if eventBuffer <= 0 {
		eventBuffer = 16
	}

	s := &Store{
		userID:  userID,
		snaps:   snaps,
		events:  make(chan Event, eventBuffer),
		logg:    logg,
		metrics: cartMetrics,
	}

	lines, ok, err := snaps.Load(ctx)
	if err != nil {
		logg.Error(ctx, "cart snapshot load failed, starting empty", err)
	} else if ok {
		s.lines = lines
	}
	return s, nil
}

// Subscribe returns the store's event channel. Events are dropped, not
// queued, when the consumer falls behind.
func (s *Store) Subscribe() <-chan Event {
	return s.events
}

// Add merges qty into the line identified by item's key, or appends a new
// line. Merging keeps the existing unit price: the price captured at first
// addition is the price of the line.
func (s *Store) Add(ctx context.Context, item Item, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive")
	}

	s.mu.Lock()
	key := item.Key()
	if i := s.indexOf(key); i >= 0 {
		s.lines[i].Quantity += qty
	} else {
		s.lines = append(s.lines, Line{
			ProductID:      item.ProductID,
			Color:          key.Color,
			Storage:        key.Storage,
			Name:           item.Name,
			Image:          item.Image,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       qty,
		})
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.metrics.IncOperation("add")
	s.publish(ctx, Event{
		Type:        EventItemAdded,
		UserID:      s.userID,
		Key:         key,
		ProductName: item.Name,
		Quantity:    qty,
		OccurredAt:  time.Now().UTC(),
	})
	return nil
}

// UpdateQuantity sets the line's quantity to qty. Zero or negative removes
// the line. An absent key is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, key LineKey, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(key)
	if i < 0 {
		return
	}
	if qty <= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	} else {
		s.lines[i].Quantity = qty
	}
	s.persistLocked(ctx)
	s.metrics.IncOperation("update_quantity")
}

// Remove deletes the line with the given key. Removing an absent key is a
// no-op; the snapshot is still rewritten.
func (s *Store) Remove(ctx context.Context, key LineKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(key); i >= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	}
	s.persistLocked(ctx)
	s.metrics.IncOperation("remove")
}

// Clear empties the cart unconditionally.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.persistLocked(ctx)
	s.metrics.IncOperation("clear")
}

// Total returns the sum of unit price times quantity across all lines.
func (s *Store) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, l := range s.lines {
		total += l.SubtotalCents()
	}
	return total
}

// ItemCount returns the sum of quantities across all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// Lines returns a copy of the cart's lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Close writes a final snapshot and closes the event channel. Unlike the
// mutation path it surfaces the write error so shutdown can report it.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]Line, len(s.lines))
	copy(snapshot, s.lines)
	err := s.snaps.Save(ctx, snapshot)

	if !s.closed {
		s.closed = true
		close(s.events)
	}
	return err
}

func (s *Store) indexOf(key LineKey) int {
	for i, l := range s.lines {
		if l.Key() == key {
			return i
		}
	}
	return -1
}

// persistLocked writes the full cart to the snapshot store. Callers hold the
// mutex. Failures are logged and swallowed; memory stays authoritative.
func (s *Store) persistLocked(ctx context.Context) {
	snapshot := make([]Line, len(s.lines))
	copy(snapshot, s.lines)

	if err := s.snaps.Save(ctx, snapshot); err != nil {
		s.logg.Error(s.logg.WithUserID(ctx, s.userID), "cart snapshot save failed", err)
		s.metrics.IncPersistFailure()
	}
	s.metrics.ObserveLineCount(len(snapshot))
}
