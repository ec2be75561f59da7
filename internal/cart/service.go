package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/arlomendez/techstore-backend/pkg/logger"
	"github.com/arlomendez/techstore-backend/pkg/metrics"
	"go.uber.org/multierr"
)

// SnapshotFactory builds the snapshot store backing one user's cart.
type SnapshotFactory func(userID string) SnapshotStore

// Service is the per-user cart registry. Stores are hydrated lazily on first
// access and held for the life of the process.
type Service struct {
	mu     sync.Mutex
	stores map[string]*Store

	factory     SnapshotFactory
	eventBuffer int
	logg        *logger.Logger
	metrics     *metrics.CartMetrics
	onSubscribe func(userID string, events <-chan Event)
}

// NewService builds the registry. onSubscribe, when set, is invoked once per
// hydrated store with its event channel; the notifications listener hooks in
// here.
func NewService(factory SnapshotFactory, eventBuffer int, logg *logger.Logger, cartMetrics *metrics.CartMetrics, onSubscribe func(userID string, events <-chan Event)) (*Service, error) {
	if factory == nil {
		return nil, fmt.Errorf("snapshot factory required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		stores:      map[string]*Store{},
		factory:     factory,
		eventBuffer: eventBuffer,
		logg:        logg,
		metrics:     cartMetrics,
		onSubscribe: onSubscribe,
	}, nil
}

// StoreFor returns the user's cart store, hydrating it from its snapshot on
// first access.
func (s *Service) StoreFor(ctx context.Context, userID string) (*Store, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if store, ok := s.stores[userID]; ok {
		return store, nil
	}

	store, err := NewStore(ctx, userID, s.factory(userID), s.eventBuffer, s.logg, s.metrics)
	if err != nil {
		return nil, err
	}
	s.stores[userID] = store
	if s.onSubscribe != nil {
		s.onSubscribe(userID, store.Subscribe())
	}
	return store, nil
}

// Close flushes and closes every hydrated store, aggregating write errors.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs error
	for userID, store := range s.stores {
		if err := store.Close(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("flush cart for user %s: %w", userID, err))
		}
	}
	s.stores = map[string]*Store{}
	return errs
}
