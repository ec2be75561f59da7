package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arlomendez/techstore-backend/internal/cart"
	"github.com/arlomendez/techstore-backend/pkg/db/models"
	"github.com/arlomendez/techstore-backend/pkg/enums"
	"github.com/arlomendez/techstore-backend/pkg/logger"
)

// Listener consumes cart event channels and records the transient
// "Added: <name>" toasts. Each toast carries an expiry; the list endpoint
// hides rows past it, so the display window is enforced at read time.
type Listener struct {
	repo        Repository
	toastExpiry time.Duration
	logg        *logger.Logger

	wg sync.WaitGroup
}

// NewListener builds the cart event listener.
func NewListener(repo Repository, toastExpiry time.Duration, logg *logger.Logger) (*Listener, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if toastExpiry <= 0 {
		toastExpiry = 2 * time.Second
	}
	return &Listener{
		repo:        repo,
		toastExpiry: toastExpiry,
		logg:        logg,
	}, nil
}

// Watch consumes one user's cart events until the channel closes or the
// context is canceled. Safe to call once per hydrated cart store; the cart
// registry's subscribe hook is the expected caller.
func (l *Listener) Watch(ctx context.Context, userID string, events <-chan cart.Event) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				l.handle(ctx, userID, evt)
			}
		}
	}()
}

// Wait blocks until all watch goroutines have exited.
func (l *Listener) Wait() {
	l.wg.Wait()
}

func (l *Listener) handle(ctx context.Context, userID string, evt cart.Event) {
	if evt.Type != cart.EventItemAdded {
		return
	}
	now := evt.OccurredAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	expires := now.Add(l.toastExpiry)
	notification := &models.Notification{
		UserID:    userID,
		Type:      enums.NotificationTypeCartItemAdded,
		Title:     "Added to cart",
		Message:   fmt.Sprintf("Added: %s", evt.ProductName),
		ExpiresAt: &expires,
		CreatedAt: now,
	}
	if err := l.repo.Create(ctx, notification); err != nil {
		l.logg.Error(l.logg.WithUserID(ctx, userID), "toast notification write failed", err)
	}
}
