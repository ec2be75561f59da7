package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/arlomendez/techstore-backend/internal/orders"
	"github.com/arlomendez/techstore-backend/pkg/db/models"
	"github.com/arlomendez/techstore-backend/pkg/enums"
	pkgerrors "github.com/arlomendez/techstore-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service defines notification list/read operations plus the recording
// entrypoints other services call.
type Service interface {
	List(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID string, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	OrderPlaced(ctx context.Context, userID string, orderID uuid.UUID, totalCents int) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) List(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.List(ctx, ListQuery{
		UserID:     userID,
		UnreadOnly: unreadOnly,
		Now:        s.now().UTC(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	return rows, nil
}

func (s *service) MarkRead(ctx context.Context, userID string, id uuid.UUID) error {
	if userID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}
	found, err := s.repo.MarkRead(ctx, userID, id, s.now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	count, err := s.repo.MarkAllRead(ctx, userID, s.now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

// OrderPlaced records the order confirmation notification. Called by the
// orders service after commit.
func (s *service) OrderPlaced(ctx context.Context, userID string, orderID uuid.UUID, totalCents int) error {
	if userID == "" || orderID == uuid.Nil {
		return fmt.Errorf("order notification needs user and order ids")
	}
	link := fmt.Sprintf("/orders/%s", orderID)
	return s.repo.Create(ctx, &models.Notification{
		UserID:  userID,
		Type:    enums.NotificationTypeOrderAlert,
		Title:   "Order placed",
		Message: fmt.Sprintf("Your order for $%s was received and is pending.", orders.DisplayTotal(totalCents)),
		Link:    &link,
	})
}
