package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/arlomendez/techstore-backend/internal/cart"
	"github.com/arlomendez/techstore-backend/pkg/db/models"
	"github.com/arlomendez/techstore-backend/pkg/enums"
	pkgerrors "github.com/arlomendez/techstore-backend/pkg/errors"
	"github.com/arlomendez/techstore-backend/pkg/logger"
	"github.com/arlomendez/techstore-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderNotifier interface {
	OrderPlaced(ctx context.Context, userID string, orderID uuid.UUID, totalCents int) error
}

// Service defines order submission and reads.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.Order, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, userID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	publisher EventPublisher
	notifier  orderNotifier
	logg      *logger.Logger
}

// NewService builds the orders service. Publisher and notifier are optional;
// absent collaborators degrade to log-only.
func NewService(repo Repository, tx txRunner, publisher EventPublisher, notifier orderNotifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		publisher: publisher,
		notifier:  notifier,
		logg:      logg,
	}, nil
}

// SubmitInput carries the cart snapshot and customer details for checkout.
type SubmitInput struct {
	UserID   string
	Customer types.CustomerInfo
	Lines    []cart.Line
}

// Submit validates the checkout payload, persists the order with its items in
// one transaction, then fires the order-created event and the in-app
// notification best-effort. The caller clears the cart after a successful
// submission.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.Order, error) {
	if input.UserID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if missing := input.Customer.Validate(); missing != "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("customer %s is required", missing))
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	items := make([]models.OrderItem, 0, len(input.Lines))
	total := 0
	itemCount := 0
	for _, line := range input.Lines {
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		key := line.Key()
		items = append(items, models.OrderItem{
			ProductID:         line.ProductID,
			Name:              line.Name,
			Image:             line.Image,
			Color:             key.Color,
			Storage:           key.Storage,
			UnitPriceCents:    line.UnitPriceCents,
			Quantity:          line.Quantity,
			LineSubtotalCents: line.SubtotalCents(),
		})
		total += line.SubtotalCents()
		itemCount += line.Quantity
	}

	order := &models.Order{
		UserID:           input.UserID,
		Customer:         input.Customer,
		Items:            items,
		TotalAmountCents: total,
		Status:           enums.OrderStatusPending,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}

	s.afterSubmit(ctx, order, itemCount)
	return order, nil
}

// afterSubmit runs the fire-and-forget side effects: the order is already
// committed, so failures here are logged, never surfaced.
func (s *service) afterSubmit(ctx context.Context, order *models.Order, itemCount int) {
	if s.publisher != nil {
		event := OrderCreatedEvent{
			OrderID:          order.ID,
			UserID:           order.UserID,
			TotalAmountCents: order.TotalAmountCents,
			ItemCount:        itemCount,
			Status:           order.Status,
		}
		if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
			s.logg.Error(ctx, "order event publish failed", err)
		}
	}
	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, order.UserID, order.ID, order.TotalAmountCents); err != nil {
			s.logg.Error(ctx, "order notification failed", err)
		}
	}
}

func (s *service) Get(ctx context.Context, userID string, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if userID != "" && order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, userID string) ([]models.Order, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

// UpdateStatus moves the order through its lifecycle. Admin-only at the API
// layer; cancelled and delivered are terminal.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	order, err := s.Get(ctx, "", id)
	if err != nil {
		return nil, err
	}
	if order.Status == enums.OrderStatusDelivered || order.Status == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is in a terminal state")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = status
	return order, nil
}

// DisplayTotal formats cents as a dollar string for receipts and responses.
func DisplayTotal(cents int) string {
	return decimal.NewFromInt(int64(cents)).Div(decimal.NewFromInt(100)).StringFixed(2)
}
