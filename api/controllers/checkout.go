package controllers

import (
	"net/http"

	"github.com/arlomendez/techstore-backend/api/middleware"
	"github.com/arlomendez/techstore-backend/api/responses"
	"github.com/arlomendez/techstore-backend/api/validators"
	cartsvc "github.com/arlomendez/techstore-backend/internal/cart"
	"github.com/arlomendez/techstore-backend/internal/orders"
	pkgerrors "github.com/arlomendez/techstore-backend/pkg/errors"
	"github.com/arlomendez/techstore-backend/pkg/logger"
	"github.com/arlomendez/techstore-backend/pkg/types"
)

// CheckoutRequest carries the customer details for order submission. The
// lines come from the server-side cart, never the client.
type CheckoutRequest struct {
	FullName    string `json:"fullName" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	FullAddress string `json:"fullAddress" validate:"required"`
}

// CheckoutResponse wraps the persisted order with a display total.
type CheckoutResponse struct {
	OrderID      string `json:"orderId"`
	Status       string `json:"status"`
	TotalCents   int    `json:"totalCents"`
	TotalDisplay string `json:"totalDisplay"`
	ItemCount    int    `json:"itemCount"`
}

// Checkout submits the user's cart as an order and clears the cart on
// success.
func Checkout(ordersSvc orders.Service, carts *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing"))
			return
		}

		var payload CheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := carts.StoreFor(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart"))
			return
		}

		order, err := ordersSvc.Submit(r.Context(), orders.SubmitInput{
			UserID: userID,
			Customer: types.CustomerInfo{
				FullName:    payload.FullName,
				PhoneNumber: payload.PhoneNumber,
				Email:       payload.Email,
				FullAddress: payload.FullAddress,
			},
			Lines: store.Lines(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Clear(r.Context())

		itemCount := 0
		for _, item := range order.Items {
			itemCount += item.Quantity
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, CheckoutResponse{
			OrderID:      order.ID.String(),
			Status:       string(order.Status),
			TotalCents:   order.TotalAmountCents,
			TotalDisplay: orders.DisplayTotal(order.TotalAmountCents),
			ItemCount:    itemCount,
		})
	}
}
