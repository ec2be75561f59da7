package cart

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/arlomendez/techstore-backend/api/middleware"
	"github.com/arlomendez/techstore-backend/api/responses"
	"github.com/arlomendez/techstore-backend/api/validators"
	cartsvc "github.com/arlomendez/techstore-backend/internal/cart"
	"github.com/arlomendez/techstore-backend/internal/catalog"
	pkgerrors "github.com/arlomendez/techstore-backend/pkg/errors"
	"github.com/arlomendez/techstore-backend/pkg/logger"
)

// Fetch returns the authenticated user's cart.
func Fetch(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFromRequest(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newView(store))
	}
}

// AddItem resolves the product variant through the catalog and merges it
// into the cart. The requested quantity is clamped to available stock.
func AddItem(svc *cartsvc.Service, products catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFromRequest(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		selection, err := products.SelectVariant(r.Context(), payload.ProductID, payload.Color, payload.Storage)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item := cartsvc.Item{
			ProductID:      selection.Product.ID,
			Color:          selection.Color,
			Storage:        selection.Storage,
			Name:           selection.Name,
			Image:          selection.Image,
			UnitPriceCents: selection.UnitPriceCents,
		}
		qty := catalog.ClampQuantity(selection.Product, payload.Quantity)
		if err := store.Add(r.Context(), item, qty); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "add to cart"))
			return
		}

		responses.WriteSuccess(w, newView(store))
	}
}

// UpdateItem sets a line's quantity; zero removes the line.
func UpdateItem(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFromRequest(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload UpdateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		key := cartsvc.NewLineKey(payload.ProductID, payload.Color, payload.Storage)
		store.UpdateQuantity(r.Context(), key, *payload.Quantity)

		responses.WriteSuccess(w, newView(store))
	}
}

// RemoveItem deletes a line identified by query parameters. Removing an
// absent line succeeds.
func RemoveItem(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFromRequest(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(r.URL.Query().Get("productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		key := cartsvc.NewLineKey(productID, r.URL.Query().Get("color"), r.URL.Query().Get("storage"))
		store.Remove(r.Context(), key)

		responses.WriteSuccess(w, newView(store))
	}
}

// Clear empties the cart.
func Clear(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFromRequest(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store.Clear(r.Context())
		responses.WriteSuccess(w, newView(store))
	}
}

func storeFromRequest(r *http.Request, svc *cartsvc.Service) (*cartsvc.Store, error) {
	if svc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable")
	}
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	store, err := svc.StoreFor(r.Context(), userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return store, nil
}
