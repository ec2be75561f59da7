package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/arlomendez/techstore-backend/api/responses"
	"github.com/arlomendez/techstore-backend/api/validators"
	"github.com/arlomendez/techstore-backend/internal/catalog"
	"github.com/arlomendez/techstore-backend/pkg/db/models"
	"github.com/arlomendez/techstore-backend/pkg/enums"
	pkgerrors "github.com/arlomendez/techstore-backend/pkg/errors"
	"github.com/arlomendez/techstore-backend/pkg/logger"
)

// ProductPayload is the admin create/update body.
type ProductPayload struct {
	Handle             string            `json:"handle" validate:"required"`
	Name               string            `json:"name" validate:"required"`
	Category           string            `json:"category" validate:"required"`
	Description        *string           `json:"description"`
	PriceCents         int               `json:"priceCents" validate:"min=0"`
	Stock              int               `json:"stock" validate:"min=0"`
	Rating             float64           `json:"rating" validate:"min=0,max=5"`
	Image              string            `json:"image" validate:"required"`
	Colors             []string          `json:"colors"`
	StorageOptions     []string          `json:"storageOptions"`
	Features           []string          `json:"features"`
	Specs              map[string]string `json:"specs"`
	ColorImages        map[string]string `json:"colorImages"`
	StorageUpliftCents map[string]int    `json:"storageUpliftCents"`
	IsActive           *bool             `json:"isActive"`
}

// ListProducts serves the public catalog listing.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := catalog.ListFilter{ActiveOnly: true}
		if raw := r.URL.Query().Get("category"); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			filter.Category = &category
		}
		filter.SearchQuery = r.URL.Query().Get("q")

		products, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// AdminListProducts lists the catalog including inactive products.
func AdminListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := catalog.ListFilter{}
		if raw := r.URL.Query().Get("category"); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			filter.Category = &category
		}
		filter.SearchQuery = r.URL.Query().Get("q")

		products, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// GetProduct serves a single product by id.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDFromRoute(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// CreateProduct handles admin product creation.
func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload ProductPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := productFromPayload(payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), product)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// UpdateProduct handles admin product updates.
func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDFromRoute(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload ProductPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := productFromPayload(payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product.ID = id

		updated, err := svc.Update(r.Context(), product)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// DeleteProduct handles admin product deletion.
func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDFromRoute(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func productFromPayload(payload ProductPayload) (*models.Product, error) {
	category, err := enums.ParseProductCategory(payload.Category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}

	active := true
	if payload.IsActive != nil {
		active = *payload.IsActive
	}

	return &models.Product{
		Handle:             payload.Handle,
		Name:               payload.Name,
		Category:           category,
		Description:        payload.Description,
		PriceCents:         payload.PriceCents,
		Rating:             payload.Rating,
		Stock:              payload.Stock,
		Image:              payload.Image,
		Colors:             pq.StringArray(payload.Colors),
		StorageOptions:     pq.StringArray(payload.StorageOptions),
		Features:           pq.StringArray(payload.Features),
		Specs:              payload.Specs,
		ColorImages:        payload.ColorImages,
		StorageUpliftCents: payload.StorageUpliftCents,
		IsActive:           active,
	}, nil
}

func productIDFromRoute(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return id, nil
}
