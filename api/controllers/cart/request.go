package cart

import "github.com/google/uuid"

// AddItemRequest adds quantity of a product variant to the cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Color     string    `json:"color"`
	Storage   string    `json:"storage"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// UpdateItemRequest sets the absolute quantity for a line. Zero removes it.
type UpdateItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Color     string    `json:"color"`
	Storage   string    `json:"storage"`
	Quantity  *int      `json:"quantity" validate:"required,min=0"`
}
