package cart

import "github.com/google/uuid"

// DefaultVariant is the sentinel used when a product has no color or storage
// choice. Lines created without a variant axis collapse onto it so that
// "no choice" and an explicit default merge into the same line.
const DefaultVariant = "default"

// LineKey identifies a cart line. Two additions with equal keys merge into
// one line; any differing axis yields a distinct line.
type LineKey struct {
	ProductID uuid.UUID
	Color     string
	Storage   string
}

// NewLineKey builds a key, normalizing empty variant axes to DefaultVariant.
func NewLineKey(productID uuid.UUID, color, storage string) LineKey {
	if color == "" {
		color = DefaultVariant
	}
	if storage == "" {
		storage = DefaultVariant
	}
	return LineKey{ProductID: productID, Color: color, Storage: storage}
}

// Line is one entry in a cart: a product variant with its captured unit
// price and quantity, plus denormalized display fields.
type Line struct {
	ProductID      uuid.UUID `json:"productId"`
	Color          string    `json:"color"`
	Storage        string    `json:"storage"`
	Name           string    `json:"name"`
	Image          string    `json:"image"`
	UnitPriceCents int       `json:"unitPriceCents"`
	Quantity       int       `json:"quantity"`
}

// Key returns the line's identity.
func (l Line) Key() LineKey {
	return NewLineKey(l.ProductID, l.Color, l.Storage)
}

// SubtotalCents returns unit price times quantity for this line.
func (l Line) SubtotalCents() int {
	return l.UnitPriceCents * l.Quantity
}

// Item is the catalog-side payload for an addition: everything needed to
// mint a new line except the quantity.
type Item struct {
	ProductID      uuid.UUID
	Color          string
	Storage        string
	Name           string
	Image          string
	UnitPriceCents int
}

// Key returns the identity the item would occupy in a cart.
func (i Item) Key() LineKey {
	return NewLineKey(i.ProductID, i.Color, i.Storage)
}
