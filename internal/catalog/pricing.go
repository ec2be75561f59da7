package catalog

import "github.com/arlomendez/techstore-backend/pkg/db/models"

// defaultStorageUpliftCents is the uplift charged over the base price per
// storage tier when the product does not carry its own uplift map. The base
// tier (128GB and below) costs nothing extra.
var defaultStorageUpliftCents = map[string]int{
	"256GB": 10_000,
	"512GB": 30_000,
	"1TB":   50_000,
	"2TB":   80_000,
}

// UnitPriceCents returns the price for the product at the given storage
// variant. A per-product uplift map takes precedence over the default table;
// an unknown or empty storage falls back to the base price.
func UnitPriceCents(product *models.Product, storage string) int {
	if product == nil {
		return 0
	}
	if storage == "" || storage == "default" {
		return product.PriceCents
	}
	if uplift, ok := product.StorageUpliftCents[storage]; ok {
		return product.PriceCents + uplift
	}
	if uplift, ok := defaultStorageUpliftCents[storage]; ok {
		return product.PriceCents + uplift
	}
	return product.PriceCents
}

// ImageFor returns the image for the given color, falling back to the
// product's base image when no per-color override exists.
func ImageFor(product *models.Product, color string) string {
	if product == nil {
		return ""
	}
	if image, ok := product.ColorImages[color]; ok && image != "" {
		return image
	}
	return product.Image
}
