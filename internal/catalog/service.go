package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arlomendez/techstore-backend/pkg/db/models"
	pkgerrors "github.com/arlomendez/techstore-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes catalog reads for the storefront and CRUD for admins.
type Service interface {
	List(ctx context.Context, filter ListFilter) ([]models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByHandle(ctx context.Context, handle string) (*models.Product, error)
	SelectVariant(ctx context.Context, id uuid.UUID, color, storage string) (*VariantSelection, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// VariantSelection is a priced, validated product variant ready to be added
// to a cart.
type VariantSelection struct {
	Product        *models.Product
	Color          string
	Storage        string
	Name           string
	Image          string
	UnitPriceCents int
}

type service struct {
	repo ProductRepository
}

// NewService builds the catalog service.
func NewService(repo ProductRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) GetByHandle(ctx context.Context, handle string) (*models.Product, error) {
	if strings.TrimSpace(handle) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product handle is required")
	}
	product, err := s.repo.FindByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// SelectVariant validates the requested axes against the product's options
// and resolves the variant's price and image. Empty axes are allowed when the
// product offers no choice on that axis.
func (s *service) SelectVariant(ctx context.Context, id uuid.UUID, color, storage string) (*VariantSelection, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	if color != "" && len(product.Colors) > 0 && !containsOption(product.Colors, color) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("color %q is not offered", color))
	}
	if storage != "" && len(product.StorageOptions) > 0 && !containsOption(product.StorageOptions, storage) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("storage %q is not offered", storage))
	}

	return &VariantSelection{
		Product:        product,
		Color:          color,
		Storage:        storage,
		Name:           product.Name,
		Image:          ImageFor(product, color),
		UnitPriceCents: UnitPriceCents(product, storage),
	}, nil
}

func (s *service) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product == nil || product.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, product.ID); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// ClampQuantity caps a requested quantity at the product's available stock.
// Stock is advisory for the storefront UI; the cart itself does not enforce
// it.
func ClampQuantity(product *models.Product, qty int) int {
	if qty < 1 {
		return 1
	}
	if product != nil && product.Stock > 0 && qty > product.Stock {
		return product.Stock
	}
	return qty
}

func validateProduct(product *models.Product) error {
	if product == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product payload is required")
	}
	if strings.TrimSpace(product.Handle) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product handle is required")
	}
	if strings.TrimSpace(product.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if !product.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown product category")
	}
	if product.PriceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if strings.TrimSpace(product.Image) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product image is required")
	}
	return nil
}

func containsOption(options []string, value string) bool {
	for _, o := range options {
		if strings.EqualFold(o, value) {
			return true
		}
	}
	return false
}
