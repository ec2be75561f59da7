package catalog

import (
	"context"

	"github.com/arlomendez/techstore-backend/pkg/db/models"
	"github.com/arlomendez/techstore-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the persistence surface the catalog service
// depends on.
type ProductRepository interface {
	Create(context.Context, *models.Product) (*models.Product, error)
	Update(context.Context, *models.Product) (*models.Product, error)
	Delete(context.Context, uuid.UUID) error
	FindByID(context.Context, uuid.UUID) (*models.Product, error)
	FindByHandle(context.Context, string) (*models.Product, error)
	List(context.Context, ListFilter) ([]models.Product, error)
}

// ListFilter narrows a catalog listing.
type ListFilter struct {
	Category    *enums.ProductCategory
	ActiveOnly  bool
	SearchQuery string
}

// Repository is the GORM-backed product store.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByHandle loads a product by its URL slug.
func (r *Repository) FindByHandle(ctx context.Context, handle string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "handle = ?", handle).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns products matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.Category != nil {
		query = query.Where("category = ?", filter.Category.String())
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.SearchQuery != "" {
		query = query.Where("name LIKE ?", "%"+filter.SearchQuery+"%")
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
