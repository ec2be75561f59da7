package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/arlomendez/techstore-backend/pkg/enums"
)

// Product represents a canonical catalog listing.
type Product struct {
	ID                 uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Handle             string                `gorm:"column:handle;not null;uniqueIndex:products_handle_key"`
	Name               string                `gorm:"column:name;not null"`
	Category           enums.ProductCategory `gorm:"column:category;type:text;not null"`
	Description        *string               `gorm:"column:description"`
	PriceCents         int                   `gorm:"column:price_cents;not null"`
	Rating             float64               `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	Stock              int                   `gorm:"column:stock;not null;default:0"`
	Image              string                `gorm:"column:image;not null"`
	Colors             pq.StringArray        `gorm:"column:colors;type:text[];not null;default:ARRAY[]::text[]"`
	StorageOptions     pq.StringArray        `gorm:"column:storage_options;type:text[];not null;default:ARRAY[]::text[]"`
	Features           pq.StringArray        `gorm:"column:features;type:text[];not null;default:ARRAY[]::text[]"`
	Specs              map[string]string     `gorm:"column:specs;type:jsonb;serializer:json"`
	ColorImages        map[string]string     `gorm:"column:color_images;type:jsonb;serializer:json"`
	StorageUpliftCents map[string]int        `gorm:"column:storage_uplift_cents;type:jsonb;serializer:json"`
	IsActive           bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt          time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
