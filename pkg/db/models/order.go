package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/arlomendez/techstore-backend/pkg/enums"
	"github.com/arlomendez/techstore-backend/pkg/types"
)

// Order is the persisted record built from a cart snapshot at checkout.
type Order struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           string             `gorm:"column:user_id;not null;index:orders_user_id_idx"`
	Customer         types.CustomerInfo `gorm:"column:customer;type:jsonb;serializer:json"`
	Items            []OrderItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmountCents int                `gorm:"column:total_amount_cents;not null"`
	Status           enums.OrderStatus  `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is a denormalized cart line frozen at submission time.
type OrderItem struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID           uuid.UUID `gorm:"column:order_id;type:uuid;not null;index:order_items_order_id_idx"`
	ProductID         uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Name              string    `gorm:"column:name;not null"`
	Image             string    `gorm:"column:image"`
	Color             string    `gorm:"column:color;not null;default:'default'"`
	Storage           string    `gorm:"column:storage;not null;default:'default'"`
	UnitPriceCents    int       `gorm:"column:unit_price_cents;not null"`
	Quantity          int       `gorm:"column:quantity;not null"`
	LineSubtotalCents int       `gorm:"column:line_subtotal_cents;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}
