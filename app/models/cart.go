package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart is keyed by a random uuid so carts cannot be enumerated.
type Cart struct {
	ID        uuid.UUID  `gorm:"type:char(36);primaryKey"  json:"id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
}

func (c *Cart) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CartItem holds at most one row per (cart, product); see idx_cart_product.
type CartItem struct {
	ID        uint      `gorm:"primaryKey"                                    json:"id"`
	CartID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_product"         json:"product_id"`
	Product   *Product  `gorm:"constraint:OnDelete:RESTRICT"                  json:"product,omitempty"`
	Quantity  int       `gorm:"not null"                                      json:"quantity"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// LineTotal is quantity × the product's current unit price. The product
// must be loaded.
func (i CartItem) LineTotal() Money {
	if i.Product == nil {
		return Money{}
	}
	return i.Product.UnitPrice.Times(i.Quantity)
}
