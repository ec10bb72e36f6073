package models

import "time"

type OrderStatus string

const (
	OrderUnpaid   OrderStatus = "unpaid"
	OrderComplete OrderStatus = "complete"
	OrderFailed   OrderStatus = "failed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderUnpaid, OrderComplete, OrderFailed:
		return true
	}
	return false
}

type Order struct {
	ID         uint        `gorm:"primaryKey"                      json:"id"`
	CustomerID uint        `gorm:"not null;index"                  json:"customer_id"`
	Customer   *Customer   `gorm:"constraint:OnDelete:RESTRICT"    json:"-"`
	Status     OrderStatus `gorm:"size:20;not null;default:unpaid" json:"status"`
	Items      []OrderItem `gorm:"foreignKey:OrderID"              json:"items"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Total sums the snapshot prices of the loaded items.
func (o Order) Total() Money {
	var total Money
	for _, it := range o.Items {
		total = total.Plus(it.UnitPrice.Times(it.Quantity))
	}
	return total
}

// OrderItem snapshots the unit price at checkout; later product price
// changes never reach it.
type OrderItem struct {
	ID        uint     `gorm:"primaryKey"                                   json:"id"`
	OrderID   uint     `gorm:"not null;uniqueIndex:idx_order_product"       json:"order_id"`
	ProductID uint     `gorm:"not null;uniqueIndex:idx_order_product"       json:"product_id"`
	Product   *Product `gorm:"constraint:OnDelete:RESTRICT"                 json:"product,omitempty"`
	Quantity  int      `gorm:"not null"                                     json:"quantity"`
	UnitPrice Money    `gorm:"type:decimal(6,2);not null"                   json:"unit_price"`
}
