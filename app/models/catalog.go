package models

import "time"

type Category struct {
	ID           uint      `gorm:"primaryKey"        json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text"         json:"description"`
	TopProductID *uint     `gorm:"index"             json:"top_product_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// NumOfProducts is filled by listing queries only.
	NumOfProducts int64 `gorm:"->;-:migration" json:"num_of_products"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey"                 json:"id"`
	Name        string    `gorm:"size:255;not null"          json:"name"`
	Slug        string    `gorm:"size:255;not null;index"    json:"slug"`
	Description string    `gorm:"type:text"                  json:"description"`
	UnitPrice   Money     `gorm:"type:decimal(6,2);not null" json:"unit_price"`
	Inventory   int       `gorm:"not null;default:0"         json:"inventory"`
	CategoryID  uint      `gorm:"not null;index"             json:"category_id"`
	Category    *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CommentStatus string

const (
	CommentWaiting     CommentStatus = "waiting"
	CommentApproved    CommentStatus = "approved"
	CommentNotApproved CommentStatus = "not_approved"
)

type Comment struct {
	ID        uint          `gorm:"primaryKey"                     json:"id"`
	ProductID uint          `gorm:"not null;index"                 json:"product_id"`
	Product   *Product      `gorm:"constraint:OnDelete:CASCADE"    json:"-"`
	Name      string        `gorm:"size:255;not null"              json:"name"`
	Body      string        `gorm:"type:text;not null"             json:"body"`
	Status    CommentStatus `gorm:"size:20;not null;default:waiting" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}
