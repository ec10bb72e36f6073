// Package repositories is the persistence layer. Lookups return (nil, nil)
// for a missing row; callers decide whether that is an error.
package repositories

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	DB         *gorm.DB
	Categories CategoryRepo
	Products   ProductRepo
	Comments   CommentRepo
	Carts      CartRepo
	CartItems  CartItemRepo
	Users      UserRepo
	Customers  CustomerRepo
	Orders     OrderRepo
	OrderItems OrderItemRepo
}

func New(db *gorm.DB) *Repository {
	return &Repository{
		DB:         db,
		Categories: NewCategoryRepo(db),
		Products:   NewProductRepo(db),
		Comments:   NewCommentRepo(db),
		Carts:      NewCartRepo(db),
		CartItems:  NewCartItemRepo(db),
		Users:      NewUserRepo(db),
		Customers:  NewCustomerRepo(db),
		Orders:     NewOrderRepo(db),
		OrderItems: NewOrderItemRepo(db),
	}
}

// WithTx runs fn in one transaction. Every repo on the Repository handed
// to fn is bound to that transaction; fn must not touch the outer one.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
