package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

// addItemAttempts bounds retries of an add that lost the insert race on
// the (cart_id, product_id) unique index.
const addItemAttempts = 3

type CartItemView struct {
	models.CartItem
	TotalPrice models.Money `json:"total_price"`
}

type CartView struct {
	ID         uuid.UUID      `json:"id"`
	Items      []CartItemView `json:"items"`
	TotalPrice models.Money   `json:"total_price"`
	CreatedAt  time.Time      `json:"created_at"`
}

type AddItemInput struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"required,gte=1,max=32767"`
}

type UpdateItemInput struct {
	Quantity int `json:"quantity" validate:"required,gte=1,max=32767"`
}

type CartService struct {
	repo *repositories.Repository
}

func NewCartService(repo *repositories.Repository) *CartService {
	return &CartService{repo: repo}
}

func itemView(it models.CartItem) CartItemView {
	return CartItemView{CartItem: it, TotalPrice: it.LineTotal()}
}

func cartView(c models.Cart) CartView {
	v := CartView{ID: c.ID, CreatedAt: c.CreatedAt, Items: make([]CartItemView, len(c.Items))}
	for i, it := range c.Items {
		v.Items[i] = itemView(it)
		v.TotalPrice = v.TotalPrice.Plus(v.Items[i].TotalPrice)
	}
	return v
}

func (s *CartService) CreateCart(ctx context.Context) (*CartView, error) {
	c := &models.Cart{}
	if err := s.repo.Carts.Create(ctx, c); err != nil {
		return nil, err
	}
	v := cartView(*c)
	return &v, nil
}

func (s *CartService) GetCart(ctx context.Context, id uuid.UUID) (*CartView, error) {
	c, err := s.repo.Carts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartNotFound
	}
	v := cartView(*c)
	return &v, nil
}

func (s *CartService) DeleteCart(ctx context.Context, id uuid.UUID) error {
	return s.repo.WithTx(ctx, func(tx *repositories.Repository) error {
		if _, err := tx.CartItems.DeleteByCart(ctx, id); err != nil {
			return err
		}
		n, err := tx.Carts.Delete(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrCartNotFound
		}
		return nil
	})
}

// AddItem merges qty into the cart's line for productID, creating the line
// if the cart has none. Repeated adds accumulate.
//
// The cart row is locked for the read-then-write. A concurrent first insert
// for the same product that still slips past (sqlite has no row locks) is
// caught by the unique index and retried as an increment.
func (s *CartService) AddItem(ctx context.Context, cartID uuid.UUID, productID uint, qty int) (*CartItemView, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	var itemID uint
	for attempt := 1; ; attempt++ {
		err := s.repo.WithTx(ctx, func(tx *repositories.Repository) error {
			cart, err := tx.Carts.Lock(ctx, cartID)
			if err != nil {
				return err
			}
			if cart == nil {
				return ErrCartNotFound
			}
			product, err := tx.Products.GetByID(ctx, productID)
			if err != nil {
				return err
			}
			if product == nil {
				return ErrProductNotFound
			}

			existing, err := tx.CartItems.FindByProduct(ctx, cartID, productID)
			if err != nil {
				return err
			}
			if existing != nil {
				itemID = existing.ID
				return tx.CartItems.AddQuantity(ctx, existing.ID, qty)
			}

			it := &models.CartItem{CartID: cartID, ProductID: productID, Quantity: qty}
			if err := tx.CartItems.Create(ctx, it); err != nil {
				return err
			}
			itemID = it.ID
			return nil
		})
		if err == nil {
			break
		}
		if !orm.IsDuplicate(err) {
			return nil, err
		}

		metrics.CartConflicts.Inc()
		logger.WithCtx(ctx).Warn("cart: add item conflict",
			"cart_id", cartID, "product_id", productID, "attempt", attempt)
		if attempt == addItemAttempts {
			return nil, ErrCartBusy
		}
	}

	return s.GetItem(ctx, cartID, itemID)
}

// UpdateItemQuantity replaces the quantity outright.
func (s *CartService) UpdateItemQuantity(ctx context.Context, cartID uuid.UUID, itemID uint, qty int) (*CartItemView, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	if _, err := s.GetItem(ctx, cartID, itemID); err != nil {
		return nil, err
	}
	if _, err := s.repo.CartItems.SetQuantity(ctx, cartID, itemID, qty); err != nil {
		return nil, err
	}
	return s.GetItem(ctx, cartID, itemID)
}

func (s *CartService) RemoveItem(ctx context.Context, cartID uuid.UUID, itemID uint) error {
	n, err := s.repo.CartItems.Delete(ctx, cartID, itemID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *CartService) GetItem(ctx context.Context, cartID uuid.UUID, itemID uint) (*CartItemView, error) {
	it, err := s.repo.CartItems.GetForCart(ctx, cartID, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrCartItemNotFound
	}
	v := itemView(*it)
	return &v, nil
}

func (s *CartService) ListItems(ctx context.Context, cartID uuid.UUID) ([]CartItemView, error) {
	items, err := s.items(ctx, cartID)
	if err != nil {
		return nil, err
	}
	out := make([]CartItemView, len(items))
	for i, it := range items {
		out[i] = itemView(it)
	}
	return out, nil
}

// ComputeTotal is the exact sum of quantity × current unit price.
func (s *CartService) ComputeTotal(ctx context.Context, cartID uuid.UUID) (models.Money, error) {
	items, err := s.items(ctx, cartID)
	if err != nil {
		return models.Money{}, err
	}
	var total models.Money
	for _, it := range items {
		total = total.Plus(it.LineTotal())
	}
	return total, nil
}

func (s *CartService) items(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	c, err := s.repo.Carts.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartNotFound
	}
	return c.Items, nil
}
