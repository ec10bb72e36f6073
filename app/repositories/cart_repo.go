package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type CartRepo interface {
	Create(ctx context.Context, c *models.Cart) error
	// GetByID loads the cart with its items and their products.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	// Lock reads the cart row with SELECT ... FOR UPDATE. Only meaningful
	// inside WithTx.
	Lock(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) CartRepo { return &cartRepo{db: db} }

func (r *cartRepo) Create(ctx context.Context, c *models.Cart) error {
	return r.db.WithContext(ctx).Omit("Items").Create(c).Error
}

func (r *cartRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var c models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id ASC") }).
		Preload("Items.Product").
		First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *cartRepo) Lock(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var c models.Cart
	err := orm.ForUpdate(r.db.WithContext(ctx)).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *cartRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Cart{})
	return tx.RowsAffected, tx.Error
}

type CartItemRepo interface {
	Create(ctx context.Context, it *models.CartItem) error
	FindByProduct(ctx context.Context, cartID uuid.UUID, productID uint) (*models.CartItem, error)
	// GetForCart loads item id only when it belongs to cartID.
	GetForCart(ctx context.Context, cartID uuid.UUID, id uint) (*models.CartItem, error)
	ListByCart(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	AddQuantity(ctx context.Context, id uint, delta int) error
	SetQuantity(ctx context.Context, cartID uuid.UUID, id uint, qty int) (int64, error)
	Delete(ctx context.Context, cartID uuid.UUID, id uint) (int64, error)
	DeleteByCart(ctx context.Context, cartID uuid.UUID) (int64, error)
	DeleteByProduct(ctx context.Context, productID uint) error
}

type cartItemRepo struct{ db *gorm.DB }

func NewCartItemRepo(db *gorm.DB) CartItemRepo { return &cartItemRepo{db: db} }

func (r *cartItemRepo) Create(ctx context.Context, it *models.CartItem) error {
	return r.db.WithContext(ctx).Omit("Product").Create(it).Error
}

func (r *cartItemRepo) FindByProduct(ctx context.Context, cartID uuid.UUID, productID uint) (*models.CartItem, error) {
	var it models.CartItem
	err := r.db.WithContext(ctx).First(&it, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &it, err
}

func (r *cartItemRepo) GetForCart(ctx context.Context, cartID uuid.UUID, id uint) (*models.CartItem, error) {
	var it models.CartItem
	err := r.db.WithContext(ctx).Preload("Product").First(&it, "id = ? AND cart_id = ?", id, cartID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &it, err
}

func (r *cartItemRepo) ListByCart(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).Preload("Product").Where("cart_id = ?", cartID).Order("id ASC").Find(&rows).Error
	return rows, err
}

// AddQuantity increments in SQL so concurrent adds never lose an update.
func (r *cartItemRepo) AddQuantity(ctx context.Context, id uint, delta int) error {
	return r.db.WithContext(ctx).Model(&models.CartItem{}).Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

func (r *cartItemRepo) SetQuantity(ctx context.Context, cartID uuid.UUID, id uint, qty int) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.CartItem{}).Where("id = ? AND cart_id = ?", id, cartID).
		Update("quantity", qty)
	return tx.RowsAffected, tx.Error
}

func (r *cartItemRepo) Delete(ctx context.Context, cartID uuid.UUID, id uint) (int64, error) {
	tx := r.db.WithContext(ctx).Where("id = ? AND cart_id = ?", id, cartID).Delete(&models.CartItem{})
	return tx.RowsAffected, tx.Error
}

func (r *cartItemRepo) DeleteByCart(ctx context.Context, cartID uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{})
	return tx.RowsAffected, tx.Error
}

func (r *cartItemRepo) DeleteByProduct(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.CartItem{}).Error
}
