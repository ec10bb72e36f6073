package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type OrderListFilter struct {
	CustomerID *uint
	Status     *models.OrderStatus
}

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	// GetByID loads the order with its items and their products.
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, f OrderListFilter, p orm.Pagination) ([]models.Order, orm.Pagination, error)
	UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (int64, error)
	CountByCustomer(ctx context.Context, customerID uint) (int64, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Omit("Items", "Customer").Create(o).Error
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("Items.Product")
}

func (r *orderRepo) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := withItems(r.db.WithContext(ctx)).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, f OrderListFilter, p orm.Pagination) ([]models.Order, orm.Pagination, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var rows []models.Order
	p, err := orm.Paginate(q, p, &rows, func(db *gorm.DB) *gorm.DB {
		return withItems(db).Order("created_at DESC, id DESC")
	})
	return rows, p, err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	return tx.RowsAffected, tx.Error
}

func (r *orderRepo) CountByCustomer(ctx context.Context, customerID uint) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("customer_id = ?", customerID).Count(&cnt).Error
	return cnt, err
}

type OrderItemRepo interface {
	BulkCreate(ctx context.Context, items []models.OrderItem) error
	CountByProduct(ctx context.Context, productID uint) (int64, error)
}

type orderItemRepo struct{ db *gorm.DB }

func NewOrderItemRepo(db *gorm.DB) OrderItemRepo { return &orderItemRepo{db: db} }

// BulkCreate inserts items in a single statement.
func (r *orderItemRepo) BulkCreate(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Product").Create(&items).Error
}

func (r *orderItemRepo) CountByProduct(ctx context.Context, productID uint) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).Where("product_id = ?", productID).Count(&cnt).Error
	return cnt, err
}
