package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

const productCountSelect = "categories.*, (SELECT COUNT(*) FROM products WHERE products.category_id = categories.id) AS num_of_products"

type CategoryRepo interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	List(ctx context.Context, p orm.Pagination) ([]models.Category, orm.Pagination, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id uint) (int64, error)
	Exists(ctx context.Context, id uint) (bool, error)
	// ClearTopProduct unsets top_product_id wherever it names productID.
	ClearTopProduct(ctx context.Context, productID uint) error
}

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) CategoryRepo { return &categoryRepo{db: db} }

func (r *categoryRepo) Create(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoryRepo) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	err := r.db.WithContext(ctx).Select(productCountSelect).First(&c, "categories.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *categoryRepo) List(ctx context.Context, p orm.Pagination) ([]models.Category, orm.Pagination, error) {
	var rows []models.Category
	q := r.db.WithContext(ctx).Model(&models.Category{})
	p, err := orm.Paginate(q, p, &rows, func(db *gorm.DB) *gorm.DB {
		return db.Select(productCountSelect).Order("categories.id ASC")
	})
	return rows, p, err
}

func (r *categoryRepo) Update(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoryRepo) Delete(ctx context.Context, id uint) (int64, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	return tx.RowsAffected, tx.Error
}

func (r *categoryRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&cnt).Error
	return cnt > 0, err
}

func (r *categoryRepo) ClearTopProduct(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Model(&models.Category{}).Where("top_product_id = ?", productID).
		Update("top_product_id", nil).Error
}

// ProductFilter narrows a product listing. Zero fields do not filter.
type ProductFilter struct {
	CategoryID *uint
	Inventory  *int
	Search     string
	Ordering   string
}

var productOrderColumns = map[string]string{
	"name":       "products.name",
	"unit_price": "products.unit_price",
	"inventory":  "products.inventory",
}

// orderClause turns "-unit_price,name" into an ORDER BY. Unknown fields are
// skipped; ties fall back to id.
func (f ProductFilter) orderClause() string {
	var parts []string
	for _, field := range strings.Split(f.Ordering, ",") {
		field = strings.TrimSpace(field)
		dir := "ASC"
		if strings.HasPrefix(field, "-") {
			dir = "DESC"
			field = field[1:]
		}
		if col, ok := productOrderColumns[field]; ok {
			parts = append(parts, col+" "+dir)
		}
	}
	parts = append(parts, "products.id ASC")
	return strings.Join(parts, ", ")
}

type ProductRepo interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	List(ctx context.Context, f ProductFilter, p orm.Pagination) ([]models.Product, orm.Pagination, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uint) (int64, error)
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) ProductRepo { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Omit("Category").Create(p).Error
}

func (r *productRepo) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *productRepo) List(ctx context.Context, f ProductFilter, p orm.Pagination) ([]models.Product, orm.Pagination, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if f.CategoryID != nil {
		q = q.Where("products.category_id = ?", *f.CategoryID)
	}
	if f.Inventory != nil {
		q = q.Where("products.inventory = ?", *f.Inventory)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Joins("LEFT JOIN categories ON categories.id = products.category_id").
			Where("LOWER(products.name) LIKE ? OR LOWER(categories.title) LIKE ?", like, like)
	}

	var rows []models.Product
	p, err := orm.Paginate(q, p, &rows, func(db *gorm.DB) *gorm.DB {
		return db.Select("products.*").Preload("Category").Order(f.orderClause())
	})
	return rows, p, err
}

func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Omit("Category").Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id uint) (int64, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	return tx.RowsAffected, tx.Error
}

func (r *productRepo) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&cnt).Error
	return cnt, err
}

type CommentRepo interface {
	Create(ctx context.Context, c *models.Comment) error
	ListByProduct(ctx context.Context, productID uint) ([]models.Comment, error)
	GetForProduct(ctx context.Context, productID, id uint) (*models.Comment, error)
	Update(ctx context.Context, c *models.Comment) error
	Delete(ctx context.Context, productID, id uint) (int64, error)
	DeleteByProduct(ctx context.Context, productID uint) error
}

type commentRepo struct{ db *gorm.DB }

func NewCommentRepo(db *gorm.DB) CommentRepo { return &commentRepo{db: db} }

func (r *commentRepo) Create(ctx context.Context, c *models.Comment) error {
	return r.db.WithContext(ctx).Omit("Product").Create(c).Error
}

func (r *commentRepo) ListByProduct(ctx context.Context, productID uint) ([]models.Comment, error) {
	var rows []models.Comment
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at ASC, id ASC").Find(&rows).Error
	return rows, err
}

func (r *commentRepo) GetForProduct(ctx context.Context, productID, id uint) (*models.Comment, error) {
	var c models.Comment
	err := r.db.WithContext(ctx).First(&c, "id = ? AND product_id = ?", id, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *commentRepo) Update(ctx context.Context, c *models.Comment) error {
	return r.db.WithContext(ctx).Omit("Product").Save(c).Error
}

func (r *commentRepo) Delete(ctx context.Context, productID, id uint) (int64, error) {
	tx := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.Comment{}, id)
	return tx.RowsAffected, tx.Error
}

func (r *commentRepo) DeleteByProduct(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.Comment{}).Error
}
