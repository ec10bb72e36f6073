package services

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

const minProductNameLen = 6

// ProductView is a product with its display-only prices.
type ProductView struct {
	models.Product
	PriceWithTax models.Money `json:"price_with_tax"`
	PriceRials   int64        `json:"price_rials"`
}

type ProductInput struct {
	Name        string       `json:"name"        validate:"required,max=255"`
	Description string       `json:"description"`
	UnitPrice   models.Money `json:"unit_price"`
	Inventory   int          `json:"inventory"   validate:"gte=0"`
	CategoryID  uint         `json:"category_id" validate:"required"`
}

type CategoryInput struct {
	Title        string `json:"title"          validate:"required,max=255"`
	Description  string `json:"description"`
	TopProductID *uint  `json:"top_product_id"`
}

type CommentInput struct {
	Name   string `json:"name"   validate:"required,max=255"`
	Body   string `json:"body"   validate:"required"`
	Status string `json:"status" validate:"in=waiting,approved,not_approved"`
}

type CatalogService struct {
	repo     *repositories.Repository
	cache    cache.Store
	cacheTTL time.Duration
	tax      decimal.Decimal
	rialRate int64
}

// NewCatalogService caches product reads in store; pass cache.Nop{} to
// disable caching.
func NewCatalogService(repo *repositories.Repository, store cache.Store) *CatalogService {
	if store == nil {
		store = cache.Nop{}
	}
	return &CatalogService{
		repo:     repo,
		cache:    store,
		cacheTTL: config.CacheTTL(),
		tax:      config.TaxMultiplier(),
		rialRate: config.RialRate(),
	}
}

func productKey(id uint) string { return "product:" + strconv.FormatUint(uint64(id), 10) }

func (s *CatalogService) view(p models.Product) ProductView {
	return ProductView{
		Product:      p,
		PriceWithTax: PriceWithTax(p.UnitPrice, s.tax),
		PriceRials:   PriceInRials(p.UnitPrice, s.rialRate),
	}
}

// ─── Products ────────────────────────────────────────────────────────────────

func (s *CatalogService) ListProducts(ctx context.Context, f repositories.ProductFilter, p orm.Pagination) ([]ProductView, orm.Pagination, error) {
	rows, p, err := s.repo.Products.List(ctx, f, p)
	if err != nil {
		return nil, p, err
	}
	out := make([]ProductView, len(rows))
	for i, row := range rows {
		out[i] = s.view(row)
	}
	return out, p, nil
}

// GetProduct serves the product from the cache. The category is attached
// on every read so renames and product counts are never stale.
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*ProductView, error) {
	v, err := s.cachedProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	cat, err := s.repo.Categories.GetByID(ctx, v.CategoryID)
	if err != nil {
		return nil, err
	}
	v.Category = cat
	return v, nil
}

func (s *CatalogService) cachedProduct(ctx context.Context, id uint) (*ProductView, error) {
	var cached ProductView
	if s.cache.Get(ctx, productKey(id), &cached) {
		metrics.CacheHits.WithLabelValues("product").Inc()
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues("product").Inc()

	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	p.Category = nil
	v := s.view(*p)
	if err := s.cache.Set(ctx, productKey(id), v, s.cacheTTL); err != nil {
		logger.WithCtx(ctx).Warn("catalog: cache product failed", "product_id", id, "error", err)
	}
	return &v, nil
}

func (s *CatalogService) validateProduct(ctx context.Context, repo *repositories.Repository, in ProductInput) error {
	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) < minProductNameLen {
		return ErrProductNameTooShort
	}
	if !in.UnitPrice.IsValidUnitPrice() {
		return ErrInvalidUnitPrice
	}
	if in.Inventory < 0 {
		return ErrInvalidInventory
	}
	ok, err := repo.Categories.Exists(ctx, in.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownCategory
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*ProductView, error) {
	if err := s.validateProduct(ctx, s.repo, in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	p := &models.Product{
		Name:        name,
		Slug:        Slugify(name),
		Description: in.Description,
		UnitPrice:   in.UnitPrice,
		Inventory:   in.Inventory,
		CategoryID:  in.CategoryID,
	}
	if err := s.repo.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	v := s.view(*p)
	return &v, nil
}

// UpdateProduct replaces the editable fields. The slug follows the name
// only when the name changes.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*ProductView, error) {
	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	if err := s.validateProduct(ctx, s.repo, in); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name != p.Name {
		p.Name = name
		p.Slug = Slugify(name)
	}
	p.Description = in.Description
	p.UnitPrice = in.UnitPrice
	p.Inventory = in.Inventory
	if p.CategoryID != in.CategoryID {
		p.CategoryID = in.CategoryID
		p.Category = nil
	}

	if err := s.repo.Products.Update(ctx, p); err != nil {
		return nil, err
	}
	s.forget(ctx, id)
	v := s.view(*p)
	return &v, nil
}

// DeleteProduct refuses while any order item references the product.
// Cart lines and comments for the product go with it.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	err := s.repo.WithTx(ctx, func(tx *repositories.Repository) error {
		p, err := tx.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrProductNotFound
		}

		n, err := tx.OrderItems.CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			metrics.DeletesRefused.WithLabelValues("product").Inc()
			logger.WithCtx(ctx).Info("catalog: product delete refused", "product_id", id, "order_items", n)
			return ErrProductInUse
		}

		if err := tx.CartItems.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		if err := tx.Comments.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		if err := tx.Categories.ClearTopProduct(ctx, id); err != nil {
			return err
		}
		_, err = tx.Products.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	s.forget(ctx, id)
	return nil
}

func (s *CatalogService) forget(ctx context.Context, id uint) {
	if err := s.cache.Del(ctx, productKey(id)); err != nil {
		logger.WithCtx(ctx).Warn("catalog: cache invalidate failed", "product_id", id, "error", err)
	}
}

// ─── Categories ──────────────────────────────────────────────────────────────

func (s *CatalogService) ListCategories(ctx context.Context, p orm.Pagination) ([]models.Category, orm.Pagination, error) {
	return s.repo.Categories.List(ctx, p)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	c, err := s.repo.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

func (s *CatalogService) checkTopProduct(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	p, err := s.repo.Products.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrUnknownTopProduct
	}
	return nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := s.checkTopProduct(ctx, in.TopProductID); err != nil {
		return nil, err
	}
	c := &models.Category{
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		TopProductID: in.TopProductID,
	}
	if err := s.repo.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkTopProduct(ctx, in.TopProductID); err != nil {
		return nil, err
	}
	c.Title = strings.TrimSpace(in.Title)
	c.Description = in.Description
	c.TopProductID = in.TopProductID
	if err := s.repo.Categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory refuses while any product belongs to the category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	return s.repo.WithTx(ctx, func(tx *repositories.Repository) error {
		ok, err := tx.Categories.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCategoryNotFound
		}
		n, err := tx.Products.CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			metrics.DeletesRefused.WithLabelValues("category").Inc()
			logger.WithCtx(ctx).Info("catalog: category delete refused", "category_id", id, "products", n)
			return ErrCategoryInUse
		}
		_, err = tx.Categories.Delete(ctx, id)
		return err
	})
}

// ─── Comments ────────────────────────────────────────────────────────────────

func (s *CatalogService) requireProduct(ctx context.Context, id uint) error {
	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProductNotFound
	}
	return nil
}

func (s *CatalogService) ListComments(ctx context.Context, productID uint) ([]models.Comment, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.Comments.ListByProduct(ctx, productID)
}

func (s *CatalogService) GetComment(ctx context.Context, productID, id uint) (*models.Comment, error) {
	c, err := s.repo.Comments.GetForProduct(ctx, productID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCommentNotFound
	}
	return c, nil
}

// CreateComment always starts the comment in the waiting state.
func (s *CatalogService) CreateComment(ctx context.Context, productID uint, in CommentInput) (*models.Comment, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	c := &models.Comment{
		ProductID: productID,
		Name:      strings.TrimSpace(in.Name),
		Body:      in.Body,
		Status:    models.CommentWaiting,
	}
	if err := s.repo.Comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) UpdateComment(ctx context.Context, productID, id uint, in CommentInput) (*models.Comment, error) {
	c, err := s.GetComment(ctx, productID, id)
	if err != nil {
		return nil, err
	}
	c.Name = strings.TrimSpace(in.Name)
	c.Body = in.Body
	if in.Status != "" {
		c.Status = models.CommentStatus(in.Status)
	}
	if err := s.repo.Comments.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) DeleteComment(ctx context.Context, productID, id uint) error {
	n, err := s.repo.Comments.Delete(ctx, productID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCommentNotFound
	}
	return nil
}
