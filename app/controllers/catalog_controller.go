package controllers

import (
	"strconv"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type CatalogController struct {
	catalog *services.CatalogService
}

// ─── Products ────────────────────────────────────────────────────────────────

// ProductIndex lists products.
//
//	GET /api/products?category_id=1&inventory=0&search=mug&ordering=-unit_price&page=2
func (h *CatalogController) ProductIndex(c *ctx.Context) {
	f := repositories.ProductFilter{
		CategoryID: c.QueryUint("category_id"),
		Search:     c.Query("search"),
		Ordering:   c.Query("ordering"),
	}
	if raw := c.Query("inventory"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.ValidationError(map[string]string{"inventory": "The inventory must be an integer."})
			return
		}
		f.Inventory = &n
	}

	items, p, err := h.catalog.ListProducts(c.Context(), f, c.PageParams())
	if err != nil {
		fail(c, err)
		return
	}
	c.Paginated(items, p)
}

func (h *CatalogController) ProductShow(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	p, err := h.catalog.GetProduct(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

func (h *CatalogController) ProductStore(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.catalog.CreateProduct(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(p)
}

func (h *CatalogController) ProductUpdate(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.catalog.UpdateProduct(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

func (h *CatalogController) ProductDestroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}

// ─── Categories ──────────────────────────────────────────────────────────────

func (h *CatalogController) CategoryIndex(c *ctx.Context) {
	items, p, err := h.catalog.ListCategories(c.Context(), c.PageParams())
	if err != nil {
		fail(c, err)
		return
	}
	c.Paginated(items, p)
}

func (h *CatalogController) CategoryShow(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	cat, err := h.catalog.GetCategory(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(cat)
}

func (h *CatalogController) CategoryStore(c *ctx.Context) {
	var in services.CategoryInput
	if !c.BindJSON(&in) {
		return
	}
	cat, err := h.catalog.CreateCategory(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(cat)
}

func (h *CatalogController) CategoryUpdate(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.CategoryInput
	if !c.BindJSON(&in) {
		return
	}
	cat, err := h.catalog.UpdateCategory(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(cat)
}

func (h *CatalogController) CategoryDestroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteCategory(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}

// ─── Comments ────────────────────────────────────────────────────────────────

func (h *CatalogController) CommentIndex(c *ctx.Context) {
	productID, ok := c.ParamUint("product_id")
	if !ok {
		return
	}
	items, err := h.catalog.ListComments(c.Context(), productID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(items)
}

func (h *CatalogController) CommentShow(c *ctx.Context) {
	productID, ok := c.ParamUint("product_id")
	if !ok {
		return
	}
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	cm, err := h.catalog.GetComment(c.Context(), productID, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(cm)
}

func (h *CatalogController) CommentStore(c *ctx.Context) {
	productID, ok := c.ParamUint("product_id")
	if !ok {
		return
	}
	var in services.CommentInput
	if !c.BindJSON(&in) {
		return
	}
	cm, err := h.catalog.CreateComment(c.Context(), productID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(cm)
}

func (h *CatalogController) CommentUpdate(c *ctx.Context) {
	productID, ok := c.ParamUint("product_id")
	if !ok {
		return
	}
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.CommentInput
	if !c.BindJSON(&in) {
		return
	}
	cm, err := h.catalog.UpdateComment(c.Context(), productID, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(cm)
}

func (h *CatalogController) CommentDestroy(c *ctx.Context) {
	productID, ok := c.ParamUint("product_id")
	if !ok {
		return
	}
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteComment(c.Context(), productID, id); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}
