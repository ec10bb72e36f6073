package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

func TestPriceWithTaxRoundsHalfUp(t *testing.T) {
	tax := decimal.RequireFromString("1.09")

	assert.Equal(t, "10.90", services.PriceWithTax(models.MustMoney("10.00"), tax).String())
	assert.Equal(t, "2.73", services.PriceWithTax(models.MustMoney("2.50"), tax).String())
	assert.Equal(t, int64(9000000), services.PriceInRials(models.MustMoney("10.00"), 900000))
	assert.Equal(t, int64(17991000), services.PriceInRials(models.MustMoney("19.99"), 900000))
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Blue Widget":        "blue-widget",
		"  Deluxe -- Kit!! ": "deluxe-kit",
		"C++ Primer, 5th":    "c-primer-5th",
		"snake_case name":    "snake_case-name",
	}
	for in, want := range cases {
		assert.Equal(t, want, services.Slugify(in), in)
	}
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Tools")

	base := services.ProductInput{Name: "Hammer Pro", UnitPrice: models.MustMoney("9.99"), Inventory: 1, CategoryID: cat.ID}

	in := base
	in.Name = "Saw"
	_, err := f.catalog.CreateProduct(f.ctx, in)
	assert.ErrorIs(t, err, services.ErrProductNameTooShort)

	for _, price := range []string{"0", "0.001", "1.005", "10000.00", "-1"} {
		in = base
		in.UnitPrice = models.MustMoney(price)
		_, err = f.catalog.CreateProduct(f.ctx, in)
		assert.ErrorIs(t, err, services.ErrInvalidUnitPrice, price)
	}

	in = base
	in.Inventory = -1
	_, err = f.catalog.CreateProduct(f.ctx, in)
	assert.ErrorIs(t, err, services.ErrInvalidInventory)

	in = base
	in.CategoryID = cat.ID + 1
	_, err = f.catalog.CreateProduct(f.ctx, in)
	assert.ErrorIs(t, err, services.ErrUnknownCategory)

	p, err := f.catalog.CreateProduct(f.ctx, base)
	require.NoError(t, err)
	assert.Equal(t, "hammer-pro", p.Slug)
	assert.Equal(t, "10.89", p.PriceWithTax.String())
}

func TestSlugFollowsNameOnlyWhenRenamed(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Tools")
	p := f.product(t, "Hammer Pro", "9.99", cat.ID)

	in := services.ProductInput{Name: "Hammer Pro", Description: "steel", UnitPrice: models.MustMoney("9.99"), CategoryID: cat.ID}
	same, err := f.catalog.UpdateProduct(f.ctx, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "hammer-pro", same.Slug)

	in.Name = "Hammer Max"
	renamed, err := f.catalog.UpdateProduct(f.ctx, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "hammer-max", renamed.Slug)

	_, err = f.catalog.UpdateProduct(f.ctx, p.ID+1, in)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestGetProductIsCachedUntilUpdated(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Tools")
	p := f.product(t, "Hammer Pro", "9.99", cat.ID)

	first, err := f.catalog.GetProduct(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "9.99", first.UnitPrice.String())

	require.NoError(t, f.repo.DB.Model(&models.Product{}).Where("id = ?", p.ID).
		Update("unit_price", models.MustMoney("5.00")).Error)

	cached, err := f.catalog.GetProduct(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "9.99", cached.UnitPrice.String())
	assert.Equal(t, "Tools", cached.Category.Title)

	_, err = f.catalog.UpdateProduct(f.ctx, p.ID, services.ProductInput{
		Name: "Hammer Pro", UnitPrice: models.MustMoney("7.50"), CategoryID: cat.ID,
	})
	require.NoError(t, err)

	fresh, err := f.catalog.GetProduct(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "7.50", fresh.UnitPrice.String())

	_, err = f.catalog.GetProduct(f.ctx, p.ID+1)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestCachedProductShowsCurrentCategory(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Tools")
	p := f.product(t, "Hammer Pro", "9.99", cat.ID)
	f.product(t, "Screwdriver", "4.50", cat.ID)

	_, err := f.catalog.GetProduct(f.ctx, p.ID)
	require.NoError(t, err)

	_, err = f.catalog.UpdateCategory(f.ctx, cat.ID, services.CategoryInput{Title: "Hand Tools"})
	require.NoError(t, err)

	got, err := f.catalog.GetProduct(f.ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Hand Tools", got.Category.Title)
	assert.Equal(t, int64(2), got.Category.NumOfProducts)
}

func TestListProductsFiltersAndOrders(t *testing.T) {
	f := newFixture(t)
	tools := f.category(t, "Tools")
	garden := f.category(t, "Garden")
	f.product(t, "Hammer Pro", "9.99", tools.ID)
	f.product(t, "Screwdriver", "4.50", tools.ID)
	f.product(t, "Garden Hose", "15.00", garden.ID)

	all, page, err := f.catalog.ListProducts(f.ctx, repositories.ProductFilter{Ordering: "-unit_price"}, orm.Page(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, all, 3)
	assert.Equal(t, "Garden Hose", all[0].Name)
	assert.Equal(t, "Screwdriver", all[2].Name)

	inTools, _, err := f.catalog.ListProducts(f.ctx, repositories.ProductFilter{CategoryID: &tools.ID, Ordering: "name"}, orm.Page(1, 10))
	require.NoError(t, err)
	require.Len(t, inTools, 2)
	assert.Equal(t, "Hammer Pro", inTools[0].Name)

	byTitle, _, err := f.catalog.ListProducts(f.ctx, repositories.ProductFilter{Search: "GARDEN"}, orm.Page(1, 10))
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Garden Hose", byTitle[0].Name)

	second, page, err := f.catalog.ListProducts(f.ctx, repositories.ProductFilter{Ordering: "name"}, orm.Page(2, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, page.LastPage)
	require.Len(t, second, 1)
	assert.Equal(t, "Screwdriver", second[0].Name)
}

func TestDeleteProductRefusedWhileOrdered(t *testing.T) {
	f := newFixture(t)
	userID, _ := f.customer(t, "buyer@example.com")
	cat := f.category(t, "Gadgets")
	ordered := f.product(t, "Widget", "19.99", cat.ID)
	spare := f.product(t, "Spare part", "1.00", cat.ID)

	cart := f.cart(t)
	_, err := f.carts.AddItem(f.ctx, cart.ID, ordered.ID, 1)
	require.NoError(t, err)
	_, err = f.orders.CreateOrder(f.ctx, cart.ID, userID)
	require.NoError(t, err)

	err = f.catalog.DeleteProduct(f.ctx, ordered.ID)
	assert.ErrorIs(t, err, services.ErrProductInUse)
	assert.ErrorIs(t, err, services.ErrIntegrity)
	_, err = f.catalog.GetProduct(f.ctx, ordered.ID)
	assert.NoError(t, err)

	other := f.cart(t)
	_, err = f.carts.AddItem(f.ctx, other.ID, spare.ID, 2)
	require.NoError(t, err)
	_, err = f.catalog.CreateComment(f.ctx, spare.ID, services.CommentInput{Name: "Ann", Body: "fits"})
	require.NoError(t, err)

	require.NoError(t, f.catalog.DeleteProduct(f.ctx, spare.ID))
	_, err = f.catalog.GetProduct(f.ctx, spare.ID)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
	items, err := f.carts.ListItems(f.ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, f.catalog.DeleteProduct(f.ctx, spare.ID), services.ErrProductNotFound)
}

func TestDeleteCategoryRefusedWhileUsed(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Tools")
	p := f.product(t, "Hammer Pro", "9.99", cat.ID)

	err := f.catalog.DeleteCategory(f.ctx, cat.ID)
	assert.ErrorIs(t, err, services.ErrCategoryInUse)

	got, err := f.catalog.GetCategory(f.ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.NumOfProducts)

	require.NoError(t, f.catalog.DeleteProduct(f.ctx, p.ID))
	require.NoError(t, f.catalog.DeleteCategory(f.ctx, cat.ID))
	assert.ErrorIs(t, f.catalog.DeleteCategory(f.ctx, cat.ID), services.ErrCategoryNotFound)
}

func TestCategoryTopProductMustExist(t *testing.T) {
	f := newFixture(t)
	missing := uint(42)
	_, err := f.catalog.CreateCategory(f.ctx, services.CategoryInput{Title: "Tools", TopProductID: &missing})
	assert.ErrorIs(t, err, services.ErrUnknownTopProduct)

	cat := f.category(t, "Tools")
	p := f.product(t, "Hammer Pro", "9.99", cat.ID)
	updated, err := f.catalog.UpdateCategory(f.ctx, cat.ID, services.CategoryInput{Title: "Hand tools", TopProductID: &p.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.TopProductID)
	assert.Equal(t, p.ID, *updated.TopProductID)
}

func TestCommentsAreScopedToProduct(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Tools")
	p := f.product(t, "Hammer Pro", "9.99", cat.ID)
	other := f.product(t, "Screwdriver", "4.50", cat.ID)

	c, err := f.catalog.CreateComment(f.ctx, p.ID, services.CommentInput{Name: "Ann", Body: "great", Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, models.CommentWaiting, c.Status)

	_, err = f.catalog.GetComment(f.ctx, other.ID, c.ID)
	assert.ErrorIs(t, err, services.ErrCommentNotFound)

	updated, err := f.catalog.UpdateComment(f.ctx, p.ID, c.ID, services.CommentInput{Name: "Ann", Body: "great", Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, models.CommentApproved, updated.Status)

	list, err := f.catalog.ListComments(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.catalog.CreateComment(f.ctx, p.ID+100, services.CommentInput{Name: "Ann", Body: "?"})
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	assert.ErrorIs(t, f.catalog.DeleteComment(f.ctx, other.ID, c.ID), services.ErrCommentNotFound)
	require.NoError(t, f.catalog.DeleteComment(f.ctx, p.ID, c.ID))
}
