package services_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

type fixture struct {
	ctx       context.Context
	repo      *repositories.Repository
	cache     *cache.Memory
	catalog   *services.CatalogService
	carts     *services.CartService
	orders    *services.OrderService
	customers *services.CustomerService
	auth      *services.AuthService

	mu     sync.Mutex
	events []event.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := repositories.New(testkit.NewDB(t))
	bus := event.NewBus()
	f := &fixture{
		ctx:       context.Background(),
		repo:      repo,
		cache:     cache.NewMemory(),
		carts:     services.NewCartService(repo),
		orders:    services.NewOrderService(repo, bus),
		customers: services.NewCustomerService(repo, nil),
		auth:      services.NewAuthService(repo),
	}
	f.catalog = services.NewCatalogService(repo, f.cache)
	bus.Listen(event.OrderCreated, func(_ context.Context, e event.Event) {
		f.mu.Lock()
		f.events = append(f.events, e)
		f.mu.Unlock()
	})
	return f
}

func (f *fixture) category(t *testing.T, title string) *models.Category {
	t.Helper()
	c, err := f.catalog.CreateCategory(f.ctx, services.CategoryInput{Title: title})
	require.NoError(t, err)
	return c
}

func (f *fixture) product(t *testing.T, name, price string, categoryID uint) *services.ProductView {
	t.Helper()
	p, err := f.catalog.CreateProduct(f.ctx, services.ProductInput{
		Name:       name,
		UnitPrice:  models.MustMoney(price),
		Inventory:  10,
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	return p
}

// customer creates a user with a provisioned profile and returns both ids.
func (f *fixture) customer(t *testing.T, email string) (userID uint, customerID uint) {
	t.Helper()
	res, err := f.auth.Register(f.ctx, services.RegisterInput{
		Name: "Test User", Email: email, Password: "secret-password",
	})
	require.NoError(t, err)
	c, err := f.customers.Me(f.ctx, res.User.ID)
	require.NoError(t, err)
	return res.User.ID, c.ID
}

func (f *fixture) cart(t *testing.T) *services.CartView {
	t.Helper()
	c, err := f.carts.CreateCart(f.ctx)
	require.NoError(t, err)
	return c
}

func (f *fixture) countOrders(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.repo.DB.Model(&models.Order{}).Count(&n).Error)
	return n
}

// failCreates makes the first times INSERTs into table fail with err; a
// negative times fails every one. It returns the number of INSERTs seen.
func (f *fixture) failCreates(t *testing.T, table string, times int, err error) *atomic.Int32 {
	t.Helper()
	var calls atomic.Int32
	require.NoError(t, f.repo.DB.Callback().Create().Before("gorm:create").
		Register("storefront_test:fail_"+table, func(tx *gorm.DB) {
			if tx.Statement.Table != table {
				return
			}
			if n := calls.Add(1); times < 0 || int(n) <= times {
				_ = tx.AddError(err)
			}
		}))
	return &calls
}
