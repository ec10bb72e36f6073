package services_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

func TestCreateOrderSnapshotsCart(t *testing.T) {
	f := newFixture(t)
	userID, customerID := f.customer(t, "buyer@example.com")
	cat := f.category(t, "Gadgets")
	widget := f.product(t, "Widget", "19.99", cat.ID)
	cart := f.cart(t)
	_, err := f.carts.AddItem(f.ctx, cart.ID, widget.ID, 3)
	require.NoError(t, err)

	order, err := f.orders.CreateOrder(f.ctx, cart.ID, userID)
	require.NoError(t, err)

	assert.Equal(t, customerID, order.CustomerID)
	assert.Equal(t, models.OrderUnpaid, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, widget.ID, order.Items[0].ProductID)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, "19.99", order.Items[0].UnitPrice.String())
	assert.Equal(t, "59.97", order.Total().String())

	_, err = f.carts.GetCart(f.ctx, cart.ID)
	assert.ErrorIs(t, err, services.ErrCartNotFound)
	_, err = f.carts.ListItems(f.ctx, cart.ID)
	assert.ErrorIs(t, err, services.ErrCartNotFound)

	require.Len(t, f.events, 1)
	assert.Equal(t, event.OrderCreated, f.events[0].Name)
	payload, ok := f.events[0].Payload.(services.OrderCreatedPayload)
	require.True(t, ok)
	assert.Equal(t, order.ID, payload.OrderID)
	assert.Equal(t, cart.ID, payload.CartID)
	assert.Equal(t, "59.97", payload.Total.String())
}

func TestOrderKeepsPriceAfterProductChange(t *testing.T) {
	f := newFixture(t)
	userID, _ := f.customer(t, "buyer@example.com")
	cat := f.category(t, "Gadgets")
	widget := f.product(t, "Widget", "19.99", cat.ID)
	cart := f.cart(t)
	_, err := f.carts.AddItem(f.ctx, cart.ID, widget.ID, 3)
	require.NoError(t, err)

	order, err := f.orders.CreateOrder(f.ctx, cart.ID, userID)
	require.NoError(t, err)

	_, err = f.catalog.UpdateProduct(f.ctx, widget.ID, services.ProductInput{
		Name:       "Widget",
		UnitPrice:  models.MustMoney("25.00"),
		Inventory:  10,
		CategoryID: cat.ID,
	})
	require.NoError(t, err)

	again, err := f.orders.GetOrder(f.ctx, order.ID, auth.Identity{UserID: userID, Role: auth.RoleUser})
	require.NoError(t, err)
	require.Len(t, again.Items, 1)
	assert.Equal(t, "19.99", again.Items[0].UnitPrice.String())
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	f := newFixture(t)
	userID, _ := f.customer(t, "buyer@example.com")
	cart := f.cart(t)

	_, err := f.orders.CreateOrder(f.ctx, cart.ID, userID)
	assert.ErrorIs(t, err, services.ErrEmptyCart)
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	assert.Zero(t, f.countOrders(t))
	_, err = f.carts.GetCart(f.ctx, cart.ID)
	assert.NoError(t, err)
}

func TestCreateOrderRejectsMissingCart(t *testing.T) {
	f := newFixture(t)
	userID, _ := f.customer(t, "buyer@example.com")

	_, err := f.orders.CreateOrder(f.ctx, uuid.New(), userID)
	assert.ErrorIs(t, err, services.ErrNoSuchCart)
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	assert.Zero(t, f.countOrders(t))
}

func TestCreateOrderWithoutCustomerLeavesCart(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Gadgets")
	widget := f.product(t, "Widget", "19.99", cat.ID)
	cart := f.cart(t)
	_, err := f.carts.AddItem(f.ctx, cart.ID, widget.ID, 1)
	require.NoError(t, err)

	_, err = f.orders.CreateOrder(f.ctx, cart.ID, 999)
	assert.ErrorIs(t, err, services.ErrCustomerNotFound)

	items, err := f.carts.ListItems(f.ctx, cart.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Zero(t, f.countOrders(t))
}

func TestCreateOrderRollsBackWhenItemsFail(t *testing.T) {
	f := newFixture(t)
	userID, _ := f.customer(t, "buyer@example.com")
	cat := f.category(t, "Gadgets")
	widget := f.product(t, "Widget", "19.99", cat.ID)
	gizmo := f.product(t, "Gizmo Max", "45.48", cat.ID)
	cart := f.cart(t)
	_, err := f.carts.AddItem(f.ctx, cart.ID, widget.ID, 1)
	require.NoError(t, err)
	_, err = f.carts.AddItem(f.ctx, cart.ID, gizmo.ID, 1)
	require.NoError(t, err)

	diskFull := errors.New("disk full")
	calls := f.failCreates(t, "order_items", -1, diskFull)

	_, err = f.orders.CreateOrder(f.ctx, cart.ID, userID)
	assert.ErrorIs(t, err, diskFull)
	assert.Equal(t, int32(1), calls.Load())

	assert.Zero(t, f.countOrders(t))
	var lines int64
	require.NoError(t, f.repo.DB.Model(&models.OrderItem{}).Count(&lines).Error)
	assert.Zero(t, lines)

	view, err := f.carts.GetCart(f.ctx, cart.ID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
	assert.Equal(t, "65.47", view.TotalPrice.String())
	assert.Empty(t, f.events)
}

func TestConcurrentCheckoutCreatesOneOrder(t *testing.T) {
	f := newFixture(t)
	userID, _ := f.customer(t, "buyer@example.com")
	cat := f.category(t, "Gadgets")
	widget := f.product(t, "Widget", "19.99", cat.ID)
	cart := f.cart(t)
	_, err := f.carts.AddItem(f.ctx, cart.ID, widget.ID, 2)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.orders.CreateOrder(f.ctx, cart.ID, userID)
		}(i)
	}
	wg.Wait()

	var ok, missing int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, services.ErrNoSuchCart):
			missing++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, missing)
	assert.Equal(t, int64(1), f.countOrders(t))
}

func TestGetOrderVisibility(t *testing.T) {
	f := newFixture(t)
	owner, _ := f.customer(t, "owner@example.com")
	stranger, _ := f.customer(t, "stranger@example.com")
	cat := f.category(t, "Gadgets")
	widget := f.product(t, "Widget", "19.99", cat.ID)
	cart := f.cart(t)
	_, err := f.carts.AddItem(f.ctx, cart.ID, widget.ID, 1)
	require.NoError(t, err)
	order, err := f.orders.CreateOrder(f.ctx, cart.ID, owner)
	require.NoError(t, err)

	_, err = f.orders.GetOrder(f.ctx, order.ID, auth.Identity{UserID: owner, Role: auth.RoleUser})
	assert.NoError(t, err)
	_, err = f.orders.GetOrder(f.ctx, order.ID, auth.Identity{UserID: stranger, Role: auth.RoleUser})
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
	_, err = f.orders.GetOrder(f.ctx, order.ID, auth.Identity{UserID: stranger, Role: auth.RoleAdmin})
	assert.NoError(t, err)

	mine, _, err := f.orders.ListOrders(f.ctx, auth.Identity{UserID: owner, Role: auth.RoleUser}, orm.Page(1, 10))
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	theirs, _, err := f.orders.ListOrders(f.ctx, auth.Identity{UserID: stranger, Role: auth.RoleUser}, orm.Page(1, 10))
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newFixture(t)
	userID, _ := f.customer(t, "buyer@example.com")
	cat := f.category(t, "Gadgets")
	widget := f.product(t, "Widget", "19.99", cat.ID)
	cart := f.cart(t)
	_, err := f.carts.AddItem(f.ctx, cart.ID, widget.ID, 1)
	require.NoError(t, err)
	order, err := f.orders.CreateOrder(f.ctx, cart.ID, userID)
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(f.ctx, order.ID, models.OrderStatus("shipped"))
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	updated, err := f.orders.UpdateStatus(f.ctx, order.ID, models.OrderComplete)
	require.NoError(t, err)
	assert.Equal(t, models.OrderComplete, updated.Status)

	_, err = f.orders.UpdateStatus(f.ctx, order.ID+1, models.OrderFailed)
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
}
