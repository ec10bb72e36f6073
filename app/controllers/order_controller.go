package controllers

import (
	"github.com/google/uuid"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type OrderController struct {
	orders *services.OrderService
}

// Store checks out a cart for the calling user.
//
//	POST /api/orders {"cart_id":"4f1c2b9e-..."}
func (h *OrderController) Store(c *ctx.Context) {
	who, ok := c.Identity()
	if !ok {
		c.Unauthorized()
		return
	}
	var in services.CreateOrderInput
	if !c.BindJSON(&in) {
		return
	}
	cartID, err := uuid.Parse(in.CartID)
	if err != nil {
		c.ValidationError(map[string]string{"cart_id": "The cart_id must be a valid UUID."})
		return
	}

	order, err := h.orders.CreateOrder(c.Context(), cartID, who.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(order)
}

func (h *OrderController) Index(c *ctx.Context) {
	who, ok := c.Identity()
	if !ok {
		c.Unauthorized()
		return
	}
	items, p, err := h.orders.ListOrders(c.Context(), who, c.PageParams())
	if err != nil {
		fail(c, err)
		return
	}
	c.Paginated(items, p)
}

func (h *OrderController) Show(c *ctx.Context) {
	who, ok := c.Identity()
	if !ok {
		c.Unauthorized()
		return
	}
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Context(), id, who)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(order)
}

// Update changes the status; nothing else about an order is mutable.
func (h *OrderController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.UpdateOrderInput
	if !c.BindJSON(&in) {
		return
	}
	order, err := h.orders.UpdateStatus(c.Context(), id, models.OrderStatus(in.Status))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(order)
}
