package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

// CartController serves anonymous carts. Knowing the cart uuid is the only
// credential a cart has.
type CartController struct {
	carts *services.CartService
}

func (h *CartController) Store(c *ctx.Context) {
	cart, err := h.carts.CreateCart(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(cart)
}

func (h *CartController) Show(c *ctx.Context) {
	id, ok := c.ParamUUID("id")
	if !ok {
		return
	}
	cart, err := h.carts.GetCart(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(cart)
}

func (h *CartController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUUID("id")
	if !ok {
		return
	}
	if err := h.carts.DeleteCart(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}

func (h *CartController) ItemIndex(c *ctx.Context) {
	cartID, ok := c.ParamUUID("cart_id")
	if !ok {
		return
	}
	items, err := h.carts.ListItems(c.Context(), cartID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(items)
}

// ItemStore adds to the cart. Posting a product already in the cart grows
// that line instead of adding a second one.
func (h *CartController) ItemStore(c *ctx.Context) {
	cartID, ok := c.ParamUUID("cart_id")
	if !ok {
		return
	}
	var in services.AddItemInput
	if !c.BindJSON(&in) {
		return
	}
	item, err := h.carts.AddItem(c.Context(), cartID, in.ProductID, in.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(item)
}

func (h *CartController) ItemShow(c *ctx.Context) {
	cartID, ok := c.ParamUUID("cart_id")
	if !ok {
		return
	}
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	item, err := h.carts.GetItem(c.Context(), cartID, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(item)
}

func (h *CartController) ItemUpdate(c *ctx.Context) {
	cartID, ok := c.ParamUUID("cart_id")
	if !ok {
		return
	}
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.UpdateItemInput
	if !c.BindJSON(&in) {
		return
	}
	item, err := h.carts.UpdateItemQuantity(c.Context(), cartID, id, in.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(item)
}

func (h *CartController) ItemDestroy(c *ctx.Context) {
	cartID, ok := c.ParamUUID("cart_id")
	if !ok {
		return
	}
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.carts.RemoveItem(c.Context(), cartID, id); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}
