package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type CustomerController struct {
	customers *services.CustomerService
}

func (h *CustomerController) Me(c *ctx.Context) {
	who, ok := c.Identity()
	if !ok {
		c.Unauthorized()
		return
	}
	cust, err := h.customers.Me(c.Context(), who.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(cust)
}

func (h *CustomerController) UpdateMe(c *ctx.Context) {
	who, ok := c.Identity()
	if !ok {
		c.Unauthorized()
		return
	}
	var in services.CustomerInput
	if !c.BindJSON(&in) {
		return
	}
	cust, err := h.customers.UpdateMe(c.Context(), who.UserID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(cust)
}

func (h *CustomerController) Index(c *ctx.Context) {
	items, p, err := h.customers.List(c.Context(), c.PageParams())
	if err != nil {
		fail(c, err)
		return
	}
	c.Paginated(items, p)
}

func (h *CustomerController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	cust, err := h.customers.Get(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(cust)
}

func (h *CustomerController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.CustomerInput
	if !c.BindJSON(&in) {
		return
	}
	cust, err := h.customers.Update(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(cust)
}

func (h *CustomerController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := h.customers.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}

func (h *CustomerController) SendPrivateEmail(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	msg, err := h.customers.SendPrivateEmail(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]string{"message": msg})
}
