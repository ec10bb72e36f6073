// Package controllers adapts HTTP requests to service calls and service
// errors to status codes.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

type Controllers struct {
	Catalog   *CatalogController
	Carts     *CartController
	Orders    *OrderController
	Customers *CustomerController
	Auth      *AuthController
}

func New(svc *services.Services) *Controllers {
	return &Controllers{
		Catalog:   &CatalogController{catalog: svc.Catalog},
		Carts:     &CartController{carts: svc.Carts},
		Orders:    &OrderController{orders: svc.Orders},
		Customers: &CustomerController{customers: svc.Customers},
		Auth:      &AuthController{auth: svc.Auth},
	}
}

// fail writes the response for a service error. Errors without a kind are
// logged and answered with a bare 500.
func fail(c *ctx.Context, err error) {
	var se *services.Error
	if !errors.As(err, &se) {
		logger.WithCtx(c.Context()).Error("request failed",
			"method", c.R.Method, "path", c.R.URL.Path, "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	switch {
	case errors.Is(err, services.ErrBadCredentials):
		c.Error(http.StatusUnauthorized, se.Msg)
	case errors.Is(err, services.ErrInvalidInput):
		c.Error(http.StatusBadRequest, se.Msg)
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(se.Msg)
	case errors.Is(err, services.ErrConflict):
		c.Error(http.StatusConflict, se.Msg)
	case errors.Is(err, services.ErrIntegrity):
		c.Error(http.StatusMethodNotAllowed, se.Msg)
	default:
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}
