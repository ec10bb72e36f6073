// Package routes mounts the storefront API.
package routes

import (
	"github.com/shashiranjanraj/storefront/app/controllers"
	appgraphql "github.com/shashiranjanraj/storefront/app/graphql"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/graphql"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/rbac"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

// RegisterAPI mounts every endpoint served over svc. Authenticate runs on
// all of them, so an identity is present whenever a valid token was sent.
func RegisterAPI(r *router.Router, svc *services.Services) error {
	schema, err := appgraphql.NewSchema(svc.Catalog)
	if err != nil {
		return err
	}
	r.Post("/graphql", "graphql", graphql.Handler(schema))

	c := controllers.New(svc)
	api := r.Group("/api", middleware.Authenticate)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", "auth.register", ctx.Wrap(c.Auth.Register))
	authGroup.Post("/login", "auth.login", ctx.Wrap(c.Auth.Login))

	products := api.Group("/products")
	products.Get("/", "products.index", ctx.Wrap(c.Catalog.ProductIndex))
	products.Get("/{id}", "products.show", ctx.Wrap(c.Catalog.ProductShow))
	products.Post("/", "products.store", ctx.Wrap(c.Catalog.ProductStore), rbac.Admin)
	products.Put("/{id}", "products.update", ctx.Wrap(c.Catalog.ProductUpdate), rbac.Admin)
	products.Delete("/{id}", "products.destroy", ctx.Wrap(c.Catalog.ProductDestroy), rbac.Admin)

	comments := products.Group("/{product_id}/comments")
	comments.Get("/", "comments.index", ctx.Wrap(c.Catalog.CommentIndex))
	comments.Post("/", "comments.store", ctx.Wrap(c.Catalog.CommentStore))
	comments.Get("/{id}", "comments.show", ctx.Wrap(c.Catalog.CommentShow))
	comments.Put("/{id}", "comments.update", ctx.Wrap(c.Catalog.CommentUpdate), rbac.Admin)
	comments.Delete("/{id}", "comments.destroy", ctx.Wrap(c.Catalog.CommentDestroy), rbac.Admin)

	categories := api.Group("/categories", rbac.AdminOrReadOnly)
	categories.Get("/", "categories.index", ctx.Wrap(c.Catalog.CategoryIndex))
	categories.Get("/{id}", "categories.show", ctx.Wrap(c.Catalog.CategoryShow))
	categories.Post("/", "categories.store", ctx.Wrap(c.Catalog.CategoryStore))
	categories.Put("/{id}", "categories.update", ctx.Wrap(c.Catalog.CategoryUpdate))
	categories.Delete("/{id}", "categories.destroy", ctx.Wrap(c.Catalog.CategoryDestroy))

	carts := api.Group("/carts")
	carts.Post("/", "carts.store", ctx.Wrap(c.Carts.Store))
	carts.Get("/{id}", "carts.show", ctx.Wrap(c.Carts.Show))
	carts.Delete("/{id}", "carts.destroy", ctx.Wrap(c.Carts.Destroy))

	items := carts.Group("/{cart_id}/items")
	items.Get("/", "cart_items.index", ctx.Wrap(c.Carts.ItemIndex))
	items.Post("/", "cart_items.store", ctx.Wrap(c.Carts.ItemStore))
	items.Get("/{id}", "cart_items.show", ctx.Wrap(c.Carts.ItemShow))
	items.Patch("/{id}", "cart_items.update", ctx.Wrap(c.Carts.ItemUpdate))
	items.Delete("/{id}", "cart_items.destroy", ctx.Wrap(c.Carts.ItemDestroy))

	orders := api.Group("/orders", rbac.Authenticated)
	orders.Get("/", "orders.index", ctx.Wrap(c.Orders.Index))
	orders.Post("/", "orders.store", ctx.Wrap(c.Orders.Store))
	orders.Get("/{id}", "orders.show", ctx.Wrap(c.Orders.Show))
	orders.Patch("/{id}", "orders.update", ctx.Wrap(c.Orders.Update), rbac.Admin)

	customers := api.Group("/customers", rbac.Authenticated)
	customers.Get("/me", "customers.me", ctx.Wrap(c.Customers.Me))
	customers.Put("/me", "customers.me.update", ctx.Wrap(c.Customers.UpdateMe))

	admin := customers.Group("", rbac.Admin)
	admin.Get("/", "customers.index", ctx.Wrap(c.Customers.Index))
	admin.Get("/{id}", "customers.show", ctx.Wrap(c.Customers.Show))
	admin.Put("/{id}", "customers.update", ctx.Wrap(c.Customers.Update))
	admin.Delete("/{id}", "customers.destroy", ctx.Wrap(c.Customers.Destroy))
	admin.Get("/{id}/send_private_email", "customers.send_private_email", ctx.Wrap(c.Customers.SendPrivateEmail))

	return nil
}
