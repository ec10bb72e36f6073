package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/router"
)

func tag(value string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", value)
			next.ServeHTTP(w, r)
		})
	}
}

func TestGroupMiddlewareOrder(t *testing.T) {
	r := router.New()
	api := r.Group("/api", tag("group"))
	api.Delete("/carts/{id}", "carts.destroy", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/carts/abc", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"group", "route"}, rec.Header().Values("X-Chain"))
}

func TestURLAndRoutes(t *testing.T) {
	r := router.New()
	products := r.Group("/api/products")
	products.Get("/{product_id}/comments/{id}", "comments.show", func(http.ResponseWriter, *http.Request) {})
	products.Patch("/{id}", "", func(http.ResponseWriter, *http.Request) {})

	url, err := r.URL("comments.show", map[string]string{"product_id": "3", "id": "9"})
	require.NoError(t, err)
	assert.Equal(t, "/api/products/3/comments/9", url)

	_, err = r.URL("comments.show", map[string]string{"id": "9"})
	assert.Error(t, err)

	routes := r.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, router.RouteInfo{Method: http.MethodPatch, Path: "/api/products/{id}"}, routes[0])
}
