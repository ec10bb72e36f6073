package app_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/app"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

func ping(r *router.Router) error {
	r.Get("/ping", "ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	return nil
}

func TestHealthReportsChecks(t *testing.T) {
	var dbErr error
	a := app.New().HealthCheck("database", func(context.Context) error { return dbErr })
	h, err := a.Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":200,"data":{"database":"ok"}}`, rec.Body.String())

	dbErr = errors.New("connection refused")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
	assert.Error(t, a.Healthy(context.Background()))
}

func TestGlobalMiddlewareApplies(t *testing.T) {
	h, err := app.New().Routes(ping).Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(reqid.Header))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitRejectsBurst(t *testing.T) {
	h, err := app.New().Routes(ping).RateLimit(2, time.Minute).Handler()
	require.NoError(t, err)

	codes := make([]int, 3)
	for i := range codes {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes[i] = rec.Code
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	h, err := app.New().Routes(ping).RateLimit(1, time.Minute).Handler()
	require.NoError(t, err)

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes[i] = rec.Code
	}
	assert.Equal(t, []int{200, 429, 429}, codes)
}

func TestRateLimitBehindTrustedProxy(t *testing.T) {
	h, err := app.New().Routes(ping).RateLimit(1, time.Minute).TrustedProxies("192.0.2.0/24").Handler()
	require.NoError(t, err)

	send := func(fwd string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Forwarded-For", fwd)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, send("203.0.113.1"))
	assert.Equal(t, http.StatusOK, send("203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.1"))
}

func TestRouteCallbackErrorsSurface(t *testing.T) {
	boom := errors.New("schema")
	_, err := app.New().Routes(func(*router.Router) error { return boom }).Handler()
	assert.ErrorIs(t, err, boom)

	routes, err := app.New().Routes(ping).RouteList()
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "ping", routes[0].Name)
}
