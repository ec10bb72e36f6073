package app

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

// Handler builds the HTTP handler.
//
// Global middleware, outermost first:
//  1. metrics   so latency includes everything below
//  2. recovery  turns panics into 500
//  3. reqid     before anything logs
//  4. logger    request_id tagged access log
//  5. CORS
//  6. rate limit
func (a *Application) Handler() (http.Handler, error) {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.CORSFromOrigins(a.cors)))
	r.Use(middleware.RateLimit(a.rateLimit, a.rateWindow, a.proxies...))

	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/health", "health", a.healthHandler)

	for _, fn := range a.routesFns {
		if err := fn(r); err != nil {
			return nil, err
		}
	}
	return r.Handler(), nil
}

func (a *Application) healthHandler(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
	defer cancel()

	results, ok := a.CheckAll(ctx)
	if !ok {
		response.Write(w, http.StatusServiceUnavailable, response.Envelope{
			Status:  http.StatusServiceUnavailable,
			Message: "unhealthy",
			Data:    results,
		})
		return
	}
	response.Success(w, results)
}
