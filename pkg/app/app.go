// Package app assembles the HTTP kernel: the global middleware chain, the
// operational endpoints and the route callbacks, plus the readiness checks
// shared by GET /health and the gRPC health service.
//
//	a := app.New().
//	    Routes(func(r *router.Router) error { return routes.RegisterAPI(r, svc) }).
//	    HealthCheck("database", database.Ping)
//	err := a.Serve(ctx)
package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/router"
)

// RouteFunc mounts routes on r.
type RouteFunc func(r *router.Router) error

// CheckFunc reports whether a dependency is reachable.
type CheckFunc func(ctx context.Context) error

type check struct {
	name string
	fn   CheckFunc
}

// Application is built with New and configured with its chained methods.
type Application struct {
	routesFns  []RouteFunc
	checks     []check
	rateLimit  int
	rateWindow time.Duration
	cors       string
	proxies    []string
}

func New() *Application {
	return &Application{rateLimit: 200, rateWindow: time.Minute}
}

// Routes appends a route callback. Callbacks run in order when the kernel
// is built.
func (a *Application) Routes(fn RouteFunc) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// HealthCheck adds a named readiness check.
func (a *Application) HealthCheck(name string, fn CheckFunc) *Application {
	a.checks = append(a.checks, check{name: name, fn: fn})
	return a
}

// RateLimit sets the per-client request budget per window.
func (a *Application) RateLimit(max int, window time.Duration) *Application {
	a.rateLimit = max
	a.rateWindow = window
	return a
}

// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For the
// rate limiter believes.
func (a *Application) TrustedProxies(proxies ...string) *Application {
	a.proxies = append(a.proxies, proxies...)
	return a
}

// CORSOrigins sets the comma-separated allowed origins; empty allows all.
func (a *Application) CORSOrigins(origins string) *Application {
	a.cors = origins
	return a
}

// CheckAll runs every check and returns name → error text ("ok" when it
// passed), and whether all passed.
func (a *Application) CheckAll(ctx context.Context) (map[string]string, bool) {
	results := make(map[string]string, len(a.checks))
	healthy := true
	for _, c := range a.checks {
		if err := c.fn(ctx); err != nil {
			results[c.name] = err.Error()
			healthy = false
			continue
		}
		results[c.name] = "ok"
	}
	return results, healthy
}

// Healthy is CheckAll reduced to one error, for callers that only need a
// yes or no.
func (a *Application) Healthy(ctx context.Context) error {
	results, ok := a.CheckAll(ctx)
	if ok {
		return nil
	}
	names := make([]string, 0, len(results))
	for name, res := range results {
		if res != "ok" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return fmt.Errorf("unhealthy: %v", names)
}

// RouteList builds the routes without serving them.
func (a *Application) RouteList() ([]router.RouteInfo, error) {
	r := router.New()
	for _, fn := range a.routesFns {
		if err := fn(r); err != nil {
			return nil, err
		}
	}
	return r.Routes(), nil
}
