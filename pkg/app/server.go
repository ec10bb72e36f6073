package app

import (
	"context"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/internal/server"
)

// Serve builds the handler and runs HTTP and gRPC until ctx is done.
func (a *Application) Serve(ctx context.Context) error {
	h, err := a.Handler()
	if err != nil {
		return err
	}
	return server.Run(ctx, server.Options{
		HTTPAddr: ":" + config.AppPort(),
		GRPCPort: config.GRPCPort(),
		Handler:  h,
		Health:   a.Healthy,
	})
}
