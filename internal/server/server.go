// Package server owns the listen/serve/shutdown lifecycle of the HTTP and
// gRPC servers.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/grpc"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

type Options struct {
	HTTPAddr string
	// GRPCPort disables gRPC when empty.
	GRPCPort string
	Handler  http.Handler
	Health   grpc.CheckFunc
}

// Run serves until ctx is cancelled or the HTTP listener fails, then
// drains both servers.
func Run(ctx context.Context, opts Options) error {
	lis, err := net.Listen("tcp", opts.HTTPAddr)
	if err != nil {
		return err
	}
	return serve(ctx, lis, opts)
}

func serve(ctx context.Context, lis net.Listener, opts Options) error {
	srv := &http.Server{
		Handler:           opts.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	var grpcSrv *grpc.Server
	if opts.GRPCPort != "" {
		g, err := grpc.Start(opts.GRPCPort, opts.Health)
		if err != nil {
			_ = lis.Close()
			return err
		}
		grpcSrv = g
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: server starting", "addr", lis.Addr().String())
		errCh <- srv.Serve(lis)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("http: shutdown signal received")
	case serveErr = <-errCh:
		if errors.Is(serveErr, http.ErrServerClosed) {
			serveErr = nil
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = err
	}
	grpc.Stop(grpcSrv)

	logger.Info("http: server stopped")
	return serveErr
}
