// Package logger provides the service-wide structured logger built on
// log/slog.
//
// WithCtx returns the request-scoped logger injected by the request logger
// middleware, so every line written while serving a request carries its
// request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order placed", "order_id", order.ID)
//	// → time=... level=INFO msg="order placed" request_id=a1b2c3d4 order_id=7
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/shashiranjanraj/storefront/config"
)

var L *slog.Logger

var (
	mu   sync.Mutex
	sink *MongoHandler
)

func init() {
	L = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Setup rebuilds L from configuration: JSON at info level in production,
// text at debug level otherwise, and a MongoDB fan-out when LOG_MONGO_URI
// is set. A Mongo connection failure degrades to stdout only.
func Setup() error {
	return setup(os.Stdout)
}

func setup(w io.Writer) error {
	mu.Lock()
	defer mu.Unlock()

	var handler slog.Handler
	if config.IsProduction() {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	var mongoErr error
	if uri := config.LogMongoURI(); uri != "" && sink == nil {
		mh, err := NewMongoHandler(uri, config.LogMongoDatabase(), config.LogMongoCollection())
		if err != nil {
			mongoErr = err
		} else {
			sink = mh
		}
	}
	if sink != nil {
		handler = NewMultiHandler(handler, sink)
	}

	L = slog.New(handler)
	slog.SetDefault(L)

	if mongoErr != nil {
		L.Warn("logger: mongo sink disabled", "error", mongoErr)
	}
	return nil
}

// Close flushes the Mongo sink, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if sink != nil {
		sink.Close()
		sink = nil
	}
}

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns the logger stored by InjectLogger, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx for WithCtx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
