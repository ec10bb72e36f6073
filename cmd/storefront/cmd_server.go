package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/routes"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/app"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/mail"
	"github.com/shashiranjanraj/storefront/pkg/migration"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Run pending migrations, then serve HTTP and gRPC until SIGINT/SIGTERM",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close() //nolint:errcheck
		defer logger.Close()

		ran, err := migration.New(database.DB).Run(ctx)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		if len(ran) > 0 {
			logger.Info("serve: migrations applied", "count", len(ran))
		}

		store, closeStore := connectCache(ctx)
		defer closeStore()
		events, closeEvents := buildPublisher()
		defer closeEvents()
		mailer, closeMailer := buildMailer()
		defer closeMailer()

		svc := services.New(repositories.New(database.DB), store, events, mailer)
		return application(svc).Serve(ctx)
	},
}

var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		svc := services.New(repositories.New(nil), cache.Nop{}, nil, nil)
		infos, err := application(svc).RouteList()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

func application(svc *services.Services) *app.Application {
	return app.New().
		RateLimit(config.RateLimit(), time.Minute).
		TrustedProxies(config.TrustedProxies()...).
		CORSOrigins(config.CORSOrigins()).
		HealthCheck("database", database.Ping).
		Routes(func(r *router.Router) error { return routes.RegisterAPI(r, svc) })
}

// connectCache falls back to no caching when Redis is unreachable.
func connectCache(ctx context.Context) (cache.Store, func()) {
	r, err := cache.Connect(ctx)
	if err != nil {
		logger.Warn("serve: redis unavailable, product cache disabled", "error", err)
		return cache.Nop{}, func() {}
	}
	return r, func() { _ = r.Close() }
}

// buildPublisher sends order.created to the in-process bus and, when
// KAFKA_BROKERS is set, to Kafka.
func buildPublisher() (event.Publisher, func()) {
	bus := event.NewBus()
	bus.Listen(event.OrderCreated, func(ctx context.Context, e event.Event) {
		logger.WithCtx(ctx).Info("event: dispatched", "event", e.Name, "key", e.Key)
	})

	brokers := config.KafkaBrokers()
	if len(brokers) == 0 {
		return bus, func() {}
	}
	kp := event.NewKafkaPublisher(brokers, config.KafkaTopic())
	logger.Info("serve: publishing events to kafka", "brokers", brokers, "topic", config.KafkaTopic())
	return event.Fanout{bus, kp}, func() { _ = kp.Close() }
}

// buildMailer returns nil when MAIL_HOST is unset, leaving private email
// requests acknowledged but undelivered.
func buildMailer() (mail.Sender, func()) {
	cfg := mail.FromConfig()
	if !cfg.Configured() {
		logger.Info("serve: MAIL_HOST not set, email delivery disabled")
		return nil, func() {}
	}
	m := mail.NewMailer(cfg)
	logger.Info("serve: sending email via smtp", "host", cfg.Host, "port", cfg.Port)
	return m, m.Close
}
