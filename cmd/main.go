package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dinithim/storefront-checkout/internal/app"
	"github.com/dinithim/storefront-checkout/internal/checkout"
	"github.com/dinithim/storefront-checkout/internal/config"
	"github.com/dinithim/storefront-checkout/internal/events"
	"github.com/dinithim/storefront-checkout/internal/gateway"
	"github.com/dinithim/storefront-checkout/internal/handler"
	"github.com/dinithim/storefront-checkout/internal/postgres"
	"github.com/dinithim/storefront-checkout/internal/session"
	"github.com/dinithim/storefront-checkout/pkg/cache"
	"github.com/dinithim/storefront-checkout/pkg/trm"

	"github.com/joho/godotenv"
)

func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	sessionStore := session.NewPostgresStore(db, trm.NewManager(db))

	catalogCache := cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)
	catalog := gateway.NewCatalog(logger, gateway.NewClient(logger, conf.Catalog.BaseURL, conf.Catalog.Timeout), catalogCache)
	orders := gateway.NewOrders(logger, gateway.NewClient(logger, conf.Orders.BaseURL, conf.Orders.Timeout))

	publisher := events.NewPublisher(logger, conf.Kafka)
	registry := checkout.NewRegistry(logger, catalog, sessionStore, orders, publisher)

	app := app.New(logger, conf)

	app.SetHttpHandlers(
		handler.NewCartHandler(logger, registry, catalog),
		handler.NewSavedHandler(logger, registry, catalog),
		handler.NewCheckoutHandler(logger, registry),
		handler.NewCatalogHandler(logger, catalog),
		handler.NewOrdersHandler(logger, orders),
	)
	app.SetStarters(catalogCache)
	app.SetClosers(publisher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	panicIfErr("failed to start app", app.Start(ctx))
	<-ctx.Done()
	panicIfErr("failed to stop app", app.Stop())
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
