package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/tillpoint-backend/api/controllers"
	"github.com/angelmondragon/tillpoint-backend/api/routes"
	"github.com/angelmondragon/tillpoint-backend/internal/checkout"
	"github.com/angelmondragon/tillpoint-backend/internal/promotions"
	"github.com/angelmondragon/tillpoint-backend/internal/sales"
	"github.com/angelmondragon/tillpoint-backend/internal/vouchers"
	"github.com/angelmondragon/tillpoint-backend/pkg/config"
	"github.com/angelmondragon/tillpoint-backend/pkg/db"
	"github.com/angelmondragon/tillpoint-backend/pkg/logger"
	"github.com/angelmondragon/tillpoint-backend/pkg/metrics"
	"github.com/angelmondragon/tillpoint-backend/pkg/migrate"
	pkgmongo "github.com/angelmondragon/tillpoint-backend/pkg/mongo"
	pkgredis "github.com/angelmondragon/tillpoint-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	location, err := cfg.Checkout.Location()
	if err != nil {
		logg.Error(context.Background(), "failed to load checkout time zone", err)
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	readiness := map[string]controllers.Pinger{"database": dbClient}

	// redis is optional: without it rule snapshots are read straight from the
	// database and sale submissions are not deduplicated.
	var (
		ruleCache   pkgredis.SnapshotCache
		idempotency pkgredis.IdempotencyStore
	)
	if cfg.Redis.Enabled() {
		redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		ruleCache = redisClient
		idempotency = redisClient
		readiness["redis"] = redisClient
	} else {
		logg.Warn(context.Background(), "redis not configured; rule cache and idempotency disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	salesRepo := sales.NewRepository(dbClient.DB())
	if cfg.Checkout.UsesMongoSales() {
		mongoClient, err := pkgmongo.New(context.Background(), cfg.Mongo, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap mongo", err)
			os.Exit(1)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := mongoClient.Close(closeCtx); err != nil {
				logg.Error(context.Background(), "error closing mongo", err)
			}
		}()
		mongoSales, err := sales.NewMongoRepository(mongoClient.SalesCollection())
		if err != nil {
			logg.Error(context.Background(), "failed to create mongo sales repository", err)
			os.Exit(1)
		}
		if err := mongoSales.EnsureIndexes(context.Background()); err != nil {
			logg.Error(context.Background(), "failed to ensure sales indexes", err)
			os.Exit(1)
		}
		salesRepo = mongoSales
		readiness["mongo"] = mongoClient
	}

	feed, err := promotions.NewStoreFeed(promotions.NewRepository(dbClient.DB()), ruleCache, cfg.Checkout.RuleCacheTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create rule feed", err)
		os.Exit(1)
	}
	promotionsService, err := promotions.NewService(feed, checkoutMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create promotions service", err)
		os.Exit(1)
	}

	vouchersService, err := vouchers.NewService(vouchers.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create vouchers service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(promotionsService, vouchersService, salesRepo, checkout.Config{
		Location: location,
		Metrics:  checkoutMetrics,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":         cfg.App.Env,
		"addr":        addr,
		"sales_store": cfg.Checkout.SalesStore,
		"time_zone":   location.String(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			Checkout:    checkoutService,
			Promotions:  promotionsService,
			Idempotency: idempotency,
			Readiness:   readiness,
			Gatherer:    registry,
			Location:    location,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}
