package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/vetricrackers/vetricrackers-backend/api/routes"
	"github.com/vetricrackers/vetricrackers-backend/internal/banners"
	"github.com/vetricrackers/vetricrackers-backend/internal/bookings"
	"github.com/vetricrackers/vetricrackers-backend/internal/catalog"
	"github.com/vetricrackers/vetricrackers-backend/internal/customers"
	"github.com/vetricrackers/vetricrackers-backend/internal/locations"
	"github.com/vetricrackers/vetricrackers-backend/internal/pricing"
	"github.com/vetricrackers/vetricrackers-backend/internal/promos"
	"github.com/vetricrackers/vetricrackers-backend/internal/quotations"
	"github.com/vetricrackers/vetricrackers-backend/internal/reports"
	"github.com/vetricrackers/vetricrackers-backend/pkg/config"
	"github.com/vetricrackers/vetricrackers-backend/pkg/db"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
	"github.com/vetricrackers/vetricrackers-backend/pkg/migrate"
	"github.com/vetricrackers/vetricrackers-backend/pkg/outbox"
	"github.com/vetricrackers/vetricrackers-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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

	cfg.Service.Kind = "api"

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	deps, err := buildDeps(cfg, logg, dbClient, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(deps),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server shutting down gracefully")
}

func buildDeps(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (routes.Deps, error) {
	gdb := dbClient.DB()
	events := outbox.NewService(outbox.NewRepository(gdb), logg)

	catalogSvc, err := catalog.NewService(catalog.NewRepository(gdb), logg)
	if err != nil {
		return routes.Deps{}, err
	}
	customersSvc, err := customers.NewService(customers.NewRepository(gdb), logg)
	if err != nil {
		return routes.Deps{}, err
	}
	bookingsRepo := bookings.NewRepository(gdb)
	bookingsSvc, err := bookings.NewService(bookingsRepo, dbClient, events, logg)
	if err != nil {
		return routes.Deps{}, err
	}
	quotesSvc, err := quotations.NewService(quotations.ServiceParams{
		Repo:      quotations.NewRepository(gdb),
		Tx:        dbClient,
		Products:  catalogSvc,
		Customers: customersSvc,
		Calc:      pricing.NewCalculator(logg),
		Events:    events,
		Bookings:  bookingsRepo,
		Logger:    logg,
	})
	if err != nil {
		return routes.Deps{}, err
	}
	promosSvc, err := promos.NewService(promos.NewRepository(gdb), logg)
	if err != nil {
		return routes.Deps{}, err
	}
	bannersSvc, err := banners.NewService(banners.NewRepository(gdb), logg)
	if err != nil {
		return routes.Deps{}, err
	}
	ratesSvc, err := locations.NewService(locations.NewRepository(gdb), logg)
	if err != nil {
		return routes.Deps{}, err
	}
	reportsSvc, err := reports.NewService(reports.NewRepository(gdb), logg)
	if err != nil {
		return routes.Deps{}, err
	}

	return routes.Deps{
		Config:    cfg,
		Logger:    logg,
		DBPing:    dbClient.Ping,
		RedisPing: redisClient.Ping,
		Redis:     redisClient,
		Catalog:   catalogSvc,
		Customers: customersSvc,
		Quotes:    quotesSvc,
		Bookings:  bookingsSvc,
		Promos:    promosSvc,
		Banners:   bannersSvc,
		Rates:     ratesSvc,
		Reports:   reportsSvc,
	}, nil
}
