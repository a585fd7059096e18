package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/homeslands/order-sub002/api/routes"
	"github.com/homeslands/order-sub002/internal/cart"
	"github.com/homeslands/order-sub002/internal/orders"
	"github.com/homeslands/order-sub002/internal/products"
	"github.com/homeslands/order-sub002/internal/vouchers"
	"github.com/homeslands/order-sub002/pkg/config"
	"github.com/homeslands/order-sub002/pkg/db"
	"github.com/homeslands/order-sub002/pkg/env"
	"github.com/homeslands/order-sub002/pkg/logger"
	"github.com/homeslands/order-sub002/pkg/metrics"
	"github.com/homeslands/order-sub002/pkg/migrate"
	"github.com/homeslands/order-sub002/pkg/redis"
)

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

	pricingMetrics := metrics.NewPricingMetrics(prometheus.DefaultRegisterer)

	productRepo := products.NewRepository(dbClient.DB())
	voucherRepo := vouchers.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())

	voucherService, err := vouchers.NewService(voucherRepo, pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create voucher service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(productRepo, voucherRepo, pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:        orderRepo,
		Tx:          dbClient,
		ProductRepo: productRepo,
		VoucherRepo: voucherRepo,
		Metrics:     pricingMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, voucherService, cartService, orderService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
