package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/loosihong/RAiD-Backend/api/routes"
	authsvc "github.com/loosihong/RAiD-Backend/internal/auth"
	batchsvc "github.com/loosihong/RAiD-Backend/internal/batch"
	cartsvc "github.com/loosihong/RAiD-Backend/internal/cart"
	productsvc "github.com/loosihong/RAiD-Backend/internal/product"
	purchasesvc "github.com/loosihong/RAiD-Backend/internal/purchase"
	storesvc "github.com/loosihong/RAiD-Backend/internal/store"
	uomsvc "github.com/loosihong/RAiD-Backend/internal/uom"
	"github.com/loosihong/RAiD-Backend/pkg/auth/session"
	"github.com/loosihong/RAiD-Backend/pkg/config"
	"github.com/loosihong/RAiD-Backend/pkg/db"
	"github.com/loosihong/RAiD-Backend/pkg/logger"
	"github.com/loosihong/RAiD-Backend/pkg/migrate"
	"github.com/loosihong/RAiD-Backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svcs := routes.Services{
		Auth:     authsvc.NewService(authsvc.NewRepository(gormDB), sessionManager, cfg.Session, logg),
		Cart:     cartsvc.NewService(cartsvc.NewRepository(gormDB), dbClient, logg),
		Purchase: purchasesvc.NewService(purchasesvc.NewRepository(gormDB), dbClient, logg),
		Product:  productsvc.NewService(productsvc.NewRepository(gormDB), dbClient, logg),
		Batch:    batchsvc.NewService(batchsvc.NewRepository(gormDB), dbClient, logg),
		Store:    storesvc.NewService(storesvc.NewRepository(gormDB), logg),
		UOM:      uomsvc.NewService(uomsvc.NewRepository(gormDB)),
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, registry, svcs),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
