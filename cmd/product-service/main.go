package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/shop-services/internal/product-service/adapters/httpx"
	"github.com/jcmexdev/shop-services/internal/product-service/adapters/sqlstore"
	"github.com/jcmexdev/shop-services/internal/product-service/app"
	"github.com/jcmexdev/shop-services/internal/pkg/config"
	"github.com/jcmexdev/shop-services/internal/pkg/constants"
	"github.com/jcmexdev/shop-services/internal/pkg/database"
	"github.com/jcmexdev/shop-services/internal/pkg/httpkit"
	"github.com/jcmexdev/shop-services/internal/pkg/server"
	"github.com/jcmexdev/shop-services/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load(constants.ProductService, "8002")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := telemetry.InitLogger(cfg.Service, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, cfg.Service, cfg.TracingDisabled)
	if err != nil {
		logger.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Error("tracer shutdown error", "error", err)
		}
	}()

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.ApplySchema(ctx, sqlstore.Schema); err != nil {
		logger.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	svc := app.NewService(sqlstore.New(db), app.WithLogger(logger))

	router := httpkit.NewRouter(httpkit.Service{
		Name:           cfg.Service,
		Title:          "Product Service",
		Logger:         logger,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	httpx.Routes(router, httpx.NewHandler(svc))

	if err := server.Run(ctx, cfg.Addr(), router, logger); err != nil {
		logger.Error("product service stopped", "error", err)
		os.Exit(1)
	}
}
