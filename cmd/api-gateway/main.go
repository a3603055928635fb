package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/shop-services/internal/api-gateway/httpx"
	"github.com/jcmexdev/shop-services/internal/pkg/config"
	"github.com/jcmexdev/shop-services/internal/pkg/constants"
	"github.com/jcmexdev/shop-services/internal/pkg/httpkit"
	"github.com/jcmexdev/shop-services/internal/pkg/server"
	"github.com/jcmexdev/shop-services/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load(constants.APIGateway, "8080")
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

	router, err := httpx.NewRouter(httpkit.Service{
		Name:           cfg.Service,
		Title:          "Shop API Gateway",
		Logger:         logger,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, httpx.Upstreams{
		Customers: cfg.CustomerServiceURL,
		Products:  cfg.ProductServiceURL,
		Orders:    cfg.OrderServiceURL,
	})
	if err != nil {
		logger.Error("invalid upstream configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("api gateway routes",
		"customers", cfg.CustomerServiceURL,
		"products", cfg.ProductServiceURL,
		"orders", cfg.OrderServiceURL,
	)
	if err := server.Run(ctx, cfg.Addr(), router, logger); err != nil {
		logger.Error("api gateway stopped", "error", err)
		os.Exit(1)
	}
}
