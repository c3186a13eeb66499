package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"clothingshop/internal/config"
	"clothingshop/internal/eventbus"
	"clothingshop/internal/observability"
	"clothingshop/internal/order"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		stdlog.Fatalf("order service failed: %v", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadOrder()
	if err != nil {
		return err
	}

	otelCfg := observability.Config{
		ServiceName:    config.OrderServiceName,
		ServiceVersion: config.ServiceVersion,
		Endpoint:       cfg.OtelEndpoint,
		AuthHeader:     cfg.OtelAuthHeader,
	}
	logShutdown, err := observability.SetupLogging(ctx, otelCfg)
	if err != nil {
		return err
	}
	traceShutdown, err := observability.SetupTracing(ctx, otelCfg)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(config.OrderServiceName, cfg.OtelEndpoint != "")
	defer logger.Sync()

	bus, err := eventbus.New(eventbus.Config{
		Brokers: strings.Split(cfg.KafkaBrokers, ","),
	}, logger)
	if err != nil {
		logger.Error("failed to connect to broker", zap.Error(err))
		return err
	}
	defer bus.Close()

	store := order.NewStore()
	catalogClient := order.NewCatalogClient(cfg.CatalogHost)
	service := order.NewService(store, bus, catalogClient, logger, config.OrderServiceName)

	router := gin.New()
	router.Use(gin.Recovery())
	order.NewHandler(service, logger).Register(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down order service")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
		if err := traceShutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown tracing", zap.Error(err))
		}
		if err := logShutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown log export", zap.Error(err))
		}
	}()

	logger.Info("order service listening", zap.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
