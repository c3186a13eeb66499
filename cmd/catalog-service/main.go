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

	"clothingshop/internal/catalog"
	"clothingshop/internal/config"
	"clothingshop/internal/eventbus"
	"clothingshop/internal/observability"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		stdlog.Fatalf("catalog service failed: %v", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadCatalog()
	if err != nil {
		return err
	}

	otelCfg := observability.Config{
		ServiceName:    config.CatalogServiceName,
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

	logger := observability.NewLogger(config.CatalogServiceName, cfg.OtelEndpoint != "")
	defer logger.Sync()

	bus, err := eventbus.New(eventbus.Config{
		Brokers: strings.Split(cfg.KafkaBrokers, ","),
	}, logger)
	if err != nil {
		logger.Error("failed to connect to broker", zap.Error(err))
		return err
	}
	defer bus.Close()

	store := catalog.SeededStore()
	logger.Info("catalog store initialized")

	service := catalog.NewService(store, logger)
	if err := service.StartListener(ctx, bus); err != nil {
		logger.Error("failed to start order-placed listener", zap.Error(err))
		return err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	catalog.NewHandler(service, logger).Register(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down catalog service")

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

	logger.Info("catalog service listening", zap.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
