package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/product-store/internal/app/demo"
	"github.com/mrops-br/product-store/internal/app/service"
	"github.com/mrops-br/product-store/internal/infrastructure/config"
	httpserver "github.com/mrops-br/product-store/internal/infrastructure/http"
	"github.com/mrops-br/product-store/internal/infrastructure/http/handler"
	"github.com/mrops-br/product-store/internal/infrastructure/repository/memory"
	"github.com/mrops-br/product-store/internal/infrastructure/telemetry"
)

const instrumentationName = "product-store"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	level, _ := cfg.Log.SlogLevel()

	var telem *telemetry.Telemetry
	if cfg.OTLP.ExportEnabled {
		telem, err = telemetry.NewTelemetry(&cfg.OTLP, level)
	} else {
		telem, err = telemetry.NewNoOpTelemetry(&cfg.OTLP, level)
	}
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer(instrumentationName)
	logger := telem.Logger
	slog.SetDefault(logger)

	ctx := context.Background()

	repo := memory.NewProductRepository(tracer, logger)
	memory.Seed(ctx, repo)

	switch cfg.Mode {
	case config.ModeServe:
		serve(ctx, cfg, repo, telem)
	default:
		if err := demo.Run(ctx, os.Stdout, repo); err != nil {
			logger.Error("Demo failed", slog.String("error", err.Error()))
		}
	}
}

func serve(ctx context.Context, cfg *config.Config, repo *memory.ProductRepository, telem *telemetry.Telemetry) {
	logger := telem.Logger
	tracer := telem.TracerProvider.Tracer(instrumentationName)
	meter := telem.MeterProvider.Meter(instrumentationName)

	logger.Info("Starting Products API")

	productService := service.NewProductService(repo, tracer, meter, logger)
	productHandler := handler.NewProductHandler(productService, logger)
	server := httpserver.NewServer(&cfg.Server, productHandler, logger, telem)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}

	logger.Info("Server stopped")
}
