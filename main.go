package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/storefront-api/internal/app/service"
	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/mrops-br/storefront-api/internal/infrastructure/config"
	"github.com/mrops-br/storefront-api/internal/infrastructure/describer"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/storefront-api/internal/infrastructure/imageenc"
	"github.com/mrops-br/storefront-api/internal/infrastructure/repository/bolt"
	"github.com/mrops-br/storefront-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/storefront-api/internal/infrastructure/repository/postgres"
	"github.com/mrops-br/storefront-api/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("storefront-api: %v", err)
	}
}

func run() error {
	cfg := config.LoadConfig()

	telem, err := telemetry.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer := telem.TracerProvider.Tracer("storefront-api")
	meter := telem.MeterProvider.Meter("storefront-api")
	logger := telem.Logger

	logger.Info("Starting Storefront API", slog.String("store_driver", cfg.Store.Driver))

	store, closer, err := openStore(ctx, &cfg.Store, tracer, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	generator, err := describer.NewGemini(ctx, cfg.Description.APIKey, cfg.Description.Model, tracer, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize description generator: %w", err)
	}
	encoder := imageenc.NewEncoder(cfg.Image.MaxBytes, cfg.Image.MaxDimension, cfg.Image.MaxPixels, cfg.Image.Quality, logger)
	composer := domain.Composer{
		StoreName:   cfg.Checkout.StoreName,
		BaseURL:     cfg.Checkout.BaseURL,
		Destination: cfg.Checkout.Phone,
	}

	catalog := service.NewCatalogService(store, tracer, meter, logger)
	if err := catalog.Load(ctx); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	carts := service.NewCartService(catalog, tracer, meter, logger)
	checkout := service.NewCheckoutService(carts, composer, tracer, meter, logger)
	editor := service.NewEditorService(catalog, generator, encoder, cfg.Description.Timeout, tracer, meter, logger)

	server := http.NewServer(&cfg.Server, http.Handlers{
		Products: handler.NewProductHandler(catalog, logger),
		Carts:    handler.NewCartHandler(carts, checkout, logger),
		Editor:   handler.NewEditorHandler(editor, int64(cfg.Image.MaxBytes), logger),
	}, telem.MeterProvider, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		ticker := time.NewTicker(cfg.Server.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				carts.Sweep(gctx, cfg.Server.SessionIdleTimeout)
				editor.Sweep(gctx, cfg.Server.SessionIdleTimeout)
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		editor.Wait()
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped")
	return nil
}

// openStore returns the blob store selected by STORE_DRIVER
func openStore(ctx context.Context, cfg *config.StoreConfig, tracer trace.Tracer, logger *slog.Logger) (domain.BlobStore, io.Closer, error) {
	switch cfg.Driver {
	case "bolt":
		s, err := bolt.Open(cfg.BoltPath, tracer, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open bolt store: %w", err)
		}
		return s, s, nil
	case "postgres":
		s, err := postgres.Open(ctx, cfg.DatabaseURL, tracer, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return s, s, nil
	case "memory":
		return memory.NewBlobStore(tracer, logger), io.NopCloser(nil), nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Driver)
	}
}
