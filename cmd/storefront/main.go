package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/storefront/internal/cart"
	"github.com/jcmexdev/storefront/internal/catalog"
	"github.com/jcmexdev/storefront/internal/contact"
	"github.com/jcmexdev/storefront/internal/httpx"
	"github.com/jcmexdev/storefront/internal/pkg/config"
	"github.com/jcmexdev/storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/storefront/internal/store"
	redisstore "github.com/jcmexdev/storefront/internal/store/redis"
	sqlitestore "github.com/jcmexdev/storefront/internal/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	telemetry.InitLogger(cfg.Telemetry.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !cfg.Telemetry.TracingDisabled {
		shutdown, err := telemetry.SetupTracer(ctx, cfg.Telemetry.ServiceName)
		if err != nil {
			slog.Error("failed to initialise tracer", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("tracer shutdown error", "error", err)
			}
		}()
	}

	st, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		slog.Error("failed to open snapshot store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	carts := cart.NewRegistry(st,
		cart.WithPricing(cart.Pricing{
			TaxRate:      cfg.Pricing.TaxRate,
			FlatShipping: cfg.Pricing.FlatShipping,
		}),
		cart.WithListener(func(ev cart.Event) {
			slog.Debug("cart changed", "key", ev.Key, "op", ev.Op, "count", ev.Count)
		}),
	)

	handler := httpx.NewHandler(carts, cat, contact.NewService())

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      httpx.NewRouter(handler),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		slog.Info("storefront HTTP running", "addr", cfg.HTTP.Addr, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
}

// openStore builds the snapshot store named by the config. The returned
// closer is always safe to defer.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, func(), error) {
	switch cfg.Driver {
	case "redis":
		s := redisstore.New(cfg.RedisAddr, cfg.Namespace, cfg.CartTTL)
		if err := s.Ping(ctx); err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "sqlite":
		s, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "memory":
		return store.NewMemory(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func loadCatalog(cfg config.CatalogConfig) (*catalog.Catalog, error) {
	if cfg.SeedPath == "" {
		return catalog.New(catalog.DefaultProducts()), nil
	}
	f, err := os.Open(cfg.SeedPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog seed %q: %w", cfg.SeedPath, err)
	}
	defer f.Close()
	return catalog.FromJSON(f)
}
