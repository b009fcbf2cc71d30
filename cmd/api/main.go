package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/routes"
	"github.com/angelmondragon/storefront/internal/auth"
	"github.com/angelmondragon/storefront/internal/blogs"
	"github.com/angelmondragon/storefront/internal/categories"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/internal/persist"
	"github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/store"
	"github.com/angelmondragon/storefront/internal/users"
	"github.com/angelmondragon/storefront/pkg/auth/cookie"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/instance"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/migrate"
	"github.com/angelmondragon/storefront/pkg/redis"
	"github.com/angelmondragon/storefront/pkg/storage"
	"github.com/angelmondragon/storefront/pkg/storeapi"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
)

func main() {
	configureWireFormat()
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storeMetrics := metrics.NewStoreMetrics(registry)

	backend, pingers, closeBackend := bootstrapStorage(ctx, cfg, logg, storeMetrics)
	defer closeBackend()

	clientID, err := persist.ResolveClientID(ctx, backend, cfg.Persist.Namespace, cfg.Persist.ClientID)
	if err != nil {
		storeMetrics.IncDegraded("client_id")
		logg.WarnErr(ctx, "client id not recorded, state will not survive a restart", err)
	}
	ctx = logg.WithClientID(ctx, clientID)

	container := store.New(store.Options{Metrics: storeMetrics})
	persistor, err := persist.New(persist.Options{
		Storage:          backend,
		Key:              persist.Key(cfg.Persist.Namespace, clientID),
		RehydrateTimeout: cfg.Persist.RehydrateTimeout,
		WriteTimeout:     cfg.Persist.WriteTimeout,
		Logger:           logg,
		Metrics:          storeMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create persistor", err)
		os.Exit(1)
	}

	cookies, err := cookie.NewManager(backend, persist.CookieKey(cfg.Persist.Namespace, clientID), cfg.Auth)
	if err != nil {
		logg.Error(ctx, "failed to create cookie manager", err)
		os.Exit(1)
	}

	api, err := storeapi.NewClient(cfg.RemoteAPI.BaseURL,
		storeapi.WithTimeout(cfg.RemoteAPI.Timeout),
		storeapi.WithTokenSource(cookies),
	)
	if err != nil {
		logg.Error(ctx, "failed to create remote api client", err)
		os.Exit(1)
	}

	services := routes.Services{
		Products:   products.NewService(api),
		Categories: categories.NewService(api),
		Blogs:      blogs.NewService(api),
		Orders:     orders.NewService(api),
		Users:      users.NewService(api),
	}

	authService, err := auth.NewService(auth.ServiceParams{
		API:       api,
		Cookies:   cookies,
		Store:     container,
		Persistor: persistor,
		Users:     services.Users,
		Orders:    services.Orders,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(container, services.Orders, logg)
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	boards, err := routes.NewAdminBoards(cfg.Search, services, logg)
	if err != nil {
		logg.Error(ctx, "failed to create admin boards", err)
		os.Exit(1)
	}
	defer boards.Close()

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			Store:    container,
			Gate:     persistor,
			Auth:     authService,
			Cookies:  cookies,
			Checkout: checkoutService,
			Services: services,
			Boards:   boards,
			Pingers:  pingers,
			Gatherer: registry,
		}),
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"env":      cfg.App.Env,
			"addr":     addr,
			"instance": instance.GetID(),
		}), "starting storefront server")
		serveErr <- server.ListenAndServe()
	}()

	// Routes answer 503 until this returns.
	outcome := persistor.Rehydrate(ctx, container)
	persistor.Start(ctx, container)
	logg.Info(logg.WithField(ctx, "outcome", outcome), "state ready")

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "storefront server stopped unexpectedly", err)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "http shutdown failed", err)
	}
	if err := persistor.Close(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "final state flush failed", err)
	}
}

// configureWireFormat renders prices as JSON numbers everywhere: the remote
// API reads numbers, and the local surface and the persisted envelope follow
// the same format. Decoding accepts both forms.
func configureWireFormat() {
	decimal.MarshalJSONWithoutQuotes = true
}

// bootstrapStorage opens the configured backend. When it cannot be reached
// the process keeps running on in-memory storage with an empty state.
func bootstrapStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger, m *metrics.StoreMetrics) (storage.Store, map[string]controllers.Pinger, func()) {
	backend, pingers, closeFn, err := openStorage(ctx, cfg, logg)
	if err == nil {
		return backend, pingers, closeFn
	}
	m.IncDegraded("backend")
	logg.WarnErr(logg.WithField(ctx, "driver", cfg.Persist.NormalizedDriver()), "persistence unavailable, falling back to memory", err)
	return storage.NewMemory(), nil, func() {}
}

// openStorage builds the configured persistence backend and the pingers the
// readiness probe checks.
func openStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage.Store, map[string]controllers.Pinger, func(), error) {
	noop := func() {}
	switch cfg.Persist.NormalizedDriver() {
	case config.PersistDriverMemory:
		return storage.NewMemory(), nil, noop, nil

	case config.PersistDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, noop, err
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}
		st, err := storage.NewRedis(client, cfg.Persist.TTL)
		if err != nil {
			closeFn()
			return nil, nil, noop, err
		}
		return st, map[string]controllers.Pinger{"redis": client}, closeFn, nil

	case config.PersistDriverSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, nil, noop, err
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}
		if err := migrate.MaybeAutoRun(ctx, cfg, logg, client); err != nil {
			closeFn()
			return nil, nil, noop, err
		}
		st, err := storage.NewSQL(client.DB())
		if err != nil {
			closeFn()
			return nil, nil, noop, err
		}
		return st, map[string]controllers.Pinger{"database": client}, closeFn, nil
	}
	return nil, nil, noop, fmt.Errorf("unsupported persistence driver %q", cfg.Persist.Driver)
}
