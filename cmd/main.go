package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hydroshop/storefront/internal/config"
	"hydroshop/storefront/internal/handler"
	"hydroshop/storefront/internal/model"
	"hydroshop/storefront/internal/optimistic"
	"hydroshop/storefront/internal/repository"
	"hydroshop/storefront/internal/service"
	"hydroshop/storefront/internal/session"
	"hydroshop/storefront/internal/storefront"
	"hydroshop/storefront/internal/view"
	"hydroshop/storefront/pkg/crypto"
)

const sweepInterval = time.Minute

func main() {
	// 1. Load configuration
	path := os.Getenv("STOREFRONT_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	var logger *zap.Logger
	if cfg.Log.Format == "json" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Initialize stores: sessions and the catalog query cache
	var (
		sessionStore repository.StateStore
		cacheStore   repository.StateStore = repository.NewMemoryStateStore()
	)
	switch cfg.Session.Backend {
	case "cookie":
		logger.Info("using cookie sessions")
	case "memory":
		sessionStore = repository.NewMemoryStateStore()
		logger.Info("using in-memory session store")
	case "redis":
		redisClient, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		sessionStore = repository.NewRedisStateStore(redisClient, cfg.Database.Redis.KeyPrefix)
		cacheStore = sessionStore
		logger.Info("using Redis session store")
	case "postgres":
		db, err := config.NewPostgresDB(cfg.Database.Postgres)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		if cfg.Database.Postgres.AutoMigrate {
			if err := model.AutoMigrate(db); err != nil {
				logger.Fatal("failed to auto-migrate", zap.Error(err))
			}
			logger.Info("database migration completed")
		}
		sessionStore = repository.NewPGStateStore(db)
		logger.Info("using PostgreSQL session store")
	default:
		logger.Fatal("unknown session backend", zap.String("backend", cfg.Session.Backend))
	}
	for _, store := range []repository.StateStore{sessionStore, cacheStore} {
		if sweeper, ok := store.(repository.Sweeper); ok {
			go sweep(ctx, sweeper, logger)
		}
	}

	// 4. Initialize the Storefront API client
	i18n, err := storefront.ParseI18n(cfg.Storefront.Country, cfg.Storefront.Language)
	if err != nil {
		logger.Fatal("invalid storefront i18n", zap.Error(err))
	}
	client := storefront.NewClient(storefront.Config{
		StoreDomain: cfg.Storefront.StoreDomain,
		APIVersion:  cfg.Storefront.APIVersion,
		AccessToken: cfg.Storefront.AccessToken,
		Timeout:     cfg.Storefront.Timeout,
		CacheTTL:    cfg.Storefront.CacheTTL,
		I18n:        i18n,
	}, cacheStore, logger)

	// 5. Initialize services
	pending := optimistic.NewPendingSet()
	cartService := service.NewCartService(client, pending, logger)
	catalogService := service.NewCatalogService(client, cartService, logger)

	// 6. Initialize sessions
	keys, err := crypto.DeriveCookieKeys(cfg.Session.Secret)
	if err != nil {
		logger.Fatal("failed to derive session keys", zap.Error(err))
	}
	opts := session.Options{
		CookieName: cfg.Session.CookieName,
		MaxAge:     cfg.Session.MaxAge,
		Secure:     cfg.Session.Secure,
		Keys:       keys,
	}
	var sessions session.Manager
	if sessionStore == nil {
		sessions = session.NewCookieManager(opts)
	} else {
		sessions = session.NewStoreManager(opts, sessionStore)
	}

	// 7. Initialize handlers and router
	templates, err := view.Templates()
	if err != nil {
		logger.Fatal("failed to parse templates", zap.Error(err))
	}
	catalogHandler := handler.NewCatalogHandler(catalogService, client.I18n(), logger)
	cartHandler := handler.NewCartHandler(cartService, catalogService, sessions, logger)
	router := handler.SetupRouter(cfg, logger, templates, sessions, catalogHandler, cartHandler)

	// 8. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 9. Start server with graceful shutdown
	go func() {
		logger.Info("server starting",
			zap.String("addr", addr),
			zap.String("store_domain", client.Domain()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// 10. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...", zap.Int("cart_mutations_in_flight", pending.Len()))
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}

// sweep deletes expired state entries until ctx is done.
func sweep(ctx context.Context, s repository.Sweeper, logger *zap.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				logger.Warn("state sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Debug("expired state swept", zap.Int64("count", n))
			}
		}
	}
}
