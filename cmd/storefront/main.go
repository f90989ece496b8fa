package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ferchini45-svg/carrito/internal/auth"
	"github.com/ferchini45-svg/carrito/internal/cart"
	"github.com/ferchini45-svg/carrito/internal/catalog"
	"github.com/ferchini45-svg/carrito/internal/checkout"
	"github.com/ferchini45-svg/carrito/internal/config"
	h "github.com/ferchini45-svg/carrito/internal/http"
	"github.com/ferchini45-svg/carrito/internal/orders"
	"github.com/ferchini45-svg/carrito/internal/publisher"
	"github.com/ferchini45-svg/carrito/internal/receipt"
	"github.com/ferchini45-svg/carrito/internal/repository"
	"github.com/ferchini45-svg/carrito/internal/session"
	"github.com/ferchini45-svg/carrito/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(logger.Options{
		Service: "storefront",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	creds := &repository.Credentials{
		Driver:            cfg.DBDriver,
		Host:              cfg.DBHost,
		Port:              cfg.DBPort,
		User:              cfg.DBUser,
		Password:          cfg.DBPassword,
		DBName:            cfg.DBName,
		SQLitePath:        cfg.SQLitePath,
		MigrationsDirPath: cfg.MigrationsPath,
	}
	repo, err := repository.NewRepository(creds)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to connect to database")
	}
	defer repo.Close()

	if err := repo.RunMigrations(creds); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	sessions, closeSessions := newSessionStore(cfg, log)
	defer closeSessions()

	catalogSvc := catalog.NewService(repo)
	cartSvc := cart.NewService(sessions, catalogSvc)
	authSvc := auth.NewService(repo, sessions)
	checkoutSvc := checkout.NewService(sessions, repo, cartSvc)
	ordersSvc := orders.NewService(repo, repo)

	cookie := h.SessionCookie{
		Name:   cfg.SessionCookie,
		TTL:    cfg.SessionTTL,
		Secure: !cfg.IsDev(),
	}
	router := h.NewRouter(h.Handlers{
		Products: h.NewProductHandler(catalogSvc, cfg.RequestTimeout),
		Auth:     h.NewAuthHandler(authSvc, cookie, cfg.RequestTimeout),
		Cart:     h.NewCartHandler(cartSvc, cfg.RequestTimeout),
		Checkout: h.NewCheckoutHandler(checkoutSvc, cfg.RequestTimeout),
		Orders:   h.NewOrdersHandler(ordersSvc, authSvc, receipt.NewPDFRenderer("Carrito"), cfg.RequestTimeout),
	}, h.RouterConfig{
		Logger:         log,
		Cookie:         cookie,
		RequestTimeout: cfg.RequestTimeout,
		Health:         repo.Ping,
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if brokers := cfg.Brokers(); len(brokers) > 0 {
		poller := publisher.NewOutboxPoller(repo, log, brokers...)
		go poller.Run(ctx)
		log.Info().Strs("brokers", brokers).Msg("order event publisher started")
	} else {
		log.Info().Msg("KAFKA_BROKERS empty, order event publisher disabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("storefront starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func newSessionStore(cfg *config.Config, log zerolog.Logger) (session.Store, func()) {
	if cfg.SessionBackend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis")
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("using redis session store")
		return session.NewRedisStore(client, cfg.SessionTTL), func() { _ = client.Close() }
	}

	log.Info().Msg("using in-memory session store")
	store := session.NewMemoryStore(cfg.SessionTTL)
	return store, func() { _ = store.Close() }
}
