package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/coursestore/storefront/internal/api"
	"github.com/coursestore/storefront/internal/api/handler"
	"github.com/coursestore/storefront/internal/api/metrics"
	"github.com/coursestore/storefront/internal/core/ports"
	"github.com/coursestore/storefront/internal/core/service"
	"github.com/coursestore/storefront/internal/infrastructure/apiclient"
	mongostore "github.com/coursestore/storefront/internal/infrastructure/db/mongo"
	redisstore "github.com/coursestore/storefront/internal/infrastructure/db/redis"
	"github.com/coursestore/storefront/internal/infrastructure/tokenstore"
	"github.com/coursestore/storefront/internal/pkg/config"
	"github.com/coursestore/storefront/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "storefront",
		Fields:  map[string]string{"tab_id": cfg.TabID},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("storefront stopped with error")
	}
	log.Info().Msg("storefront stopped cleanly")
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	store, closeStore, err := openTokenStore(ctx, cfg, logger.For("token_store"))
	if err != nil {
		return err
	}
	defer closeStore()

	client, err := apiclient.New(apiclient.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, logger.For("apiclient"))
	if err != nil {
		return err
	}

	// --- Services ---
	session := service.NewSession(store, client, logger.For("session"))
	session.OnLogout(func(reason string) {
		metrics.SessionInvalidationsTotal.WithLabelValues(reason).Inc()
	})
	cart := service.NewCart(client, session, logger.For("cart"))
	checkout := service.NewCheckout(client, session, cart, logger.For("checkout"))
	syncer := service.NewSynchronizer(store, session, cfg.TabID, logger.For("sync"))

	if err := session.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("could not restore session")
	}

	e := api.NewRouter(api.Dependencies{
		Session:  session,
		Auth:     service.NewAuth(client, session, logger.For("auth")),
		Catalog:  service.NewCatalog(client),
		Orders:   service.NewOrders(client, session),
		Cart:     cart,
		Checkout: checkout,
		Guard:    service.NewGuard(session),
		Probes: map[string]handler.Pinger{
			"token_store":     store,
			"marketplace_api": client,
		},
	}, logger.For("http"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("token_store", cfg.TokenStore.Backend).Msg("storefront listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return syncer.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	session.Wait()
	return err
}

// openTokenStore connects the configured backend. The returned func releases
// its connections.
func openTokenStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.TokenStore, func(), error) {
	switch cfg.TokenStore.Backend {
	case config.BackendRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			ClientName: "storefront:" + cfg.TabID,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
		store := redisstore.NewTokenStore(client, cfg.TokenStore.Key, cfg.Redis.Channel, cfg.TabID, log)
		return store, func() { _ = client.Close() }, nil

	case config.BackendMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "storefront",
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")
		store := mongostore.NewTokenStore(db, cfg.Mongo.Collection, cfg.TokenStore.Key, cfg.TabID, log)
		return store, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		}, nil
	}

	// Memory is process-local: only the tabs of this process share it.
	return tokenstore.NewMemory(cfg.TabID, cfg.TokenStore.Key), func() {}, nil
}
