// Command sandbox serves a local marketplace API with seeded courses, for
// development and demos of the storefront.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coursestore/storefront/internal/pkg/config"
	"github.com/coursestore/storefront/internal/sandbox"
	"github.com/coursestore/storefront/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "sandbox",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := sandbox.NewStore(sandbox.SeedCourses())
	e := sandbox.NewServer(sandbox.Config{
		JWTSecret: cfg.Sandbox.JWTSecret,
		TokenTTL:  cfg.Sandbox.TokenTTL,
	}, store, log)

	go func() {
		log.Info().Str("port", cfg.Sandbox.Port).Msg("sandbox api listening")
		if err := e.Start(":" + cfg.Sandbox.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("sandbox server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("sandbox stopped cleanly")
}
