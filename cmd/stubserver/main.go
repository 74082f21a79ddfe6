// Command stubserver runs the in-memory BookBuster backend for local
// development: the full REST surface, the dev seed endpoint, and nothing
// durable.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"bookbuster/internal/config"
	"bookbuster/internal/stub"
)

func main() {
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	backend := stub.New()
	if cfg.StubSeed {
		created, err := backend.Seed()
		if err != nil {
			log.Fatal("seed fixtures", zap.Error(err))
		}
		log.Info("fixtures loaded", zap.Bool("created", created))
	}

	// The client expects the surface under /api, matching the real
	// backend's mount point.
	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", backend.Handler()))

	srv := &http.Server{
		Addr:    ":" + cfg.StubPort,
		Handler: mux,
	}

	go func() {
		log.Info("stub backend listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("serve", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
}
