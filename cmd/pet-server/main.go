// Package main is the entry point for the PocketPet server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MRamiBalles/PocketPet/internal/app"
	"github.com/MRamiBalles/PocketPet/internal/engine"
	"github.com/MRamiBalles/PocketPet/internal/network"
	"github.com/MRamiBalles/PocketPet/internal/platform/config"
	"github.com/MRamiBalles/PocketPet/internal/platform/logger"
	"github.com/MRamiBalles/PocketPet/internal/platform/metrics"
	"github.com/MRamiBalles/PocketPet/internal/platform/optimization"
	"github.com/MRamiBalles/PocketPet/internal/platform/otel"
)

const shutdownGrace = 5 * time.Second

func main() {
	log.Println("[PET-SERVER] Initializing PocketPet server...")

	cfg, err := config.ParseConfigFromArgs(flag.NewFlagSet("pet-server", flag.ExitOnError), os.Args[1:])
	if err != nil {
		log.Fatalf("[PET-SERVER] Invalid configuration: %v", err)
	}
	appLogger := logger.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, "pet-server", cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		appLogger.Warn("Tracing disabled: " + err.Error())
		shutdownTracing = func(context.Context) error { return nil }
	}

	tuning, err := optimization.ForProfile(cfg.Profile)
	if err != nil {
		log.Fatalf("[PET-SERVER] %v", err)
	}

	appLogger.Info("Bootstrapping Engine...")
	pocket, err := app.Bootstrap(ctx, cfg, appLogger,
		engine.WithScheduler(engine.RealScheduler{}),
		engine.WithMetrics(metrics.Get()),
	)
	if err != nil {
		appLogger.Error("Failed to bootstrap: " + err.Error())
		os.Exit(1)
	}
	defer pocket.Close()

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(pocket.Engine, tuning, appLogger)
	pocket.Engine.AddRenderer(hub)

	mux := http.NewServeMux()
	network.NewAPI(pocket.Engine, appLogger).RegisterRoutes(mux)
	network.NewHistoryHandler(pocket.EventLog, appLogger).RegisterRoutes(mux)
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/metrics", metrics.Handler())
	mux.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	hub.StartEventPoller(gctx, pocket.EventLog, tuning.EventPollInterval)
	pocket.Engine.Start(gctx)

	g.Go(func() error {
		log.Printf("[PET-SERVER] HTTP API & WS Server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("[PET-SERVER] Shutting down...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			appLogger.Warn("HTTP shutdown: " + err.Error())
		}
		return shutdownTracing(sctx)
	})

	log.Println("[PET-SERVER] Server running. Press Ctrl+C to exit.")
	if err := g.Wait(); err != nil {
		appLogger.Error("Server stopped with error: " + err.Error())
		os.Exit(1)
	}
}
