// Package main runs PocketPet in the terminal.
// It only handles dependency injection. NO business logic belongs here.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MRamiBalles/PocketPet/internal/app"
	"github.com/MRamiBalles/PocketPet/internal/cli"
	"github.com/MRamiBalles/PocketPet/internal/engine"
	"github.com/MRamiBalles/PocketPet/internal/platform/config"
	"github.com/MRamiBalles/PocketPet/internal/platform/logger"
	"github.com/MRamiBalles/PocketPet/internal/render"
)

func main() {
	cfg, err := config.ParseConfigFromArgs(flag.NewFlagSet("pet-cli", flag.ExitOnError), os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "pet-cli: %v\n", err)
		os.Exit(2)
	}

	// Diagnostics go to stderr so they do not interleave with the pet.
	appLogger := logger.NewLoggerTo(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pocket, err := app.Bootstrap(ctx, cfg, appLogger,
		engine.WithRenderer(render.NewTextRenderer(os.Stdout)),
		engine.WithCuePlayer(cli.NewTerminalCues(os.Stdout, cfg.Mute)),
		engine.WithScheduler(engine.RealScheduler{}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pet-cli: %v\n", err)
		os.Exit(1)
	}
	defer pocket.Close()

	pocket.Engine.Start(ctx)

	session := cli.NewSession(pocket.Engine, os.Stdin, os.Stdout)
	if err := session.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "pet-cli: %v\n", err)
		os.Exit(1)
	}
}
