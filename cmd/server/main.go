package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"atproto-handle/internal/platform/config"
	"atproto-handle/internal/platform/httpserver"
	"atproto-handle/internal/platform/logger"
)

// main wires high-level dependencies and supervises the server and the
// background workers. Business logic lives in internal packages.
//
// "server gen-api-key" prints a new admin key and its hash instead.
func main() {
	if len(os.Args) > 1 && os.Args[1] == genAPIKeyCommand {
		if err := genAPIKey(os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.close()

	srv := httpserver.New(cfg.Server.Addr, app.router)

	g, gctx := errgroup.WithContext(ctx)
	for _, start := range app.workers {
		g.Go(func() error { return start(gctx) })
	}
	g.Go(func() error {
		return httpserver.Run(gctx, srv, cfg.Server.ShutdownTimeout, log)
	})

	err = g.Wait()
	app.coordinator.Wait()
	if err != nil {
		log.Error("server stopped with error", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}
