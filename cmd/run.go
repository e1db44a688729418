package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/Lawrennzz/AgriMarket-sub003/app"
	"github.com/Lawrennzz/AgriMarket-sub003/config"
	"github.com/spf13/cobra"
)

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.Level(cfg.Logger.Level),
		AddSource: cfg.Logger.AddSource,
	}))
	slog.SetDefault(logger)

	a := app.New(cfg)
	if err := a.Start(ctx); err != nil {
		return fmt.Errorf("cannot start reporting service: %w", err)
	}
	logger.With(
		"version", version,
		"addr", cfg.HTTP.Address+":"+cfg.HTTP.Port,
		"view_source", string(cfg.Report.ViewSource()),
	).Info("reporting service started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	select {
	case s := <-sigCh:
		logger.With("signal", s.String()).Warn("signal received, shutting down")
		a.Stop(ctx)
		logger.Info("reporting service exited")
	case <-a.Done():
		logger.Error("reporting service exited unexpectedly")
	}

	return nil
}
