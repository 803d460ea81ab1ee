package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/fortress/internal/config"
	"github.com/iudanet/fortress/internal/crypto"
	"github.com/iudanet/fortress/internal/server"
	"github.com/iudanet/fortress/internal/server/directory"
	"github.com/iudanet/fortress/internal/server/handlers"
	"github.com/iudanet/fortress/internal/server/storage/csvfile"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "fortress-server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.Log)
	logger.Info("starting fortress server",
		"version", Version,
		"storage", cfg.Storage.Path,
	)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := csvfile.New(cfg.Storage.Path)
	hasher := crypto.NewPasswordHasher()

	dir, err := directory.New(ctx, store, hasher, logger)
	if err != nil {
		return err
	}

	srv := server.New(logger, server.Options{
		Addr:         cfg.Server.Addr(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		TokenRate:    cfg.RateLimit.Rate,
		TokenWindow:  cfg.RateLimit.Window,
		Version:      Version,
	}, dir, handlers.TokenConfig{
		AccessSecret:  []byte(cfg.JWT.Secret),
		RefreshSecret: []byte(cfg.JWT.RefreshSecret),
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	})

	return srv.Run(ctx)
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func printVersion() {
	fmt.Printf("Fortress Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
