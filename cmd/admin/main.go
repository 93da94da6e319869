package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/alpha-aviation/enrollment-service/internal/config"
	"github.com/alpha-aviation/enrollment-service/internal/repositories/datastore"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// The CLI only makes sense against the live store; no fixture fallback here.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.ConnectTimeout)
	store, err := datastore.ConnectLive(ctx, cfg)
	cancel()
	if err != nil {
		logger.Error("Failed to connect to store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}

	cli := commandLine{store: store, out: os.Stdout}
	err = cli.run(os.Args)
	store.Close()
	if err != nil {
		if err != errHelp {
			logger.Error("Command failed", "error", err)
		}
		os.Exit(1)
	}
}
