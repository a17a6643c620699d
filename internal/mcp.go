package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/velikov/donefold/internal/aggservice"
	"github.com/velikov/donefold/internal/history"
	"github.com/velikov/donefold/internal/mcpserver"
	"github.com/velikov/donefold/internal/storage"
)

// RunMCP starts the MCP stdio server over the configured journal.
func RunMCP(_ context.Context, cfg *Config) error {
	// stdout carries the MCP protocol, so logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	store, err := storage.NewFS(cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	db, err := history.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init history: %w", err)
	}
	defer db.Close()

	rules := cfg.Journal.Rules()
	if err := history.Sync(db, store, cfg.Journal.DoneFile, rules, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	svc := aggservice.NewService(store, db, rules, cfg.Journal.DoneFile, logger)
	return mcpserver.New(svc).ServeStdio()
}
