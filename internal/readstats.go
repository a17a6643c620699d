package internal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/velikov/donefold/internal/readstats"
)

// RunReadStats fetches and logs reading-list statistics.
func RunReadStats(ctx context.Context, cfg *Config) error {
	logger := newLogger(cfg)

	if cfg.ReadStats.ConsumerKey == "" || cfg.ReadStats.AccessToken == "" {
		return fmt.Errorf("readstats: consumer_key and access_token must be configured")
	}

	client := readstats.New(
		cfg.ReadStats.APIURL,
		cfg.ReadStats.ConsumerKey,
		cfg.ReadStats.AccessToken,
		cfg.ReadStats.PageSize,
		logger,
	)

	stats, err := client.Stats(ctx)
	if err != nil {
		return err
	}

	logger.Info("reading list stats",
		slog.Int("unread", stats.Unread),
		slog.Int("archived", stats.Archived))
	return nil
}
