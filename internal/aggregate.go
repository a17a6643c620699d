package internal

import (
	"context"
	"fmt"
	"io"

	"github.com/velikov/donefold/internal/aggservice"
	"github.com/velikov/donefold/internal/history"
	"github.com/velikov/donefold/internal/storage"
)

// RunAggregate performs a one-shot aggregation of a weekly report and prints
// the written output path to out. doneFile overrides the configured done log
// when non-empty.
func RunAggregate(ctx context.Context, cfg *Config, reportFile, doneFile string, out io.Writer) error {
	logger := newLogger(cfg)

	store, err := storage.NewFS(cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	db, err := history.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init history: %w", err)
	}
	defer db.Close()

	if doneFile == "" {
		doneFile = cfg.Journal.DoneFile
	}

	svc := aggservice.NewService(store, db, cfg.Journal.Rules(), doneFile, logger)
	res, err := svc.Aggregate(ctx, reportFile)
	if err != nil {
		return fmt.Errorf("aggregate %s: %w", reportFile, err)
	}
	fmt.Fprintln(out, res.OutputPath)
	return nil
}
