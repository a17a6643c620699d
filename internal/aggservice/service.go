// Package aggservice coordinates journal storage, the aggregation engine, and
// the action history.
package aggservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/velikov/donefold/internal/apperr"
	"github.com/velikov/donefold/internal/donelog"
	"github.com/velikov/donefold/internal/history"
	"github.com/velikov/donefold/internal/models"
	"github.com/velikov/donefold/internal/report"
	"github.com/velikov/donefold/internal/storage"
)

// Result is the outcome of one preview or aggregation.
type Result struct {
	Week       int    `json:"week"`
	ReportPath string `json:"report_path"`
	OutputPath string `json:"output_path,omitempty"`
	Output     string `json:"output"`
	Matched    int    `json:"matched"`
	Total      int    `json:"total"`
}

// Service coordinates storage, the core engine, and history operations.
type Service struct {
	store    storage.Provider
	db       history.ActionHistory
	rules    models.Rules
	doneFile string
	logger   *slog.Logger
}

// NewService creates a new aggregation service.
func NewService(store storage.Provider, db history.ActionHistory, rules models.Rules, doneFile string, logger *slog.Logger) *Service {
	return &Service{store: store, db: db, rules: rules, doneFile: doneFile, logger: logger}
}

// Preview aggregates a report in memory without writing the output file or
// touching the history.
func (s *Service) Preview(_ context.Context, reportPath string) (*Result, error) {
	res, _, _, err := s.run(reportPath)
	return res, err
}

// Aggregate runs the full flow: aggregate the report, write the output file
// next to it, refresh the week's history, and record the run.
func (s *Service) Aggregate(_ context.Context, reportPath string) (*Result, error) {
	res, actions, matched, err := s.run(reportPath)
	if err != nil {
		return nil, err
	}

	res.OutputPath = OutputPath(reportPath)
	if err := s.store.Write(res.OutputPath, []byte(res.Output)); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}

	if err := s.db.ReplaceWeek(res.Week, actions); err != nil {
		return nil, err
	}
	if err := s.db.MarkMatched(res.Week, matched); err != nil {
		return nil, err
	}
	if err := s.db.RecordRun(history.RunRow{
		Week:       res.Week,
		ReportPath: reportPath,
		OutputPath: res.OutputPath,
		Matched:    res.Matched,
		Total:      res.Total,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("report aggregated",
		slog.Int("week", res.Week),
		slog.String("output", res.OutputPath),
		slog.Int("matched", res.Matched),
		slog.Int("total", res.Total))
	return res, nil
}

// run performs the shared read-extract-parse-aggregate pipeline.
func (s *Service) run(reportPath string) (*Result, map[string]*models.Action, []string, error) {
	week, err := ReportWeek(reportPath)
	if err != nil {
		return nil, nil, nil, err
	}

	reportLines, err := s.store.ReadLines(reportPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, nil, fmt.Errorf("report %s: %w", reportPath, apperr.ErrNotFound)
		}
		return nil, nil, nil, err
	}
	doneLines, err := s.store.ReadLines(s.doneFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, nil, fmt.Errorf("done log %s: %w", s.doneFile, apperr.ErrNotFound)
		}
		return nil, nil, nil, err
	}

	actions := donelog.ParseWeek(donelog.ExtractWeek(doneLines, week), s.rules, s.logger)
	agg := report.Aggregate(reportLines, actions, s.rules, s.logger)

	return &Result{
		Week:       week,
		ReportPath: reportPath,
		Output:     agg.Text,
		Matched:    len(agg.Matched),
		Total:      len(actions),
	}, actions, agg.Matched, nil
}

// WeekActions returns the stored actions for a week.
func (s *Service) WeekActions(_ context.Context, week int) ([]history.ActionRow, error) {
	return s.db.WeekActions(week)
}

// Weeks returns summaries for every week in the history.
func (s *Service) Weeks(_ context.Context) ([]history.WeekSummary, error) {
	return s.db.Weeks()
}

// Runs returns the recorded aggregation runs for a week.
func (s *Service) Runs(_ context.Context, week, limit int) ([]history.RunRow, error) {
	return s.db.Runs(week, limit)
}

// Search delegates full-text search to the history.
func (s *Service) Search(_ context.Context, query string, limit int) ([]history.SearchResult, error) {
	return s.db.Search(query, limit)
}
