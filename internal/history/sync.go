package history

import (
	"fmt"
	"log/slog"

	"github.com/velikov/donefold/internal/checksum"
	"github.com/velikov/donefold/internal/donelog"
	"github.com/velikov/donefold/internal/models"
	"github.com/velikov/donefold/internal/storage"
)

const stateDoneChecksum = "done_checksum"

// Sync parses every week of the Done journal and brings the history up to
// date. The whole pass is skipped when the journal's checksum matches the one
// stored from the previous sync. The checksum is recorded only after every
// week stored cleanly, so a failed week is retried on the next pass.
func Sync(db ActionHistory, store storage.Provider, doneFile string, rules models.Rules, logger *slog.Logger) error {
	data, err := store.Read(doneFile)
	if err != nil {
		return fmt.Errorf("history: read done log: %w", err)
	}

	sum := checksum.Sum(data)
	prev, err := db.GetState(stateDoneChecksum)
	if err != nil {
		logger.Warn("sync: read stored checksum failed", slog.String("error", err.Error()))
	}
	if prev == sum {
		logger.Debug("sync: done log unchanged", slog.String("file", doneFile))
		return nil
	}

	lines := storage.SplitLines(data)
	failed := 0
	for _, week := range donelog.Weeks(lines) {
		actions := donelog.ParseWeek(donelog.ExtractWeek(lines, week), rules, logger)
		if err := db.ReplaceWeek(week, actions); err != nil {
			logger.Warn("sync: replace week failed",
				slog.Int("week", week), slog.String("error", err.Error()))
			failed++
			continue
		}
		logger.Debug("sync: week stored", slog.Int("week", week), slog.Int("actions", len(actions)))
	}
	if failed > 0 {
		return fmt.Errorf("history: sync left %d week(s) stale", failed)
	}

	return db.SetState(stateDoneChecksum, sum)
}
