package history

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/velikov/donefold/internal/models"
	"github.com/velikov/donefold/internal/storage"
)

// EventCallback is called after a watcher-driven change.
// kind is one of "done.updated", "report.updated", "file.deleted".
type EventCallback func(kind string, path string)

// Watch starts an fsnotify watcher on the journal root and processes file
// change events until ctx is cancelled. Writes to the Done journal trigger a
// history re-sync; other .md changes are only reported. It calls cb (if
// non-nil) after each observed change.
//
// New directories created at runtime are automatically added to the watch
// list.
func Watch(ctx context.Context, db *DB, store storage.Provider, journalRoot, doneFile string, rules models.Rules, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, journalRoot); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", journalRoot))

	notify := func(kind, path string) {
		if cb != nil {
			cb(kind, path)
		}
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// New directories: add to the watch list.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					continue
				}
			}

			// Only .md files matter from here on.
			if !strings.HasSuffix(absPath, ".md") {
				continue
			}

			rel, relErr := filepath.Rel(journalRoot, absPath)
			if relErr != nil {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if rel == doneFile {
					if syncErr := Sync(db, store, doneFile, rules, logger); syncErr != nil {
						logger.Warn("watcher: sync failed",
							slog.String("path", rel), slog.String("error", syncErr.Error()))
						continue
					}
					logger.Debug("watcher: done log synced", slog.String("path", rel))
					notify("done.updated", rel)
					continue
				}
				logger.Debug("watcher: report changed", slog.String("path", rel))
				notify("report.updated", rel)

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				logger.Debug("watcher: file removed", slog.String("path", rel))
				notify("file.deleted", rel)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
