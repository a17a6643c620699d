package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/velikov/donefold/internal/models"
)

// ActionRow represents a row in the actions table.
type ActionRow struct {
	Week      int       `json:"week"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Weekdays  string    `json:"weekdays,omitempty"`
	Notes     []string  `json:"notes,omitempty"`
	Tracked   bool      `json:"tracked"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RunRow records one aggregation run.
type RunRow struct {
	ID         int64     `json:"id"`
	Week       int       `json:"week"`
	ReportPath string    `json:"report_path"`
	OutputPath string    `json:"output_path"`
	Matched    int       `json:"matched"`
	Total      int       `json:"total"`
	CreatedAt  time.Time `json:"created_at"`
}

// WeekSummary aggregates per-week counts for listings.
type WeekSummary struct {
	Week    int `json:"week"`
	Actions int `json:"actions"`
	Tracked int `json:"tracked"`
}

// SearchResult represents one search hit.
type SearchResult struct {
	Week    int    `json:"week"`
	Name    string `json:"name"`
	Snippet string `json:"snippet"`
}

// ReplaceWeek replaces the stored actions for one week within a transaction.
// Fresh rows start as tracked; MarkMatched clears the flag for actions later
// consumed by a report.
func (db *DB) ReplaceWeek(week int, actions map[string]*models.Action) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("history: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM actions WHERE week = ?`, week); err != nil {
		return fmt.Errorf("history: clear week: %w", err)
	}
	ftsDeleteWeek(tx, week)

	stmt, err := tx.Prepare(`
		INSERT INTO actions (week, name, category, weekdays, notes, tracked, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)
	`)
	if err != nil {
		return fmt.Errorf("history: prepare action insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, name := range sortedNames(actions) {
		a := actions[name]
		notesJSON, _ := json.Marshal(a.Notes)
		if _, err := stmt.Exec(week, a.Name, a.Category, a.WeekdayNums, string(notesJSON), now); err != nil {
			return fmt.Errorf("history: insert action: %w", err)
		}
		if err := ftsInsert(tx, week, a.Name, strings.Join(a.Notes, "\n")); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// MarkMatched clears the tracked flag for the named actions of a week.
func (db *DB) MarkMatched(week int, names []string) error {
	if len(names) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("history: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.Prepare(`UPDATE actions SET tracked = 0 WHERE week = ? AND name = ?`)
	if err != nil {
		return fmt.Errorf("history: prepare mark matched: %w", err)
	}
	defer stmt.Close()
	for _, name := range names {
		if _, err := stmt.Exec(week, name); err != nil {
			return fmt.Errorf("history: mark matched: %w", err)
		}
	}
	return tx.Commit()
}

// WeekActions returns the stored actions for a week ordered by name.
func (db *DB) WeekActions(week int) ([]ActionRow, error) {
	rows, err := db.conn.Query(`
		SELECT week, name, category, weekdays, notes, tracked, updated_at
		FROM actions
		WHERE week = ?
		ORDER BY name
	`, week)
	if err != nil {
		return nil, fmt.Errorf("history: week actions: %w", err)
	}
	defer rows.Close()

	var out []ActionRow
	for rows.Next() {
		var r ActionRow
		var notesJSON string
		if err := rows.Scan(&r.Week, &r.Name, &r.Category, &r.Weekdays, &notesJSON, &r.Tracked, &r.UpdatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(notesJSON), &r.Notes)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Weeks returns a summary for every week present in the history, ascending.
func (db *DB) Weeks() ([]WeekSummary, error) {
	rows, err := db.conn.Query(`
		SELECT week, COUNT(*), SUM(tracked)
		FROM actions
		GROUP BY week
		ORDER BY week
	`)
	if err != nil {
		return nil, fmt.Errorf("history: weeks: %w", err)
	}
	defer rows.Close()

	var out []WeekSummary
	for rows.Next() {
		var s WeekSummary
		if err := rows.Scan(&s.Week, &s.Actions, &s.Tracked); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RecordRun appends an aggregation-run record.
func (db *DB) RecordRun(r RunRow) error {
	_, err := db.conn.Exec(`
		INSERT INTO runs (week, report_path, output_path, matched, total, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.Week, r.ReportPath, r.OutputPath, r.Matched, r.Total, time.Now())
	if err != nil {
		return fmt.Errorf("history: record run: %w", err)
	}
	return nil
}

// Runs returns the aggregation runs for a week, most recent first.
func (db *DB) Runs(week, limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, week, report_path, output_path, matched, total, created_at
		FROM runs
		WHERE week = ?
		ORDER BY id DESC
		LIMIT ?
	`, week, limit)
	if err != nil {
		return nil, fmt.Errorf("history: runs: %w", err)
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.ID, &r.Week, &r.ReportPath, &r.OutputPath, &r.Matched, &r.Total, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetState returns the stored value for key, or empty string if not set.
func (db *DB) GetState(key string) (string, error) {
	var v string
	err := db.conn.QueryRow(`SELECT value FROM state WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("history: get state: %w", err)
	}
	return v, nil
}

// SetState stores a key/value pair, replacing any previous value.
func (db *DB) SetState(key, value string) error {
	_, err := db.conn.Exec(`
		INSERT INTO state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("history: set state: %w", err)
	}
	return nil
}

func sortedNames(actions map[string]*models.Action) []string {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
