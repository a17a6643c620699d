//go:build !sqlite_fts5

package history

import (
	"database/sql"
	"fmt"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses a LIKE fallback on the actions table.
	return nil
}

func ftsInsert(_ *sql.Tx, _ int, _, _ string) error {
	// Names and notes are already stored in the actions table; nothing extra to do.
	return nil
}

func ftsDeleteWeek(_ *sql.Tx, _ int) {}

// Search performs a LIKE-based search (fallback when FTS5 is not compiled in).
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT week, name, substr(notes, 1, 200)
		FROM actions
		WHERE name LIKE ? OR notes LIKE ?
		ORDER BY week, name
		LIMIT ?
	`, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("history: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Week, &r.Name, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
