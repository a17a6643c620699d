//go:build sqlite_fts5

package history

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS actions_fts USING fts5(
			week UNINDEXED,
			name,
			notes,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsInsert(tx *sql.Tx, week int, name, notes string) error {
	_, err := tx.Exec(`INSERT INTO actions_fts (week, name, notes) VALUES (?, ?, ?)`,
		week, name, notes)
	if err != nil {
		return fmt.Errorf("history: insert fts: %w", err)
	}
	return nil
}

func ftsDeleteWeek(tx *sql.Tx, week int) {
	_, _ = tx.Exec(`DELETE FROM actions_fts WHERE week = ?`, week)
}

// Search performs an FTS5 full-text search over action names and notes and
// returns matching results with snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT week,
		       name,
		       snippet(actions_fts, 2, '<b>', '</b>', '...', 64)
		FROM actions_fts
		WHERE actions_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
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
