//go:build sqlite_fts5

package catalog

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
			filename UNINDEXED,
			identifier,
			title,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, filename, identifier, title string) error {
	_, _ = tx.Exec(`DELETE FROM entries_fts WHERE filename = ?`, filename)
	_, err := tx.Exec(`INSERT INTO entries_fts (filename, identifier, title) VALUES (?, ?, ?)`,
		filename, identifier, title)
	if err != nil {
		return fmt.Errorf("catalog: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, filename string) {
	_, _ = tx.Exec(`DELETE FROM entries_fts WHERE filename = ?`, filename)
}

// Search performs an FTS5 match over titles and identifiers, ranked by relevance.
func (db *DB) Search(query string, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := db.conn.Query(`
		SELECT e.filename, e.identifier, e.title, e.title_line, e.date, e.position, e.checksum, e.updated_at
		FROM entries_fts f
		JOIN entries e ON e.filename = f.filename
		WHERE entries_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: search: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Filename, &r.Identifier, &r.Title, &r.TitleLine, &r.Date, &r.Position, &r.Checksum, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
