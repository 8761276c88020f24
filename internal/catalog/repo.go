package catalog

import (
	"fmt"
	"time"

	"github.com/starford/paperfront/internal/models"
)

const defaultLimit = 100

// Row represents a row in the entries table.
type Row struct {
	Filename   string
	Identifier string
	Title      string
	TitleLine  string
	Date       string
	Position   int
	Checksum   string
	UpdatedAt  time.Time
}

// Replace makes the catalog mirror entries: each entry is upserted at its
// index position and rows for files no longer listed are removed.
func (db *DB) Replace(entries []models.Entry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	stmt, err := tx.Prepare(`
		INSERT INTO entries (filename, identifier, title, title_line, date, position, checksum, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			identifier = excluded.identifier,
			title      = excluded.title,
			title_line = excluded.title_line,
			date       = excluded.date,
			position   = excluded.position,
			checksum   = excluded.checksum,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("catalog: prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	keep := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		keep[e.Filename] = struct{}{}
		if _, err := stmt.Exec(e.Filename, e.Identifier, e.Title, e.TitleLine, e.Date, i, e.Checksum, now); err != nil {
			return fmt.Errorf("catalog: upsert %s: %w", e.Filename, err)
		}
		if err := ftsUpsert(tx, e.Filename, e.Identifier, e.Title); err != nil {
			return err
		}
	}

	rows, err := tx.Query(`SELECT filename FROM entries`)
	if err != nil {
		return fmt.Errorf("catalog: all filenames: %w", err)
	}
	var stale []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		if _, ok := keep[name]; !ok {
			stale = append(stale, name)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, name := range stale {
		ftsDelete(tx, name)
		if _, err := tx.Exec(`DELETE FROM entries WHERE filename = ?`, name); err != nil {
			return fmt.Errorf("catalog: delete %s: %w", name, err)
		}
	}

	return tx.Commit()
}

// List returns published entries in index order.
func (db *DB) List(limit int) ([]Row, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := db.conn.Query(`
		SELECT filename, identifier, title, title_line, date, position, checksum, updated_at
		FROM entries
		ORDER BY position
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
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
