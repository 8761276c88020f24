//go:build !sqlite_fts5

package catalog

import (
	"database/sql"
	"fmt"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses LIKE on the entries table.
	return nil
}

func ftsUpsert(_ *sql.Tx, _, _, _ string) error { return nil }

func ftsDelete(_ *sql.Tx, _ string) {}

// Search matches query against titles and identifiers (LIKE fallback when FTS5
// is not compiled in). Results keep index order.
func (db *DB) Search(query string, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	like := "%" + likeEscaper.Replace(query) + "%"
	rows, err := db.conn.Query(`
		SELECT filename, identifier, title, title_line, date, position, checksum, updated_at
		FROM entries
		WHERE title LIKE ? ESCAPE '\' OR identifier LIKE ? ESCAPE '\'
		ORDER BY position
		LIMIT ?
	`, like, like, limit)
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
