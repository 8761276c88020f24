package catalog

import "github.com/starford/paperfront/internal/models"

// Publisher receives the entries of a freshly generated index.
type Publisher interface {
	Replace(entries []models.Entry) error
}

// Reader lists and searches published entries.
type Reader interface {
	List(limit int) ([]Row, error)
	Search(query string, limit int) ([]Row, error)
}

var (
	_ Publisher = (*DB)(nil)
	_ Reader    = (*DB)(nil)
)
