// Package rewriter regenerates the frontmatter of every paper note in the
// content directory and rebuilds the index document that links them.
package rewriter

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/starford/paperfront/internal/apperr"
	"github.com/starford/paperfront/internal/catalog"
	"github.com/starford/paperfront/internal/models"
	"github.com/starford/paperfront/internal/parser"
	"github.com/starford/paperfront/internal/storage"
)

// Defaults for the reserved index document.
const (
	DefaultIndexName  = "index.md"
	DefaultIndexTitle = "Hello"
)

const markdownExt = ".md"

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithIndex sets the reserved index filename and its title.
func WithIndex(name, title string) Option {
	return func(r *Rewriter) {
		r.indexName = name
		r.indexTitle = title
	}
}

// WithDryRun computes the full report without writing any file.
func WithDryRun(dryRun bool) Option {
	return func(r *Rewriter) {
		r.dryRun = dryRun
	}
}

// WithPublisher publishes the entries of every successful run.
func WithPublisher(p catalog.Publisher) Option {
	return func(r *Rewriter) {
		r.publisher = p
	}
}

// Rewriter runs the two-phase rewrite: every document first, then the index.
type Rewriter struct {
	store      storage.Provider
	logger     *slog.Logger
	publisher  catalog.Publisher
	indexName  string
	indexTitle string
	dryRun     bool
}

// Report describes the outcome of one run.
type Report struct {
	// Entries are the processed documents in index order.
	Entries []models.Entry
	// Skipped lists documents without a "# [title]" heading.
	Skipped []string
	// Index is the rendered index document.
	Index  string
	DryRun bool
}

// New creates a Rewriter over store.
func New(store storage.Provider, logger *slog.Logger, opts ...Option) *Rewriter {
	r := &Rewriter{
		store:      store,
		logger:     logger,
		indexName:  DefaultIndexName,
		indexTitle: DefaultIndexTitle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run rewrites every document and then the index. The first error aborts the
// run; documents already rewritten stay rewritten and the index is left as is.
func (r *Rewriter) Run(ctx context.Context) (*Report, error) {
	names, err := r.Documents()
	if err != nil {
		return nil, err
	}

	report := &Report{DryRun: r.dryRun}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, ok, err := r.rewrite(name)
		if err != nil {
			return nil, err
		}
		if !ok {
			r.logger.Debug("rewriter: no title, skipped", slog.String("path", name))
			report.Skipped = append(report.Skipped, name)
			continue
		}
		report.Entries = append(report.Entries, e)
	}

	report.Index = RenderIndex(r.indexTitle, report.Entries)
	if !r.dryRun {
		if err := r.store.Write(r.indexName, []byte(report.Index)); err != nil {
			return nil, fmt.Errorf("rewriter: write index: %w", err)
		}
		if r.publisher != nil {
			if err := r.publisher.Replace(report.Entries); err != nil {
				return nil, fmt.Errorf("rewriter: publish catalog: %w", err)
			}
		}
	}

	r.logger.Info("rewriter: run complete",
		slog.Int("processed", len(report.Entries)),
		slog.Int("skipped", len(report.Skipped)),
		slog.Bool("dry_run", r.dryRun))
	return report, nil
}

// Documents returns the markdown filenames to process, newest identifier
// first, without the index document.
func (r *Rewriter) Documents() ([]string, error) {
	listed, err := r.store.List()
	if err != nil {
		return nil, fmt.Errorf("rewriter: enumerate: %w", err)
	}
	names := make([]string, 0, len(listed))
	for _, name := range listed {
		if name == r.indexName || !strings.HasSuffix(name, markdownExt) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	slices.Reverse(names)
	return names, nil
}

// rewrite processes one document. ok is false when the document has no title
// and was left untouched.
func (r *Rewriter) rewrite(name string) (e models.Entry, ok bool, err error) {
	data, err := r.store.Read(name)
	if err != nil {
		return models.Entry{}, false, fmt.Errorf("rewriter: %w", err)
	}
	if !utf8.Valid(data) {
		return models.Entry{}, false, fmt.Errorf("rewriter: read %s: %w", name, apperr.ErrInvalidText)
	}
	content := string(data)

	prev, _ := parser.ReadMeta(content)
	body := parser.StripFrontmatter(content)
	title := parser.ExtractTitle(body)
	if title == "" {
		return models.Entry{}, false, nil
	}

	id := parser.IdentifierFromFilename(name)
	date, err := parser.DeriveDate(id)
	if err != nil {
		return models.Entry{}, false, fmt.Errorf("rewriter: %s: %w", name, err)
	}

	titleLine := id + " " + title
	out := parser.Compose(titleLine, date, body)
	if !r.dryRun {
		if err := r.store.Write(name, []byte(out)); err != nil {
			return models.Entry{}, false, fmt.Errorf("rewriter: %w", err)
		}
	}

	e = models.Entry{
		Filename:      name,
		Identifier:    id,
		Title:         title,
		TitleLine:     titleLine,
		Date:          date,
		Checksum:      storage.Checksum([]byte(out)),
		PreviousTitle: prev.Title,
		PreviousDate:  prev.Date,
	}
	r.logger.Debug("rewriter: rewritten",
		slog.String("path", name),
		slog.String("identifier", id),
		slog.Bool("changed", e.Changed()))
	return e, true, nil
}
