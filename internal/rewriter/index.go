package rewriter

import (
	"strings"

	"github.com/starford/paperfront/internal/models"
)

// RenderIndex builds the index document: a fixed preamble titled title, then
// one link per entry in the given order.
func RenderIndex(title string, entries []models.Entry) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: " + title + "\n")
	b.WriteString("---\n\n")
	b.WriteString("# " + title + "\n\n")
	for _, e := range entries {
		b.WriteString("[" + e.TitleLine + "](" + e.Filename + ")\n\n")
	}
	return b.String()
}
