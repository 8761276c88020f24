// Package parser strips, reads, and composes the frontmatter of paper notes and
// derives their title and publication date.
package parser

import (
	"errors"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
)

const delim = "---"

var (
	// A leading block bounded by two "---" lines; the closing line must end in a newline.
	frontmatterRe = regexp.MustCompile(`\A---\r?\n(?s:.*?\n)??---\r?\n`)
	titleRe       = regexp.MustCompile(`(?m)^# \[(.*?)\]`)
)

// Meta is the subset of frontmatter fields paperfront writes.
type Meta struct {
	Title string
	Date  string
}

// metaFormat reads blocks the way Compose writes them: one "key: value" per
// line, values taken verbatim. YAML would drop a " #..." suffix as a comment.
var metaFormat = frontmatter.NewFormat(delim, delim, unmarshalMeta)

func unmarshalMeta(data []byte, v interface{}) error {
	meta, ok := v.(*Meta)
	if !ok {
		return errors.New("parser: unmarshal: target is not *Meta")
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if value, found := strings.CutPrefix(line, "title:"); found {
			meta.Title = strings.TrimPrefix(value, " ")
		} else if value, found := strings.CutPrefix(line, "date:"); found {
			meta.Date = strings.TrimPrefix(value, " ")
		}
	}
	return nil
}

// StripFrontmatter removes the first frontmatter block at the start of content.
// Content without such a block is returned unchanged.
func StripFrontmatter(content string) string {
	loc := frontmatterRe.FindStringIndex(content)
	if loc == nil {
		return content
	}
	return content[loc[1]:]
}

// ExtractTitle returns the label of the first "# [label]" heading with colons
// replaced by spaces, or "" when there is none.
func ExtractTitle(body string) string {
	m := titleRe.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(m[1], ":", " ")
}

// ReadMeta reads the title and date of the frontmatter block StripFrontmatter
// would remove. ok is false when content has no such block.
func ReadMeta(content string) (meta Meta, ok bool) {
	loc := frontmatterRe.FindStringIndex(content)
	if loc == nil {
		return Meta{}, false
	}
	if _, err := frontmatter.Parse(strings.NewReader(content[:loc[1]]), &meta, metaFormat); err != nil {
		return Meta{}, false
	}
	return meta, true
}

// Compose builds the rewritten document: a fresh frontmatter block followed by
// the trimmed body.
func Compose(titleLine, date, body string) string {
	var b strings.Builder
	b.WriteString(delim + "\n")
	b.WriteString("title: " + titleLine + "\n")
	b.WriteString("date: " + date + "\n")
	b.WriteString(delim + "\n\n")
	b.WriteString(strings.TrimSpace(body))
	return b.String()
}
