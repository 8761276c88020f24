// Package models defines the domain types for paperfront.
package models

// Entry is one processed document as it appears in the generated index.
type Entry struct {
	Filename   string `json:"filename"`
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	// TitleLine is "<identifier> <title>", used both in frontmatter and index links.
	TitleLine string `json:"title_line"`
	Date      string `json:"date"`
	Checksum  string `json:"checksum"`

	PreviousTitle string `json:"previous_title,omitempty"`
	PreviousDate  string `json:"previous_date,omitempty"`
}

// Changed reports whether the rewrite altered the document's title or date.
func (e Entry) Changed() bool {
	return e.PreviousTitle != e.TitleLine || e.PreviousDate != e.Date
}
