package parser

import (
	"fmt"
	"strings"

	"github.com/starford/paperfront/internal/apperr"
)

const (
	markdownExt = ".md"
	minIDLength = 7
	yearBase    = 2000
	minDay      = 1
	maxDay      = 31
	dayOffset   = 1
)

// Identifier is a filename stem such as "2310.05678". The first four
// characters encode year and month; characters [5,7) encode a day-like value.
type Identifier struct {
	Raw   string
	Year  int
	Month string
	Day   int
}

// IdentifierFromFilename strips the markdown extension from name.
func IdentifierFromFilename(name string) string {
	return strings.TrimSuffix(name, markdownExt)
}

// ParseIdentifier decodes the date components of id. The day is the raw value
// plus one, clamped to [1, 31]; the month is kept verbatim.
func ParseIdentifier(id string) (Identifier, error) {
	if len(id) < minIDLength {
		return Identifier{}, fmt.Errorf("parser: identifier %q shorter than %d characters: %w", id, minIDLength, apperr.ErrMalformedIdentifier)
	}
	yy, ok := twoDigits(id[0:2])
	if !ok {
		return Identifier{}, fmt.Errorf("parser: identifier %q: year %q is not numeric: %w", id, id[0:2], apperr.ErrMalformedIdentifier)
	}
	dd, ok := twoDigits(id[5:7])
	if !ok {
		return Identifier{}, fmt.Errorf("parser: identifier %q: day %q is not numeric: %w", id, id[5:7], apperr.ErrMalformedIdentifier)
	}
	return Identifier{
		Raw:   id,
		Year:  yearBase + yy,
		Month: id[2:4],
		Day:   clamp(dd+dayOffset, minDay, maxDay),
	}, nil
}

// Date formats the identifier as YYYY-MM-DD.
func (id Identifier) Date() string {
	return fmt.Sprintf("%d-%s-%02d", id.Year, id.Month, id.Day)
}

// DeriveDate is ParseIdentifier followed by Date.
func DeriveDate(id string) (string, error) {
	parsed, err := ParseIdentifier(id)
	if err != nil {
		return "", err
	}
	return parsed.Date(), nil
}

func twoDigits(s string) (int, bool) {
	if len(s) != 2 || !isDigit(s[0]) || !isDigit(s[1]) {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
