package table

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CleanCell trims surrounding whitespace and a leading BOM from a cell
// value, then applies NFKC normalization and strips control characters
// other than newlines and tabs.
func CleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	v = norm.NFKC.String(v)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, v)
}
