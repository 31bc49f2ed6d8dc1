package domain

import (
	"strings"
	"unicode"
)

// ExportFileName derives the download file name for a record: the name is
// lower-cased, every run of characters other than letters and digits becomes
// a single underscore, and ".json" is appended.
func ExportFileName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	base := b.String()
	if base == "" {
		base = "submission"
	}
	return base + ".json"
}
