// Package normalize canonicalizes free-text identifiers and spreadsheet
// column headers. Every uniqueness comparison in the catalogs goes through
// Name; raw strings are never compared directly.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks and recomposes,
// so "BOGOTÁ" and "BOGOTA" compare equal.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Name trims, upper-cases and strips diacritical marks. Empty input yields
// an empty string.
func Name(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

// HeaderKey canonicalizes a single column header: all whitespace removed,
// upper-cased, diacritics stripped. "Valor R.P." and "VALOR  R.P." both
// become "VALORR.P.".
func HeaderKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return Name(b.String())
}

// Header rewrites every key of a tabular row through HeaderKey, preserving
// the values. Lets column matching survive accent and spacing variations.
func Header(row map[string]string) map[string]string {
	out := make(map[string]string, len(row))
	for k, v := range row {
		out[HeaderKey(k)] = v
	}
	return out
}
