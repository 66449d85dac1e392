// Package normalize folds names and labels into comparison keys and cleans
// free text before it is stored
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// folders holds transform chains, which are stateful and not safe to share.
// Decomposing first lets the mark filter strip accents
var folders = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
			norm.NFC,
		)
	},
}

// Key returns the folded comparison form of s. Two strings that differ only in
// case, accents, width or spacing produce the same key
func Key(s string) string {
	if s == "" {
		return ""
	}
	tr := folders.Get().(transform.Transformer)
	defer folders.Put(tr)
	tr.Reset()
	folded, _, _ := transform.String(tr, Sanitize(s))
	return strings.Join(strings.Fields(folded), " ")
}

// Equal reports whether a and b fold to the same key
func Equal(a, b string) bool { return Key(a) == Key(b) }

// Text cleans free text for storage. Case is preserved, runs of spaces
// collapse to one and runs containing a line break collapse to a single newline
func Text(s string) string {
	if s == "" {
		return ""
	}
	return collapseSpaces(norm.NFC.String(Sanitize(s)))
}

// collapseSpaces turns each whitespace run into one space, or one newline
// when the run holds a line break, and trims both ends
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var sep byte
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r':
			sep = '\n'
		case unicode.IsSpace(r):
			if sep == 0 {
				sep = ' '
			}
		default:
			if sep != 0 && b.Len() > 0 {
				b.WriteByte(sep)
			}
			sep = 0
			b.WriteRune(r)
		}
	}
	return b.String()
}
