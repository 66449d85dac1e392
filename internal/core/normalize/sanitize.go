package normalize

import (
	"strings"
	"unicode/utf8"
)

// unwanted reports runes postgres text should never see: NUL and other C0
// controls apart from tab and line breaks, DEL, C1 controls, and the error
// rune that stands in for invalid UTF-8
func unwanted(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20, r == 0x7f, r >= 0x80 && r <= 0x9f:
		return true
	}
	return r == utf8.RuneError
}

// Sanitize drops unwanted runes and invalid bytes. Clean input comes back
// as is without allocating
func Sanitize(s string) string {
	if strings.IndexFunc(s, unwanted) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if unwanted(r) {
			return -1
		}
		return r
	}, s)
}
