package repokit

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains turns free text into an ILIKE pattern that matches it anywhere.
// Wildcards in s are escaped, so queries must say ESCAPE '\'. Blank input gives ""
func Contains(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return "%" + likeEscaper.Replace(s) + "%"
}
