package httpkit

import (
	"net/http"
	"strconv"
	"strings"

	perrs "outreach/internal/platform/errors"

	"github.com/go-chi/chi/v5"
)

// Param returns a trimmed path parameter
func Param(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}

// QueryInt reads an optional integer query value, def when absent
func QueryInt(r *http.Request, name string, def int) (int, error) {
	s := strings.TrimSpace(r.URL.Query().Get(name))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, perrs.Validation(name+" must be an integer",
			perrs.FieldIssue{Field: name, Message: "must be an integer"})
	}
	return n, nil
}
