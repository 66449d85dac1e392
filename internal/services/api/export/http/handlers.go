// Package http streams the individuals export
package http

import (
	"bytes"
	"fmt"
	stdhttp "net/http"
	"strings"
	"time"

	"outreach/internal/modkit/httpkit"
	perr "outreach/internal/platform/errors"
	"outreach/internal/platform/logger"
	phttp "outreach/internal/platform/net/http"
	"outreach/internal/services/api/export/domain"
	"outreach/internal/services/api/export/service"
)

// Register mounts the export route
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	r.Get("/", h.export)
}

type handlers struct{ svc domain.ServicePort }

var now = time.Now

func (h *handlers) export(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	format := domain.Format(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))))
	if format == "" {
		format = domain.FormatCSV
	}
	if format != domain.FormatCSV && format != domain.FormatXLSX {
		phttp.RespondError(w, r, perr.Validation("format must be csv or xlsx",
			perr.FieldIssue{Field: "format", Message: "must be csv or xlsx"}))
		return
	}

	rows, err := h.svc.Rows(r.Context())
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}

	var (
		buf         bytes.Buffer
		contentType string
	)
	switch format {
	case domain.FormatXLSX:
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = service.WriteXLSX(&buf, rows)
	default:
		contentType = "text/csv; charset=utf-8"
		err = service.WriteCSV(&buf, rows)
	}
	if err != nil {
		logger.C(r.Context()).Error().Err(err).Str("format", string(format)).Msg("export encode failed")
		phttp.RespondError(w, r, perr.Internalf("export could not be generated"))
		return
	}

	name := fmt.Sprintf("individuals_%s.%s", now().UTC().Format("20060102"), format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(stdhttp.StatusOK)
	_, _ = buf.WriteTo(w)

	logger.C(r.Context()).Info().Str("format", string(format)).Int("rows", len(rows)).Msg("export served")
}
