package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	phttp "outreach/internal/platform/net/http"
	"outreach/internal/platform/testkit"
	"outreach/internal/services/api/export/domain"

	"github.com/go-chi/chi/v5"
)

type fakeSvc struct {
	rows  []domain.Row
	calls int
}

func (f *fakeSvc) Rows(context.Context) ([]domain.Row, error) {
	f.calls++
	return f.rows, nil
}

func router(s domain.ServicePort) *chi.Mux {
	m := chi.NewRouter()
	phttp.AdaptChi(m).Route("/export", func(r phttp.Router) { Register(r, s) })
	return m
}

func TestExport(t *testing.T) {
	testkit.Swap(t, &now, func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) })
	h := 64.0
	svc := &fakeSvc{rows: []domain.Row{{Name: "Ann", Height: &h, UrgencyScore: 10}}}

	cases := []struct {
		query string
		code  int
		ctype string
		file  string
	}{
		{"", 200, "text/csv; charset=utf-8", "individuals_20250301.csv"},
		{"?format=XLSX", 200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "individuals_20250301.xlsx"},
		{"?format=pdf", 400, "application/json; charset=utf-8", ""},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router(svc).ServeHTTP(rec, httptest.NewRequest("GET", "/export/"+tc.query, nil))
			if rec.Code != tc.code || rec.Header().Get("Content-Type") != tc.ctype {
				t.Fatalf("code = %d type = %q body = %s", rec.Code, rec.Header().Get("Content-Type"), rec.Body)
			}
			if tc.file != "" {
				testkit.MustContain(t, rec.Header().Get("Content-Disposition"), tc.file)
			}
		})
	}

	rec := httptest.NewRecorder()
	router(svc).ServeHTTP(rec, httptest.NewRequest("GET", "/export/", nil))
	if !strings.HasSuffix(rec.Body.String(), "Ann,64,,,10,\n") {
		t.Fatalf("csv body = %q", rec.Body)
	}
}
