package http

import (
	"context"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pnet "outreach/internal/platform/net"
	phttp "outreach/internal/platform/net/http"
	"outreach/internal/services/api/transcribe/domain"

	"github.com/go-chi/chi/v5"
)

type fakeSvc struct {
	in    domain.Input
	calls int
}

func (f *fakeSvc) Ingest(_ context.Context, in domain.Input) (domain.Result, error) {
	f.calls++
	f.in = in
	return domain.Result{Transcription: "hi", MissingRequired: []string{}, PotentialMatches: []domain.Match{}}, nil
}

func router(s domain.ServicePort) stdhttp.Handler {
	m := chi.NewRouter()
	m.Use(func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			if uid := r.Header.Get("X-Test-User"); uid != "" {
				r = r.WithContext(pnet.WithUser(r.Context(), uid, "Sam"))
			}
			next.ServeHTTP(w, r)
		})
	})
	phttp.AdaptChi(m).Route("/transcribe", func(r phttp.Router) { Register(r, s) })
	return m
}

func TestIngest(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		authed bool
		code   int
	}{
		{"ok", `{"audio_url":"https://store.test/a.m4a","location":{"latitude":1,"longitude":2}}`, true, 200},
		{"no user", `{"audio_url":"https://store.test/a.m4a"}`, false, 401},
		{"missing url", `{}`, true, 400},
		{"unknown field", `{"audio_url":"https://store.test/a.m4a","lang":"en"}`, true, 400},
		{"bad location", `{"audio_url":"https://store.test/a.m4a","location":{"latitude":200,"longitude":0}}`, true, 400},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeSvc{}
			req := httptest.NewRequest(stdhttp.MethodPost, "/transcribe/", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			if tc.authed {
				req.Header.Set("X-Test-User", "u1")
			}
			rec := httptest.NewRecorder()
			router(f).ServeHTTP(rec, req)
			if rec.Code != tc.code {
				t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
			}
			if tc.code == 200 && (f.calls != 1 || f.in.Location == nil) {
				t.Fatalf("input = %+v", f.in)
			}
			if tc.code != 200 && f.calls != 0 {
				t.Fatal("service reached on rejected request")
			}
		})
	}
}
