package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"outreach/internal/platform/config"
	perr "outreach/internal/platform/errors"
	phttp "outreach/internal/platform/net/http"
	"outreach/internal/platform/store"
	"outreach/internal/platform/store/storetest"
	"outreach/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

type denyAll struct{}

func (denyAll) Parse(*http.Request) (string, string, error) {
	return "", "", perr.Unauthorizedf("invalid bearer token")
}

func mount(t *testing.T, opt Options) *chi.Mux {
	t.Helper()
	testkit.Serial(t)
	opt.Config = config.New()
	opt.Store = &store.Store{PG: &storetest.DB{}}
	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), opt)
	return mux
}

func call(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMount_DevelopmentWithoutSecrets(t *testing.T) {
	h := mount(t, Options{})

	cases := []struct {
		method, target, body string
		code                 int
	}{
		{"GET", "/api/v1/meta/health", "", 200},
		{"POST", "/api/v1/transcribe", `{"audio_url":"https://store.test/a.wav"}`, 503},
		{"GET", "/api/v1/export?format=pdf", "", 400},
		{"GET", "/api/v1/individuals/not-a-uuid", "", 404},
		{"GET", "/api/v1/individuals/search?lat=1", "", 400},
		{"GET", "/metrics", "", 200},
	}
	for _, tc := range cases {
		rec := call(h, tc.method, tc.target, tc.body)
		if rec.Code != tc.code {
			t.Fatalf("%s %s: code = %d body = %s", tc.method, tc.target, rec.Code, rec.Body)
		}
	}
}

func TestMount_AuthGuardsEverythingButMeta(t *testing.T) {
	h := mount(t, Options{Auth: denyAll{}})

	if rec := call(h, "GET", "/api/v1/meta/version", ""); rec.Code != 200 {
		t.Fatalf("meta code = %d", rec.Code)
	}
	for _, target := range []string{"/api/v1/categories", "/api/v1/individuals", "/api/v1/search/filters", "/api/v1/export"} {
		if rec := call(h, "GET", target, ""); rec.Code != 401 {
			t.Fatalf("%s: code = %d", target, rec.Code)
		}
	}
}
