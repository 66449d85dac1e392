package http

import (
	"bytes"
	"context"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	pnet "outreach/internal/platform/net"
	phttp "outreach/internal/platform/net/http"
	"outreach/internal/services/api/photos/domain"

	"github.com/go-chi/chi/v5"
)

type fakeSvc struct {
	calls  int
	update bool
	user   string
	in     domain.Upload
}

func (f *fakeSvc) Upload(_ context.Context, uid string, in domain.Upload) (domain.Result, error) {
	f.calls++
	f.user, f.in = uid, in
	return domain.Result{PhotoURL: "https://store.test/p.jpg", ConsentID: "c1"}, nil
}

func (f *fakeSvc) Replace(_ context.Context, uid string, in domain.Upload) (domain.Result, error) {
	f.calls++
	f.update = true
	f.user, f.in = uid, in
	return domain.Result{PhotoURL: "https://store.test/p.jpg", ConsentID: "c2"}, nil
}

func router(s domain.ServicePort, maxBytes int64) stdhttp.Handler {
	m := chi.NewRouter()
	m.Use(func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			if uid := r.Header.Get("X-Test-User"); uid != "" {
				r = r.WithContext(pnet.WithUser(r.Context(), uid, "Sam"))
			}
			next.ServeHTTP(w, r)
		})
	})
	phttp.AdaptChi(m).Route("/photos", func(r phttp.Router) { Register(r, s, maxBytes) })
	return m
}

type form struct {
	photo       []byte
	photoType   string
	consent     string
	individual  string
	skipPhoto   bool
	skipConsent bool
}

func (f form) request(t *testing.T, method, target string) *stdhttp.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if !f.skipPhoto {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="photo"; filename="p.jpg"`)
		hdr.Set("Content-Type", f.photoType)
		part, err := w.CreatePart(hdr)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = part.Write(f.photo)
	}
	if !f.skipConsent {
		_ = w.WriteField("consent_location", f.consent)
	}
	if f.individual != "" {
		_ = w.WriteField("individual_id", f.individual)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-Test-User", "u1")
	return req
}

const consentJSON = `{"latitude":37.7,"longitude":-122.4,"address":"123 Market St"}`

func TestUpload(t *testing.T) {
	cases := []struct {
		name string
		form form
		code int
	}{
		{"stored", form{photo: []byte("jpegbytes"), photoType: "image/jpeg", consent: consentJSON, individual: " i1 "}, 201},
		{"no photo", form{skipPhoto: true, consent: consentJSON}, 400},
		{"no consent", form{photo: []byte("x"), photoType: "image/jpeg", skipConsent: true}, 400},
		{"consent not json", form{photo: []byte("x"), photoType: "image/jpeg", consent: "123 Market St"}, 400},
		{"photo over limit", form{photo: bytes.Repeat([]byte("x"), 2048), photoType: "image/jpeg", consent: consentJSON}, 413},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeSvc{}
			rec := httptest.NewRecorder()
			router(f, 1024).ServeHTTP(rec, tc.form.request(t, stdhttp.MethodPost, "/photos/upload"))
			if rec.Code != tc.code {
				t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
			}
			if tc.code != 201 {
				if f.calls != 0 {
					t.Fatal("service reached on rejected form")
				}
				return
			}
			if f.user != "u1" || f.in.IndividualID != "i1" || f.in.DeclaredType != "image/jpeg" ||
				f.in.Consent.Latitude != 37.7 || string(f.in.Body) != "jpegbytes" {
				t.Fatalf("upload = %+v", f.in)
			}
		})
	}
}

func TestUpload_RequiresUser(t *testing.T) {
	f := &fakeSvc{}
	req := form{photo: []byte("x"), photoType: "image/jpeg", consent: consentJSON}.request(t, stdhttp.MethodPost, "/photos/upload")
	req.Header.Del("X-Test-User")
	rec := httptest.NewRecorder()
	router(f, 1024).ServeHTTP(rec, req)
	if rec.Code != 401 || f.calls != 0 {
		t.Fatalf("code = %d calls = %d", rec.Code, f.calls)
	}
}

func TestUpdate(t *testing.T) {
	f := &fakeSvc{}
	rec := httptest.NewRecorder()
	req := form{photo: []byte("png"), photoType: "image/png", consent: consentJSON, individual: "ignored"}.
		request(t, stdhttp.MethodPut, "/photos/update/i7")
	router(f, 1024).ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
	}
	if !f.update || f.in.IndividualID != "i7" {
		t.Fatalf("replace not called with path id: %+v", f.in)
	}
}
