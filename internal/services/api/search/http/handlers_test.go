package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"outreach/internal/core/search"
	perr "outreach/internal/platform/errors"
	phttp "outreach/internal/platform/net/http"
	"outreach/internal/services/api/search/domain"

	"github.com/go-chi/chi/v5"
)

type fakeSvc struct {
	basic    domain.BasicInput
	query    search.Query
	advCalls int
}

func (f *fakeSvc) Basic(_ context.Context, in domain.BasicInput) ([]domain.Summary, int, error) {
	f.basic = in
	return []domain.Summary{{ID: "a", Name: "John"}}, 31, nil
}

func (f *fakeSvc) Advanced(_ context.Context, q search.Query) ([]domain.Hit, int, error) {
	f.advCalls++
	f.query = q
	return []domain.Hit{}, 0, nil
}

func (f *fakeSvc) Filters(context.Context) search.Filters { return search.DefaultFilters() }

func router(s domain.ServicePort) stdhttp.Handler {
	m := chi.NewRouter()
	r := phttp.AdaptChi(m)
	r.Route("/search", func(r phttp.Router) { Register(r, s) })
	r.Route("/individuals", func(r phttp.Router) { RegisterIndividuals(r, s) })
	return m
}

func get(t *testing.T, h stdhttp.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, target, nil))
	return rec
}

func TestParseAdvanced(t *testing.T) {
	v := url.Values{
		"q":          {" jo "},
		"gender":     {"Male, female,"},
		"age_min":    {"40"},
		"height_max": {"72.5"},
		"has_photo":  {"true"},
		"lat":        {"37.7"},
		"lon":        {"-122.4"},
		"sort_by":    {"distance"},
		"sort_order": {"ASC"},
	}
	q, err := ParseAdvanced(v)
	if err != nil {
		t.Fatal(err)
	}
	if q.Text != "jo" || len(q.Genders) != 2 || q.Genders[1] != "female" {
		t.Fatalf("query = %+v", q)
	}
	if *q.Age.Min != 40 || q.Age.Max != nil || *q.HeightMax != 72.5 || !*q.HasPhoto {
		t.Fatalf("bounds = %+v", q)
	}
	if q.Origin == nil || q.Origin.Lon != -122.4 || q.Order != search.Asc {
		t.Fatalf("origin/order = %+v %q", q.Origin, q.Order)
	}
}

func TestParseAdvanced_Errors(t *testing.T) {
	cases := []struct {
		name  string
		v     url.Values
		field string
	}{
		{"bad int", url.Values{"age_min": {"forty"}}, "age_min"},
		{"bad float", url.Values{"height_min": {"tall"}}, "height_min"},
		{"bad bool", url.Values{"has_photo": {"maybe"}}, "has_photo"},
		{"lat only", url.Values{"lat": {"37.7"}}, "lat"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseAdvanced(tc.v)
			if !perr.IsCode(err, perr.ErrorCodeValidation) {
				t.Fatalf("err = %v", err)
			}
			e, ok := perr.As(err)
			if !ok || len(e.Fields()) == 0 || e.Fields()[0].Field != tc.field {
				t.Fatalf("fields = %v", err)
			}
		})
	}
}

func TestBasicRoute_Page(t *testing.T) {
	f := &fakeSvc{}
	rec := get(t, router(f), "/individuals?search=jo&limit=10&offset=20&sort_by=name")
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body)
	}
	if f.basic.Search != "jo" || f.basic.Limit != 10 || f.basic.SortBy != "name" {
		t.Fatalf("input = %+v", f.basic)
	}
	var env struct {
		Data struct {
			Items []domain.Summary `json:"items"`
			Page  phttp.Page       `json:"page"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Data.Page.Total != 31 || env.Data.Page.Limit != 10 || env.Data.Page.Offset != 20 {
		t.Fatalf("page = %+v", env.Data.Page)
	}
}

func TestAdvancedRoute_RejectsBeforeSearching(t *testing.T) {
	cases := []string{
		"/individuals/search?sort_by=distance",
		"/individuals/search?limit=21",
		"/individuals/search?offset=101",
		"/individuals/search?lon=-122",
	}
	for _, target := range cases {
		f := &fakeSvc{}
		rec := get(t, router(f), target)
		if rec.Code != stdhttp.StatusBadRequest {
			t.Fatalf("%s: code = %d", target, rec.Code)
		}
		if f.advCalls != 0 {
			t.Fatalf("%s: service called", target)
		}
	}
}

func TestAdvancedRoute_Defaults(t *testing.T) {
	f := &fakeSvc{}
	rec := get(t, router(f), "/individuals/search?gender=male")
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if f.query.Sort != search.SortUrgency || f.query.Order != search.Desc || f.query.Limit != 20 {
		t.Fatalf("query = %+v", f.query)
	}
}

func TestFiltersRoute(t *testing.T) {
	rec := get(t, router(&fakeSvc{}), "/search/filters")
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	var env struct {
		Data search.Filters `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Data.Age.Max != 120 {
		t.Fatalf("filters = %+v", env.Data)
	}
}
