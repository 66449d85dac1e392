package http

import (
	"net/url"
	"strconv"
	"strings"

	"outreach/internal/core/geo"
	"outreach/internal/core/search"
	perr "outreach/internal/platform/errors"
	"outreach/internal/services/api/search/domain"
)

// params collects typed query values and every parse failure
type params struct {
	v      url.Values
	issues []perr.FieldIssue
}

func (p *params) str(key string) string { return strings.TrimSpace(p.v.Get(key)) }

func (p *params) bad(key, msg string) {
	p.issues = append(p.issues, perr.FieldIssue{Field: key, Message: msg})
}

func (p *params) int(key string) *int {
	s := p.str(key)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		p.bad(key, "must be an integer")
		return nil
	}
	return &n
}

func (p *params) float(key string) *float64 {
	s := p.str(key)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.bad(key, "must be a number")
		return nil
	}
	return &f
}

func (p *params) bool(key string) *bool {
	s := p.str(key)
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		p.bad(key, "must be true or false")
		return nil
	}
	return &b
}

func (p *params) err() error {
	if len(p.issues) == 0 {
		return nil
	}
	return perr.Validation(p.issues[0].Field+" "+p.issues[0].Message, p.issues...)
}

func deref(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

// ParseBasic reads the basic list query. Bounds are checked by the service
func ParseBasic(v url.Values) (domain.BasicInput, error) {
	p := &params{v: v}
	in := domain.BasicInput{
		Search:    p.str("search"),
		Limit:     deref(p.int("limit")),
		Offset:    deref(p.int("offset")),
		SortBy:    p.str("sort_by"),
		SortOrder: strings.ToLower(p.str("sort_order")),
	}
	return in, p.err()
}

// ParseAdvanced reads the advanced search query
func ParseAdvanced(v url.Values) (search.Query, error) {
	p := &params{v: v}
	q := search.Query{
		Text:       p.str("q"),
		Age:        search.AgeFilter{Min: p.int("age_min"), Max: p.int("age_max")},
		HeightMin:  p.float("height_min"),
		HeightMax:  p.float("height_max"),
		UrgencyMin: p.int("urgency_min"),
		UrgencyMax: p.int("urgency_max"),
		HasPhoto:   p.bool("has_photo"),
		Sort:       search.SortField(p.str("sort_by")),
		Order:      search.Order(strings.ToLower(p.str("sort_order"))),
		Limit:      deref(p.int("limit")),
		Offset:     deref(p.int("offset")),
	}
	for _, g := range strings.Split(p.str("gender"), ",") {
		if g = strings.TrimSpace(g); g != "" {
			q.Genders = append(q.Genders, g)
		}
	}

	lat, lon := p.float("lat"), p.float("lon")
	switch {
	case lat != nil && lon != nil:
		q.Origin = &geo.Point{Lat: *lat, Lon: *lon}
	case lat != nil || lon != nil:
		p.bad("lat", "lat and lon must be given together")
	}
	return q, p.err()
}
