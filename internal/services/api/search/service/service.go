// Package service implements basic listing, advanced search and filter options
package service

import (
	"context"
	"strings"
	"time"

	"outreach/internal/core/geo"
	"outreach/internal/core/search"
	"outreach/internal/modkit/repokit"
	perr "outreach/internal/platform/errors"
	"outreach/internal/platform/logger"
	"outreach/internal/platform/net/http/bind"
	"outreach/internal/platform/store"
	"outreach/internal/services/api/search/domain"
	"outreach/internal/services/api/search/repo"
)

// Service is the public surface consumed by handlers and other modules
type Service interface {
	domain.ServicePort
}

// Options control service behavior
type Options struct {
	// FiltersTTL bounds cached filter options, 1h when zero
	FiltersTTL time.Duration
	// Cache is the optional shared tier for filter options
	Cache store.Cache
}

// Svc implements Service
type Svc struct {
	Repo    repo.Repo
	db      repokit.TxRunner
	log     logger.Logger
	filters *filterCache
}

var now = time.Now

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opt Options) *Svc {
	if db == nil {
		panic("search.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("search.Service requires a non nil Repo binder")
	}
	if opt.FiltersTTL <= 0 {
		opt.FiltersTTL = time.Hour
	}
	s := &Svc{Repo: binder.Bind(db), db: db, log: *logger.Named("search")}
	s.filters = &filterCache{
		ttl:    opt.FiltersTTL,
		shared: opt.Cache,
		log:    s.log,
		load:   func(ctx context.Context) ([]search.Record, error) { return s.Repo.Records(ctx, "") },
	}
	return s
}

// Basic lists individuals with paging, optional text search and sort
func (s *Svc) Basic(ctx context.Context, in domain.BasicInput) ([]domain.Summary, int, error) {
	in.Defaults()
	in.Search = strings.TrimSpace(in.Search)
	if err := bind.Struct(in); err != nil {
		return nil, 0, err
	}

	rows, total, err := s.Repo.Basic(ctx, repo.Page{
		Pattern: repokit.Contains(in.Search),
		SortBy:  in.SortBy,
		Order:   in.SortOrder,
		Limit:   in.Limit,
		Offset:  in.Offset,
	})
	if err != nil {
		return nil, 0, perr.FromPostgres(err, "list individuals")
	}
	out := make([]domain.Summary, len(rows))
	for i, r := range rows {
		out[i] = domain.Summary{
			ID:              r.ID,
			Name:            r.Name,
			UrgencyScore:    r.Score,
			UrgencyOverride: r.Override,
			DisplayScore:    r.Display,
			PhotoURL:        r.PhotoURL,
			LastSeen:        r.LastSeen,
			LastAddress:     geo.Abbreviate(r.Address),
		}
	}
	return out, total, nil
}

// Advanced applies structured filters in memory over the text prefiltered set
func (s *Svc) Advanced(ctx context.Context, q search.Query) ([]domain.Hit, int, error) {
	if err := q.Normalize(); err != nil {
		return nil, 0, err
	}
	recs, err := s.Repo.Records(ctx, repokit.Contains(q.Text))
	if err != nil {
		return nil, 0, perr.FromPostgres(err, "search individuals")
	}
	page, total := search.Run(recs, q)

	out := make([]domain.Hit, len(page))
	for i, h := range page {
		out[i] = domain.Hit{
			ID:            h.ID,
			Name:          h.Name,
			Data:          h.Data,
			DisplayScore:  h.Display,
			HasPhoto:      h.HasPhoto,
			LastSeen:      h.LastSeen,
			LastAddress:   geo.Abbreviate(h.Address),
			DistanceMiles: h.Distance,
		}
	}
	return out, total, nil
}

// Filters returns the dynamic filter options. It never fails
func (s *Svc) Filters(ctx context.Context) search.Filters { return s.filters.get(ctx) }
