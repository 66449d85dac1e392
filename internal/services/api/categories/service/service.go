// Package service contains category workflows and the in process registry cache
package service

import (
	"context"
	"sync/atomic"
	"time"

	"outreach/internal/core/schema"
	"outreach/internal/modkit/repokit"
	perr "outreach/internal/platform/errors"
	"outreach/internal/platform/logger"
	"outreach/internal/platform/metrics"
	"outreach/internal/services/api/categories/domain"
	"outreach/internal/services/api/categories/repo"
)

// Service is the public service port plus the registry other modules consume
type Service interface {
	domain.ServicePort
	domain.Registry
	Seed(ctx context.Context) (int, error)
}

// Options control service behavior
type Options struct {
	// TTL bounds how long a loaded set is served, 5m when zero
	TTL time.Duration
}

// Svc implements Service
type Svc struct {
	Repo repo.Repo
	db   repokit.TxRunner
	ttl  time.Duration
	log  logger.Logger

	// racing rebuilds both store an equal set; last writer wins
	cached atomic.Pointer[snapshot]
}

type snapshot struct {
	set    *schema.Set
	expiry time.Time
}

// now is a seam for cache expiry tests
var now = time.Now

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opt Options) *Svc {
	if db == nil {
		panic("categories.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("categories.Service requires a non nil Repo binder")
	}
	if opt.TTL <= 0 {
		opt.TTL = 5 * time.Minute
	}
	return &Svc{Repo: binder.Bind(db), db: db, ttl: opt.TTL, log: *logger.Named("categories")}
}

// Set returns the cached category set, reloading it after expiry
func (s *Svc) Set(ctx context.Context) (*schema.Set, error) {
	if snap := s.cached.Load(); snap != nil && now().Before(snap.expiry) {
		metrics.Registry.CacheLookups.WithLabelValues("categories", "hit").Inc()
		return snap.set, nil
	}
	metrics.Registry.CacheLookups.WithLabelValues("categories", "miss").Inc()

	cats, err := s.Repo.List(ctx)
	if err != nil {
		return nil, perr.FromPostgres(err, "list categories")
	}
	set := schema.NewSet(cats)
	s.cached.Store(&snapshot{set: set, expiry: now().Add(s.ttl)})
	return set, nil
}

// Invalidate drops the cached set
func (s *Svc) Invalidate() { s.cached.Store(nil) }

// List returns every category ordered for display
func (s *Svc) List(ctx context.Context) ([]schema.Category, error) {
	set, err := s.Set(ctx)
	if err != nil {
		return nil, err
	}
	return set.All(), nil
}

// Create validates and stores a new category. Names collide case-insensitively
func (s *Svc) Create(ctx context.Context, in domain.CreateInput) (schema.Category, error) {
	c := in.Category()
	if err := c.Check(); err != nil {
		return schema.Category{}, err
	}

	if set, err := s.Set(ctx); err == nil {
		if _, taken := set.Lookup(c.Name); taken {
			return schema.Category{}, perr.Conflictf("category %q already exists", c.Name)
		}
	}

	out, err := s.Repo.Insert(ctx, c)
	if err != nil {
		if perr.IsDuplicateKey(err) {
			return schema.Category{}, perr.Conflictf("category %q already exists", c.Name)
		}
		return schema.Category{}, perr.FromPostgres(err, "create category")
	}
	s.Invalidate()
	s.log.Info().Str("category", out.Name).Str("type", string(out.Type)).Msg("category created")
	return out, nil
}

// Seed inserts the embedded presets that are missing
func (s *Svc) Seed(ctx context.Context) (int, error) {
	presets, err := schema.Presets()
	if err != nil {
		return 0, err
	}
	n, err := s.Repo.Seed(ctx, presets)
	if err != nil {
		return n, perr.FromPostgres(err, "seed presets")
	}
	if n > 0 {
		s.Invalidate()
	}
	return n, nil
}
