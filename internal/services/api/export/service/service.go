// Package service flattens individuals into export rows
package service

import (
	"context"
	"strings"

	"outreach/internal/core/schema"
	"outreach/internal/modkit/repokit"
	perr "outreach/internal/platform/errors"
	ptime "outreach/internal/platform/time"
	"outreach/internal/services/api/export/domain"
	"outreach/internal/services/api/export/repo"
)

// Svc implements domain.ServicePort
type Svc struct {
	Repo repo.Repo
}

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("export.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("export.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db)}
}

// Rows returns every individual ordered by name
func (s *Svc) Rows(ctx context.Context) ([]domain.Row, error) {
	recs, err := s.Repo.All(ctx)
	if err != nil {
		return nil, perr.FromPostgres(err, "export individuals")
	}
	out := make([]domain.Row, 0, len(recs))
	for _, r := range recs {
		out = append(out, flatten(r))
	}
	return out, nil
}

func flatten(r repo.Record) domain.Row {
	row := domain.Row{Name: r.Name, UrgencyScore: r.DisplayScore}
	if r.LastSeen != nil {
		row.LastSeen = ptime.Ptr(r.LastSeen.UTC())
	}
	if f, ok := schema.AsFloat(r.Data[schema.FieldHeight]); ok {
		row.Height = &f
	}
	if f, ok := schema.AsFloat(r.Data[schema.FieldWeight]); ok {
		row.Weight = &f
	}
	if s, ok := r.Data[schema.FieldSkinColor].(string); ok {
		row.SkinColor = strings.TrimSpace(s)
	}
	return row
}
