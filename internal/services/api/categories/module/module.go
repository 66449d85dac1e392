// Package module wires categories into the API
package module

import (
	"context"
	"time"

	modkit "outreach/internal/modkit"
	"outreach/internal/modkit/httpkit"
	cathttp "outreach/internal/services/api/categories/http"
	catrepo "outreach/internal/services/api/categories/repo"
	catsvc "outreach/internal/services/api/categories/service"
)

// New builds categories and, when configured, seeds the preset fields first.
// Every write path validates against the Registry it exports
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("categories", "/categories", opts...)
	cfg := FromConfig(deps.Cfg)
	svc := catsvc.New(deps.PG, catrepo.NewPG(), catsvc.Options{TTL: cfg.TTL})

	if cfg.SeedOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		n, err := svc.Seed(ctx)
		cancel()
		if err != nil {
			deps.Log.Error().Err(err).Msg("category preset seed failed")
		} else if n > 0 {
			deps.Log.Info().Int("added", n).Msg("category presets seeded")
		}
	}

	return b.Module(Ports{Registry: svc}, func(r httpkit.Router) { cathttp.Register(r, svc) })
}
