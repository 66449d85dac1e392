// Package module wires the photo pipeline into the API
package module

import (
	modkit "outreach/internal/modkit"
	"outreach/internal/modkit/httpkit"
	photohttp "outreach/internal/services/api/photos/http"
	photorepo "outreach/internal/services/api/photos/repo"
	photosvc "outreach/internal/services/api/photos/service"
)

// New needs Imports through modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("photos", "/photos", opts...)
	in, _ := b.Imports.(Imports)
	cfg := FromConfig(deps.Cfg)

	svc := photosvc.New(deps.PG, photorepo.NewPG(), in.Store, in.Individuals, photosvc.Options{
		MaxBytes:     cfg.MaxBytes,
		MaxDimension: cfg.MaxDimension,
		Quality:      cfg.Quality,
		Attempts:     cfg.Attempts,
		Delays:       cfg.delays(),
	})
	if in.Store == nil {
		deps.Log.Warn().Msg("photo storage not configured, uploads answer 503")
	}

	return b.Module(nil, func(r httpkit.Router) { photohttp.Register(r, svc, cfg.MaxBytes) })
}
