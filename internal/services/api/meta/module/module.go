// Package module wires the health and version endpoints into the API
package module

import (
	"time"

	"outreach/internal/core/version"
	modkit "outreach/internal/modkit"
	"outreach/internal/modkit/httpkit"
	metahttp "outreach/internal/services/api/meta/http"
)

// Ports carries readiness probes for backends outside modkit.Deps
type Ports struct {
	Checks []metahttp.Check
}

func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("meta", "/meta", opts...)
	checks := baseChecks(deps)
	if p, ok := b.Imports.(Ports); ok {
		checks = append(checks, p.Checks...)
	}
	d := metahttp.Deps{
		ServiceName: version.Info().Service,
		StartedAt:   time.Now(),
		Checks:      checks,
	}
	return b.Module(nil, func(r httpkit.Router) { metahttp.Register(r, d) })
}

// baseChecks probes postgres always and redis when enabled
func baseChecks(deps modkit.Deps) []metahttp.Check {
	pg := metahttp.Check{Name: "pg"}
	if p, ok := deps.PG.(metahttp.Pinger); ok {
		pg.Pinger = p
	}
	out := []metahttp.Check{pg}
	if deps.RDS != nil {
		out = append(out, metahttp.Check{Name: "redis", Pinger: deps.RDS})
	}
	return out
}
