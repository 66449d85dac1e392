// Package module wires individuals into the API
package module

import (
	modkit "outreach/internal/modkit"
	"outreach/internal/modkit/httpkit"
	indhttp "outreach/internal/services/api/individuals/http"
	indrepo "outreach/internal/services/api/individuals/repo"
	indsvc "outreach/internal/services/api/individuals/service"
)

// New needs Imports through modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("individuals", "/individuals", opts...)
	in, _ := b.Imports.(Imports)
	svc := indsvc.New(deps.PG, indrepo.NewPG(), in.Categories)

	return b.Module(Ports{Photos: svc, Candidates: svc}, func(r httpkit.Router) { indhttp.Register(r, svc) })
}
