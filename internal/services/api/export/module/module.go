// Package module wires the individuals export into the API
package module

import (
	modkit "outreach/internal/modkit"
	"outreach/internal/modkit/httpkit"
	exporthttp "outreach/internal/services/api/export/http"
	exportrepo "outreach/internal/services/api/export/repo"
	exportsvc "outreach/internal/services/api/export/service"
)

func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	svc := exportsvc.New(deps.PG, exportrepo.NewPG())
	return modkit.Build("export", "/export", opts...).
		Module(nil, func(r httpkit.Router) { exporthttp.Register(r, svc) })
}
