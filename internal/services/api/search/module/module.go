// Package module wires search into the API
package module

import (
	modkit "outreach/internal/modkit"
	"outreach/internal/modkit/httpkit"
	"outreach/internal/platform/store"
	searchhttp "outreach/internal/services/api/search/http"
	searchrepo "outreach/internal/services/api/search/repo"
	searchsvc "outreach/internal/services/api/search/service"
)

// New builds search. Its list routes live under /individuals and are handed
// to that module through Ports.IndividualRoutes
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	cfg := FromConfig(deps.Cfg)
	var shared store.Cache
	if cfg.SharedFilters {
		shared = deps.RDS
	}
	svc := searchsvc.New(deps.PG, searchrepo.NewPG(), searchsvc.Options{
		FiltersTTL: cfg.FiltersTTL,
		Cache:      shared,
	})

	return modkit.Build("search", "/search", opts...).
		Module(Ports{Search: svc}, func(r httpkit.Router) { searchhttp.Register(r, svc) })
}
