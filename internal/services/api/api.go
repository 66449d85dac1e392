// Package api provides the HTTP API for the application
package api

import (
	"net/http"

	"outreach/internal/adapters/objectstore"
	"outreach/internal/platform/config"
	"outreach/internal/platform/logger"
	"outreach/internal/platform/metrics"
	phttp "outreach/internal/platform/net/http"
	"outreach/internal/platform/net/middleware"
	"outreach/internal/platform/store"

	"outreach/internal/modkit"
	"outreach/internal/modkit/httpkit"
	"outreach/internal/modkit/swaggerkit"

	catmod "outreach/internal/services/api/categories/module"
	exportmod "outreach/internal/services/api/export/module"
	indmod "outreach/internal/services/api/individuals/module"
	metahttp "outreach/internal/services/api/meta/http"
	metamod "outreach/internal/services/api/meta/module"
	photomod "outreach/internal/services/api/photos/module"
	searchmod "outreach/internal/services/api/search/module"
	tranmod "outreach/internal/services/api/transcribe/module"
	transvc "outreach/internal/services/api/transcribe/service"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Logger *logger.Logger

	// Storage and Model are nil when their secrets are missing in development;
	// the endpoints that need them answer 503
	Storage objectstore.Store
	Model   transvc.Model

	// Auth resolves the calling worker. nil admits every request as DevUser
	Auth middleware.AuthPort

	// Checks are extra readiness probes, e.g. storage
	Checks []metahttp.Check

	EnableSwagger  bool
	EnableProfiler bool
}

// DevUser is the identity attached to requests when no verifier is configured
const DevUser = "dev-user"

type devAuth struct{}

func (devAuth) Parse(*http.Request) (string, string, error) { return DevUser, "Developer", nil }

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	log := logger.Get()
	if opt.Logger != nil {
		log = opt.Logger
	}
	// shared deps for modules
	deps := modkit.Deps{
		Log: *log,
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		RDS: opt.Store.RDS,
	}

	// categories first, every write path validates against its registry
	categories := catmod.New(deps)
	registry := modkit.PortsOf[catmod.Ports](categories).Registry

	// search owns the list routes that live under /individuals
	search := searchmod.New(deps)
	searchPorts := modkit.PortsOf[searchmod.Ports](search)

	individuals := indmod.New(deps,
		modkit.WithPorts(indmod.Imports{Categories: registry}),
		modkit.WithRegister(searchPorts.IndividualRoutes),
	)
	indPorts := modkit.PortsOf[indmod.Ports](individuals)

	photos := photomod.New(deps, modkit.WithPorts(photomod.Imports{
		Individuals: indPorts.Photos,
		Store:       opt.Storage,
	}))

	transcribe := tranmod.New(deps, modkit.WithPorts(tranmod.Imports{
		Store:      opt.Storage,
		Model:      opt.Model,
		Categories: registry,
		Candidates: indPorts.Candidates,
	}))

	meta := metamod.New(deps, modkit.WithPorts(metamod.Ports{Checks: opt.Checks}))

	protected := []modkit.Module{
		categories,
		search,
		individuals,
		photos,
		transcribe,
		exportmod.New(deps),
	}

	auth := opt.Auth
	if auth == nil {
		log.Warn().Str("user", DevUser).Msg("no token verifier configured, requests run as the dev user")
		auth = devAuth{}
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		meta.MountRoutes(api)

		httpkit.Protected(api, auth, func(pr httpkit.Router) {
			for _, m := range protected {
				m.MountRoutes(pr)
			}
		})
	})

	r.Handle("/metrics", metrics.Registry.Handler())
}
