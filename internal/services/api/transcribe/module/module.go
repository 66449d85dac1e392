// Package module wires voice note ingest into the API
package module

import (
	modkit "outreach/internal/modkit"
	"outreach/internal/modkit/httpkit"
	tranhttp "outreach/internal/services/api/transcribe/http"
	transvc "outreach/internal/services/api/transcribe/service"
)

// New needs Imports through modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("transcribe", "/transcribe", opts...)
	in, _ := b.Imports.(Imports)
	cfg := FromConfig(deps.Cfg)

	svc := transvc.New(in.Store, in.Model, in.Categories, in.Candidates, transvc.Options{
		FetchTimeout: cfg.FetchTimeout,
		FetchLimit:   cfg.FetchLimit,
		Parallel:     cfg.Parallel,
		Threshold:    cfg.Threshold,
	})
	if in.Store == nil || in.Model == nil {
		deps.Log.Warn().Bool("storage", in.Store != nil).Bool("llm", in.Model != nil).
			Msg("transcription dependencies missing, ingest answers 503")
	}

	return b.Module(nil, func(r httpkit.Router) { tranhttp.Register(r, svc) })
}
