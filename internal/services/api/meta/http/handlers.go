// Package http serves liveness, readiness and build info
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"outreach/internal/core/version"
	"outreach/internal/modkit/httpkit"
	"outreach/internal/platform/logger"

	"golang.org/x/sync/errgroup"
)

// Pinger is anything readiness can probe
type Pinger interface {
	Ping(stdctx.Context) error
}

// Check is one readiness dependency. A nil Pinger means the backend is not
// configured and reports skipped
type Check struct {
	Name   string
	Pinger Pinger
}

type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Checks      []Check
	// Timeout bounds the whole ready probe, 2s when zero
	Timeout time.Duration
}

type handlers struct {
	deps Deps
}

func Register(r httpkit.Router, d Deps) {
	if d.Timeout <= 0 {
		d.Timeout = 2 * time.Second
	}
	h := &handlers{deps: d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Now     string `json:"now"`
}

// ReadyCheck status is ok, fail or skipped
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ReadyResponse status is ok, degraded when something is skipped, or fail
type ReadyResponse struct {
	Status string       `json:"status"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

type ServiceResponse struct {
	Name    string `json:"name"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime"`
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: stamp(h.deps.StartedAt),
		Now:     stamp(time.Now()),
	}, nil
}

// ready probes every check at once. A client hanging up does not cut the
// probes short, the timeout does
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(stdctx.WithoutCancel(r.Context()), h.deps.Timeout)
	defer cancel()

	out := make([]ReadyCheck, len(h.deps.Checks))
	var g errgroup.Group
	for i, c := range h.deps.Checks {
		out[i] = ReadyCheck{Name: c.Name, Status: "ok"}
		if c.Pinger == nil {
			out[i].Status = "skipped"
			continue
		}
		g.Go(func() error {
			if err := c.Pinger.Ping(ctx); err != nil {
				// probe errors can carry hosts, only the log sees them
				logger.C(r.Context()).Warn().Err(err).Str("check", c.Name).Msg("ready probe failed")
				out[i].Status = "fail"
				out[i].Error = "dependency unreachable"
			}
			return nil
		})
	}
	_ = g.Wait()

	overall := "ok"
	for _, c := range out {
		switch {
		case c.Status == "fail":
			overall = "fail"
		case c.Status == "skipped" && overall == "ok":
			overall = "degraded"
		}
	}
	return ReadyResponse{Status: overall, Checks: out, Now: stamp(time.Now())}, nil
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

func (h *handlers) service(_ *http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: stamp(h.deps.StartedAt),
		Uptime:  int64(time.Since(h.deps.StartedAt) / time.Second),
	}, nil
}
