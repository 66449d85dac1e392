// Package metrics owns the process prometheus registry and the collectors the api reports into
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the process registry; tests may build their own with New
var Registry = New()

// Set groups every collector so a fresh registry can be built per test
type Set struct {
	reg *prometheus.Registry

	HTTPDuration   *prometheus.HistogramVec
	LLMCalls       *prometheus.CounterVec
	LLMTokens      *prometheus.CounterVec
	UploadAttempts *prometheus.HistogramVec
	Uploads        *prometheus.CounterVec
	CacheLookups   *prometheus.CounterVec
	Saves          *prometheus.CounterVec
}

// New builds a Set registered on a fresh registry with go and process collectors
func New() *Set {
	reg := prometheus.NewRegistry()
	s := &Set{
		reg: reg,
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "outreach_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"method", "route", "status"}),
		LLMCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outreach_llm_calls_total",
			Help: "LLM and speech to text calls by purpose and outcome",
		}, []string{"purpose", "outcome"}),
		LLMTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outreach_llm_tokens_total",
			Help: "LLM tokens used",
		}, []string{"model", "type"}),
		UploadAttempts: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "outreach_photo_upload_attempts",
			Help:    "Attempts spent per photo upload",
			Buckets: []float64{1, 2, 3},
		}, []string{"outcome"}),
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outreach_photo_uploads_total",
			Help: "Photo uploads by outcome",
		}, []string{"outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outreach_cache_lookups_total",
			Help: "Cache lookups by cache name and result",
		}, []string{"cache", "result"}),
		Saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outreach_individual_saves_total",
			Help: "Individual saves by kind and interaction outcome",
		}, []string{"kind", "interaction"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		s.HTTPDuration, s.LLMCalls, s.LLMTokens, s.UploadAttempts, s.Uploads, s.CacheLookups, s.Saves,
	)
	return s
}

// Gatherer exposes the underlying registry
func (s *Set) Gatherer() prometheus.Gatherer { return s.reg }

// Handler serves the exposition format for this set
func (s *Set) Handler() http.Handler {
	return promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})
}

// Middleware records request latency labeled by chi route pattern, never by raw path
func (s *Set) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		s.HTTPDuration.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).
			Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer
func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
