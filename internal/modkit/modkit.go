// Package modkit composes the api out of feature modules. Each module owns a
// route prefix and may hand typed ports to the modules wired after it
package modkit

import (
	"fmt"

	"outreach/internal/modkit/httpkit"
	str "outreach/internal/platform/strings"
)

// Module is what api.Mount needs from a feature
type Module interface {
	Name() string
	Ports() any
	MountRoutes(r httpkit.Router)
}

// Option adjusts a Built before the module is assembled
type Option func(*Built)

// Built is the resolved option set a module constructor reads
type Built struct {
	Name   string
	Prefix string

	// Imports is whatever WithPorts passed in. Its type belongs to the module
	Imports any

	// Extra routes mounted under Prefix after the module's own
	Extra []func(httpkit.Router)
}

func WithName(name string) Option { return func(b *Built) { b.Name = name } }

func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithPorts hands the module the ports it imports from earlier modules
func WithPorts[T any](p T) Option { return func(b *Built) { b.Imports = p } }

// WithRegister mounts fn's routes inside the module's prefix. search uses
// this to serve its list endpoints under /individuals
func WithRegister(fn func(httpkit.Router)) Option {
	return func(b *Built) { b.Extra = append(b.Extra, fn) }
}

// Build resolves opts over the module's own name and prefix
func Build(name, prefix string, opts ...Option) Built {
	b := Built{Name: name, Prefix: prefix}
	for _, o := range opts {
		o(&b)
	}
	return b
}

// Module assembles the Module that serves routes under b.Prefix and exports ports
func (b Built) Module(ports any, routes func(httpkit.Router)) Module {
	return &mounted{
		name:   str.MustString(b.Name, "module name"),
		prefix: str.MustPrefix(b.Prefix),
		ports:  ports,
		routes: append([]func(httpkit.Router){routes}, b.Extra...),
	}
}

type mounted struct {
	name   string
	prefix string
	ports  any
	routes []func(httpkit.Router)
}

func (m *mounted) Name() string { return m.name }
func (m *mounted) Ports() any   { return m.ports }

func (m *mounted) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, fn := range m.routes {
			if fn != nil {
				fn(rr)
			}
		}
	})
}

// PortsOf returns m's ports as T and panics when the module exports something
// else. Wiring mistakes should stop the process at boot
func PortsOf[T any](m Module) T {
	p, ok := m.Ports().(T)
	if !ok {
		var want T
		panic(fmt.Sprintf("modkit: module %s exports %T, not %T", m.Name(), m.Ports(), want))
	}
	return p
}
