// Package resolver binds logical port identifiers to the concrete port names
// currently exposed by the environment.
package resolver

import (
	"log/slog"

	"github.com/aretw0/midiroute/internal/logging"
	"github.com/aretw0/midiroute/pkg/domain"
)

// Binding is the outcome of resolving one descriptor.
type Binding struct {
	Identifier string
	// Name is the chosen concrete port name, or "" when unassigned.
	Name string
}

// Assigned reports whether a concrete port was chosen.
func (b Binding) Assigned() bool {
	return b.Name != ""
}

// Assignment holds the bindings of one direction, in descriptor declaration order.
type Assignment []Binding

// Lookup returns the concrete name bound to identifier, or "" when unassigned or unknown.
func (a Assignment) Lookup(identifier string) string {
	for _, b := range a {
		if b.Identifier == identifier {
			return b.Name
		}
	}
	return ""
}

// Map returns identifier -> concrete name, including unassigned identifiers as "".
func (a Assignment) Map() map[string]string {
	m := make(map[string]string, len(a))
	for _, b := range a {
		m[b.Identifier] = b.Name
	}
	return m
}

// Names returns the assigned concrete names in declaration order.
func (a Assignment) Names() []string {
	names := make([]string, 0, len(a))
	for _, b := range a {
		if b.Assigned() {
			names = append(names, b.Name)
		}
	}
	return names
}

// Resolver assigns every descriptor a distinct concrete port, if one is available.
type Resolver struct {
	logger *slog.Logger
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithLogger configures a logger for pool dumps at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve binds descs to names from available.
//
// Pinned descriptors are served first, in declaration order, and only by an exact
// "<device> <connector>" match. Unpinned descriptors then take, in declaration order,
// the last remaining candidate sharing their device name. A descriptor that finds
// nothing is left unassigned. The result depends only on the inputs.
func (r *Resolver) Resolve(descs []domain.PortDescriptor, available []string) Assignment {
	pools := make(map[string][]string)
	for _, name := range available {
		device, _ := domain.ParsePortName(name)
		pools[device] = append(pools[device], name)
	}
	r.logger.Debug("Candidate pools before pinned pass", "pools", pools)

	bound := make(map[string]string, len(descs))

	for _, d := range descs {
		if !d.Pinned() {
			continue
		}
		if _, seen := bound[d.Identifier]; seen {
			continue
		}
		want := d.ConcreteName()
		pool := pools[d.Name]
		bound[d.Identifier] = ""
		for i, name := range pool {
			if name == want {
				pools[d.Name] = append(pool[:i:i], pool[i+1:]...)
				bound[d.Identifier] = name
				break
			}
		}
	}
	r.logger.Debug("Candidate pools after pinned pass", "pools", pools)

	for _, d := range descs {
		if d.Pinned() {
			continue
		}
		if _, seen := bound[d.Identifier]; seen {
			continue
		}
		pool := pools[d.Name]
		if len(pool) == 0 {
			bound[d.Identifier] = ""
			continue
		}
		last := len(pool) - 1
		bound[d.Identifier] = pool[last]
		pools[d.Name] = pool[:last]
	}

	out := make(Assignment, 0, len(descs))
	emitted := make(map[string]bool, len(descs))
	for _, d := range descs {
		if emitted[d.Identifier] {
			continue
		}
		emitted[d.Identifier] = true
		out = append(out, Binding{Identifier: d.Identifier, Name: bound[d.Identifier]})
	}
	return out
}
