package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/midiroute/internal/compiler"
	"github.com/aretw0/midiroute/internal/logging"
	"github.com/aretw0/midiroute/internal/resolver"
	"github.com/aretw0/midiroute/pkg/domain"
	"github.com/aretw0/midiroute/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// Routing is the validated routing configuration a session is built from.
type Routing struct {
	Inputs  []domain.PortDescriptor
	Outputs []domain.PortDescriptor
	Rules   []domain.RoutingRule
}

// SessionOptions tunes a session.
type SessionOptions struct {
	Logger       *slog.Logger
	Observer     Observer
	PollInterval time.Duration
	PopTimeout   time.Duration
}

// Session is one resolve/open/run/close cycle over a fixed set of concrete ports.
type Session struct {
	ID        string
	StartedAt time.Time

	routing  Routing
	provider ports.Provider
	opts     SessionOptions
	logger   *slog.Logger

	snapshot PortSet
	inputs   resolver.Assignment
	outputs  resolver.Assignment

	openInputs  []ports.InputPort
	openOutputs []ports.OutputPort
	queue       *Queue
	table       compiler.Table

	closeOnce sync.Once
}

// NewSession prepares a session; nothing is opened until Resolve and Open.
func NewSession(id string, routing Routing, provider ports.Provider, opts SessionOptions) *Session {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}
	return &Session{
		ID:        id,
		StartedAt: time.Now(),
		routing:   routing,
		provider:  provider,
		opts:      opts,
		logger:    opts.Logger.With("session_id", id),
		queue:     NewQueue(),
	}
}

// Resolve snapshots the available ports and binds every descriptor.
// The snapshot taken here is what the topology monitor compares against.
func (s *Session) Resolve(ctx context.Context) error {
	set, err := ListPorts(ctx, s.provider)
	if err != nil {
		return err
	}
	s.snapshot = set

	r := resolver.New(resolver.WithLogger(s.logger))
	s.inputs = r.Resolve(s.routing.Inputs, set.Inputs)
	s.outputs = r.Resolve(s.routing.Outputs, set.Outputs)

	s.logger.Debug("Ports resolved", "inputs", s.inputs.Map(), "outputs", s.outputs.Map())
	return nil
}

// Open opens every resolved port. A port that fails to open is logged and left out;
// the session carries on without it.
func (s *Session) Open(ctx context.Context) {
	ingest := NewIngestor(s.queue, s.opts.Observer)

	for _, b := range s.inputs {
		if !b.Assigned() {
			continue
		}
		in, err := s.provider.OpenInput(ctx, b.Name, ingest.Handler(b.Name))
		if err != nil {
			s.logger.Warn("Failed to open input", "identifier", b.Identifier, "port", b.Name, "err", err)
			continue
		}
		s.openInputs = append(s.openInputs, in)
	}

	for _, b := range s.outputs {
		if !b.Assigned() {
			continue
		}
		out, err := s.provider.OpenOutput(ctx, b.Name)
		if err != nil {
			s.logger.Warn("Failed to open output", "identifier", b.Identifier, "port", b.Name, "err", err)
			continue
		}
		s.openOutputs = append(s.openOutputs, out)
	}

	s.table = compiler.Compile(s.routing.Rules, compiler.Topology{
		Inputs:      s.inputs,
		Outputs:     s.outputs,
		OpenInputs:  portNames(s.openInputs),
		OpenOutputs: s.openOutputs,
	})
	s.logger.Debug("Dispatch table compiled", "table", s.table.Describe())
}

// Run dispatches events until the topology changes or ctx is done.
// It returns an error wrapping domain.ErrTopologyChanged in the first case and nil in the second.
func (s *Session) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	dispatcher := NewDispatcher(s.table, s.queue,
		WithPopTimeout(s.opts.PopTimeout),
		WithDispatchLogger(s.logger),
		WithDispatchObserver(s.opts.Observer),
	)
	monitor := NewMonitor(s.provider, s.snapshot, s.opts.PollInterval, s.logger)

	g.Go(func() error { return dispatcher.Run(gctx) })
	g.Go(func() error { return monitor.Run(gctx) })

	err := g.Wait()
	if err != nil && !errors.Is(err, domain.ErrTopologyChanged) {
		return fmt.Errorf("session %s: %w", s.ID, err)
	}
	return err
}

// Close closes every opened port. Errors are logged, not returned. Safe to call twice.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		for _, in := range s.openInputs {
			if err := in.Close(); err != nil {
				s.logger.Warn("Failed to close input", "port", in.Name(), "err", err)
			}
		}
		for _, out := range s.openOutputs {
			if err := out.Close(); err != nil {
				s.logger.Warn("Failed to close output", "port", out.Name(), "err", err)
			}
		}
	})
}

// Table returns the compiled dispatch table (nil before Open).
func (s *Session) Table() compiler.Table {
	return s.table
}

// Snapshot describes the session for diagnostics.
func (s *Session) Snapshot(state domain.SessionState) domain.SessionSnapshot {
	return domain.SessionSnapshot{
		SessionID:   s.ID,
		State:       state,
		StartedAt:   s.StartedAt,
		UpdatedAt:   time.Now(),
		Inputs:      s.inputs.Map(),
		Outputs:     s.outputs.Map(),
		OpenInputs:  portNames(s.openInputs),
		OpenOutputs: portNames(s.openOutputs),
	}
}

func portNames[P ports.Port](ps []P) []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name()
	}
	return names
}
