package midiroute

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/midiroute/internal/logging"
	"github.com/aretw0/midiroute/internal/runtime"
	"github.com/aretw0/midiroute/pkg/adapters/gomidi"
	"github.com/aretw0/midiroute/pkg/config"
	"github.com/aretw0/midiroute/pkg/domain"
	"github.com/aretw0/midiroute/pkg/observability"
	"github.com/aretw0/midiroute/pkg/ports"
	"github.com/aretw0/midiroute/pkg/runner"
)

// Router is the high-level entry point of the library.
// It binds one configuration to one port provider and supervises routing sessions.
type Router struct {
	cfg      *config.Config
	provider ports.Provider
	logger   *slog.Logger
	metrics  *observability.Metrics
	store    ports.StatusStore
	routerID string
	hooks    runner.Hooks

	pollInterval time.Duration
	popTimeout   time.Duration
	restartDelay time.Duration

	runner *runner.Runner
}

// Option defines a functional option for configuring the Router.
type Option func(*Router)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithProvider injects the port provider, bypassing the default gomidi driver.
func WithProvider(p ports.Provider) Option {
	return func(r *Router) {
		r.provider = p
	}
}

// WithMetrics records routing and session metrics into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Router) {
		r.metrics = m
	}
}

// WithStatusStore publishes session snapshots under routerID.
func WithStatusStore(store ports.StatusStore, routerID string) Option {
	return func(r *Router) {
		r.store = store
		if routerID != "" {
			r.routerID = routerID
		}
	}
}

// WithHooks registers supervisor callbacks.
func WithHooks(h runner.Hooks) Option {
	return func(r *Router) {
		r.hooks = r.hooks.Chain(h)
	}
}

// WithPollInterval sets the topology polling interval (default 600ms).
func WithPollInterval(d time.Duration) Option {
	return func(r *Router) {
		r.pollInterval = d
	}
}

// WithPopTimeout sets how long the dispatcher blocks on an empty queue (default 600ms).
func WithPopTimeout(d time.Duration) Option {
	return func(r *Router) {
		r.popTimeout = d
	}
}

// WithRestartDelay waits d between sessions.
func WithRestartDelay(d time.Duration) Option {
	return func(r *Router) {
		r.restartDelay = d
	}
}

// New validates cfg and prepares a Router. Nothing is opened until Run.
func New(cfg *config.Config, opts ...Option) (*Router, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", domain.ErrInvalidConfig)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	r := &Router{
		cfg:          cfg,
		routerID:     runner.DefaultRouterID,
		pollInterval: runtime.DefaultPollInterval,
		popTimeout:   runtime.DefaultPopTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	if r.provider == nil {
		p, err := gomidi.New(gomidi.WithLogger(r.logger))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MIDI provider: %w", err)
		}
		r.provider = p
	}

	runnerOpts := []runner.Option{
		runner.WithLogger(r.logger),
		runner.WithPollInterval(r.pollInterval),
		runner.WithPopTimeout(r.popTimeout),
		runner.WithRestartDelay(r.restartDelay),
	}
	hooks := r.hooks
	if r.metrics != nil {
		runnerOpts = append(runnerOpts, runner.WithObserver(r.metrics))
		hooks = r.metrics.Hooks().Chain(hooks)
	}
	runnerOpts = append(runnerOpts, runner.WithHooks(hooks))
	if r.store != nil {
		runnerOpts = append(runnerOpts, runner.WithStatusStore(r.store, r.routerID))
	}

	routing := runtime.Routing{
		Inputs:  cfg.Ports.Inputs,
		Outputs: cfg.Ports.Outputs,
		Rules:   cfg.Rules(),
	}
	r.runner = runner.NewRunner(r.provider, routing, runnerOpts...)
	return r, nil
}

// Run routes messages until ctx is cancelled. It returns nil on cancellation.
func (r *Router) Run(ctx context.Context) error {
	r.logger.Info("Starting router",
		"version", strings.TrimSpace(Version),
		"router_id", r.routerID,
		"inputs", len(r.cfg.Ports.Inputs),
		"outputs", len(r.cfg.Ports.Outputs),
		"mappings", len(r.cfg.Mappings),
	)
	return r.runner.Run(ctx)
}

// State returns the current supervisor phase.
func (r *Router) State() domain.SessionState {
	return r.runner.State()
}

// Snapshot returns the last published session snapshot.
func (r *Router) Snapshot() (domain.SessionSnapshot, bool) {
	return r.runner.Snapshot()
}

// Provider returns the port provider in use.
func (r *Router) Provider() ports.Provider {
	return r.provider
}

// RouterID names this router in status stores.
func (r *Router) RouterID() string {
	return r.routerID
}
