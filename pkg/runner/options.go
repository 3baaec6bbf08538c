package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/midiroute/internal/runtime"
	"github.com/aretw0/midiroute/pkg/ports"
)

// DefaultRouterID names the router in status stores when none is configured.
const DefaultRouterID = "default"

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithObserver configures the routing counters.
func WithObserver(o runtime.Observer) Option {
	return func(r *Runner) {
		r.observer = o
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(h Hooks) Option {
	return func(r *Runner) {
		r.hooks = h
	}
}

// WithStatusStore records a snapshot of every session under routerID.
func WithStatusStore(store ports.StatusStore, routerID string) Option {
	return func(r *Runner) {
		r.store = store
		if routerID != "" {
			r.routerID = routerID
		}
	}
}

// WithPollInterval sets the topology polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.pollInterval = d
	}
}

// WithPopTimeout sets how long the dispatcher waits on an empty queue.
func WithPopTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.popTimeout = d
	}
}

// WithRestartDelay waits d between a teardown and the next resolution.
func WithRestartDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.restartDelay = d
	}
}

// WithSessionIDs overrides session ID generation (UUIDs by default).
func WithSessionIDs(next func() string) Option {
	return func(r *Runner) {
		r.newID = next
	}
}
