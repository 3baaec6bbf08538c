package runner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/midiroute/internal/logging"
	"github.com/aretw0/midiroute/internal/runtime"
	"github.com/aretw0/midiroute/pkg/domain"
	"github.com/aretw0/midiroute/pkg/ports"
	"github.com/google/uuid"
)

// Runner supervises routing sessions over one provider and one routing configuration.
type Runner struct {
	provider ports.Provider
	routing  runtime.Routing

	logger   *slog.Logger
	observer runtime.Observer
	hooks    Hooks
	store    ports.StatusStore
	routerID string
	newID    func() string

	pollInterval time.Duration
	popTimeout   time.Duration
	restartDelay time.Duration

	mu       sync.RWMutex
	state    domain.SessionState
	snapshot *domain.SessionSnapshot
}

// NewRunner creates a Runner. The routing must already be validated.
func NewRunner(provider ports.Provider, routing runtime.Routing, opts ...Option) *Runner {
	r := &Runner{
		provider:     provider,
		routing:      routing,
		logger:       logging.NewNop(),
		observer:     runtime.NopObserver{},
		routerID:     DefaultRouterID,
		newID:        uuid.NewString,
		pollInterval: runtime.DefaultPollInterval,
		popTimeout:   runtime.DefaultPopTimeout,
		state:        domain.StateStopped,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run supervises sessions until ctx is cancelled, then returns nil.
// Topology changes and transient provider failures restart the session.
func (r *Runner) Run(ctx context.Context) error {
	for {
		restart, reason, err := r.runSession(ctx)
		if err != nil {
			return err
		}
		if !restart {
			return nil
		}
		r.logger.Warn("Session ended, re-initializing", "reason", reason)
		if !r.wait(ctx, r.restartDelay) {
			return nil
		}
	}
}

// RunOnce runs a single session through all four phases.
// restart reports whether the supervisor should start another session.
func (r *Runner) RunOnce(ctx context.Context) (restart bool, err error) {
	restart, _, err = r.runSession(ctx)
	return restart, err
}

// runSession is RunOnce that also reports why the session ended.
func (r *Runner) runSession(ctx context.Context) (restart bool, reason string, err error) {
	if ctx.Err() != nil {
		return false, "", nil
	}

	id := r.newID()
	s := runtime.NewSession(id, r.routing, r.provider, runtime.SessionOptions{
		Logger:       r.logger,
		Observer:     r.observer,
		PollInterval: r.pollInterval,
		PopTimeout:   r.popTimeout,
	})

	r.transition(ctx, id, domain.StateResolving, "")
	if err := s.Resolve(ctx); err != nil {
		if ctx.Err() != nil {
			r.transition(ctx, id, domain.StateStopped, "shutdown")
			return false, "", nil
		}
		r.logger.Warn("Port resolution failed", "session_id", id, "err", err)
		r.transition(ctx, id, domain.StateTeardown, err.Error())
		// Give a failing provider one polling interval before retrying.
		if !r.wait(ctx, r.pollInterval) {
			return false, "", nil
		}
		return true, err.Error(), nil
	}

	r.transition(ctx, id, domain.StateOpening, "")
	s.Open(ctx)
	defer s.Close()

	r.transition(ctx, id, domain.StateRunning, "")
	running := s.Snapshot(domain.StateRunning)
	r.publish(ctx, running)
	r.logger.Info("Session running", "session_id", id, "inputs", running.OpenInputs, "outputs", running.OpenOutputs)

	runErr := s.Run(ctx)

	reason = "shutdown"
	if runErr != nil {
		reason = runErr.Error()
	}
	restart = errors.Is(runErr, domain.ErrTopologyChanged)

	r.transition(ctx, id, domain.StateTeardown, reason)
	s.Close()
	teardown := s.Snapshot(domain.StateTeardown)
	teardown.Reason = reason
	r.publish(ctx, teardown)

	if runErr != nil && !restart {
		return false, reason, runErr
	}
	if !restart {
		r.transition(ctx, id, domain.StateStopped, reason)
	}
	return restart, reason, nil
}

// State returns the current supervisor phase.
func (r *Runner) State() domain.SessionState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Snapshot returns the last published session snapshot.
func (r *Runner) Snapshot() (domain.SessionSnapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.snapshot == nil {
		return domain.SessionSnapshot{}, false
	}
	return *r.snapshot, true
}

func (r *Runner) transition(ctx context.Context, sessionID string, to domain.SessionState, reason string) {
	r.mu.Lock()
	from := r.state
	r.state = to
	r.mu.Unlock()

	r.logger.Info("Session state changed", "session_id", sessionID, "from", from, "to", to, "reason", reason)
	if r.hooks.OnStateChange != nil {
		r.hooks.OnStateChange(ctx, domain.StateChange{
			SessionID: sessionID,
			From:      from,
			To:        to,
			Reason:    reason,
			Timestamp: time.Now(),
		})
	}
}

func (r *Runner) publish(ctx context.Context, snap domain.SessionSnapshot) {
	r.mu.Lock()
	r.snapshot = &snap
	r.mu.Unlock()

	if r.hooks.OnSnapshot != nil {
		r.hooks.OnSnapshot(ctx, snap)
	}
	if r.store == nil {
		return
	}
	// The session may be ending because ctx was cancelled; the snapshot still goes out.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := r.store.Save(saveCtx, r.routerID, snap); err != nil {
		r.logger.Warn("Failed to save session snapshot", "session_id", snap.SessionID, "err", err)
	}
}

// wait sleeps for d, returning false if ctx ends first.
func (r *Runner) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
