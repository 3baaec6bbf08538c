package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/midiroute/internal/compiler"
	"github.com/aretw0/midiroute/internal/logging"
)

// DefaultPopTimeout bounds how long the dispatcher waits for an event before
// re-checking for teardown.
const DefaultPopTimeout = 600 * time.Millisecond

// Dispatcher is the single consumer of the session queue.
type Dispatcher struct {
	table      compiler.Table
	queue      *Queue
	popTimeout time.Duration
	logger     *slog.Logger
	observer   Observer
}

// DispatcherOption configures the Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithPopTimeout overrides DefaultPopTimeout.
func WithPopTimeout(d time.Duration) DispatcherOption {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.popTimeout = d
		}
	}
}

// WithDispatchLogger configures the logger used for traces and send failures.
func WithDispatchLogger(logger *slog.Logger) DispatcherOption {
	return func(disp *Dispatcher) {
		disp.logger = logger
	}
}

// WithDispatchObserver configures routing counters.
func WithDispatchObserver(o Observer) DispatcherOption {
	return func(disp *Dispatcher) {
		disp.observer = o
	}
}

// NewDispatcher creates a dispatcher over an immutable table.
func NewDispatcher(table compiler.Table, q *Queue, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		table:      table,
		queue:      q,
		popTimeout: DefaultPopTimeout,
		logger:     logging.NewNop(),
		observer:   NopObserver{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run drains the queue until ctx is done. It always returns nil.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		ev, ok := d.queue.Pop(ctx, d.popTimeout)
		if ctx.Err() != nil {
			return nil
		}
		if !ok {
			continue
		}
		d.Dispatch(ev)
		d.observer.QueueDepth(d.queue.Len())
	}
}

// Dispatch routes one event through every pipeline of its origin and returns the
// number of successful sends. A failed send never stops the remaining ones.
func (d *Dispatcher) Dispatch(ev Event) int {
	pipelines := d.table.Lookup(ev.Origin)
	if len(pipelines) == 0 {
		return 0
	}

	traced := ev.Message.HasChannel()
	if traced {
		d.logger.Debug("Message received", "from", ev.Origin, "message", ev.Message.String())
	}

	sent := 0
	for _, p := range pipelines {
		out, ok := p.Apply(ev.Message)
		if !ok {
			continue
		}
		for _, dest := range p.Destinations {
			// Never echo a message back to the port it came from.
			if dest.Name() == ev.Origin {
				continue
			}
			if err := dest.Send(out); err != nil {
				d.logger.Warn("Send failed", "to", dest.Name(), "message", out.String(), "err", err)
				d.observer.SendFailed(dest.Name())
				continue
			}
			if traced {
				d.logger.Debug("Message routed", "from", ev.Origin, "to", dest.Name(), "message", out.String(), "latency", time.Since(ev.Received))
			}
			d.observer.MessageRouted(dest.Name())
			sent++
		}
	}
	return sent
}
