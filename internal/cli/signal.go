package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ErrInterrupted is the cancellation cause of a SignalContext stopped by a signal.
var ErrInterrupted = errors.New("interrupted")

// SignalContext is cancelled on SIGINT or SIGTERM.
// Unlike signal.NotifyContext it records the signal as the context cause,
// retrievable with context.Cause.
type SignalContext struct {
	context.Context
	cancel context.CancelCauseFunc
	stop   sync.Once
	sigCh  chan os.Signal
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancelCause(parent)
	sc := &SignalContext{
		Context: ctx,
		cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sc.sigCh:
			sc.cancel(fmt.Errorf("%w by %s", ErrInterrupted, sig))
		case <-sc.Context.Done():
		}
		sc.stop.Do(func() {
			signal.Stop(sc.sigCh)
		})
	}()

	return sc
}

// Cancel stops the context without a signal.
func (sc *SignalContext) Cancel() {
	sc.cancel(nil)
}
