package ports

import (
	"context"

	"github.com/aretw0/midiroute/pkg/midi"
)

// MessageHandler receives every message arriving on an opened input port.
// It is called from the provider's own goroutine and must not block for long.
type MessageHandler func(msg midi.Message)

// Port is an opened concrete port.
type Port interface {
	// Name returns the concrete port name the port was opened with.
	Name() string

	// Close releases the port. Calling Close more than once is not an error.
	Close() error
}

// InputPort is an opened input. Messages are pushed to the handler given at open time
// until the port is closed.
type InputPort interface {
	Port
}

// OutputPort is an opened output.
type OutputPort interface {
	Port

	// Send delivers one message. Failures wrap domain.ErrSendFailed.
	Send(msg midi.Message) error
}

// Provider enumerates and opens the concrete ports exposed by the environment.
// Name listings may change between calls as devices come and go.
type Provider interface {
	// InputNames lists the currently available input port names.
	InputNames(ctx context.Context) ([]string, error)

	// OutputNames lists the currently available output port names.
	OutputNames(ctx context.Context) ([]string, error)

	// OpenInput opens an input port and starts delivering its messages to handler.
	// Failures wrap domain.ErrPortUnavailable.
	OpenInput(ctx context.Context, name string, handler MessageHandler) (InputPort, error)

	// OpenOutput opens an output port.
	// Failures wrap domain.ErrPortUnavailable.
	OpenOutput(ctx context.Context, name string) (OutputPort, error)
}
