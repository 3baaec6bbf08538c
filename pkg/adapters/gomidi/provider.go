// Package gomidi implements ports.Provider on top of the gomidi driver layer.
//
// The concrete backend is whichever driver the binary registers, usually by
// blank importing gitlab.com/gomidi/midi/v2/drivers/rtmididrv.
package gomidi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/midiroute/internal/logging"
	"github.com/aretw0/midiroute/pkg/domain"
	"github.com/aretw0/midiroute/pkg/midi"
	"github.com/aretw0/midiroute/pkg/ports"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ErrNoDriver is returned when no driver is registered or configured.
var ErrNoDriver = errors.New("no MIDI driver registered")

// Provider exposes the ports of one gomidi driver.
type Provider struct {
	driver drivers.Driver
	logger *slog.Logger

	// mu serializes open calls against the driver.
	mu sync.Mutex
}

// Option configures a Provider.
type Option func(*Provider)

// WithDriver uses d instead of the registered driver.
func WithDriver(d drivers.Driver) Option {
	return func(p *Provider) {
		p.driver = d
	}
}

// WithLogger configures the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = l
	}
}

// New creates a provider over the registered driver.
func New(opts ...Option) (*Provider, error) {
	p := &Provider{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	if p.driver == nil {
		p.driver = drivers.Get()
	}
	if p.driver == nil {
		return nil, ErrNoDriver
	}
	p.logger.Debug("Using MIDI driver", "driver", p.driver.String())
	return p, nil
}

// Driver returns the driver name.
func (p *Provider) Driver() string {
	return p.driver.String()
}

// Close releases the driver.
func (p *Provider) Close() error {
	return p.driver.Close()
}

// InputNames implements ports.Provider. Names are the driver's port strings.
func (p *Provider) InputNames(ctx context.Context) ([]string, error) {
	ins, err := p.driver.Ins()
	if err != nil {
		return nil, fmt.Errorf("list inputs: %w", err)
	}
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names, nil
}

// OutputNames implements ports.Provider.
func (p *Provider) OutputNames(ctx context.Context) ([]string, error) {
	outs, err := p.driver.Outs()
	if err != nil {
		return nil, fmt.Errorf("list outputs: %w", err)
	}
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names, nil
}

// OpenInput implements ports.Provider. It opens the driver port and listens
// for every message kind, including sysex, time code and active sensing.
func (p *Provider) OpenInput(ctx context.Context, name string, handler ports.MessageHandler) (ports.InputPort, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ins, err := p.driver.Ins()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrPortUnavailable, name, err)
	}
	var in drivers.In
	for _, candidate := range ins {
		if candidate.String() == name {
			in = candidate
			break
		}
	}
	if in == nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrPortUnavailable, name, domain.ErrPortNotFound)
	}
	if !in.IsOpen() {
		if err := in.Open(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrPortUnavailable, name, err)
		}
	}

	port := &inputPort{name: name, in: in}
	stop, err := in.Listen(func(data []byte, _ int32) {
		msg, err := midi.Decode(data)
		if err != nil {
			p.logger.Debug("Dropping undecodable message", "port", name, "err", err, "bytes", len(data))
			return
		}
		handler(msg)
	}, drivers.ListenConfig{
		TimeCode:    true,
		ActiveSense: true,
		SysEx:       true,
	})
	if err != nil {
		_ = in.Close()
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrPortUnavailable, name, err)
	}
	port.stop = stop
	return port, nil
}

// OpenOutput implements ports.Provider.
func (p *Provider) OpenOutput(ctx context.Context, name string) (ports.OutputPort, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	outs, err := p.driver.Outs()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrPortUnavailable, name, err)
	}
	var out drivers.Out
	for _, candidate := range outs {
		if candidate.String() == name {
			out = candidate
			break
		}
	}
	if out == nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrPortUnavailable, name, domain.ErrPortNotFound)
	}
	if !out.IsOpen() {
		if err := out.Open(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrPortUnavailable, name, err)
		}
	}
	return &outputPort{name: name, out: out}, nil
}

type inputPort struct {
	name string
	in   drivers.In
	stop func()
	once sync.Once
}

func (i *inputPort) Name() string { return i.name }

func (i *inputPort) Close() error {
	var err error
	i.once.Do(func() {
		if i.stop != nil {
			i.stop()
		}
		err = i.in.Close()
	})
	return err
}

type outputPort struct {
	name string
	out  drivers.Out

	mu     sync.Mutex
	closed bool
}

func (o *outputPort) Name() string { return o.name }

func (o *outputPort) Send(msg midi.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return fmt.Errorf("%w: %s: port closed", domain.ErrSendFailed, o.name)
	}
	if err := o.out.Send(msg.Bytes()); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSendFailed, o.name, err)
	}
	return nil
}

func (o *outputPort) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	return o.out.Close()
}
