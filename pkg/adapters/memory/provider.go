// Package memory provides in-memory adapters: a virtual port provider with hot-plug
// support and a status store. Both are used by tests and local experiments.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/midiroute/pkg/domain"
	"github.com/aretw0/midiroute/pkg/midi"
	"github.com/aretw0/midiroute/pkg/ports"
)

// inputBuffer bounds messages injected but not yet delivered to one input.
const inputBuffer = 1024

// Provider is a virtual port provider. Ports can be plugged and unplugged at any
// time, messages injected on inputs, and messages sent to outputs inspected.
// Safe for concurrent use.
type Provider struct {
	mu sync.Mutex

	inputs  []string
	outputs []string

	openInputs  map[string][]*inputPort
	openOutputs map[string][]*outputPort

	sent      map[string][]midi.Message
	failOpen  map[string]bool
	failSend  map[string]error
	listErr   error
	openCount map[string]int
}

// NewProvider creates a provider with no ports.
func NewProvider() *Provider {
	return &Provider{
		openInputs:  make(map[string][]*inputPort),
		openOutputs: make(map[string][]*outputPort),
		sent:        make(map[string][]midi.Message),
		failOpen:    make(map[string]bool),
		failSend:    make(map[string]error),
		openCount:   make(map[string]int),
	}
}

var _ ports.Provider = (*Provider)(nil)

// PlugInput makes input ports available, in order.
func (p *Provider) PlugInput(names ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inputs = appendMissing(p.inputs, names)
}

// PlugOutput makes output ports available, in order.
func (p *Provider) PlugOutput(names ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outputs = appendMissing(p.outputs, names)
}

// UnplugInput removes an input. Opened handles stop receiving injected messages.
func (p *Provider) UnplugInput(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inputs = slices.DeleteFunc(p.inputs, func(n string) bool { return n == name })
}

// UnplugOutput removes an output. Sends to opened handles fail from now on.
func (p *Provider) UnplugOutput(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outputs = slices.DeleteFunc(p.outputs, func(n string) bool { return n == name })
}

// FailOpen makes every open of name fail, in either direction.
func (p *Provider) FailOpen(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failOpen[name] = true
}

// FailSend makes sends to the output name fail with err (nil clears it).
func (p *Provider) FailSend(name string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		delete(p.failSend, name)
		return
	}
	p.failSend[name] = err
}

// FailListing makes name listings fail with err (nil clears it).
func (p *Provider) FailListing(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listErr = err
}

// InputNames implements ports.Provider.
func (p *Provider) InputNames(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.listErr != nil {
		return nil, p.listErr
	}
	return slices.Clone(p.inputs), nil
}

// OutputNames implements ports.Provider.
func (p *Provider) OutputNames(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.listErr != nil {
		return nil, p.listErr
	}
	return slices.Clone(p.outputs), nil
}

// OpenInput implements ports.Provider.
func (p *Provider) OpenInput(ctx context.Context, name string, handler ports.MessageHandler) (ports.InputPort, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkOpen(name, p.inputs); err != nil {
		return nil, err
	}
	in := &inputPort{
		name:    name,
		handler: handler,
		ch:      make(chan midi.Message, inputBuffer),
		done:    make(chan struct{}),
		owner:   p,
	}
	go in.pump()
	p.openInputs[name] = append(p.openInputs[name], in)
	p.openCount[name]++
	return in, nil
}

// OpenOutput implements ports.Provider.
func (p *Provider) OpenOutput(ctx context.Context, name string) (ports.OutputPort, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkOpen(name, p.outputs); err != nil {
		return nil, err
	}
	out := &outputPort{name: name, owner: p}
	p.openOutputs[name] = append(p.openOutputs[name], out)
	p.openCount[name]++
	return out, nil
}

func (p *Provider) checkOpen(name string, available []string) error {
	if !slices.Contains(available, name) {
		return fmt.Errorf("%w: %q: %w", domain.ErrPortUnavailable, name, domain.ErrPortNotFound)
	}
	if p.failOpen[name] {
		return fmt.Errorf("%w: %q: driver refused", domain.ErrPortUnavailable, name)
	}
	return nil
}

// Inject delivers msg to every open handle of the named input, as if the device sent it.
// It reports whether at least one handle received it.
func (p *Provider) Inject(input string, msg midi.Message) bool {
	p.mu.Lock()
	plugged := slices.Contains(p.inputs, input)
	handles := slices.Clone(p.openInputs[input])
	p.mu.Unlock()

	if !plugged {
		return false
	}
	delivered := false
	for _, in := range handles {
		if in.deliver(msg) {
			delivered = true
		}
	}
	return delivered
}

// Sent returns a copy of every message successfully sent to the named output.
func (p *Provider) Sent(output string) []midi.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.sent[output])
}

// OpenHandles returns how many handles to name are currently open.
func (p *Provider) OpenHandles(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.openInputs[name]) + len(p.openOutputs[name])
}

// TimesOpened returns how many times name was opened successfully.
func (p *Provider) TimesOpened(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.openCount[name]
}

func (p *Provider) record(out *outputPort, msg midi.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !slices.Contains(p.outputs, out.name) {
		return fmt.Errorf("%w: %q unplugged", domain.ErrSendFailed, out.name)
	}
	if err := p.failSend[out.name]; err != nil {
		return fmt.Errorf("%w: %q: %w", domain.ErrSendFailed, out.name, err)
	}
	p.sent[out.name] = append(p.sent[out.name], msg.Clone())
	return nil
}

func (p *Provider) forgetInput(in *inputPort) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.openInputs[in.name] = slices.DeleteFunc(p.openInputs[in.name], func(h *inputPort) bool { return h == in })
}

func (p *Provider) forgetOutput(out *outputPort) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.openOutputs[out.name] = slices.DeleteFunc(p.openOutputs[out.name], func(h *outputPort) bool { return h == out })
}

func appendMissing(list, names []string) []string {
	for _, n := range names {
		if !slices.Contains(list, n) {
			list = append(list, n)
		}
	}
	return list
}

type inputPort struct {
	name    string
	handler ports.MessageHandler
	ch      chan midi.Message
	done    chan struct{}
	once    sync.Once
	owner   *Provider
}

func (in *inputPort) Name() string { return in.name }

func (in *inputPort) Close() error {
	in.once.Do(func() {
		close(in.done)
		in.owner.forgetInput(in)
	})
	return nil
}

func (in *inputPort) deliver(msg midi.Message) bool {
	select {
	case <-in.done:
		return false
	default:
	}
	select {
	case in.ch <- msg.Clone():
		return true
	case <-in.done:
		return false
	}
}

// pump calls the handler from a single goroutine, keeping arrival order.
func (in *inputPort) pump() {
	for {
		select {
		case <-in.done:
			return
		case msg := <-in.ch:
			in.handler(msg)
		}
	}
}

type outputPort struct {
	name   string
	mu     sync.Mutex
	closed bool
	owner  *Provider
}

func (out *outputPort) Name() string { return out.name }

func (out *outputPort) Send(msg midi.Message) error {
	out.mu.Lock()
	closed := out.closed
	out.mu.Unlock()
	if closed {
		return fmt.Errorf("%w: %q closed", domain.ErrSendFailed, out.name)
	}
	return out.owner.record(out, msg)
}

func (out *outputPort) Close() error {
	out.mu.Lock()
	defer out.mu.Unlock()
	if !out.closed {
		out.closed = true
		out.owner.forgetOutput(out)
	}
	return nil
}
