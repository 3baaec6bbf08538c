package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/midiroute/pkg/adapters/memory"
	"github.com/aretw0/midiroute/pkg/domain"
	"github.com/aretw0/midiroute/pkg/midi"
	"github.com/aretw0/midiroute/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProvider_Contract(t *testing.T) {
	p := memory.NewProvider()
	p.PlugInput("Keys 1:0")
	p.PlugOutput("Mixer 2:0")

	ports.RunProviderContract(t, p, func(name string, msg midi.Message) {
		p.Inject(name, msg)
	})
}

func TestMemoryProvider_PlugUnplug(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	p.PlugInput("A 0:0", "B 0:0", "A 0:0")
	p.PlugOutput("X 0:0")

	inputs, err := p.InputNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A 0:0", "B 0:0"}, inputs)

	p.UnplugInput("A 0:0")
	inputs, _ = p.InputNames(ctx)
	assert.Equal(t, []string{"B 0:0"}, inputs)

	out, err := p.OpenOutput(ctx, "X 0:0")
	require.NoError(t, err)
	p.UnplugOutput("X 0:0")
	assert.ErrorIs(t, out.Send(midi.Clock()), domain.ErrSendFailed)
}

func TestMemoryProvider_Failures(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	p.PlugOutput("X 0:0")

	p.FailOpen("X 0:0")
	_, err := p.OpenOutput(ctx, "X 0:0")
	assert.ErrorIs(t, err, domain.ErrPortUnavailable)

	p2 := memory.NewProvider()
	p2.PlugOutput("Y 0:0")
	out, err := p2.OpenOutput(ctx, "Y 0:0")
	require.NoError(t, err)

	boom := errors.New("usb stall")
	p2.FailSend("Y 0:0", boom)
	err = out.Send(midi.Start())
	assert.ErrorIs(t, err, domain.ErrSendFailed)
	assert.ErrorIs(t, err, boom)

	p2.FailSend("Y 0:0", nil)
	assert.NoError(t, out.Send(midi.Start()))
	assert.Equal(t, []midi.Message{midi.Start()}, p2.Sent("Y 0:0"))

	p2.FailListing(boom)
	_, err = p2.InputNames(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestMemoryProvider_ClosedInputStopsDelivery(t *testing.T) {
	ctx := context.Background()
	p := memory.NewProvider()
	p.PlugInput("A 0:0")

	got := make(chan midi.Message, 4)
	in, err := p.OpenInput(ctx, "A 0:0", func(m midi.Message) { got <- m })
	require.NoError(t, err)
	assert.Equal(t, 1, p.OpenHandles("A 0:0"))
	assert.Equal(t, 1, p.TimesOpened("A 0:0"))

	require.NoError(t, in.Close())
	assert.Equal(t, 0, p.OpenHandles("A 0:0"))
	assert.False(t, p.Inject("A 0:0", midi.Clock()))

	select {
	case m := <-got:
		t.Fatalf("unexpected delivery after close: %s", m)
	case <-time.After(50 * time.Millisecond):
	}
}
