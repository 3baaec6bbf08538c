package midiroute_test

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/midiroute"
	"github.com/aretw0/midiroute/pkg/adapters/memory"
	"github.com/aretw0/midiroute/pkg/config"
	"github.com/aretw0/midiroute/pkg/domain"
	"github.com/aretw0/midiroute/pkg/midi"
	"github.com/aretw0/midiroute/pkg/observability"
	"github.com/aretw0/midiroute/pkg/runner"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const studio = `
ports:
  inputs:
    - {identifier: a, name: SynthA, port_type: USB}
    - {identifier: b, name: SynthB, port: "1:0", port_type: USB}
  outputs:
    - {identifier: x, name: Mixer, port_type: USB}
    - {identifier: fx, name: FX, port_type: USB}
mappings:
  - {from_port: ALL, to_port: {identifier: x}}
  - {from_port: {identifier: b}, to_port: {identifier: fx}, from_channel: 2, to_channel: 9}
`

func startRouter(t *testing.T, p *memory.Provider, opts ...midiroute.Option) *midiroute.Router {
	t.Helper()
	cfg, err := config.Parse([]byte(studio))
	require.NoError(t, err)

	opts = append([]midiroute.Option{
		midiroute.WithProvider(p),
		midiroute.WithPollInterval(20 * time.Millisecond),
		midiroute.WithPopTimeout(20 * time.Millisecond),
	}, opts...)
	r, err := midiroute.New(cfg, opts...)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	require.Eventually(t, func() bool { return r.State() == domain.StateRunning }, time.Second, 5*time.Millisecond)
	return r
}

func TestRouter_Scenario(t *testing.T) {
	p := memory.NewProvider()
	p.PlugInput("SynthA 0:0", "SynthB 1:0")
	p.PlugOutput("Mixer 0:0", "FX 3:0")
	metrics := observability.NewMetrics()
	store := memory.NewStore()

	r := startRouter(t, p, midiroute.WithMetrics(metrics), midiroute.WithStatusStore(store, "studio"))

	require.True(t, p.Inject("SynthA 0:0", midi.NoteOn(5, 60, 100)))
	require.True(t, p.Inject("SynthB 1:0", midi.NoteOn(2, 64, 90)))
	require.True(t, p.Inject("SynthB 1:0", midi.Clock()))

	require.Eventually(t, func() bool { return len(p.Sent("Mixer 0:0")) == 3 }, time.Second, 5*time.Millisecond)
	// No ordering across inputs.
	assert.ElementsMatch(t, []midi.Message{midi.NoteOn(5, 60, 100), midi.NoteOn(2, 64, 90), midi.Clock()}, p.Sent("Mixer 0:0"))

	// Only b's channel 2 reaches FX, moved to channel 9; clock has no channel and passes.
	require.Eventually(t, func() bool { return len(p.Sent("FX 3:0")) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []midi.Message{midi.NoteOn(9, 64, 90), midi.Clock()}, p.Sent("FX 3:0"))

	assert.Empty(t, p.Sent("SynthA 0:0"))
	assert.Empty(t, p.Sent("SynthB 1:0"))

	expected := `
# HELP midiroute_messages_received_total Messages received per input port.
# TYPE midiroute_messages_received_total counter
midiroute_messages_received_total{port="SynthA 0:0"} 1
midiroute_messages_received_total{port="SynthB 1:0"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(metrics.Registry(), strings.NewReader(expected), "midiroute_messages_received_total"))

	snap, ok := r.Snapshot()
	require.True(t, ok)
	assert.Equal(t, map[string]string{"a": "SynthA 0:0", "b": "SynthB 1:0"}, snap.Inputs)
	stored, err := store.Load(context.Background(), "studio")
	require.NoError(t, err)
	assert.Equal(t, snap.SessionID, stored.SessionID)
	assert.Equal(t, "studio", r.RouterID())
}

func TestRouter_RebuildsWhenDeviceArrives(t *testing.T) {
	p := memory.NewProvider()
	p.PlugInput("SynthA 0:0")
	p.PlugOutput("Mixer 0:0")

	var teardowns atomic.Int32
	r := startRouter(t, p, midiroute.WithHooks(runner.Hooks{
		OnStateChange: func(_ context.Context, c domain.StateChange) {
			if c.To == domain.StateTeardown {
				teardowns.Add(1)
			}
		},
	}))
	first, _ := r.Snapshot()

	p.PlugInput("SynthB 1:0")

	require.Eventually(t, func() bool {
		snap, ok := r.Snapshot()
		return ok && snap.SessionID != first.SessionID && snap.State == domain.StateRunning
	}, time.Second, 5*time.Millisecond)

	require.True(t, p.Inject("SynthB 1:0", midi.ProgramChange(0, 12)))
	require.Eventually(t, func() bool { return len(p.Sent("Mixer 0:0")) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, midi.ProgramChange(0, 12), p.Sent("Mixer 0:0")[0])
	assert.Equal(t, 1, p.OpenHandles("SynthA 0:0"))
	assert.EqualValues(t, 1, teardowns.Load())
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := midiroute.New(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	cfg := config.Generate([]string{"SynthA 0:0"}, nil)
	cfg.Mappings = append(cfg.Mappings, config.Mapping{
		FromPort:    domain.PortID("ghost"),
		ToPort:      domain.AllPorts,
		FromChannel: domain.AllChannels,
		ToChannel:   domain.AllChannels,
	})
	_, err = midiroute.New(cfg, midiroute.WithProvider(memory.NewProvider()))
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestVersion(t *testing.T) {
	assert.Regexp(t, `^\d+\.\d+\.\d+\s*$`, midiroute.Version)
}
