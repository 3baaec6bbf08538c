package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/midiroute/pkg/adapters/memory"
	"github.com/aretw0/midiroute/pkg/domain"
	"github.com/aretw0/midiroute/pkg/midi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioRouting() Routing {
	return Routing{
		Inputs: []domain.PortDescriptor{
			{Identifier: "a", Name: "SynthA", Type: domain.PortTypeUSB},
			{Identifier: "b", Name: "SynthB", Connector: "1:0", Type: domain.PortTypeUSB},
		},
		Outputs: []domain.PortDescriptor{
			{Identifier: "x", Name: "Mixer", Type: domain.PortTypeUSB},
		},
		Rules: []domain.RoutingRule{
			{From: domain.AllPorts, To: domain.PortID("x"), FromChannel: domain.AllChannels, ToChannel: domain.AllChannels},
		},
	}
}

func fastOptions() SessionOptions {
	return SessionOptions{PollInterval: 20 * time.Millisecond, PopTimeout: 20 * time.Millisecond}
}

func TestSession_Scenario(t *testing.T) {
	p := memory.NewProvider()
	p.PlugInput("SynthA 0:0", "SynthB 1:0")
	p.PlugOutput("Mixer 0:0")

	s := NewSession("test", scenarioRouting(), p, fastOptions())
	require.NoError(t, s.Resolve(context.Background()))
	s.Open(context.Background())
	defer s.Close()

	snap := s.Snapshot(domain.StateRunning)
	assert.Equal(t, map[string]string{"a": "SynthA 0:0", "b": "SynthB 1:0"}, snap.Inputs)
	assert.Equal(t, []string{"SynthA 0:0", "SynthB 1:0"}, snap.OpenInputs)
	assert.Equal(t, []string{"Mixer 0:0"}, snap.OpenOutputs)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	fromA := midi.NoteOn(5, 60, 100)
	fromB := midi.NoteOn(0, 48, 80)
	require.True(t, p.Inject("SynthA 0:0", fromA))
	require.True(t, p.Inject("SynthB 1:0", fromB))

	assert.Eventually(t, func() bool { return len(p.Sent("Mixer 0:0")) == 2 }, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []midi.Message{fromA, fromB}, p.Sent("Mixer 0:0"))
	assert.Empty(t, p.Sent("SynthA 0:0"))
	assert.Empty(t, p.Sent("SynthB 1:0"))

	cancel()
	assert.NoError(t, <-done)
}

func TestSession_OpenFailureDegrades(t *testing.T) {
	p := memory.NewProvider()
	p.PlugInput("SynthA 0:0", "SynthB 1:0")
	p.PlugOutput("Mixer 0:0")
	p.FailOpen("SynthA 0:0")

	s := NewSession("degraded", scenarioRouting(), p, fastOptions())
	require.NoError(t, s.Resolve(context.Background()))
	s.Open(context.Background())
	defer s.Close()

	assert.NotContains(t, s.Table(), "SynthA 0:0")
	assert.Len(t, s.Table().Lookup("SynthB 1:0"), 1)
	assert.Equal(t, []string{"SynthB 1:0"}, s.Snapshot(domain.StateRunning).OpenInputs)
}

func TestSession_RunReturnsOnTopologyChange(t *testing.T) {
	p := memory.NewProvider()
	p.PlugInput("SynthA 0:0")
	p.PlugOutput("Mixer 0:0")

	s := NewSession("hotplug", scenarioRouting(), p, fastOptions())
	require.NoError(t, s.Resolve(context.Background()))
	s.Open(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	p.PlugInput("SynthB 1:0")

	select {
	case err := <-done:
		assert.ErrorIs(t, err, domain.ErrTopologyChanged)
	case <-time.After(time.Second):
		t.Fatal("session did not notice the new device")
	}

	s.Close()
	s.Close()
	assert.Equal(t, 0, p.OpenHandles("SynthA 0:0"))
	assert.Equal(t, 0, p.OpenHandles("Mixer 0:0"))
}

func TestSession_ResolveFailsWhenListingFails(t *testing.T) {
	p := memory.NewProvider()
	p.FailListing(assert.AnError)

	s := NewSession("broken", scenarioRouting(), p, fastOptions())
	assert.ErrorIs(t, s.Resolve(context.Background()), assert.AnError)
}
