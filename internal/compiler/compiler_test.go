package compiler

import (
	"testing"

	"github.com/aretw0/midiroute/internal/resolver"
	"github.com/aretw0/midiroute/pkg/domain"
	"github.com/aretw0/midiroute/pkg/midi"
	"github.com/aretw0/midiroute/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOut struct{ name string }

func (f *fakeOut) Name() string            { return f.name }
func (f *fakeOut) Close() error            { return nil }
func (f *fakeOut) Send(midi.Message) error { return nil }

func names(outs []ports.OutputPort) []string {
	n := make([]string, len(outs))
	for i, o := range outs {
		n[i] = o.Name()
	}
	return n
}

func testTopology() Topology {
	return Topology{
		Inputs: resolver.Assignment{
			{Identifier: "a", Name: "SynthA 0:0"},
			{Identifier: "b", Name: "SynthB 1:0"},
			{Identifier: "gone", Name: ""},
			{Identifier: "broken", Name: "Broken 3:0"},
		},
		Outputs: resolver.Assignment{
			{Identifier: "x", Name: "Mixer 0:0"},
			{Identifier: "y", Name: "SynthA 0:0"},
			{Identifier: "off", Name: ""},
		},
		// "Broken 3:0" resolved but failed to open.
		OpenInputs:  []string{"SynthA 0:0", "SynthB 1:0"},
		OpenOutputs: []ports.OutputPort{&fakeOut{"Mixer 0:0"}, &fakeOut{"SynthA 0:0"}},
	}
}

func rule(from, to domain.PortRef, fromCh, toCh domain.ChannelRef) domain.RoutingRule {
	return domain.RoutingRule{From: from, To: to, FromChannel: fromCh, ToChannel: toCh}
}

func TestCompile_EveryOpenInputHasEntry(t *testing.T) {
	table := Compile(nil, testTopology())

	require.Len(t, table, 2)
	assert.Empty(t, table.Lookup("SynthA 0:0"))
	assert.Empty(t, table.Lookup("SynthB 1:0"))
	assert.Nil(t, table.Lookup("Unknown"))
}

func TestCompile_SourceResolution(t *testing.T) {
	rules := []domain.RoutingRule{
		rule(domain.AllPorts, domain.PortID("x"), domain.AllChannels, domain.AllChannels),
		rule(domain.PortID("b"), domain.AllPorts, domain.AllChannels, domain.AllChannels),
		rule(domain.PortID("gone"), domain.PortID("x"), domain.AllChannels, domain.AllChannels),
		rule(domain.PortID("broken"), domain.PortID("x"), domain.AllChannels, domain.AllChannels),
	}

	table := Compile(rules, testTopology())

	require.Len(t, table.Lookup("SynthA 0:0"), 1)
	require.Len(t, table.Lookup("SynthB 1:0"), 2)
	assert.Equal(t, rules[0], table.Lookup("SynthB 1:0")[0].Rule, "declaration order is kept")
	assert.Equal(t, rules[1], table.Lookup("SynthB 1:0")[1].Rule)
	assert.NotContains(t, table, "Broken 3:0")
}

func TestCompile_DestinationResolution(t *testing.T) {
	rules := []domain.RoutingRule{
		rule(domain.PortID("a"), domain.AllPorts, domain.AllChannels, domain.AllChannels),
		rule(domain.PortID("a"), domain.PortID("x"), domain.AllChannels, domain.AllChannels),
		rule(domain.PortID("a"), domain.PortID("off"), domain.AllChannels, domain.AllChannels),
	}

	pipes := Compile(rules, testTopology()).Lookup("SynthA 0:0")

	require.Len(t, pipes, 3)
	assert.Equal(t, []string{"Mixer 0:0", "SynthA 0:0"}, names(pipes[0].Destinations))
	assert.Equal(t, []string{"Mixer 0:0"}, names(pipes[1].Destinations))
	assert.Empty(t, pipes[2].Destinations)
}

func TestChannelFilter(t *testing.T) {
	accept := channelFilter(domain.Channel(3))

	assert.True(t, accept(midi.NoteOn(3, 60, 1)))
	assert.False(t, accept(midi.NoteOn(4, 60, 1)))
	assert.True(t, accept(midi.Clock()), "non-channel messages pass every filter")
	assert.True(t, accept(midi.SysEx(1, 2)))

	assert.True(t, channelFilter(domain.AllChannels)(midi.NoteOn(9, 1, 1)))
}

func TestChannelRemap(t *testing.T) {
	remap := channelRemap(domain.Channel(1), domain.Channel(7))

	assert.Equal(t, midi.ControlChange(7, 1, 2), remap(midi.ControlChange(1, 1, 2)))
	assert.Equal(t, midi.Start(), remap(midi.Start()))

	fromAll := channelRemap(domain.AllChannels, domain.Channel(4))
	assert.Equal(t, uint8(4), fromAll(midi.NoteOn(12, 60, 1)).Channel)

	toAll := channelRemap(domain.Channel(2), domain.AllChannels)
	assert.Equal(t, midi.NoteOn(2, 60, 1), toAll(midi.NoteOn(2, 60, 1)))
}

func TestPipeline_RemapOntoFilterChannelIsIdentity(t *testing.T) {
	r := rule(domain.AllPorts, domain.AllPorts, domain.Channel(2), domain.Channel(2))
	pipe := Compile([]domain.RoutingRule{r}, testTopology()).Lookup("SynthA 0:0")[0]

	in := midi.Pitchwheel(2, 1234)
	out, ok := pipe.Apply(in)

	require.True(t, ok)
	assert.Equal(t, in.Bytes(), out.Bytes())
}

func TestPipeline_ApplyRejects(t *testing.T) {
	r := rule(domain.AllPorts, domain.AllPorts, domain.Channel(2), domain.Channel(5))
	pipe := Compile([]domain.RoutingRule{r}, testTopology()).Lookup("SynthA 0:0")[0]

	_, ok := pipe.Apply(midi.NoteOn(3, 60, 1))
	assert.False(t, ok)

	out, ok := pipe.Apply(midi.NoteOn(2, 60, 1))
	assert.True(t, ok)
	assert.Equal(t, uint8(5), out.Channel)
}

func TestTable_Describe(t *testing.T) {
	rules := []domain.RoutingRule{rule(domain.PortID("a"), domain.PortID("x"), domain.Channel(0), domain.AllChannels)}

	desc := Compile(rules, testTopology()).Describe()

	assert.Equal(t, []string{"a[0] -> x[ALL] => [Mixer 0:0]"}, desc["SynthA 0:0"])
	assert.Empty(t, desc["SynthB 1:0"])
}
