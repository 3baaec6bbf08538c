package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/midiroute/pkg/domain"
	"github.com/aretw0/midiroute/pkg/midi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Injector simulates a device emitting msg on the named input port.
type Injector func(inputName string, msg midi.Message)

// RunProviderContract runs a suite of tests to verify that a Provider implementation
// adheres to the defined interface contract.
// The provider must expose at least one input and one output.
func RunProviderContract(t *testing.T, provider Provider, inject Injector) {
	ctx := context.Background()

	inputs, err := provider.InputNames(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, inputs, "contract needs at least one input")

	outputs, err := provider.OutputNames(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, outputs, "contract needs at least one output")

	t.Run("Open Unknown Ports", func(t *testing.T) {
		_, err := provider.OpenInput(ctx, "no such input 9:9", func(midi.Message) {})
		assert.ErrorIs(t, err, domain.ErrPortUnavailable)

		_, err = provider.OpenOutput(ctx, "no such output 9:9")
		assert.ErrorIs(t, err, domain.ErrPortUnavailable)
	})

	t.Run("Input Delivers Messages In Order", func(t *testing.T) {
		received := make(chan midi.Message, 8)
		in, err := provider.OpenInput(ctx, inputs[0], func(m midi.Message) {
			received <- m
		})
		require.NoError(t, err)
		assert.Equal(t, inputs[0], in.Name())

		inject(inputs[0], midi.NoteOn(1, 60, 100))
		inject(inputs[0], midi.NoteOff(1, 60, 0))

		for _, want := range []midi.Message{midi.NoteOn(1, 60, 100), midi.NoteOff(1, 60, 0)} {
			select {
			case got := <-received:
				assert.Equal(t, want, got)
			case <-time.After(time.Second):
				t.Fatalf("timed out waiting for %s", want)
			}
		}

		require.NoError(t, in.Close())
		assert.NoError(t, in.Close(), "Close must be idempotent")
	})

	t.Run("Output Send And Close", func(t *testing.T) {
		out, err := provider.OpenOutput(ctx, outputs[0])
		require.NoError(t, err)
		assert.Equal(t, outputs[0], out.Name())

		assert.NoError(t, out.Send(midi.Clock()))

		require.NoError(t, out.Close())
		assert.NoError(t, out.Close(), "Close must be idempotent")
		assert.ErrorIs(t, out.Send(midi.Clock()), domain.ErrSendFailed, "Send after Close must fail")
	})
}

// RunStatusStoreContract runs a suite of tests to verify that a StatusStore implementation
// adheres to the defined interface contract.
func RunStatusStoreContract(t *testing.T, store StatusStore) {
	ctx := context.Background()
	routerID := "contract-test-router-" + time.Now().Format("20060102150405")

	t.Run("Load Missing", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+routerID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Save and Load", func(t *testing.T) {
		snap := domain.SessionSnapshot{
			SessionID:   "s1",
			State:       domain.StateRunning,
			StartedAt:   time.Now().UTC().Truncate(time.Second),
			Inputs:      map[string]string{"a": "SynthA 0:0", "b": ""},
			Outputs:     map[string]string{"x": "Mixer 0:0"},
			OpenInputs:  []string{"SynthA 0:0"},
			OpenOutputs: []string{"Mixer 0:0"},
		}
		require.NoError(t, store.Save(ctx, routerID, snap))

		loaded, err := store.Load(ctx, routerID)
		require.NoError(t, err)
		assert.Equal(t, snap.SessionID, loaded.SessionID)
		assert.Equal(t, snap.State, loaded.State)
		assert.True(t, snap.StartedAt.Equal(loaded.StartedAt))
		assert.Equal(t, snap.Inputs, loaded.Inputs)
		assert.Equal(t, snap.OpenOutputs, loaded.OpenOutputs)
	})

	t.Run("History Newest First", func(t *testing.T) {
		id := routerID + "-history"
		for _, sessionID := range []string{"s1", "s2", "s2", "s3"} {
			require.NoError(t, store.Save(ctx, id, domain.SessionSnapshot{SessionID: sessionID, State: domain.StateRunning}))
		}

		history, err := store.History(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []string{"s3", "s2", "s1"}, history, "repeated saves of one session are recorded once")
	})
}
