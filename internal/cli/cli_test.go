package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/midiroute/internal/testutils"
	"github.com/aretw0/midiroute/pkg/adapters/memory"
	"github.com/aretw0/midiroute/pkg/config"
	"github.com/aretw0/midiroute/pkg/midi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func studioProvider(t *testing.T) *memory.Provider {
	return testutils.NewProvider(t, []string{"Keystation 88 20:0"}, []string{"Mixer 28:0", "Mixer 28:1"})
}

func TestInfo(t *testing.T) {
	var out bytes.Buffer
	err := Info(context.Background(), InfoOptions{Provider: studioProvider(t), Out: &out})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "## Inputs")
	assert.Contains(t, out.String(), "| Keystation 88 20:0 | Keystation 88 | 20:0 |")
	assert.Contains(t, out.String(), "| Mixer 28:1 | Mixer | 28:1 |")
}

func TestInfo_ListingFailure(t *testing.T) {
	p := studioProvider(t)
	p.FailListing(assert.AnError)
	err := Info(context.Background(), InfoOptions{Provider: p, Out: &bytes.Buffer{}})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPortsMarkdown_Empty(t *testing.T) {
	md := PortsMarkdown(nil, []string{"Odd|Name"})
	assert.Contains(t, md, "## Inputs\n\n_none_")
	assert.Contains(t, md, `| Odd\|Name | Odd\|Name | - |`)
}

func TestGenerateThenValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	var out bytes.Buffer

	require.NoError(t, GenerateConfig(context.Background(), GenerateOptions{Path: path, Provider: studioProvider(t), Out: &out}))
	assert.Contains(t, out.String(), "1 inputs, 2 outputs")

	err := GenerateConfig(context.Background(), GenerateOptions{Path: path, Provider: studioProvider(t), Out: &out})
	assert.ErrorContains(t, err, "already exists")
	require.NoError(t, GenerateConfig(context.Background(), GenerateOptions{Path: path, Provider: studioProvider(t), Out: &out, Force: true}))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Mixer", cfg.Ports.Outputs[1].Name)
	assert.Equal(t, "28:1", cfg.Ports.Outputs[1].Connector)

	out.Reset()
	require.NoError(t, Validate(path, &out))
	assert.Contains(t, out.String(), "is valid: 1 inputs, 2 outputs, 1 mappings")
}

func TestValidate_ReportsEveryField(t *testing.T) {
	path := testutils.WriteConfig(t, `
ports:
  inputs: [{identifier: a, name: A, port_type: DIN}]
  outputs: []
mappings:
  - {to_port: {identifier: nope}}
`)

	var out bytes.Buffer
	err := Validate(path, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 validation errors")
	assert.Contains(t, out.String(), "ports.inputs.0.port_type")
	assert.Contains(t, out.String(), "mappings.0.to_port.identifier")
}

func TestStart(t *testing.T) {
	mr := miniredis.RunT(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	p := studioProvider(t)
	require.NoError(t, config.Save(path, config.Generate([]string{"Keystation 88 20:0"}, []string{"Mixer 28:0"})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- Start(ctx, StartOptions{
			ConfigPath: path,
			RedisURL:   "redis://" + mr.Addr(),
			RouterID:   "studio",
			Provider:   p,
			Out:        &out,
			Quiet:      true,
		})
	}()

	require.Eventually(t, func() bool {
		raw, err := mr.Get("midiroute:status:studio")
		return err == nil && strings.Contains(raw, `"state":"running"`)
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, mr.Exists("midiroute:status:lock:studio"))

	require.True(t, p.Inject("Keystation 88 20:0", midi.NoteOn(0, 60, 1)))
	require.Eventually(t, func() bool { return len(p.Sent("Mixer 28:0")) == 1 }, 2*time.Second, 10*time.Millisecond)

	// A second process cannot drive the same router.
	err := Start(context.Background(), StartOptions{
		ConfigPath: path,
		RedisURL:   "redis://" + mr.Addr(),
		RouterID:   "studio",
		Provider:   studioProvider(t),
		Out:        &bytes.Buffer{},
		Quiet:      true,
	})
	assert.ErrorContains(t, err, "claimed by another process")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	assert.False(t, mr.Exists("midiroute:status:lock:studio"))
}

func TestStart_InvalidConfig(t *testing.T) {
	err := Start(context.Background(), StartOptions{
		ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
		Provider:   studioProvider(t),
		Out:        &bytes.Buffer{},
	})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSignalContext_Cancel(t *testing.T) {
	sc := NewSignalContext(context.Background())
	sc.Cancel()
	<-sc.Done()
	assert.ErrorIs(t, context.Cause(sc), context.Canceled)
	assert.NotErrorIs(t, context.Cause(sc), ErrInterrupted)
}

func TestStart_ReportsShutdownCause(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.Save(path, config.Generate([]string{"Keystation 88 20:0"}, []string{"Mixer 28:0"})))

	ctx, cancel := context.WithCancelCause(context.Background())
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- Start(ctx, StartOptions{ConfigPath: path, Provider: studioProvider(t), Out: &out})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel(fmt.Errorf("%w by test", ErrInterrupted))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	assert.Contains(t, out.String(), "Press Ctrl+C to stop.")
	assert.Contains(t, out.String(), ">>> Stopped: interrupted by test")
}
