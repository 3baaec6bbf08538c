package runtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/midiroute/pkg/adapters/memory"
	"github.com/aretw0/midiroute/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortSet_Equal(t *testing.T) {
	a := PortSet{Inputs: []string{"A", "B"}, Outputs: []string{"X"}}

	assert.True(t, a.Equal(PortSet{Inputs: []string{"B", "A"}, Outputs: []string{"X"}}), "order is irrelevant")
	assert.False(t, a.Equal(PortSet{Inputs: []string{"A"}, Outputs: []string{"X"}}))
	assert.False(t, a.Equal(PortSet{Inputs: []string{"A", "B"}, Outputs: []string{"Y"}}))
}

func TestMonitor_DetectsShrinkWithinOneInterval(t *testing.T) {
	p := memory.NewProvider()
	p.PlugInput("A 0:0")
	p.PlugOutput("X 0:0", "Y 0:0")

	snap, err := ListPorts(context.Background(), p)
	require.NoError(t, err)

	interval := 30 * time.Millisecond
	m := NewMonitor(p, snap, interval, nil)
	done := make(chan error, 1)
	go func() { done <- m.Run(context.Background()) }()

	time.Sleep(interval / 2)
	p.UnplugOutput("Y 0:0")
	changedAt := time.Now()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, domain.ErrTopologyChanged)
		assert.LessOrEqual(t, time.Since(changedAt), 2*interval)
	case <-time.After(time.Second):
		t.Fatal("monitor did not signal")
	}
}

func TestMonitor_ListingFailureCountsAsChange(t *testing.T) {
	p := memory.NewProvider()
	m := NewMonitor(p, PortSet{}, 10*time.Millisecond, nil)
	p.FailListing(errors.New("driver gone"))

	err := m.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrTopologyChanged)
}

func TestMonitor_StableTopologyRunsUntilCancel(t *testing.T) {
	p := memory.NewProvider()
	p.PlugInput("A 0:0")
	snap, _ := ListPorts(context.Background(), p)

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	assert.NoError(t, NewMonitor(p, snap, 10*time.Millisecond, nil).Run(ctx))
}
