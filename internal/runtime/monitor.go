package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/midiroute/internal/logging"
	"github.com/aretw0/midiroute/pkg/domain"
	"github.com/aretw0/midiroute/pkg/ports"
)

// DefaultPollInterval is the pause between two topology checks.
const DefaultPollInterval = 600 * time.Millisecond

// PortSet is the set of available port names in both directions.
type PortSet struct {
	Inputs  []string
	Outputs []string
}

// ListPorts reads the current port names from provider.
func ListPorts(ctx context.Context, provider ports.Provider) (PortSet, error) {
	inputs, err := provider.InputNames(ctx)
	if err != nil {
		return PortSet{}, fmt.Errorf("failed to list inputs: %w", err)
	}
	outputs, err := provider.OutputNames(ctx)
	if err != nil {
		return PortSet{}, fmt.Errorf("failed to list outputs: %w", err)
	}
	return PortSet{Inputs: inputs, Outputs: outputs}, nil
}

// Equal compares both directions by set equality.
func (s PortSet) Equal(other PortSet) bool {
	return sameSet(s.Inputs, other.Inputs) && sameSet(s.Outputs, other.Outputs)
}

func sameSet(a, b []string) bool {
	a = slices.Compact(slices.Sorted(slices.Values(a)))
	b = slices.Compact(slices.Sorted(slices.Values(b)))
	return slices.Equal(a, b)
}

// Monitor polls the provider and reports when the topology leaves its snapshot.
type Monitor struct {
	provider ports.Provider
	snapshot PortSet
	interval time.Duration
	logger   *slog.Logger
}

// NewMonitor creates a monitor comparing against snapshot.
func NewMonitor(provider ports.Provider, snapshot PortSet, interval time.Duration, logger *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Monitor{provider: provider, snapshot: snapshot, interval: interval, logger: logger}
}

// Run blocks until the topology changes, in which case it returns an error
// wrapping domain.ErrTopologyChanged, or until ctx is done (nil).
// A listing failure counts as a change.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		current, err := ListPorts(ctx, m.provider)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			m.logger.Warn("Port listing failed", "err", err)
			return fmt.Errorf("%w: %v", domain.ErrTopologyChanged, err)
		}
		if !m.snapshot.Equal(current) {
			m.logger.Debug("Topology changed",
				"inputs_before", m.snapshot.Inputs, "inputs_now", current.Inputs,
				"outputs_before", m.snapshot.Outputs, "outputs_now", current.Outputs,
			)
			return domain.ErrTopologyChanged
		}
	}
}
