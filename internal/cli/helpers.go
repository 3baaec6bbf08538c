package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/midiroute/internal/logging"
	"github.com/aretw0/midiroute/pkg/adapters/gomidi"
	"github.com/aretw0/midiroute/pkg/ports"
)

// createLogger maps the -v count onto a stderr logger.
func createLogger(verbosity int) *slog.Logger {
	return logging.New(logging.LevelFromVerbosity(verbosity))
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// openProvider returns p, or the hardware provider when p is nil.
func openProvider(p ports.Provider, logger *slog.Logger) (ports.Provider, func(), error) {
	if p != nil {
		return p, func() {}, nil
	}
	hw, err := gomidi.New(gomidi.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return hw, func() {
		if err := hw.Close(); err != nil {
			logger.Warn("Failed to close MIDI driver", "err", err)
		}
	}, nil
}

// listPorts returns the current input and output names.
func listPorts(ctx context.Context, p ports.Provider) (inputs, outputs []string, err error) {
	if inputs, err = p.InputNames(ctx); err != nil {
		return nil, nil, err
	}
	if outputs, err = p.OutputNames(ctx); err != nil {
		return nil, nil, err
	}
	return inputs, outputs, nil
}
