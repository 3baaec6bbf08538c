package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/midiroute/pkg/config"
	"github.com/aretw0/midiroute/pkg/ports"
)

// GenerateOptions configures the generate-config command.
type GenerateOptions struct {
	Path      string
	Provider  ports.Provider // nil uses the hardware driver
	Force     bool
	Out       io.Writer
	Verbosity int
}

// GenerateConfig writes an example config declaring every currently available port.
func GenerateConfig(ctx context.Context, opts GenerateOptions) error {
	if !opts.Force {
		if _, err := os.Stat(opts.Path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", opts.Path)
		}
	}

	logger := createLogger(opts.Verbosity)
	provider, closeProvider, err := openProvider(opts.Provider, logger)
	if err != nil {
		return err
	}
	defer closeProvider()

	inputs, outputs, err := listPorts(ctx, provider)
	if err != nil {
		return fmt.Errorf("failed to list ports: %w", err)
	}

	cfg := config.Generate(inputs, outputs)
	if err := config.Save(opts.Path, cfg); err != nil {
		return err
	}
	printSystemMessage(opts.Out, "Wrote %s (%d inputs, %d outputs).", opts.Path, len(inputs), len(outputs))
	return nil
}

// Validate loads and validates the config at path, printing every problem found.
func Validate(path string, out io.Writer) error {
	cfg, err := config.Load(path)
	if err != nil {
		if fields := config.FieldErrors(err); len(fields) > 0 {
			for _, fe := range fields {
				fmt.Fprintf(out, "  %s\n      %s\n", fe.Path, fe.Reason)
			}
			return fmt.Errorf("%s: %d validation errors", path, len(fields))
		}
		return err
	}
	printSystemMessage(out, "%s is valid: %d inputs, %d outputs, %d mappings.",
		path, len(cfg.Ports.Inputs), len(cfg.Ports.Outputs), len(cfg.Mappings))
	return nil
}
