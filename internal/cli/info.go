package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/midiroute/internal/presentation/tui"
	"github.com/aretw0/midiroute/pkg/domain"
	"github.com/aretw0/midiroute/pkg/ports"
)

// InfoOptions configures the info command.
type InfoOptions struct {
	Provider  ports.Provider // nil uses the hardware driver
	Out       io.Writer
	Render    tui.Renderer
	Verbosity int
}

// Info prints the ports the provider currently exposes.
func Info(ctx context.Context, opts InfoOptions) error {
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

	render := opts.Render
	if render == nil {
		render = tui.PlainRenderer
	}
	out, err := render(PortsMarkdown(inputs, outputs))
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	_, err = io.WriteString(opts.Out, out)
	return err
}

// PortsMarkdown renders port names as markdown tables, split into device and connector.
func PortsMarkdown(inputs, outputs []string) string {
	var b strings.Builder
	section := func(title string, names []string) {
		fmt.Fprintf(&b, "## %s\n\n", title)
		if len(names) == 0 {
			b.WriteString("_none_\n\n")
			return
		}
		b.WriteString("| Port | Device | Connector |\n|---|---|---|\n")
		for _, name := range names {
			device, connector := domain.ParsePortName(name)
			if connector == "" {
				connector = "-"
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", escape(name), escape(device), connector)
		}
		b.WriteString("\n")
	}
	section("Inputs", inputs)
	section("Outputs", outputs)
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
