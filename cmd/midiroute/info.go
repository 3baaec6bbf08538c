package main

import (
	"os"

	"github.com/aretw0/midiroute/internal/cli"
	"github.com/aretw0/midiroute/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "List available MIDI ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Info(cmd.Context(), cli.InfoOptions{
			Out:       os.Stdout,
			Render:    tui.RendererFor(os.Stdout),
			Verbosity: verbosity(cmd),
		})
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
