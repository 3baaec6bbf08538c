package main

import (
	"os"

	"github.com/aretw0/midiroute/internal/cli"
	"github.com/aretw0/midiroute/pkg/config"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Generate an example config file from the connected ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		force, _ := cmd.Flags().GetBool("force")
		return cli.GenerateConfig(cmd.Context(), cli.GenerateOptions{
			Path:      path,
			Force:     force,
			Out:       os.Stdout,
			Verbosity: verbosity(cmd),
		})
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("config", "c", config.DefaultPath, "Config file to write")
	generateCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
}
