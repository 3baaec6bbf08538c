package main

import (
	"os"

	"github.com/aretw0/midiroute/internal/cli"
	"github.com/aretw0/midiroute/pkg/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a config file without opening any port",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		return cli.Validate(path, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("config", "c", config.DefaultPath, "Config file to check")
}
