package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/midiroute"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of midiroute",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "midiroute version %s\n", strings.TrimSpace(midiroute.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
