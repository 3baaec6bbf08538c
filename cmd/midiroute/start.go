package main

import (
	"context"
	"os"

	"github.com/aretw0/midiroute/internal/cli"
	"github.com/aretw0/midiroute/pkg/config"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start routing",
	Long:  `Loads the config, resolves ports and routes messages until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		listen, _ := cmd.Flags().GetString("listen")
		redisURL, _ := cmd.Flags().GetString("redis")
		routerID, _ := cmd.Flags().GetString("router")
		quiet, _ := cmd.Flags().GetBool("quiet")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.Start(sigCtx, cli.StartOptions{
			ConfigPath: path,
			Listen:     listen,
			RedisURL:   redisURL,
			RouterID:   routerID,
			Out:        os.Stdout,
			Quiet:      quiet,
			Verbosity:  verbosity(cmd),
		})
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().StringP("config", "c", config.DefaultPath, "Config file to use")
	startCmd.Flags().String("listen", "", "Serve the status API, /events and /metrics on this address (e.g. :2112)")
	startCmd.Flags().String("redis", "", "Publish session status to this Redis URL")
	startCmd.Flags().String("router", "", "Router ID used for status and claims")
	startCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
