package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"mpvstatusd/daemon"
	"mpvstatusd/internal/config"
	"mpvstatusd/internal/pathutil"
)

var configPath string

// runDaemon is the root command's action: rendered lines go to stdout,
// diagnostics to stderr, and the process stays up until SIGINT/SIGTERM.
func runDaemon(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var path string
	var err error

	if cmd.Flags().Changed("config") {
		path = pathutil.ExpandTilde(configPath)
	} else {
		path, err = config.EnsureDefaultConfig(configPath)
		if err != nil {
			return err
		}
	}

	return daemon.Run(ctx, daemon.Options{
		ConfigPath:   path,
		Fs:           afero.NewOsFs(),
		Out:          os.Stdout,
		SetupLogging: SetupLogging,
	})
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", pathutil.MustDefaultConfigPath(), "path to config file")
}
