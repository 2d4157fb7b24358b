package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mpvstatusd",
	Short: "mpvstatusd - Render mpv playback status to stdout for a status bar",
	Long: `Watch mpv's JSON IPC socket and print a templated one-line summary
(volume, title, album, ...) to stdout whenever playback state changes.
Pipe the output into a status-bar widget that redraws on each new line.

The daemon keeps running while mpv is absent and reconnects automatically
when the socket reappears.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		SetupLogging("warn")
	},
	RunE: runDaemon,
}

func SetVersion(v string) {
	rootCmd.Version = v
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
