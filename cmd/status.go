package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"mpvstatusd/internal/ipc"
)

var (
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle = lipgloss.NewStyle().Width(12)
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print status of the running daemon (connection, observed properties)",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := ipc.Connect()
		if err != nil {
			fmt.Println("mpvstatusd is not running (start it with " + lipgloss.NewStyle().Bold(true).Render("mpvstatusd") + ")")
			return nil
		}
		defer client.Close()

		status, err := client.Status()
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}

		var playerValue string
		if status.Connected {
			playerValue = "🟢 connected"
		} else {
			playerValue = "🟡 waiting for player"
		}

		fmt.Println(labelStyle.Render("player") + playerValue)
		fmt.Println(labelStyle.Render("socket") + dimStyle.Render(status.SocketPath))
		fmt.Println(labelStyle.Render("config") + dimStyle.Render(status.ConfigPath))
		fmt.Println(labelStyle.Render("output") + status.LastLine)
		fmt.Println(labelStyle.Render("properties"))
		for _, prop := range status.Properties {
			value := dimStyle.Render("unset")
			if prop.Set {
				value = prop.Value
			}
			fmt.Printf("  %s = %s\n", prop.Name, value)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
