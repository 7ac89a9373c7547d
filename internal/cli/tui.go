package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/tessro/gong/internal/tui"
)

var tuiRefresh int

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch interactive dashboard",
	Long: `Launch the interactive terminal dashboard.

The dashboard provides a live view with:
  • Audio - playback state, track and volume
  • Device - WiFi link, address and uptime
  • Alarms - the ring schedule

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  Space        Play/Stop
  1-9, t       Play track
  +/-          Volume up/down
  y            Copy device URL
  Tab          Switch panel`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVar(&tuiRefresh, "refresh", 1000, "Refresh interval in milliseconds")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	refreshRate := time.Duration(tuiRefresh) * time.Millisecond
	return tui.Run(newClient(), refreshRate)
}
