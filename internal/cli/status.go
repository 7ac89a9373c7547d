package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tessro/gong/internal/core"
	"github.com/tessro/gong/internal/tui/styles"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show gong status",
	Long:  `Shows the network link, audio module state and uptime of a gong.`,
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	c := newClient()
	status, err := c.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	if JSONOutput() {
		return printJSON(status)
	}
	writeStatus(os.Stdout, status, c.BaseURL())
	return nil
}

func writeStatus(w io.Writer, s *core.DeviceStatus, url string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", styles.Title.Render(s.Name), styles.Dim.Render(url))

	// Network
	wifi := styles.OnOff(s.WiFi.Connected, "connected", s.WiFi.State)
	_, _ = fmt.Fprintf(w, "  %s WiFi   %s", styles.LinkIcon(s.WiFi.Connected), wifi)
	if s.WiFi.SSID != "" {
		_, _ = fmt.Fprintf(w, " to %s", s.WiFi.SSID)
	}
	if s.WiFi.IP != "" {
		_, _ = fmt.Fprintf(w, " (%s)", s.WiFi.IP)
	}
	_, _ = fmt.Fprintln(w)

	// Audio
	if !s.Audio.Available {
		_, _ = fmt.Fprintf(w, "  %s Audio  %s\n", styles.LinkIcon(false), styles.Failed.Render("module not found"))
	} else {
		state := "stopped"
		if s.Audio.Playing {
			state = "playing"
		}
		_, _ = fmt.Fprintf(w, "  %s Audio  %s", styles.StatusIcon(s.Audio.Playing), state)
		if s.Audio.Track > 0 {
			_, _ = fmt.Fprintf(w, ", track %d", s.Audio.Track)
		}
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "    Volume %s\n", FormatVolume(s.Audio.Volume))
	}

	if !s.StartedAt.IsZero() {
		_, _ = fmt.Fprintf(w, "  %s\n", styles.Dim.Render("Up "+FormatUptime(s.Uptime())))
	}
}
