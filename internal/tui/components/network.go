package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/tessro/gong/internal/core"
	"github.com/tessro/gong/internal/tui/styles"
)

// Network displays the device link and uptime
type Network struct{}

// NewNetwork creates a new Network component
func NewNetwork() *Network {
	return &Network{}
}

// Render renders the network panel. url is where the dashboard reaches the
// device; reachable is false when the last poll failed.
func (n *Network) Render(status *core.DeviceStatus, url string, reachable bool, width, height int, focused bool) string {
	title := styles.PanelTitle("Device", focused)

	lines := []string{
		fmt.Sprintf("%s %s", styles.LinkIcon(reachable), styles.Subtitle.Render(url)),
	}
	if status != nil {
		wifi := status.WiFi
		lines = append(lines,
			"",
			styles.Title.Render(status.Name),
			fmt.Sprintf("%s WiFi %s", styles.LinkIcon(wifi.Connected), wifi.SSID),
		)
		if wifi.IP != "" {
			lines = append(lines, styles.Dim.Render("  "+wifi.IP))
		}
		if !status.StartedAt.IsZero() {
			lines = append(lines, "",
				styles.Dim.Render("booted "+humanize.RelTime(status.StartedAt, status.Time, "ago", "from now")),
				styles.Dim.Render("clock "+status.Time.Format(time.TimeOnly)),
			)
		}
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		append([]string{title, ""}, lines...)...,
	))
}
