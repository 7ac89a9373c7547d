package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/gong/internal/core"
	"github.com/tessro/gong/internal/tui/styles"
)

// Audio displays the audio module state
type Audio struct{}

// NewAudio creates a new Audio component
func NewAudio() *Audio {
	return &Audio{}
}

// Render renders the audio panel
func (a *Audio) Render(status *core.DeviceStatus, width, height int, focused bool) string {
	title := styles.PanelTitle("Audio", focused)

	var content string
	switch {
	case status == nil:
		content = styles.Muted.Render("Waiting for device...")
	case !status.Audio.Available:
		content = lipgloss.JoinVertical(lipgloss.Left,
			styles.Failed.Render("Audio module not found"),
			styles.Dim.Render("Check wiring and SD card"),
		)
	default:
		content = a.renderState(status.Audio.State, width-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (a *Audio) renderState(state core.State, width int) string {
	icon := styles.StatusIcon(state.Playing)
	word := styles.Stopped.Render("Stopped")
	if state.Playing {
		word = styles.Playing.Render("Playing")
	}

	track := styles.Dim.Render("no track selected")
	if state.Track > 0 {
		track = styles.Title.Render(fmt.Sprintf("Track %03d", state.Track))
	}

	barWidth := width - 12
	if barWidth < 10 {
		barWidth = 10
	}
	volume := fmt.Sprintf("🔊 %s %2d/30", styles.VolumeBar(state.Volume, barWidth), state.Volume)

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+word,
		"  "+track,
		"",
		volume,
	)
}
