package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/gong/internal/alarm"
	"github.com/tessro/gong/internal/tui/styles"
)

// Alarms displays the ring schedule
type Alarms struct {
	selected int
}

// NewAlarms creates a new Alarms component
func NewAlarms() *Alarms {
	return &Alarms{}
}

// SelectNext selects the next alarm
func (a *Alarms) SelectNext() {
	a.selected++
}

// SelectPrev selects the previous alarm
func (a *Alarms) SelectPrev() {
	if a.selected > 0 {
		a.selected--
	}
}

// Selected returns the selected alarm index
func (a *Alarms) Selected() int {
	return a.selected
}

// Clamp keeps the selection inside a list of n alarms.
func (a *Alarms) Clamp(n int) {
	if a.selected >= n {
		a.selected = n - 1
	}
	if a.selected < 0 {
		a.selected = 0
	}
}

// Render renders the alarms panel
func (a *Alarms) Render(alarms []alarm.Alarm, width, height int, focused bool) string {
	title := styles.PanelTitle("Alarms", focused)

	var content string
	if len(alarms) == 0 {
		content = styles.Muted.Render("No alarms scheduled")
	} else {
		content = a.renderAlarms(alarms, height-4, focused)
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

func (a *Alarms) renderAlarms(alarms []alarm.Alarm, maxLines int, focused bool) string {
	a.Clamp(len(alarms))

	lines := make([]string, 0, len(alarms))
	for i, al := range alarms {
		selector := "  "
		if focused && i == a.selected {
			selector = "▸ "
		}

		when := al.Time
		if focused && i == a.selected {
			when = styles.Highlight.Render(when)
		}

		line := fmt.Sprintf("%s%s %s %s %s",
			selector,
			styles.LinkIcon(al.Active),
			when,
			styles.Subtitle.Render(al.DaysString()),
			styles.Dim.Render(fmt.Sprintf("#%d %ds", al.Track, al.Duration)))
		lines = append(lines, line)

		if len(lines) >= maxLines {
			break
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
