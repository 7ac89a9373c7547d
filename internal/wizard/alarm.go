package wizard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/gong/internal/alarm"
)

// AlarmModel is the bubbletea model for the alarm picker.
type AlarmModel struct {
	title    string
	alarms   []alarm.Alarm
	cursor   int
	selected *alarm.Alarm
	width    int
	height   int
}

// Styles for alarm picker
var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("178"))

	pickerItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	pickerSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Background(lipgloss.Color("237"))

	pickerActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82"))

	pickerInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))

	pickerDetailStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))
)

// NewAlarmModel creates a new alarm picker model.
func NewAlarmModel(title string, alarms []alarm.Alarm) AlarmModel {
	return AlarmModel{
		title:  title,
		alarms: alarms,
		width:  80,
		height: 20,
	}
}

// Init initializes the model.
func (m AlarmModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m AlarmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit

		case "enter", " ":
			if len(m.alarms) > 0 && m.cursor < len(m.alarms) {
				m.selected = &m.alarms[m.cursor]
				return m, tea.Quit
			}

		case "up", "k", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j", "ctrl+n":
			if m.cursor < len(m.alarms)-1 {
				m.cursor++
			}

		case "home", "g":
			m.cursor = 0

		case "end", "G":
			if len(m.alarms) > 0 {
				m.cursor = len(m.alarms) - 1
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the model.
func (m AlarmModel) View() string {
	var b strings.Builder

	b.WriteString(pickerTitleStyle.Render("🔔 " + m.title))
	b.WriteString("\n\n")

	if len(m.alarms) == 0 {
		b.WriteString(pickerInactiveStyle.Render("No alarms scheduled"))
		b.WriteString("\n")
	} else {
		for i, a := range m.alarms {
			var line strings.Builder

			if a.Active {
				line.WriteString(pickerActiveStyle.Render("● "))
			} else {
				line.WriteString(pickerInactiveStyle.Render("○ "))
			}

			line.WriteString(a.Time)
			line.WriteString(" " + pickerDetailStyle.Render(fmt.Sprintf("(%s, track %d, %ds)", a.DaysString(), a.Track, a.Duration)))

			if i == m.cursor {
				b.WriteString(pickerSelectedStyle.Render("▸ " + line.String()))
			} else {
				b.WriteString(pickerItemStyle.Render("  " + line.String()))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(pickerDetailStyle.Render("↑/↓ navigate • enter select • esc quit"))
	b.WriteString("\n")
	b.WriteString(pickerDetailStyle.Render("● active  ○ disabled"))

	return b.String()
}

// Selected returns the selected alarm, or nil if none.
func (m AlarmModel) Selected() *alarm.Alarm {
	return m.selected
}

// RunAlarmPicker runs the alarm picker and returns the selected alarm.
func RunAlarmPicker(title string, alarms []alarm.Alarm) (*alarm.Alarm, error) {
	model := NewAlarmModel(title, alarms)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	return finalModel.(AlarmModel).Selected(), nil
}
