// Package tui is the interactive terminal dashboard for a gong.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/gong/internal/alarm"
	"github.com/tessro/gong/internal/client"
	"github.com/tessro/gong/internal/core"
	"github.com/tessro/gong/internal/tui/components"
	"github.com/tessro/gong/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelAudio Panel = iota
	PanelDevice
	PanelAlarms
	panelCount
)

const (
	requestTimeout = 5 * time.Second
	volumeStep     = 2
)

// Device is the remote gong the dashboard drives. *client.Client
// implements it.
type Device interface {
	BaseURL() string
	Status(ctx context.Context) (*core.DeviceStatus, error)
	Play(ctx context.Context) (*client.AudioResponse, error)
	Stop(ctx context.Context) (*client.AudioResponse, error)
	Volume(ctx context.Context, v int) (*client.AudioResponse, error)
	Track(ctx context.Context, n int) (*client.AudioResponse, error)
	Alarms(ctx context.Context) ([]alarm.Alarm, error)
	UpdateAlarm(ctx context.Context, id int, p alarm.Patch) (*alarm.Alarm, error)
	DeleteAlarm(ctx context.Context, id int) error
}

// Model is the main TUI model
type Model struct {
	device       Device
	refreshRate  time.Duration
	width        int
	height       int
	focusedPanel Panel

	// State
	status    *core.DeviceStatus
	reachable bool
	alarms    []alarm.Alarm

	// Components
	audioView   *components.Audio
	networkView *components.Network
	alarmsView  *components.Alarms

	// Overlays
	showHelp   bool
	showTrack  bool
	trackInput textinput.Model

	// Feedback
	lastError   error
	errorExpiry time.Time
	notice      string

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(device Device, refreshRate time.Duration) Model {
	if refreshRate <= 0 {
		refreshRate = time.Second
	}

	ti := textinput.New()
	ti.Placeholder = "track number"
	ti.CharLimit = 4
	ti.Width = 12

	return Model{
		device:       device,
		refreshRate:  refreshRate,
		focusedPanel: PanelAudio,
		audioView:    components.NewAudio(),
		networkView:  components.NewNetwork(),
		alarmsView:   components.NewAlarms(),
		trackInput:   ti,
	}
}

// Messages
type tickMsg time.Time
type statusMsg *core.DeviceStatus
type alarmsMsg []alarm.Alarm
type errMsg error
type unreachableMsg struct{ err error }
type noticeMsg string
type refreshAfterActionMsg struct{}

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchStatus() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		status, err := m.device.Status(ctx)
		if err != nil {
			return unreachableMsg{err: err}
		}
		return statusMsg(status)
	}
}

func (m Model) fetchAlarms() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		alarms, err := m.device.Alarms(ctx)
		if err != nil {
			return errMsg(err)
		}
		return alarmsMsg(alarms)
	}
}

// act runs one device call and refreshes the view afterwards.
func (m Model) act(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			return errMsg(err)
		}
		return refreshAfterActionMsg{}
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tick(),
		m.fetchStatus(),
		m.fetchAlarms(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.tick(), m.fetchStatus())

	case statusMsg:
		m.clearExpiredError()
		m.status = msg
		m.reachable = true
		return m, nil

	case unreachableMsg:
		m.reachable = false
		m.setError(msg.err)
		return m, nil

	case alarmsMsg:
		m.clearExpiredError()
		m.alarms = msg
		m.alarmsView.Clamp(len(m.alarms))
		return m, nil

	case errMsg:
		m.setError(msg)
		return m, nil

	case noticeMsg:
		m.notice = string(msg)
		return m, nil

	case refreshAfterActionMsg:
		return m, tea.Batch(m.fetchStatus(), m.fetchAlarms())
	}

	if m.showTrack {
		var inputCmd tea.Cmd
		m.trackInput, inputCmd = m.trackInput.Update(msg)
		return m, inputCmd
	}

	return m, nil
}

func (m *Model) setError(err error) {
	m.lastError = err
	m.errorExpiry = time.Now().Add(5 * time.Second)
}

func (m *Model) clearExpiredError() {
	if time.Now().After(m.errorExpiry) {
		m.lastError = nil
	}
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc":
			m.showHelp = false
		}
		return m, nil
	}

	if m.showTrack {
		return m.handleTrackKeyPress(msg)
	}

	m.notice = ""

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil

	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		return m, nil

	case " ":
		return m, m.togglePlay()
	case "s":
		return m, m.act(func(ctx context.Context) error {
			_, err := m.device.Stop(ctx)
			return err
		})
	case "+", "=":
		return m, m.stepVolume(volumeStep)
	case "-":
		return m, m.stepVolume(-volumeStep)
	case "t":
		m.showTrack = true
		m.trackInput.SetValue("")
		m.trackInput.Focus()
		return m, textinput.Blink
	case "y":
		return m, m.copyURL()
	case "r":
		return m, tea.Batch(m.fetchStatus(), m.fetchAlarms())
	}

	if len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9' {
		return m, m.playTrack(int(msg.Runes[0] - '0'))
	}

	if m.focusedPanel == PanelAlarms {
		switch msg.String() {
		case "j", "down":
			m.alarmsView.SelectNext()
			m.alarmsView.Clamp(len(m.alarms))
		case "k", "up":
			m.alarmsView.SelectPrev()
		case "enter", "a":
			return m, m.toggleAlarm()
		case "d", "delete":
			return m, m.deleteAlarm()
		}
	}

	return m, nil
}

func (m Model) handleTrackKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showTrack = false
		m.trackInput.Blur()
		return m, nil

	case "enter":
		m.showTrack = false
		m.trackInput.Blur()
		n, err := strconv.Atoi(strings.TrimSpace(m.trackInput.Value()))
		if err != nil || n < 1 {
			m.setError(fmt.Errorf("invalid track number %q", m.trackInput.Value()))
			return m, nil
		}
		return m, m.playTrack(n)
	}

	var inputCmd tea.Cmd
	m.trackInput, inputCmd = m.trackInput.Update(msg)
	return m, inputCmd
}

func (m Model) togglePlay() tea.Cmd {
	playing := m.status != nil && m.status.Audio.Playing
	return m.act(func(ctx context.Context) error {
		var err error
		if playing {
			_, err = m.device.Stop(ctx)
		} else {
			_, err = m.device.Play(ctx)
		}
		return err
	})
}

func (m Model) stepVolume(delta int) tea.Cmd {
	if m.status == nil {
		return nil
	}
	v := core.ClampVolume(m.status.Audio.Volume + delta)
	return m.act(func(ctx context.Context) error {
		_, err := m.device.Volume(ctx, v)
		return err
	})
}

func (m Model) playTrack(n int) tea.Cmd {
	return m.act(func(ctx context.Context) error {
		_, err := m.device.Track(ctx, n)
		return err
	})
}

func (m Model) selectedAlarm() (alarm.Alarm, bool) {
	i := m.alarmsView.Selected()
	if i < 0 || i >= len(m.alarms) {
		return alarm.Alarm{}, false
	}
	return m.alarms[i], true
}

func (m Model) toggleAlarm() tea.Cmd {
	a, ok := m.selectedAlarm()
	if !ok {
		return nil
	}
	active := !a.Active
	return m.act(func(ctx context.Context) error {
		_, err := m.device.UpdateAlarm(ctx, a.ID, alarm.Patch{Active: &active})
		return err
	})
}

func (m Model) deleteAlarm() tea.Cmd {
	a, ok := m.selectedAlarm()
	if !ok {
		return nil
	}
	return m.act(func(ctx context.Context) error {
		return m.device.DeleteAlarm(ctx, a.ID)
	})
}

func (m Model) copyURL() tea.Cmd {
	url := m.device.BaseURL()
	return func() tea.Msg {
		if err := clipboard.WriteAll(url); err != nil {
			return errMsg(fmt.Errorf("copy to clipboard: %w", err))
		}
		return noticeMsg("Copied " + url)
	}
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.showTrack {
		return m.renderTrackPrompt()
	}

	// Left: Audio (top), Alarms (bottom). Right: Device.
	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 2
	topHeight := m.height * 45 / 100
	bottomHeight := m.height - topHeight - 3
	if bottomHeight < 5 {
		bottomHeight = 5
	}

	audioView := m.audioView.Render(m.status, leftWidth-2, topHeight-2, m.focusedPanel == PanelAudio)
	alarmsView := m.alarmsView.Render(m.alarms, leftWidth-2, bottomHeight, m.focusedPanel == PanelAlarms)
	deviceView := m.networkView.Render(m.status, m.device.BaseURL(), m.reachable, rightWidth-2, topHeight+bottomHeight, m.focusedPanel == PanelDevice)

	leftCol := lipgloss.JoinVertical(lipgloss.Left, audioView, alarmsView)
	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, deviceView)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  space:play/stop  1-9,t:track  +/-:volume  tab:switch panel")

	switch {
	case m.lastError != nil:
		status = styles.Failed.Render("Error: " + m.lastError.Error())
	case m.notice != "":
		status = styles.Playing.Render(m.notice)
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "Gong - Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  Tab          Next panel
  Shift+Tab    Previous panel
  r            Refresh
  y            Copy device URL

  Audio
  ─────
  Space        Play/Stop
  s            Stop
  1-9          Play track
  t            Play track by number
  +/=          Volume up
  -            Volume down

  Alarms Panel
  ────────────
  j/↓          Select next
  k/↑          Select previous
  Enter, a     Enable/disable
  d            Delete

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

func (m Model) renderTrackPrompt() string {
	var b strings.Builder

	b.WriteString(styles.Highlight.Render("Play track"))
	b.WriteString("\n\n")
	b.WriteString(m.trackInput.View())
	b.WriteString("\n\n")
	b.WriteString(styles.Dim.Render("Enter:play  Esc:cancel"))

	content := lipgloss.NewStyle().
		Width(30).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.FocusedBorder.Render(content))
}

// Run starts the TUI application
func Run(device Device, refreshRate time.Duration) error {
	p := tea.NewProgram(NewModel(device, refreshRate), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
