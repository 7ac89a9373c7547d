package wizard

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/tessro/gong/internal/alarm"
	"github.com/tessro/gong/internal/credentials"
	"golang.org/x/term"
)

// maxSSIDLen is the longest SSID 802.11 allows, in bytes.
const maxSSIDLen = 32

// Interactive provides interactive fallback functionality.
type Interactive struct {
	enabled bool
}

// NewInteractive creates a new interactive handler.
func NewInteractive() *Interactive {
	return &Interactive{
		enabled: true,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// PromptWiFi asks for new network credentials, prefilling the SSID.
// Returns nil if not interactive.
func (i *Interactive) PromptWiFi(ssid string) (*credentials.WifiCredentials, error) {
	if !i.CanInteract() {
		return nil, nil
	}

	creds := credentials.WifiCredentials{SSID: ssid}
	confirm := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Network name (SSID)").
				Value(&creds.SSID).
				Validate(ValidateSSID),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&creds.Password).
				Validate(ValidatePassword),
			huh.NewConfirm().
				Title("Save and restart the gong?").
				Description("The device reboots and joins the new network").
				Value(&confirm),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}
	if !confirm {
		return nil, nil
	}
	creds.SSID = strings.TrimSpace(creds.SSID)
	return &creds, nil
}

// PromptAlarm launches the alarm picker if interactive mode is available.
// Returns the selected alarm, or nil if cancelled or not interactive.
func (i *Interactive) PromptAlarm(title string, alarms []alarm.Alarm) (*alarm.Alarm, error) {
	if !i.CanInteract() || len(alarms) == 0 {
		return nil, nil
	}
	return RunAlarmPicker(title, alarms)
}

// ValidateSSID rejects blank and over-long network names.
func ValidateSSID(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("SSID is required")
	}
	if len(s) > maxSSIDLen {
		return errors.New("SSID is longer than 32 bytes")
	}
	return nil
}

// ValidatePassword rejects an empty password. The device refuses to save
// one, so it is caught here first.
func ValidatePassword(s string) error {
	if s == "" {
		return errors.New("password is required")
	}
	return nil
}
