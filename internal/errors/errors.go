package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrConfigWrite         = errors.New("failed to write configuration file")
	ErrWiFiUnavailable     = errors.New("wifi unavailable")
	ErrAudioUnavailable    = errors.New("audio module not available")
	ErrDeviceUnreachable   = errors.New("device unreachable")
	ErrCredentialsRequired = errors.New("SSID and password are required")
	ErrVolumeRequired      = errors.New("volume required")
	ErrTrackRequired       = errors.New("track number required")
	ErrInvalidTrack        = errors.New("invalid track number")
	ErrInvalidAlarm        = errors.New("invalid alarm")
	ErrAlarmNotFound       = errors.New("not found")
	ErrWatchdogExpired     = errors.New("watchdog expired")
	ErrInvalidConfig       = errors.New("invalid configuration")
)

// GongError wraps an error with a user-friendly suggestion.
type GongError struct {
	Err        error
	Suggestion string
}

func (e *GongError) Error() string {
	return e.Err.Error()
}

func (e *GongError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &GongError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// RestartError is the outcome of an unrecoverable condition that the device
// can only clear by restarting from scratch. It travels up to the top-level
// supervisor, which decides how the restart happens.
type RestartError struct {
	Reason string
	Err    error
}

func (e *RestartError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("restart required: %s: %v", e.Reason, e.Err)
	}
	return "restart required: " + e.Reason
}

func (e *RestartError) Unwrap() error {
	return e.Err
}

// Restart returns a RestartError for the given reason.
func Restart(reason string, err error) error {
	return &RestartError{Reason: reason, Err: err}
}

// IsRestart reports whether err asks for a device restart.
func IsRestart(err error) bool {
	var re *RestartError
	return errors.As(err, &re)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var gongErr *GongError
	if errors.As(err, &gongErr) && gongErr.Suggestion != "" {
		return gongErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrDeviceUnreachable) || strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") || strings.Contains(errStr, "timeout") {
		return "Check that the gong is powered and on the network, or pass --device http://<address>"
	}

	if errors.Is(err, ErrAudioUnavailable) {
		return "Check the DFPlayer wiring and the [audio] port setting"
	}

	if errors.Is(err, ErrStorageUnavailable) || errors.Is(err, ErrConfigWrite) {
		return "Check that [storage] root exists and is writable by the gong service"
	}

	if errors.Is(err, ErrInvalidConfig) || strings.Contains(errStr, "config") {
		return "Run 'gong config show' to inspect the effective configuration"
	}

	if strings.Contains(errStr, "500") || strings.Contains(errStr, "server error") {
		return "The gong reported an internal error. Check its logs"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
