package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRestartError(t *testing.T) {
	cause := errors.New("no network")
	err := fmt.Errorf("boot: %w", Restart("wifi join failed", cause))

	if !IsRestart(err) {
		t.Fatal("IsRestart() = false, want true")
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause lost")
	}

	var re *RestartError
	if !errors.As(err, &re) {
		t.Fatal("errors.As failed")
	}
	if re.Reason != "wifi join failed" {
		t.Errorf("Reason = %q, want %q", re.Reason, "wifi join failed")
	}
	if IsRestart(cause) {
		t.Error("IsRestart(plain error) = true, want false")
	}
}

func TestGetSuggestion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"explicit", WithSuggestion(errors.New("x"), "do y"), "do y"},
		{"unreachable", fmt.Errorf("get status: %w", ErrDeviceUnreachable), "Check that the gong is powered"},
		{"audio", ErrAudioUnavailable, "DFPlayer"},
		{"storage", ErrConfigWrite, "[storage] root"},
		{"unknown", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetSuggestion(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("GetSuggestion() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("GetSuggestion() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}
	got := Format(WithSuggestion(errors.New("bad"), "fix it"))
	want := "Error: bad\n\nSuggestion: fix it"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}
