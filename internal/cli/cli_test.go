package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tessro/gong/internal/alarm"
	"github.com/tessro/gong/internal/config"
	"github.com/tessro/gong/internal/core"
	"github.com/tessro/gong/internal/discovery"
	gongerrors "github.com/tessro/gong/internal/errors"
)

func TestSupervise(t *testing.T) {
	restart := gongerrors.Restart("wifi", gongerrors.ErrWiFiUnavailable)
	fatal := errors.New("listen tcp :80: bind: permission denied")

	tests := []struct {
		name        string
		in          error
		wantNil     bool
		wantRestart bool
	}{
		{"clean", nil, true, false},
		{"cancelled", context.Canceled, true, false},
		{"restart", restart, false, true},
		{"wrapped restart", fmt.Errorf("run: %w", restart), false, true},
		{"watchdog", fmt.Errorf("%w: main silent for 12s", gongerrors.ErrWatchdogExpired), false, true},
		{"fatal", fatal, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := supervise(tt.in)
			if (got == nil) != tt.wantNil {
				t.Fatalf("supervise(%v) = %v, wantNil %v", tt.in, got, tt.wantNil)
			}
			if gongerrors.IsRestart(got) != tt.wantRestart {
				t.Errorf("IsRestart(supervise(%v)) = %v, want %v", tt.in, !tt.wantRestart, tt.wantRestart)
			}
		})
	}
}

func TestSplitCommand(t *testing.T) {
	argv, err := splitCommand(`sudo systemctl restart "gong service"`)
	if err != nil {
		t.Fatalf("splitCommand() error = %v", err)
	}
	want := []string{"sudo", "systemctl", "restart", "gong service"}
	if strings.Join(argv, "|") != strings.Join(want, "|") {
		t.Errorf("splitCommand() = %q, want %q", argv, want)
	}

	if _, err := splitCommand("   "); err == nil {
		t.Error("splitCommand(blank) error = nil, want error")
	}
}

func TestStepVolume(t *testing.T) {
	tests := []struct {
		current int
		up      bool
		want    int
	}{
		{20, true, 23},
		{29, true, 30},
		{20, false, 17},
		{1, false, 0},
	}

	for _, tt := range tests {
		if got := stepVolume(tt.current, tt.up); got != tt.want {
			t.Errorf("stepVolume(%d, %v) = %d, want %d", tt.current, tt.up, got, tt.want)
		}
	}
}

func TestNextRing(t *testing.T) {
	// Wednesday 2024-05-01 08:00
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a    alarm.Alarm
		want time.Time
		ok   bool
	}{
		{"later today", alarm.Alarm{Time: "09:30", Active: true}, time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC), true},
		{"already passed", alarm.Alarm{Time: "07:00", Active: true}, time.Date(2024, 5, 2, 7, 0, 0, 0, time.UTC), true},
		{"next monday", alarm.Alarm{Time: "07:00", Days: []int{0}, Active: true}, time.Date(2024, 5, 6, 7, 0, 0, 0, time.UTC), true},
		{"inactive", alarm.Alarm{Time: "09:30"}, time.Time{}, false},
		{"bad time", alarm.Alarm{Time: "9", Active: true}, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := nextRing(tt.a, now)
			if ok != tt.ok {
				t.Fatalf("nextRing() ok = %v, want %v", ok, tt.ok)
			}
			if !got.Equal(tt.want) {
				t.Errorf("nextRing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPagePath(t *testing.T) {
	for page, want := range map[string]string{"home": "/", "audio": "/audio", "wifi": "/wifi", "status": "/status"} {
		got, err := pagePath(page)
		if err != nil || got != want {
			t.Errorf("pagePath(%q) = %q, %v, want %q", page, got, err, want)
		}
	}
	if _, err := pagePath("admin"); err == nil {
		t.Error("pagePath(admin) error = nil, want error")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gong.log")
	logger, closer, err := newLogger(config.LogConfig{Level: "warn", File: path}, false)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "component", "test")
	_ = closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("info line written at warn level")
	}
	if !strings.Contains(string(data), "component=test") {
		t.Errorf("log = %q, want component attribute", string(data))
	}
}

func TestWriteStatus(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s := &core.DeviceStatus{
		Name:      "hall-gong",
		WiFi:      core.WiFiStatus{Connected: true, State: "connected", SSID: "Home", IP: "10.0.0.7"},
		Audio:     core.AudioStatus{Available: true, State: core.State{Playing: true, Volume: 20, Track: 3}},
		StartedAt: start,
		Time:      start.Add(3 * time.Hour),
	}

	var buf bytes.Buffer
	writeStatus(&buf, s, "http://10.0.0.7")
	out := buf.String()

	for _, want := range []string{"hall-gong", "Home", "10.0.0.7", "track 3", "20/30", "3 hours"} {
		if !strings.Contains(out, want) {
			t.Errorf("writeStatus() missing %q in:\n%s", want, out)
		}
	}

	buf.Reset()
	s.Audio.Available = false
	writeStatus(&buf, s, "")
	if !strings.Contains(buf.String(), "module not found") {
		t.Errorf("writeStatus() without audio = %q", buf.String())
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := FormatUptime(90 * time.Minute); got != "1 hour" {
		t.Errorf("FormatUptime(90m) = %q, want %q", got, "1 hour")
	}
	if got := FormatUptime(0); got != "unknown" {
		t.Errorf("FormatUptime(0) = %q, want %q", got, "unknown")
	}
	if got := FormatVolume(30); !strings.HasSuffix(got, "30/30") || strings.Contains(got, "─") {
		t.Errorf("FormatVolume(30) = %q", got)
	}
	if got := FormatVolume(0); strings.Contains(got, "━") {
		t.Errorf("FormatVolume(0) = %q", got)
	}
}

func TestInitConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gong", "config.toml")

	if err := initConfigFile(path); err != nil {
		t.Fatalf("initConfigFile() error = %v", err)
	}

	loaded, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if err := loaded.Validate(); err != nil {
		t.Errorf("written config does not validate: %v", err)
	}
	if loaded.WiFi.Attempts != config.Default().WiFi.Attempts {
		t.Errorf("WiFi.Attempts = %d, want default", loaded.WiFi.Attempts)
	}

	if err := initConfigFile(path); err == nil {
		t.Error("initConfigFile() over existing file error = nil, want error")
	}
}

func TestWriteDevices(t *testing.T) {
	devices := []*discovery.Device{
		{Name: "kitchen", IP: "10.0.0.9", UUID: "gong-kitchen", Location: "http://10.0.0.9:80/api/status"},
		{Name: "hall", IP: "10.0.0.7", UUID: "gong-hall", Location: "http://10.0.0.7:8080/api/status"},
	}
	sortDevices(devices)
	if devices[0].Name != "hall" {
		t.Errorf("first device = %q, want %q", devices[0].Name, "hall")
	}

	var buf bytes.Buffer
	writeDevices(&buf, devices)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("writeDevices() wrote %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "http://10.0.0.7:8080") {
		t.Errorf("row = %q, want base URL", lines[1])
	}

	buf.Reset()
	writeDevices(&buf, nil)
	if got := buf.String(); got != "No gongs found\n" {
		t.Errorf("writeDevices(nil) = %q", got)
	}
}
