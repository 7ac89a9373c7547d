package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gong.toml")
	data := `
[server]
listen = "127.0.0.1:8080"

[wifi]
driver = "host"
attempts = 3

[audio]
port = "/dev/ttyUSB0"
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Listen != "127.0.0.1:8080" {
		t.Errorf("Server.Listen = %q, want %q", cfg.Server.Listen, "127.0.0.1:8080")
	}
	if cfg.WiFi.Driver != "host" {
		t.Errorf("WiFi.Driver = %q, want %q", cfg.WiFi.Driver, "host")
	}
	if cfg.WiFi.Attempts != 3 {
		t.Errorf("WiFi.Attempts = %d, want 3", cfg.WiFi.Attempts)
	}
	// Unset values come from defaults
	if cfg.WiFi.Rounds != 5 {
		t.Errorf("WiFi.Rounds = %d, want 5", cfg.WiFi.Rounds)
	}
	if cfg.WiFi.DefaultSSID != DefaultWiFiSSID {
		t.Errorf("WiFi.DefaultSSID = %q, want %q", cfg.WiFi.DefaultSSID, DefaultWiFiSSID)
	}
	if cfg.Audio.Baud != 9600 {
		t.Errorf("Audio.Baud = %d, want 9600", cfg.Audio.Baud)
	}
	if cfg.Audio.InitialVolume != DefaultInitialVolume {
		t.Errorf("Audio.InitialVolume = %d, want %d", cfg.Audio.InitialVolume, DefaultInitialVolume)
	}
}

func TestLoadFromKeepsSilentBoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gong.toml")
	if err := os.WriteFile(path, []byte("[audio]\ninitial_volume = 0\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Audio.InitialVolume != 0 {
		t.Errorf("Audio.InitialVolume = %d, want 0", cfg.Audio.InitialVolume)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GONG_SERVER_LISTEN", ":9090")
	t.Setenv("GONG_AUDIO_INITIAL_VOLUME", "12")
	t.Setenv("GONG_MQTT_ENABLED", "true")
	t.Setenv("GONG_LOG_LEVEL", "debug")

	cfg := &Config{}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	if cfg.Server.Listen != ":9090" {
		t.Errorf("Server.Listen = %q, want %q", cfg.Server.Listen, ":9090")
	}
	if cfg.Audio.InitialVolume != 12 {
		t.Errorf("Audio.InitialVolume = %d, want 12", cfg.Audio.InitialVolume)
	}
	if !cfg.MQTT.Enabled {
		t.Error("MQTT.Enabled = false, want true")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad driver", func(c *Config) { c.WiFi.Driver = "bluetooth" }, "invalid driver"},
		{"volume too high", func(c *Config) { c.Audio.InitialVolume = 31 }, "initial_volume"},
		{"bad listen", func(c *Config) { c.Server.Listen = "80" }, "invalid listen address"},
		{"loop slower than watchdog", func(c *Config) { c.Watchdog.LoopInterval = 20000 }, "loop_interval"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "invalid log level"},
		{"uuid with colon", func(c *Config) { c.Discovery.UUID = "gong:hall" }, "invalid uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
