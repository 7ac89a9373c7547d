package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// SystemPath is the config location used by the packaged service.
const SystemPath = "/etc/gong/gong.toml"

// Load reads configuration from standard locations with environment overrides.
// Search order: /etc/gong/gong.toml, $XDG_CONFIG_HOME/gong/config.toml, ~/.config/gong/config.toml
func Load() (*Config, error) {
	cfg := seed()

	path := FindConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := seed()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// seed returns the config a file is decoded into. Fields where zero is a
// meaningful setting start at their default here instead of being filled in
// by ApplyDefaults.
func seed() *Config {
	return &Config{
		Audio: AudioConfig{InitialVolume: DefaultInitialVolume},
	}
}

// FindConfigFile returns the first existing config file path.
func FindConfigFile() string {
	for _, p := range searchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// UserPath returns the per-user config location.
func UserPath() string {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "gong.toml"
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "gong", "config.toml")
}

func searchPaths() []string {
	return []string{SystemPath, UserPath()}
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GONG_DEVICE_NAME"); v != "" {
		cfg.Device.Name = v
	}

	if v := os.Getenv("GONG_SERVER_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}

	if v := os.Getenv("GONG_STORAGE_ROOT"); v != "" {
		cfg.Storage.Root = v
	}

	// WiFi
	if v := os.Getenv("GONG_WIFI_DRIVER"); v != "" {
		cfg.WiFi.Driver = v
	}
	if v := os.Getenv("GONG_WIFI_INTERFACE"); v != "" {
		cfg.WiFi.Interface = v
	}
	if v := os.Getenv("GONG_WIFI_COMMAND"); v != "" {
		cfg.WiFi.Command = v
	}

	// Audio
	if v := os.Getenv("GONG_AUDIO_PORT"); v != "" {
		cfg.Audio.Port = v
	}
	if v := os.Getenv("GONG_AUDIO_INITIAL_VOLUME"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Audio.InitialVolume = i
		}
	}

	if v := os.Getenv("GONG_RESTART_COMMAND"); v != "" {
		cfg.Restart.Command = v
	}

	// MQTT
	if v := os.Getenv("GONG_MQTT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.MQTT.Enabled = b
		}
	}
	if v := os.Getenv("GONG_MQTT_BROKER"); v != "" {
		cfg.MQTT.Broker = v
	}
	if v := os.Getenv("GONG_MQTT_USER"); v != "" {
		cfg.MQTT.User = v
	}
	if v := os.Getenv("GONG_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Password = v
	}

	if v := os.Getenv("GONG_DISCOVERY_DISABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Discovery.Disabled = b
		}
	}

	if v := os.Getenv("GONG_DEVICE_URL"); v != "" {
		cfg.Client.DeviceURL = v
	}

	// Log
	if v := os.Getenv("GONG_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("GONG_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
