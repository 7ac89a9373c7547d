package config

import "time"

// Compiled-in WiFi credentials used until the device is configured.
const (
	DefaultWiFiSSID     = "ASUS"
	DefaultWiFiPassword = "password"
)

// DefaultInitialVolume is the volume set when the audio module comes up.
const DefaultInitialVolume = 20

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			Name: "gong",
		},
		Server: ServerConfig{
			Listen: ":80",
		},
		Storage: StorageConfig{
			Root:            "/var/lib/gong",
			CredentialsFile: "config.txt",
			AlarmsFile:      "alarms.json",
		},
		WiFi: WiFiConfig{
			Driver:          "nmcli",
			Interface:       "wlan0",
			DefaultSSID:     DefaultWiFiSSID,
			DefaultPassword: DefaultWiFiPassword,
			Attempts:        10,
			AttemptDelay:    500,
			Rounds:          5,
			RoundPause:      3000,
			RestartDelay:    5000,
		},
		Audio: AudioConfig{
			Port:          "/dev/ttyAMA0",
			Baud:          9600,
			InitialVolume: DefaultInitialVolume,
			AckTimeout:    1000,
		},
		Watchdog: WatchdogConfig{
			Timeout:      10,
			LoopInterval: 1000,
		},
		Restart: RestartConfig{
			Delay: 1000,
		},
		MQTT: MQTTConfig{
			Broker:      "tcp://localhost:1883",
			ClientID:    "gong",
			TopicPrefix: "gong",
		},
		Client: ClientConfig{
			DeviceURL: "http://gong.local",
			Timeout:   5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults. The audio
// initial volume is exempt: 0 is a valid silent boot.
func (c *Config) ApplyDefaults() {
	d := Default()

	if c.Device.Name == "" {
		c.Device.Name = d.Device.Name
	}

	if c.Server.Listen == "" {
		c.Server.Listen = d.Server.Listen
	}

	// Storage
	if c.Storage.Root == "" {
		c.Storage.Root = d.Storage.Root
	}
	if c.Storage.CredentialsFile == "" {
		c.Storage.CredentialsFile = d.Storage.CredentialsFile
	}
	if c.Storage.AlarmsFile == "" {
		c.Storage.AlarmsFile = d.Storage.AlarmsFile
	}

	// WiFi
	if c.WiFi.Driver == "" {
		c.WiFi.Driver = d.WiFi.Driver
	}
	if c.WiFi.Interface == "" {
		c.WiFi.Interface = d.WiFi.Interface
	}
	if c.WiFi.DefaultSSID == "" {
		c.WiFi.DefaultSSID = d.WiFi.DefaultSSID
	}
	if c.WiFi.DefaultPassword == "" {
		c.WiFi.DefaultPassword = d.WiFi.DefaultPassword
	}
	if c.WiFi.Attempts == 0 {
		c.WiFi.Attempts = d.WiFi.Attempts
	}
	if c.WiFi.AttemptDelay == 0 {
		c.WiFi.AttemptDelay = d.WiFi.AttemptDelay
	}
	if c.WiFi.Rounds == 0 {
		c.WiFi.Rounds = d.WiFi.Rounds
	}
	if c.WiFi.RoundPause == 0 {
		c.WiFi.RoundPause = d.WiFi.RoundPause
	}
	if c.WiFi.RestartDelay == 0 {
		c.WiFi.RestartDelay = d.WiFi.RestartDelay
	}

	// Audio
	if c.Audio.Port == "" {
		c.Audio.Port = d.Audio.Port
	}
	if c.Audio.Baud == 0 {
		c.Audio.Baud = d.Audio.Baud
	}
	if c.Audio.AckTimeout == 0 {
		c.Audio.AckTimeout = d.Audio.AckTimeout
	}

	// Watchdog
	if c.Watchdog.Timeout == 0 {
		c.Watchdog.Timeout = d.Watchdog.Timeout
	}
	if c.Watchdog.LoopInterval == 0 {
		c.Watchdog.LoopInterval = d.Watchdog.LoopInterval
	}

	if c.Restart.Delay == 0 {
		c.Restart.Delay = d.Restart.Delay
	}

	// MQTT
	if c.MQTT.Broker == "" {
		c.MQTT.Broker = d.MQTT.Broker
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = d.MQTT.ClientID
	}
	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = d.MQTT.TopicPrefix
	}

	// Client
	if c.Client.DeviceURL == "" {
		c.Client.DeviceURL = d.Client.DeviceURL
	}
	if c.Client.Timeout == 0 {
		c.Client.Timeout = d.Client.Timeout
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// Millis converts a millisecond setting to a time.Duration.
func Millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
