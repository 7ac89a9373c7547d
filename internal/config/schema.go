package config

// Config is the root configuration structure.
type Config struct {
	Device    DeviceConfig    `toml:"device" json:"device"`
	Server    ServerConfig    `toml:"server" json:"server"`
	Storage   StorageConfig   `toml:"storage" json:"storage"`
	WiFi      WiFiConfig      `toml:"wifi" json:"wifi"`
	Audio     AudioConfig     `toml:"audio" json:"audio"`
	Watchdog  WatchdogConfig  `toml:"watchdog" json:"watchdog"`
	Restart   RestartConfig   `toml:"restart" json:"restart"`
	MQTT      MQTTConfig      `toml:"mqtt" json:"mqtt"`
	Discovery DiscoveryConfig `toml:"discovery" json:"discovery"`
	Client    ClientConfig    `toml:"client" json:"client"`
	Log       LogConfig       `toml:"log" json:"log"`
}

// DeviceConfig identifies this gong.
type DeviceConfig struct {
	Name string `toml:"name" json:"name"`
}

// ServerConfig holds HTTP control surface settings.
type ServerConfig struct {
	Listen string `toml:"listen" json:"listen"`
}

// StorageConfig points at the directory standing in for the device flash.
type StorageConfig struct {
	Root            string `toml:"root" json:"root"`
	CredentialsFile string `toml:"credentials_file" json:"credentials_file"`
	AlarmsFile      string `toml:"alarms_file" json:"alarms_file"`
}

// WiFiConfig holds radio selection, compiled-in credentials and the join
// retry policy. Durations are in milliseconds.
type WiFiConfig struct {
	Driver          string `toml:"driver" json:"driver"`
	Interface       string `toml:"interface" json:"interface"`
	Command         string `toml:"command" json:"command"`
	DefaultSSID     string `toml:"default_ssid" json:"default_ssid"`
	DefaultPassword string `toml:"default_password" json:"-"`
	Attempts        int    `toml:"attempts" json:"attempts"`
	AttemptDelay    int    `toml:"attempt_delay" json:"attempt_delay"`
	Rounds          int    `toml:"rounds" json:"rounds"`
	RoundPause      int    `toml:"round_pause" json:"round_pause"`
	RestartDelay    int    `toml:"restart_delay" json:"restart_delay"`
}

// AudioConfig holds the DFPlayer serial link settings.
type AudioConfig struct {
	Port          string `toml:"port" json:"port"`
	Baud          int    `toml:"baud" json:"baud"`
	InitialVolume int    `toml:"initial_volume" json:"initial_volume"`
	AckTimeout    int    `toml:"ack_timeout" json:"ack_timeout"`
}

// WatchdogConfig holds the liveness timer settings.
type WatchdogConfig struct {
	Timeout      int `toml:"timeout" json:"timeout"`
	LoopInterval int `toml:"loop_interval" json:"loop_interval"`
}

// RestartConfig controls how a restart outcome is carried out.
type RestartConfig struct {
	Command string `toml:"command" json:"command"`
	Delay   int    `toml:"delay" json:"delay"`
}

// MQTTConfig holds the optional broker bridge settings.
type MQTTConfig struct {
	Enabled     bool   `toml:"enabled" json:"enabled"`
	Broker      string `toml:"broker" json:"broker"`
	User        string `toml:"user" json:"user"`
	Password    string `toml:"password" json:"-"`
	ClientID    string `toml:"client_id" json:"client_id"`
	TopicPrefix string `toml:"topic_prefix" json:"topic_prefix"`
}

// DiscoveryConfig controls the SSDP responder. UUID defaults to one
// derived from the device name.
type DiscoveryConfig struct {
	Disabled bool   `toml:"disabled" json:"disabled"`
	UUID     string `toml:"uuid" json:"uuid"`
}

// ClientConfig holds settings for the CLI talking to a remote gong.
type ClientConfig struct {
	DeviceURL string `toml:"device_url" json:"device_url"`
	Timeout   int    `toml:"timeout" json:"timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file"`
}
