package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}
	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("storage: %w", err))
	}
	if err := c.WiFi.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("wifi: %w", err))
	}
	if err := c.Audio.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("audio: %w", err))
	}
	if err := c.Watchdog.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("watchdog: %w", err))
	}
	if err := c.MQTT.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("mqtt: %w", err))
	}
	if err := c.Discovery.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("discovery: %w", err))
	}
	if err := c.Client.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("client: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks ServerConfig for errors.
func (c *ServerConfig) Validate() error {
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", c.Listen, err)
	}
	return nil
}

// Validate checks StorageConfig for errors.
func (c *StorageConfig) Validate() error {
	if c.Root == "" {
		return errors.New("root must be set")
	}
	return nil
}

// Validate checks WiFiConfig for errors.
func (c *WiFiConfig) Validate() error {
	switch c.Driver {
	case "nmcli", "host", "sim":
		// valid
	default:
		return fmt.Errorf("invalid driver: %s (must be nmcli, host, or sim)", c.Driver)
	}
	if c.Attempts < 1 {
		return errors.New("attempts must be at least 1")
	}
	if c.AttemptDelay < 0 || c.RoundPause < 0 || c.RestartDelay < 0 {
		return errors.New("delays must be non-negative")
	}
	if c.Rounds < 0 {
		return errors.New("rounds must be non-negative")
	}
	return nil
}

// Validate checks AudioConfig for errors.
func (c *AudioConfig) Validate() error {
	if c.InitialVolume < 0 || c.InitialVolume > 30 {
		return errors.New("initial_volume must be between 0 and 30")
	}
	if c.Baud <= 0 {
		return errors.New("baud must be positive")
	}
	return nil
}

// Validate checks WatchdogConfig for errors.
func (c *WatchdogConfig) Validate() error {
	if c.Timeout < 1 {
		return errors.New("timeout must be at least 1 second")
	}
	if c.LoopInterval < 1 {
		return errors.New("loop_interval must be positive")
	}
	if c.LoopInterval >= c.Timeout*1000 {
		return errors.New("loop_interval must be shorter than timeout")
	}
	return nil
}

// Validate checks MQTTConfig for errors.
func (c *MQTTConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if _, err := url.Parse(c.Broker); err != nil {
		return fmt.Errorf("invalid broker: %w", err)
	}
	if c.TopicPrefix == "" {
		return errors.New("topic_prefix must be set")
	}
	return nil
}

// Validate checks DiscoveryConfig for errors.
func (c *DiscoveryConfig) Validate() error {
	if c.Disabled {
		return nil
	}
	if strings.ContainsAny(c.UUID, " \t\r\n:") {
		return fmt.Errorf("invalid uuid %q: must not contain spaces or colons", c.UUID)
	}
	return nil
}

// Validate checks ClientConfig for errors.
func (c *ClientConfig) Validate() error {
	if c.DeviceURL != "" {
		if _, err := url.Parse(c.DeviceURL); err != nil {
			return fmt.Errorf("invalid device_url: %w", err)
		}
	}
	if c.Timeout < 0 {
		return errors.New("timeout must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
