package core

import "time"

// State is the last audio state the gong commanded. The module keeps its own
// state; this is what the controller believes it set.
type State struct {
	Playing bool `json:"playing"`
	Volume  int  `json:"volume"`
	Track   int  `json:"track"`
}

// WiFiStatus describes the network link.
type WiFiStatus struct {
	Connected bool   `json:"connected"`
	State     string `json:"state"`
	IP        string `json:"ip,omitempty"`
	SSID      string `json:"ssid,omitempty"`
}

// AudioStatus describes the audio module.
type AudioStatus struct {
	Available bool `json:"available"`
	State
}

// DeviceStatus is the full status report served at /api/status.
type DeviceStatus struct {
	Name      string      `json:"name"`
	WiFi      WiFiStatus  `json:"wifi"`
	Audio     AudioStatus `json:"audio"`
	StartedAt time.Time   `json:"started_at"`
	Time      time.Time   `json:"time"`
}

// Uptime returns how long the device has been running at the time of the
// report.
func (s *DeviceStatus) Uptime() time.Duration {
	if s == nil || s.StartedAt.IsZero() {
		return 0
	}
	return s.Time.Sub(s.StartedAt)
}
