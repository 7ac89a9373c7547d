package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template. An invalid template is
// ignored and the default line format is used.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

func (f *Formatter) formatLine(e Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}
	parts = append(parts, f.eventDescription(e))

	return strings.Join(parts, " ")
}

func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      eventTypeName(e.Type),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
	}

	if e.Current != nil {
		data.Name = e.Current.Name
		data.SSID = e.Current.WiFi.SSID
		data.IP = e.Current.WiFi.IP
		data.Playing = e.Current.Audio.Playing
		data.Track = e.Current.Audio.Track
		data.Volume = e.Current.Audio.Volume
	}
	if e.Err != nil {
		data.Error = e.Err.Error()
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	Name      string
	SSID      string
	IP        string
	Playing   bool
	Track     int
	Volume    int
	Error     string
}

func (f *Formatter) eventDescription(e Event) string {
	switch e.Type {
	case EventOnline:
		if e.Current != nil {
			return fmt.Sprintf("Watching %s (%s)", e.Current.Name, playbackWord(e.Current.Audio.Playing))
		}
		return "Watching"

	case EventUnreachable:
		if e.Err != nil {
			return fmt.Sprintf("Device unreachable: %v", e.Err)
		}
		return "Device unreachable"

	case EventReachable:
		return "Device reachable again"

	case EventRestarted:
		return "Device restarted"

	case EventWiFiUp:
		if e.Current != nil && e.Current.WiFi.SSID != "" {
			return fmt.Sprintf("WiFi connected: %s %s", e.Current.WiFi.SSID, e.Current.WiFi.IP)
		}
		return "WiFi connected"

	case EventWiFiDown:
		return "WiFi disconnected"

	case EventAudioFound:
		return "Audio module found"

	case EventAudioLost:
		return "Audio module lost"

	case EventPlay:
		return "Playing"

	case EventStop:
		return "Stopped"

	case EventTrackChange:
		if e.Current != nil {
			return fmt.Sprintf("Track %d", e.Current.Audio.Track)
		}
		return "Track changed"

	case EventVolumeChange:
		if e.Current != nil {
			return fmt.Sprintf("Volume: %d/30", e.Current.Audio.Volume)
		}
		return "Volume changed"

	default:
		return "Unknown event"
	}
}

func playbackWord(playing bool) string {
	if playing {
		return "playing"
	}
	return "stopped"
}

func eventEmoji(t EventType) string {
	switch t {
	case EventOnline:
		return "🔔"
	case EventUnreachable:
		return "⚠️"
	case EventReachable:
		return "✅"
	case EventRestarted:
		return "🔄"
	case EventWiFiUp:
		return "📶"
	case EventWiFiDown:
		return "📵"
	case EventAudioFound:
		return "🔈"
	case EventAudioLost:
		return "🔇"
	case EventPlay:
		return "▶️"
	case EventStop:
		return "⏹️"
	case EventTrackChange:
		return "🎵"
	case EventVolumeChange:
		return "🔊"
	default:
		return "❓"
	}
}

func eventTypeName(t EventType) string {
	switch t {
	case EventOnline:
		return "online"
	case EventUnreachable:
		return "unreachable"
	case EventReachable:
		return "reachable"
	case EventRestarted:
		return "restarted"
	case EventWiFiUp:
		return "wifi_up"
	case EventWiFiDown:
		return "wifi_down"
	case EventAudioFound:
		return "audio_found"
	case EventAudioLost:
		return "audio_lost"
	case EventPlay:
		return "play"
	case EventStop:
		return "stop"
	case EventTrackChange:
		return "track_change"
	case EventVolumeChange:
		return "volume_change"
	default:
		return "unknown"
	}
}
