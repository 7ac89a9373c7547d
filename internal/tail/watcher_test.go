package tail

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tessro/gong/internal/core"
)

func status(connected, available, playing bool, track, volume int) *core.DeviceStatus {
	return &core.DeviceStatus{
		Name:      "gong",
		WiFi:      core.WiFiStatus{Connected: connected, SSID: "Home", IP: "10.0.0.7"},
		Audio:     core.AudioStatus{Available: available, State: core.State{Playing: playing, Track: track, Volume: volume}},
		StartedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func types(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func equalTypes(a, b []EventType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDiffStatus(t *testing.T) {
	now := time.Now()
	base := status(true, true, false, 0, 15)

	restarted := status(true, true, false, 0, 15)
	restarted.StartedAt = base.StartedAt.Add(time.Hour)

	tests := []struct {
		name string
		prev *core.DeviceStatus
		curr *core.DeviceStatus
		want []EventType
	}{
		{"first poll", nil, base, []EventType{EventOnline}},
		{"no change", base, status(true, true, false, 0, 15), nil},
		{"play", base, status(true, true, true, 0, 15), []EventType{EventPlay}},
		{"stop", status(true, true, true, 0, 15), base, []EventType{EventStop}},
		{"track", base, status(true, true, true, 4, 15), []EventType{EventTrackChange}},
		{"volume", base, status(true, true, false, 0, 20), []EventType{EventVolumeChange}},
		{"wifi down", base, status(false, true, false, 0, 15), []EventType{EventWiFiDown}},
		{"wifi up", status(false, true, false, 0, 15), base, []EventType{EventWiFiUp}},
		{"audio lost", base, status(true, false, false, 0, 15), []EventType{EventAudioLost}},
		{"audio found", status(true, false, false, 0, 15), base, []EventType{EventAudioFound}},
		{"restart hides other changes", base, restarted, []EventType{EventRestarted}},
		{"nil current", base, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := types(diffStatus(tt.prev, tt.curr, now))
			if !equalTypes(got, tt.want) {
				t.Errorf("diffStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

type scriptedSource struct {
	mu      sync.Mutex
	results []result
}

type result struct {
	status *core.DeviceStatus
	err    error
}

func (s *scriptedSource) Status(ctx context.Context) (*core.DeviceStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return r.status, r.err
}

func TestWatcherReachability(t *testing.T) {
	down := errors.New("connection refused")
	source := &scriptedSource{results: []result{
		{status: status(true, true, false, 0, 15)},
		{err: down},
		{err: down},
		{status: status(true, true, true, 0, 15)},
	}}

	w := NewWatcher(source, 5*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	want := []EventType{EventOnline, EventUnreachable, EventReachable, EventPlay}
	var got []Event
	for len(got) < len(want) {
		select {
		case e := <-w.Events():
			got = append(got, e)
		case <-ctx.Done():
			t.Fatalf("timed out with events %v", types(got))
		}
	}
	w.Stop()
	if err := <-done; err != nil {
		t.Errorf("Start() error = %v, want nil after Stop", err)
	}

	if !equalTypes(types(got), want) {
		t.Errorf("events = %v, want %v", types(got), want)
	}
	if !errors.Is(got[1].Err, down) {
		t.Errorf("unreachable Err = %v, want %v", got[1].Err, down)
	}
}

func TestFormatterLine(t *testing.T) {
	curr := status(true, true, true, 3, 22)
	ts := time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		opts  []FormatterOption
		event Event
		want  string
	}{
		{"track", []FormatterOption{WithEmoji(false)}, Event{Type: EventTrackChange, Current: curr}, "Track 3"},
		{"volume", []FormatterOption{WithEmoji(false)}, Event{Type: EventVolumeChange, Current: curr}, "Volume: 22/30"},
		{"wifi", []FormatterOption{WithEmoji(false)}, Event{Type: EventWiFiUp, Current: curr}, "WiFi connected: Home 10.0.0.7"},
		{"timestamp", []FormatterOption{WithEmoji(false), WithTimestamp(true)}, Event{Type: EventStop, Timestamp: ts}, "07:30:00 Stopped"},
		{"emoji", nil, Event{Type: EventPlay}, "▶️ Playing"},
		{"unreachable", []FormatterOption{WithEmoji(false)}, Event{Type: EventUnreachable, Err: errors.New("timeout")}, "Device unreachable: timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewFormatter(tt.opts...).Format(tt.event)
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatterTemplate(t *testing.T) {
	f := NewFormatter(WithTemplate("{{.Type}} {{.Name}} vol={{.Volume}} track={{.Track}}"))
	got := f.Format(Event{Type: EventVolumeChange, Current: status(true, true, true, 2, 9)})
	if got != "volume_change gong vol=9 track=2" {
		t.Errorf("Format() = %q", got)
	}

	bad := NewFormatter(WithTemplate("{{.Nope"), WithEmoji(false))
	if got := bad.Format(Event{Type: EventStop}); !strings.Contains(got, "Stopped") {
		t.Errorf("Format() with invalid template = %q, want line format", got)
	}
}
