package tail

import (
	"context"
	"time"

	"github.com/tessro/gong/internal/core"
)

// EventType represents the type of device event.
type EventType int

const (
	EventOnline EventType = iota
	EventUnreachable
	EventReachable
	EventRestarted
	EventWiFiUp
	EventWiFiDown
	EventAudioFound
	EventAudioLost
	EventPlay
	EventStop
	EventTrackChange
	EventVolumeChange
)

// Event represents a device state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.DeviceStatus
	Current   *core.DeviceStatus
	Err       error
}

// StatusSource reports the current device status.
type StatusSource interface {
	Status(ctx context.Context) (*core.DeviceStatus, error)
}

// Watcher polls a gong for status changes and emits events.
type Watcher struct {
	source   StatusSource
	interval time.Duration
	events   chan Event
	done     chan struct{}
	now      func() time.Time
}

// NewWatcher creates a new status watcher.
func NewWatcher(source StatusSource, interval time.Duration) *Watcher {
	if interval == 0 {
		interval = time.Second
	}
	return &Watcher{
		source:   source,
		interval: interval,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
		now:      time.Now,
	}
}

// Events returns the channel of device events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins polling for status changes. The first successful poll emits
// EventOnline; a failed poll after a successful one emits EventUnreachable
// once, and the next success emits EventReachable.
func (w *Watcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	var prev *core.DeviceStatus
	unreachable := false

	poll := func() {
		curr, err := w.source.Status(ctx)
		if err != nil {
			if !unreachable && ctx.Err() == nil {
				unreachable = true
				w.emit(Event{Type: EventUnreachable, Timestamp: w.now(), Previous: prev, Err: err})
			}
			return
		}
		if unreachable && prev != nil {
			w.emit(Event{Type: EventReachable, Timestamp: w.now(), Previous: prev, Current: curr})
		}
		unreachable = false
		for _, e := range diffStatus(prev, curr, w.now()) {
			w.emit(e)
		}
		prev = curr
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case <-ticker.C:
			poll()
		}
	}
}

func (w *Watcher) emit(e Event) {
	select {
	case w.events <- e:
	default:
		// Drop event if channel is full
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
}

// diffStatus compares two reports and returns detected events.
func diffStatus(prev, curr *core.DeviceStatus, now time.Time) []Event {
	if curr == nil {
		return nil
	}

	if prev == nil {
		return []Event{{Type: EventOnline, Timestamp: now, Current: curr}}
	}

	var events []Event
	add := func(t EventType) {
		events = append(events, Event{Type: t, Timestamp: now, Previous: prev, Current: curr})
	}

	// A new boot time means every other field started over.
	if !prev.StartedAt.IsZero() && !curr.StartedAt.Equal(prev.StartedAt) {
		add(EventRestarted)
		return events
	}

	if prev.WiFi.Connected != curr.WiFi.Connected {
		if curr.WiFi.Connected {
			add(EventWiFiUp)
		} else {
			add(EventWiFiDown)
		}
	}

	if prev.Audio.Available != curr.Audio.Available {
		if curr.Audio.Available {
			add(EventAudioFound)
		} else {
			add(EventAudioLost)
		}
	}

	if prev.Audio.Track != curr.Audio.Track && curr.Audio.Track != 0 {
		add(EventTrackChange)
	} else if prev.Audio.Playing != curr.Audio.Playing {
		if curr.Audio.Playing {
			add(EventPlay)
		} else {
			add(EventStop)
		}
	}

	if prev.Audio.Volume != curr.Audio.Volume {
		add(EventVolumeChange)
	}

	return events
}
