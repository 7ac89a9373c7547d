package alarm

import (
	"context"
	"log/slog"
	"time"

	"github.com/tessro/gong/internal/core"
)

// Ringer is the part of the audio controller the scheduler drives.
type Ringer interface {
	PlayTrack(ctx context.Context, track int) (core.State, error)
	Stop(ctx context.Context) core.State
	State() core.State
}

// Kicker is a watchdog handle.
type Kicker interface {
	Kick()
}

// Scheduler rings due alarms. Each alarm fires at most once per minute and
// is stopped after its duration.
type Scheduler struct {
	store    *Store
	ringer   Ringer
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
	kick     Kicker

	fired     map[int]string
	ringing   int
	ringTrack int
	stopAt    time.Time
}

// NewScheduler creates a scheduler checking store every interval.
func NewScheduler(store *Store, ringer Ringer, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		store:    store,
		ringer:   ringer,
		logger:   logger.With("component", "alarm"),
		interval: interval,
		now:      time.Now,
		fired:    make(map[int]string),
	}
}

// SetKicker attaches a watchdog handle kicked on every tick.
func (s *Scheduler) SetKicker(k Kicker) {
	s.kick = k
}

// Ringing returns the ID of the alarm currently sounding, or 0.
func (s *Scheduler) Ringing() int {
	return s.ringing
}

// Run ticks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if s.kick != nil {
				s.kick.Kick()
			}
			s.Tick(ctx, s.now())
		}
	}
}

// Tick stops an expired ring and starts any alarm due at t. A ring that was
// stopped or replaced by another track in the meantime is left alone.
func (s *Scheduler) Tick(ctx context.Context, t time.Time) {
	if s.ringing != 0 && !t.Before(s.stopAt) {
		if st := s.ringer.State(); st.Playing && st.Track == s.ringTrack {
			s.logger.Info("alarm finished", "id", s.ringing)
			s.ringer.Stop(ctx)
		} else {
			s.logger.Info("alarm superseded", "id", s.ringing, "track", st.Track, "playing", st.Playing)
		}
		s.ringing = 0
	}

	minute := t.Format("2006-01-02T15:04")
	for _, a := range s.store.List() {
		if !a.Due(t) || s.fired[a.ID] == minute {
			continue
		}
		s.fired[a.ID] = minute

		if _, err := s.ringer.PlayTrack(ctx, a.Track); err != nil {
			s.logger.Warn("alarm failed", "id", a.ID, "error", err)
			continue
		}
		s.logger.Info("alarm ringing", "id", a.ID, "time", a.Time, "track", a.Track, "duration", a.RingTime())
		s.ringing = a.ID
		s.ringTrack = a.Track
		s.stopAt = t.Add(a.RingTime())
	}
}
