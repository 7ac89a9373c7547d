// Package audio tracks what the gong asked its audio module to do.
package audio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tessro/gong/internal/core"
	gongerrors "github.com/tessro/gong/internal/errors"
)

// Listener is notified with the new state after every applied command.
type Listener func(core.State)

// Controller owns the audio player and the last commanded state. Module
// transport errors are logged and otherwise ignored: the module is trusted to
// hold its own state and there is no feedback path to callers.
type Controller struct {
	player core.Player
	logger *slog.Logger

	mu        sync.RWMutex
	state     core.State
	listeners []Listener
}

// NewController creates a controller around player.
func NewController(player core.Player, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		player: player,
		logger: logger.With("component", "audio"),
	}
}

// Subscribe registers a listener for state changes.
func (c *Controller) Subscribe(l Listener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, l)
	c.mu.Unlock()
}

// State returns the last commanded state.
func (c *Controller) State() core.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Available reports whether the audio module answered at boot.
func (c *Controller) Available() bool {
	return c.player.Available()
}

// Play starts or resumes playback.
func (c *Controller) Play(ctx context.Context) core.State {
	c.report("start", c.player.Start(ctx))
	return c.update(func(s *core.State) { s.Playing = true })
}

// Stop stops playback.
func (c *Controller) Stop(ctx context.Context) core.State {
	c.report("stop", c.player.Stop(ctx))
	return c.update(func(s *core.State) { s.Playing = false })
}

// SetVolume clamps v to the module range and sends it.
func (c *Controller) SetVolume(ctx context.Context, v int) core.State {
	v = core.ClampVolume(v)
	c.report("volume", c.player.SetVolume(ctx, v))
	return c.update(func(s *core.State) { s.Volume = v })
}

// PlayTrack plays a 1-based track. Non-positive numbers are rejected.
func (c *Controller) PlayTrack(ctx context.Context, track int) (core.State, error) {
	if track <= 0 {
		return c.State(), gongerrors.ErrInvalidTrack
	}
	c.report("track", c.player.PlayTrack(ctx, track))
	return c.update(func(s *core.State) {
		s.Track = track
		s.Playing = true
	}), nil
}

// Apply dispatches a command.
func (c *Controller) Apply(ctx context.Context, cmd core.AudioCommand) (core.State, error) {
	switch cmd.Action {
	case core.ActionPlay:
		return c.Play(ctx), nil
	case core.ActionStop:
		return c.Stop(ctx), nil
	case core.ActionVolume:
		if cmd.Value == nil {
			return c.State(), gongerrors.ErrVolumeRequired
		}
		return c.SetVolume(ctx, *cmd.Value), nil
	case core.ActionTrack:
		if cmd.Value == nil {
			return c.State(), gongerrors.ErrTrackRequired
		}
		return c.PlayTrack(ctx, *cmd.Value)
	default:
		return c.State(), fmt.Errorf("unknown audio action %q", cmd.Action)
	}
}

func (c *Controller) report(op string, err error) {
	if err != nil {
		c.logger.Warn("audio command failed", "op", op, "error", err)
	}
}

func (c *Controller) update(fn func(*core.State)) core.State {
	c.mu.Lock()
	fn(&c.state)
	state := c.state
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()

	for _, l := range listeners {
		l(state)
	}
	return state
}
