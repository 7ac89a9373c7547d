package core

import "context"

// Player defines the interface for the gong's audio module.
type Player interface {
	// Playback control
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	PlayTrack(ctx context.Context, track int) error

	// Volume control, 0-30
	SetVolume(ctx context.Context, volume int) error

	// Available reports whether the module answered its presence check.
	Available() bool
}
