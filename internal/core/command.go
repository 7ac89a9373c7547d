package core

import (
	"fmt"
	"strings"
)

// Volume range of the audio module.
const (
	MinVolume = 0
	MaxVolume = 30
)

// Action is an audio command verb.
type Action string

const (
	ActionPlay   Action = "play"
	ActionStop   Action = "stop"
	ActionVolume Action = "volume"
	ActionTrack  Action = "track"
)

// AudioCommand is a transient request for the audio module. Value is only
// meaningful for ActionVolume and ActionTrack.
type AudioCommand struct {
	Action Action `json:"action"`
	Value  *int   `json:"value,omitempty"`
}

// ParseAction maps a user-supplied verb to an Action. "start", "resume",
// "setVolume" and "playTrack" are accepted as aliases.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "play", "start", "resume":
		return ActionPlay, nil
	case "stop":
		return ActionStop, nil
	case "volume", "setvolume":
		return ActionVolume, nil
	case "track", "playtrack":
		return ActionTrack, nil
	default:
		return "", fmt.Errorf("unknown audio action %q", s)
	}
}

// ClampVolume limits v to the module's volume range.
func ClampVolume(v int) int {
	if v < MinVolume {
		return MinVolume
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}

// IntValue returns a pointer to v, for building commands.
func IntValue(v int) *int {
	return &v
}
