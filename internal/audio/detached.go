package audio

import (
	"context"

	"github.com/tessro/gong/internal/core"
	gongerrors "github.com/tessro/gong/internal/errors"
)

// Detached stands in for an audio module whose serial port could not be
// opened. Every command fails with ErrAudioUnavailable.
type Detached struct{}

func (Detached) Start(context.Context) error          { return gongerrors.ErrAudioUnavailable }
func (Detached) Stop(context.Context) error           { return gongerrors.ErrAudioUnavailable }
func (Detached) SetVolume(context.Context, int) error { return gongerrors.ErrAudioUnavailable }
func (Detached) PlayTrack(context.Context, int) error { return gongerrors.ErrAudioUnavailable }
func (Detached) Available() bool                      { return false }

var _ core.Player = Detached{}
