package dfplayer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/tessro/gong/internal/core"
	"go.bug.st/serial"
)

// DefaultBaud is the module's fixed UART speed.
const DefaultBaud = 9600

// Port is the part of a serial port the player needs.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// Player implements core.Player for a DFPlayer Mini.
type Player struct {
	port       Port
	ackTimeout time.Duration
	logger     *slog.Logger

	mu        sync.Mutex
	available bool
}

// Option configures a Player.
type Option func(*Player)

// WithAckTimeout sets how long Begin waits for the module to answer.
func WithAckTimeout(d time.Duration) Option {
	return func(p *Player) { p.ackTimeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Player) { p.logger = l }
}

// New creates a player on an already opened port.
func New(port Port, opts ...Option) *Player {
	p := &Player{
		port:       port,
		ackTimeout: time.Second,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Open opens the serial device at 8N1 and returns a player on it.
func Open(name string, baud int, opts ...Option) (*Player, error) {
	if baud == 0 {
		baud = DefaultBaud
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return New(port, opts...), nil
}

// Begin resets the module and waits for it to report in. The result is the
// one-shot presence check exposed by Available.
func (p *Player) Begin(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.available = false
	if err := p.write(Frame{Command: CmdReset, Feedback: true}); err != nil {
		p.logger.Warn("dfplayer reset failed", "error", err)
		return false
	}

	if err := p.port.SetReadTimeout(p.ackTimeout / 4); err != nil {
		p.logger.Warn("dfplayer read timeout", "error", err)
	}

	deadline := time.Now().Add(p.ackTimeout)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return false
		}
		f, err := readFrame(p.port)
		if err != nil {
			if errors.Is(err, errNoFrame) || errors.Is(err, errBadFrame) || errors.Is(err, errBadChecksum) {
				continue
			}
			p.logger.Warn("dfplayer read failed", "error", err)
			return false
		}
		switch f.Command {
		case EvtInit, EvtAck, CmdQueryStatus:
			p.logger.Debug("dfplayer answered", "frame", f.String())
			p.available = true
			return true
		case EvtError:
			p.logger.Warn("dfplayer reported error", "code", f.Param)
		}
	}
	return false
}

// Available reports the result of the last Begin.
func (p *Player) Available() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.available
}

// Start resumes or starts playback.
func (p *Player) Start(ctx context.Context) error {
	return p.send(CmdResume, 0)
}

// Stop stops playback.
func (p *Player) Stop(ctx context.Context) error {
	return p.send(CmdStop, 0)
}

// SetVolume sets the volume, clamped to 0-30.
func (p *Player) SetVolume(ctx context.Context, volume int) error {
	return p.send(CmdVolume, uint16(core.ClampVolume(volume)))
}

// PlayTrack plays a track by its 1-based index on the card.
func (p *Player) PlayTrack(ctx context.Context, track int) error {
	if track < 1 || track > 0xFFFF {
		return fmt.Errorf("track %d out of range", track)
	}
	return p.send(CmdPlayTrack, uint16(track))
}

// Close closes the serial port.
func (p *Player) Close() error {
	return p.port.Close()
}

func (p *Player) send(cmd byte, param uint16) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.write(Frame{Command: cmd, Param: param})
}

func (p *Player) write(f Frame) error {
	if _, err := p.port.Write(f.Bytes()); err != nil {
		return fmt.Errorf("dfplayer write %s: %w", f, err)
	}
	return nil
}

var _ core.Player = (*Player)(nil)
