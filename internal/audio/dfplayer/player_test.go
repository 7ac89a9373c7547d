package dfplayer

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"
)

// fakePort mimics a serial port: reads return 0 bytes once the scripted
// input is exhausted, the way a read timeout does.
type fakePort struct {
	mu      sync.Mutex
	in      bytes.Buffer
	out     bytes.Buffer
	timeout time.Duration
	closed  bool
}

func (f *fakePort) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.in.Len() == 0 {
		return 0, nil
	}
	return f.in.Read(p)
}

func (f *fakePort) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out.Write(p)
}

func (f *fakePort) SetReadTimeout(t time.Duration) error {
	f.timeout = t
	return nil
}

func (f *fakePort) Close() error {
	f.closed = true
	return nil
}

func (f *fakePort) written() []Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	var frames []Frame
	b := f.out.Bytes()
	for len(b) >= FrameSize {
		fr, err := ParseFrame(b[:FrameSize])
		if err == nil {
			frames = append(frames, fr)
		}
		b = b[FrameSize:]
	}
	return frames
}

func TestBeginDetectsModule(t *testing.T) {
	port := &fakePort{}
	port.in.Write(Frame{Command: EvtInit, Param: 2}.Bytes())

	p := New(port, WithAckTimeout(50*time.Millisecond))
	if !p.Begin(context.Background()) {
		t.Fatal("Begin() = false, want true")
	}
	if !p.Available() {
		t.Error("Available() = false after successful Begin")
	}

	frames := port.written()
	if len(frames) != 1 || frames[0].Command != CmdReset {
		t.Errorf("written frames = %+v, want a single reset", frames)
	}
}

func TestBeginNoModule(t *testing.T) {
	port := &fakePort{}

	p := New(port, WithAckTimeout(20*time.Millisecond))
	if p.Begin(context.Background()) {
		t.Fatal("Begin() = true with silent port, want false")
	}
	if p.Available() {
		t.Error("Available() = true, want false")
	}
}

func TestCommands(t *testing.T) {
	port := &fakePort{}
	p := New(port)
	ctx := context.Background()

	if err := p.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := p.Stop(ctx); err != nil {
		t.Fatal(err)
	}
	if err := p.SetVolume(ctx, 45); err != nil {
		t.Fatal(err)
	}
	if err := p.PlayTrack(ctx, 3); err != nil {
		t.Fatal(err)
	}

	want := []Frame{
		{Command: CmdResume},
		{Command: CmdStop},
		{Command: CmdVolume, Param: 30},
		{Command: CmdPlayTrack, Param: 3},
	}
	got := port.written()
	if len(got) != len(want) {
		t.Fatalf("wrote %d frames, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("frame %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPlayTrackOutOfRange(t *testing.T) {
	p := New(&fakePort{})
	if err := p.PlayTrack(context.Background(), 0); err == nil {
		t.Error("PlayTrack(0) error = nil, want error")
	}
}
