package watchdog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	gongerrors "github.com/tessro/gong/internal/errors"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestWatchdog() (*Watchdog, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	w := New(10*time.Second, nil)
	w.now = clock.Now
	return w, clock
}

func TestCheckKickedHandles(t *testing.T) {
	w, clock := newTestWatchdog()
	loop := w.Register("main")
	sched := w.Register("alarms")

	for i := 0; i < 5; i++ {
		clock.Advance(5 * time.Second)
		loop.Kick()
		sched.Kick()
		if err := w.Check(); err != nil {
			t.Fatalf("Check() error = %v after kicking", err)
		}
	}
}

func TestCheckExpired(t *testing.T) {
	w, clock := newTestWatchdog()
	loop := w.Register("main")
	w.Register("alarms")

	clock.Advance(8 * time.Second)
	loop.Kick()
	clock.Advance(3 * time.Second)

	err := w.Check()
	if !errors.Is(err, gongerrors.ErrWatchdogExpired) {
		t.Fatalf("Check() error = %v, want ErrWatchdogExpired", err)
	}
	if !strings.Contains(err.Error(), "alarms") {
		t.Errorf("Check() error = %v, want it to name the silent task", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	w := New(40*time.Millisecond, nil)
	h := w.Register("main")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	stop := time.After(100 * time.Millisecond)
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-ticker.C:
			h.Kick()
		case <-stop:
			break loop
		}
	}
	cancel()

	if err := <-done; err != nil {
		t.Errorf("Run() error = %v, want nil", err)
	}
}

func TestRunExpires(t *testing.T) {
	w := New(20*time.Millisecond, nil)
	w.Register("stuck")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := w.Run(ctx); !errors.Is(err, gongerrors.ErrWatchdogExpired) {
		t.Errorf("Run() error = %v, want ErrWatchdogExpired", err)
	}
}

func TestNilHandleKick(t *testing.T) {
	var h *Handle
	h.Kick()
}
