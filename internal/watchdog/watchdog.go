// Package watchdog fails the process when a periodic task stops reporting in.
package watchdog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	gongerrors "github.com/tessro/gong/internal/errors"
)

// DefaultTimeout is how long a task may go without kicking its handle.
const DefaultTimeout = 10 * time.Second

// Watchdog tracks a set of handles, each of which must be kicked at least
// once per timeout.
type Watchdog struct {
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	handles []*Handle
}

// Handle is one supervised task.
type Handle struct {
	name string
	wd   *Watchdog

	mu   sync.Mutex
	last time.Time
}

// New creates a watchdog. A non-positive timeout uses DefaultTimeout.
func New(timeout time.Duration, logger *slog.Logger) *Watchdog {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watchdog{
		timeout: timeout,
		logger:  logger.With("component", "watchdog"),
		now:     time.Now,
	}
}

// Timeout returns the configured timeout.
func (w *Watchdog) Timeout() time.Duration {
	return w.timeout
}

// Register adds a task. The handle counts as kicked at registration.
func (w *Watchdog) Register(name string) *Handle {
	h := &Handle{name: name, wd: w, last: w.now()}
	w.mu.Lock()
	w.handles = append(w.handles, h)
	w.mu.Unlock()
	w.logger.Debug("registered", "task", name)
	return h
}

// Kick records that the task is alive.
func (h *Handle) Kick() {
	if h == nil {
		return
	}
	now := h.wd.now()
	h.mu.Lock()
	h.last = now
	h.mu.Unlock()
}

// Name returns the task name.
func (h *Handle) Name() string {
	return h.name
}

func (h *Handle) lastKick() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// Check returns an error naming the first task that missed its deadline.
func (w *Watchdog) Check() error {
	now := w.now()
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, h := range w.handles {
		if since := now.Sub(h.lastKick()); since > w.timeout {
			return fmt.Errorf("%w: %s silent for %s", gongerrors.ErrWatchdogExpired, h.name, since.Round(time.Millisecond))
		}
	}
	return nil
}

// Run checks the handles every quarter timeout until ctx is done or a task
// expires.
func (w *Watchdog) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.timeout / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.Check(); err != nil {
				w.logger.Error("task watchdog expired", "error", err)
				return err
			}
		}
	}
}
