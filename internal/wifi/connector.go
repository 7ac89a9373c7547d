package wifi

import (
	"context"
	"log/slog"
	"time"

	"github.com/tessro/gong/internal/credentials"
	gongerrors "github.com/tessro/gong/internal/errors"
)

// Policy is the fixed-interval join policy. There is no jitter and no
// exponential backoff.
type Policy struct {
	Attempts     int
	AttemptDelay time.Duration
	Rounds       int
	RoundPause   time.Duration
	RestartDelay time.Duration
}

// DefaultPolicy polls 10 times every 500ms per round, retries 5 rounds 3s
// apart and waits 5s before asking for a restart.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:     10,
		AttemptDelay: 500 * time.Millisecond,
		Rounds:       5,
		RoundPause:   3 * time.Second,
		RestartDelay: 5 * time.Second,
	}
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Connector drives a Radio through the join policy.
type Connector struct {
	radio  Radio
	logger *slog.Logger
	sleep  SleepFunc
}

// NewConnector creates a connector for radio.
func NewConnector(radio Radio, logger *slog.Logger) *Connector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Connector{
		radio:  radio,
		logger: logger.With("component", "wifi", "radio", radio.Name()),
		sleep:  Sleep,
	}
}

// SetSleep replaces the delay function.
func (c *Connector) SetSleep(fn SleepFunc) {
	c.sleep = fn
}

// Radio returns the underlying radio.
func (c *Connector) Radio() Radio {
	return c.radio
}

// Connect starts a join and polls the link up to maxAttempts times, delay
// apart. It reports whether the link is up afterwards.
func (c *Connector) Connect(ctx context.Context, creds credentials.WifiCredentials, maxAttempts int, delay time.Duration) bool {
	c.logger.Info("connecting", "ssid", creds.SSID)
	if err := c.radio.Begin(ctx, creds.SSID, creds.Password); err != nil {
		c.logger.Warn("begin failed", "error", err)
	}

	attempts := 0
	for c.radio.Status(ctx) != Connected && attempts < maxAttempts {
		if err := c.sleep(ctx, delay); err != nil {
			return false
		}
		attempts++
		c.logger.Debug("waiting for link", "attempt", attempts, "max", maxAttempts)
	}

	if c.radio.Status(ctx) == Connected {
		c.logger.Info("connected", "ip", c.radio.LocalIP(ctx))
		return true
	}
	c.logger.Warn("connection failed", "ssid", creds.SSID, "attempts", attempts)
	return false
}

// Join connects under policy p. When every round fails it waits
// p.RestartDelay and returns a RestartError.
func (c *Connector) Join(ctx context.Context, creds credentials.WifiCredentials, p Policy) error {
	tries := 0
	for !c.Connect(ctx, creds, p.Attempts, p.AttemptDelay) && tries < p.Rounds {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.logger.Info("retrying wifi", "try", tries+1, "of", p.Rounds)
		tries++
		if err := c.sleep(ctx, p.RoundPause); err != nil {
			return err
		}
	}

	if c.radio.Status(ctx) != Connected {
		c.logger.Error("could not join wifi, restarting", "ssid", creds.SSID, "rounds", tries)
		if err := c.sleep(ctx, p.RestartDelay); err != nil {
			return err
		}
		return gongerrors.Restart("wifi join failed", gongerrors.ErrWiFiUnavailable)
	}
	return nil
}

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
