package wifi

import (
	"context"
	"net"
	"sync"
)

// Sim is a scripted radio for development and tests. After Begin it reports
// Connecting for ConnectAfter polls and then Connected. A negative
// ConnectAfter never connects.
type Sim struct {
	ConnectAfter int
	IP           net.IP

	mu      sync.Mutex
	begins  int
	polls   int
	ssid    string
	linked  bool
	dropped bool
}

// NewSim creates a radio that connects after n polls.
func NewSim(n int) *Sim {
	return &Sim{ConnectAfter: n, IP: net.IPv4(192, 168, 4, 2)}
}

func (s *Sim) Name() string { return "sim" }

func (s *Sim) Begin(ctx context.Context, ssid, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begins++
	s.polls = 0
	s.ssid = ssid
	s.linked = false
	s.dropped = false
	return nil
}

func (s *Sim) Status(ctx context.Context) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls++
	switch {
	case s.dropped || s.begins == 0:
		return Disconnected
	case s.linked:
		return Connected
	case s.ConnectAfter >= 0 && s.polls > s.ConnectAfter:
		s.linked = true
		return Connected
	default:
		return Connecting
	}
}

func (s *Sim) LocalIP(ctx context.Context) net.IP {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.linked || s.dropped {
		return nil
	}
	return s.IP
}

// Drop simulates losing the link.
func (s *Sim) Drop() {
	s.mu.Lock()
	s.dropped = true
	s.linked = false
	s.mu.Unlock()
}

// Begins returns how many joins were started.
func (s *Sim) Begins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begins
}

// SSID returns the network of the last join.
func (s *Sim) SSID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ssid
}

var _ Radio = (*Sim)(nil)
