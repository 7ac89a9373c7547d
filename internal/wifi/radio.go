// Package wifi joins the gong to its network.
package wifi

import (
	"context"
	"net"
)

// Status is the radio link state.
type Status int

const (
	Disconnected Status = iota
	Connecting
	Connected
)

func (s Status) String() string {
	switch s {
	case Connected:
		return "connected"
	case Connecting:
		return "connecting"
	default:
		return "disconnected"
	}
}

// Radio is a network interface the connector can drive. Begin starts joining
// and returns without waiting for the link; Status is polled afterwards.
type Radio interface {
	Begin(ctx context.Context, ssid, password string) error
	Status(ctx context.Context) Status
	LocalIP(ctx context.Context) net.IP
	Name() string
}
