package wifi

import (
	"context"
	"net"
)

// Host is a radio for a machine whose network is managed elsewhere. It never
// joins anything; it reports connected when an interface has a routable
// address.
type Host struct {
	iface string
}

// NewHost creates a host radio. An empty iface considers every interface.
func NewHost(iface string) *Host {
	return &Host{iface: iface}
}

func (h *Host) Name() string { return "host" }

func (h *Host) Begin(ctx context.Context, ssid, password string) error {
	return nil
}

func (h *Host) Status(ctx context.Context) Status {
	if h.LocalIP(ctx) != nil {
		return Connected
	}
	return Disconnected
}

func (h *Host) LocalIP(ctx context.Context) net.IP {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}
	for _, ifc := range ifaces {
		if h.iface != "" && ifc.Name != h.iface {
			continue
		}
		if ifc.Flags&net.FlagUp == 0 || ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := ifc.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			if ip := ipnet.IP.To4(); ip != nil && !ip.IsLinkLocalUnicast() {
				return ip
			}
		}
	}
	return nil
}

var _ Radio = (*Host)(nil)
