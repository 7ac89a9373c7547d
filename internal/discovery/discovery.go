// Package discovery finds gongs on the local network over SSDP and answers
// searches on the gong's behalf.
package discovery

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	ssdpAddr = "239.255.255.250:1900"

	// URN is the SSDP search target a gong answers to.
	URN = "urn:tessro:device:Gong:1"

	// NameHeader carries the gong's configured name in responses.
	NameHeader = "X-Gong-Name"

	defaultTimeout = 3 * time.Second
)

var mSearchRequest = []byte(
	"M-SEARCH * HTTP/1.1\r\n" +
		"HOST: 239.255.255.250:1900\r\n" +
		"MAN: \"ssdp:discover\"\r\n" +
		"MX: 2\r\n" +
		"ST: " + URN + "\r\n" +
		"\r\n",
)

// Device is a gong that answered a search.
type Device struct {
	IP       string    `json:"ip"`
	UUID     string    `json:"uuid"`
	Name     string    `json:"name"`
	Location string    `json:"location"`
	LastSeen time.Time `json:"last_seen"`
}

// BaseURL returns the HTTP address of the gong's control surface.
func (d *Device) BaseURL() string {
	if u, err := url.Parse(d.Location); err == nil && u.Host != "" {
		return u.Scheme + "://" + u.Host
	}
	return "http://" + d.IP
}

// Discover sends one M-SEARCH and collects answers until timeout.
func Discover(ctx context.Context, timeout time.Duration) ([]*Device, error) {
	if timeout == 0 {
		timeout = defaultTimeout
	}

	addr, err := net.ResolveUDPAddr("udp4", ssdpAddr)
	if err != nil {
		return nil, fmt.Errorf("resolve ssdp addr: %w", err)
	}

	conn, err := net.ListenUDP("udp4", nil)
	if err != nil {
		return nil, fmt.Errorf("listen udp: %w", err)
	}
	defer func() { _ = conn.Close() }()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetReadDeadline(deadline)

	if _, err := conn.WriteToUDP(mSearchRequest, addr); err != nil {
		return nil, fmt.Errorf("send m-search: %w", err)
	}

	var devices []*Device
	seen := make(map[string]bool)
	buf := make([]byte, 2048)

	for {
		select {
		case <-ctx.Done():
			return devices, ctx.Err()
		default:
		}

		n, remoteAddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				return devices, nil
			}
			continue
		}

		device, err := parseResponse(buf[:n], remoteAddr)
		if err != nil || device == nil {
			continue
		}

		if seen[device.UUID] {
			continue
		}
		seen[device.UUID] = true

		device.LastSeen = time.Now()
		devices = append(devices, device)
	}
}

// parseResponse parses an SSDP response into a Device. Answers from other
// kinds of device are ignored.
func parseResponse(data []byte, addr *net.UDPAddr) (*Device, error) {
	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(data)), nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.Header.Get("ST") != URN {
		return nil, nil
	}

	uuid := extractUUID(resp.Header.Get("USN"))
	if uuid == "" {
		return nil, nil
	}

	return &Device{
		IP:       addr.IP.String(),
		UUID:     uuid,
		Name:     resp.Header.Get(NameHeader),
		Location: resp.Header.Get("Location"),
	}, nil
}

// extractUUID extracts the UUID from a USN header.
func extractUUID(usn string) string {
	// Format: uuid:gong-hall::urn:tessro:device:Gong:1
	if !strings.HasPrefix(usn, "uuid:") {
		return ""
	}
	head, _, _ := strings.Cut(usn, "::")
	return strings.TrimPrefix(head, "uuid:")
}
