package discovery

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// Responder answers SSDP searches for a gong.
type Responder struct {
	uuid     string
	name     string
	location func() string
	logger   *slog.Logger
}

// NewResponder creates a responder. location is asked for the current
// control surface URL on every answer; an empty result suppresses the answer.
func NewResponder(name, uuid string, location func() string, logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{
		uuid:     uuid,
		name:     name,
		location: location,
		logger:   logger.With("component", "discovery"),
	}
}

// Run answers searches until ctx is done. Failing to join the multicast group
// is logged and not an error: the gong stays reachable by address.
func (r *Responder) Run(ctx context.Context) error {
	group, err := net.ResolveUDPAddr("udp4", ssdpAddr)
	if err != nil {
		return fmt.Errorf("resolve ssdp addr: %w", err)
	}

	conn, err := net.ListenMulticastUDP("udp4", nil, group)
	if err != nil {
		r.logger.Warn("ssdp unavailable", "error", err)
		<-ctx.Done()
		return nil
	}
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	r.logger.Info("answering ssdp searches", "st", URN)
	buf := make([]byte, 2048)
	for {
		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}

		st, ok := parseSearch(buf[:n])
		if !ok || !Matches(st) {
			continue
		}
		loc := r.location()
		if loc == "" {
			continue
		}
		if _, err := conn.WriteToUDP(r.Response(loc), from); err != nil {
			r.logger.Debug("ssdp reply failed", "to", from, "error", err)
		}
	}
}

// Matches reports whether a search target asks for gongs.
func Matches(st string) bool {
	return st == URN || st == "ssdp:all"
}

// Response renders the answer to a search.
func (r *Responder) Response(location string) []byte {
	var b strings.Builder
	b.WriteString("HTTP/1.1 200 OK\r\n")
	b.WriteString("CACHE-CONTROL: max-age=1800\r\n")
	b.WriteString("EXT:\r\n")
	b.WriteString("LOCATION: " + location + "\r\n")
	b.WriteString("SERVER: gong UPnP/1.0\r\n")
	b.WriteString("ST: " + URN + "\r\n")
	b.WriteString("USN: uuid:" + r.uuid + "::" + URN + "\r\n")
	b.WriteString(NameHeader + ": " + r.name + "\r\n")
	b.WriteString("\r\n")
	return []byte(b.String())
}

// parseSearch returns the search target of an M-SEARCH request.
func parseSearch(data []byte) (string, bool) {
	req, err := http.ReadRequest(bufio.NewReader(bytes.NewReader(data)))
	if err != nil {
		return "", false
	}
	if req.Method != "M-SEARCH" || req.Header.Get("MAN") != `"ssdp:discover"` {
		return "", false
	}
	return req.Header.Get("ST"), true
}
