package wifi

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseDeviceStatus(t *testing.T) {
	out := []byte("eth0:unavailable\nwlan0:connecting (getting IP configuration)\nlo:unmanaged\n")
	if got := parseDeviceStatus(out, "wlan0"); got != Connecting {
		t.Errorf("status = %v, want connecting", got)
	}

	out = []byte("wlan0:connected\n")
	if got := parseDeviceStatus(out, "wlan0"); got != Connected {
		t.Errorf("status = %v, want connected", got)
	}

	tests := map[string]Status{
		"connected (externally)":           Connected,
		"connected (site only)":            Connected,
		"connected (local only)":           Connected,
		"connecting (prepare)":             Connecting,
		"disconnected":                     Disconnected,
		"unavailable":                      Disconnected,
		"deactivating":                     Disconnected,
		"connecting (need authentication)": Connecting,
	}
	for state, want := range tests {
		if got := parseDeviceStatus([]byte("wlan0:"+state+"\n"), "wlan0"); got != want {
			t.Errorf("parseDeviceStatus(%q) = %v, want %v", state, got, want)
		}
	}

	if got := parseDeviceStatus(out, "wlan1"); got != Disconnected {
		t.Errorf("status for unknown iface = %v, want disconnected", got)
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in   string
		want net.IP
	}{
		{"192.168.1.20/24\n", net.ParseIP("192.168.1.20")},
		{"10.0.0.2/8 | 192.168.1.3/24\n", net.ParseIP("10.0.0.2")},
		{"", nil},
	}
	for _, tt := range tests {
		got := parseAddress([]byte(tt.in))
		if !got.Equal(tt.want) {
			t.Errorf("parseAddress(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNMCLICommands(t *testing.T) {
	radio, err := NewNMCLI("wlan0", "sudo nmcli")
	if err != nil {
		t.Fatalf("NewNMCLI() error = %v", err)
	}

	var mu sync.Mutex
	var calls []string
	var joinStdin string
	done := make(chan struct{}, 1)
	radio.SetRunner(func(ctx context.Context, argv []string, stdin []byte) ([]byte, error) {
		mu.Lock()
		calls = append(calls, strings.Join(argv, " "))
		mu.Unlock()
		switch {
		case argv[2] == "--ask":
			mu.Lock()
			joinStdin = string(stdin)
			mu.Unlock()
			done <- struct{}{}
			return nil, errors.New("secrets were required")
		case argv[len(argv)-1] == "status":
			return []byte("wlan0:connected\n"), nil
		default:
			return []byte("192.168.1.20/24\n"), nil
		}
	})

	ctx := context.Background()
	if err := radio.Begin(ctx, "My Net", "pw"); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("join command not run")
	}

	if radio.Status(ctx) != Connected {
		t.Error("Status() != Connected")
	}
	if ip := radio.LocalIP(ctx); !ip.Equal(net.ParseIP("192.168.1.20")) {
		t.Errorf("LocalIP() = %v", ip)
	}

	mu.Lock()
	defer mu.Unlock()
	want := "sudo nmcli --ask device wifi connect My Net ifname wlan0"
	if len(calls) == 0 || calls[0] != want {
		t.Errorf("first call = %q, want %q", calls, want)
	}
	for _, c := range calls {
		if strings.Contains(c, "pw") {
			t.Errorf("password on command line: %q", c)
		}
	}
	if joinStdin != "pw\n" {
		t.Errorf("join stdin = %q, want %q", joinStdin, "pw\n")
	}
}

func TestNMCLIBeginSkipsWhileJoining(t *testing.T) {
	radio, err := NewNMCLI("wlan0", "")
	if err != nil {
		t.Fatalf("NewNMCLI() error = %v", err)
	}

	var mu sync.Mutex
	joins := 0
	started := make(chan struct{}, 10)
	release := make(chan struct{})
	radio.SetRunner(func(ctx context.Context, argv []string, stdin []byte) ([]byte, error) {
		if argv[1] != "--ask" {
			return []byte("wlan0:disconnected\n"), nil
		}
		mu.Lock()
		joins++
		mu.Unlock()
		started <- struct{}{}
		<-release
		return nil, errors.New("timeout")
	})

	ctx := context.Background()
	for i := 0; i < 6; i++ {
		if err := radio.Begin(ctx, "Home", "pw"); err != nil {
			t.Fatalf("Begin() error = %v", err)
		}
	}
	<-started
	if !radio.Joining() {
		t.Error("Joining() = false while join runs")
	}

	mu.Lock()
	if joins != 1 {
		t.Errorf("joins in flight = %d, want 1", joins)
	}
	mu.Unlock()

	close(release)
	deadline := time.Now().Add(time.Second)
	for radio.Joining() {
		if time.Now().After(deadline) {
			t.Fatal("join never finished")
		}
		time.Sleep(time.Millisecond)
	}
	if radio.LastError() == nil {
		t.Error("LastError() = nil, want join error")
	}

	if err := radio.Begin(ctx, "Home", "pw"); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	<-started
	mu.Lock()
	defer mu.Unlock()
	if joins != 2 {
		t.Errorf("joins after first finished = %d, want 2", joins)
	}
}

func TestOpen(t *testing.T) {
	for _, driver := range []string{"nmcli", "host", "sim"} {
		if _, err := Open(driver, "wlan0", ""); err != nil {
			t.Errorf("Open(%q) error = %v", driver, err)
		}
	}
	if _, err := Open("zigbee", "", ""); err == nil {
		t.Error("Open(unknown) error = nil, want error")
	}
}
