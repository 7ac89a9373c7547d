package wifi

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"os/exec"
	"strings"
	"sync"

	"github.com/google/shlex"
)

// DefaultNMCLICommand is the NetworkManager CLI invocation.
const DefaultNMCLICommand = "nmcli"

// RunFunc executes a command line with stdin, which may be nil, and returns
// its standard output.
type RunFunc func(ctx context.Context, argv []string, stdin []byte) ([]byte, error)

// NMCLI drives a wireless interface through NetworkManager.
type NMCLI struct {
	iface string
	argv  []string
	run   RunFunc

	mu      sync.Mutex
	joining bool
	lastErr error
}

// NewNMCLI creates a radio for iface. command is split like a shell would,
// so "sudo nmcli" works.
func NewNMCLI(iface, command string) (*NMCLI, error) {
	if command == "" {
		command = DefaultNMCLICommand
	}
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parse nmcli command: %w", err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty nmcli command")
	}
	return &NMCLI{iface: iface, argv: argv, run: execRun}, nil
}

// SetRunner replaces the command executor.
func (n *NMCLI) SetRunner(run RunFunc) {
	n.run = run
}

// Name returns the radio name.
func (n *NMCLI) Name() string {
	return "nmcli:" + n.iface
}

// Begin asks NetworkManager to join ssid in the background. While an earlier
// join is still running Begin does nothing: NetworkManager aborts an
// activation when the same profile is activated again. The password is
// answered on stdin through --ask so it never appears in the process list.
func (n *NMCLI) Begin(ctx context.Context, ssid, password string) error {
	n.mu.Lock()
	if n.joining {
		n.mu.Unlock()
		return nil
	}
	n.joining = true
	n.mu.Unlock()

	argv := n.command("--ask", "device", "wifi", "connect", ssid, "ifname", n.iface)
	go func() {
		_, err := n.run(context.WithoutCancel(ctx), argv, []byte(password+"\n"))
		n.mu.Lock()
		n.lastErr = err
		n.joining = false
		n.mu.Unlock()
	}()
	return nil
}

// Joining reports whether a join request is still running.
func (n *NMCLI) Joining() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.joining
}

// LastError returns the outcome of the most recent join request.
func (n *NMCLI) LastError() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastErr
}

// Status reads the interface state from "nmcli device status".
func (n *NMCLI) Status(ctx context.Context) Status {
	out, err := n.run(ctx, n.command("-t", "-f", "DEVICE,STATE", "device", "status"), nil)
	if err != nil {
		return Disconnected
	}
	return parseDeviceStatus(out, n.iface)
}

// LocalIP returns the interface's first IPv4 address.
func (n *NMCLI) LocalIP(ctx context.Context) net.IP {
	out, err := n.run(ctx, n.command("-g", "IP4.ADDRESS", "device", "show", n.iface), nil)
	if err != nil {
		return nil
	}
	return parseAddress(out)
}

func (n *NMCLI) command(args ...string) []string {
	argv := make([]string, 0, len(n.argv)+len(args))
	argv = append(argv, n.argv...)
	return append(argv, args...)
}

func parseDeviceStatus(out []byte, iface string) Status {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		dev, state, ok := strings.Cut(strings.TrimSpace(scanner.Text()), ":")
		if !ok || dev != iface {
			continue
		}
		// "connected (externally)", "connected (site only)" and the like
		// all mean the link is up.
		switch {
		case strings.HasPrefix(state, "connected"):
			return Connected
		case strings.HasPrefix(state, "connecting"):
			return Connecting
		default:
			return Disconnected
		}
	}
	return Disconnected
}

func parseAddress(out []byte) net.IP {
	// "192.168.1.20/24 | 10.0.0.2/8" when several are configured
	for _, field := range strings.FieldsFunc(string(out), func(r rune) bool {
		return r == '|' || r == '\n' || r == ' '
	}) {
		ip, _, err := net.ParseCIDR(field)
		if err != nil {
			ip = net.ParseIP(field)
		}
		if ip != nil {
			return ip
		}
	}
	return nil
}

func execRun(ctx context.Context, argv []string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return out, fmt.Errorf("%s: %w: %s", argv[0], err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

var _ Radio = (*NMCLI)(nil)
