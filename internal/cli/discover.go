package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/gong/internal/discovery"
)

var discoverTimeout time.Duration

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find gongs on the local network",
	Long: `Sends an SSDP search and lists every gong that answers.

Use the URL column with --device, or put it in [client] device_url.`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().DurationVar(&discoverTimeout, "timeout", 3*time.Second, "How long to wait for answers")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), discoverTimeout+time.Second)
	defer cancel()

	devices, err := discovery.Discover(ctx, discoverTimeout)
	if err != nil && len(devices) == 0 {
		return fmt.Errorf("discover: %w", err)
	}
	sortDevices(devices)

	if JSONOutput() {
		if devices == nil {
			devices = []*discovery.Device{}
		}
		return printJSON(devices)
	}

	writeDevices(os.Stdout, devices)
	return nil
}

func sortDevices(devices []*discovery.Device) {
	sort.Slice(devices, func(i, j int) bool {
		if devices[i].Name != devices[j].Name {
			return devices[i].Name < devices[j].Name
		}
		return devices[i].IP < devices[j].IP
	})
}

func writeDevices(w io.Writer, devices []*discovery.Device) {
	if len(devices) == 0 {
		_, _ = fmt.Fprintln(w, "No gongs found")
		return
	}

	headers := []string{"NAME", "IP", "URL"}
	if Verbose() {
		headers = append(headers, "UUID")
	}
	t := NewTableWriter(w, headers...)
	for _, d := range devices {
		row := []string{d.Name, d.IP, d.BaseURL()}
		if Verbose() {
			row = append(row, d.UUID)
		}
		t.Row(row...)
	}
	t.Flush()
}
