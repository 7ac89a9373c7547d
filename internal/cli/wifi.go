package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	gongerrors "github.com/tessro/gong/internal/errors"
	"github.com/tessro/gong/internal/tui/styles"
	"github.com/tessro/gong/internal/wizard"
)

var (
	wifiSSID     string
	wifiPassword string
	wifiNoPrompt bool
)

var wifiCmd = &cobra.Command{
	Use:   "wifi",
	Short: "Show or change the gong's network",
}

var wifiShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the WiFi link",
	Args:  cobra.NoArgs,
	RunE:  runWiFiShow,
}

var wifiSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store new WiFi credentials",
	Long: `Store new WiFi credentials on the gong. The gong restarts and joins the
new network; if it cannot, it falls back to retrying until it restarts again.

Without --ssid and --password, prompts for them when run in a terminal.`,
	Args: cobra.NoArgs,
	RunE: runWiFiSet,
}

func init() {
	wifiSetCmd.Flags().StringVar(&wifiSSID, "ssid", "", "network name")
	wifiSetCmd.Flags().StringVar(&wifiPassword, "password", "", "network password")
	wifiSetCmd.Flags().BoolVar(&wifiNoPrompt, "no-prompt", false, "never prompt, fail if flags are missing")

	wifiCmd.AddCommand(wifiShowCmd)
	wifiCmd.AddCommand(wifiSetCmd)
	rootCmd.AddCommand(wifiCmd)
}

func runWiFiShow(cmd *cobra.Command, args []string) error {
	status, err := newClient().Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	if JSONOutput() {
		return printJSON(status.WiFi)
	}

	w := status.WiFi
	fmt.Printf("%s %s\n", styles.LinkIcon(w.Connected), styles.OnOff(w.Connected, "connected", w.State))
	if w.SSID != "" {
		NormalF("  SSID: %s", w.SSID)
	}
	if w.IP != "" {
		NormalF("  IP:   %s", w.IP)
	}
	return nil
}

func runWiFiSet(cmd *cobra.Command, args []string) error {
	ssid := strings.TrimSpace(wifiSSID)
	pass := wifiPassword

	if ssid == "" || pass == "" {
		interactive := wizard.NewInteractive()
		interactive.SetEnabled(!wifiNoPrompt && !JSONOutput())
		if !interactive.CanInteract() {
			return gongerrors.WithSuggestion(gongerrors.ErrCredentialsRequired,
				"Pass --ssid and --password, or run in a terminal to be prompted")
		}

		creds, err := interactive.PromptWiFi(ssid)
		if err != nil {
			return fmt.Errorf("prompt cancelled: %w", err)
		}
		if creds == nil {
			fmt.Println("Cancelled")
			return nil
		}
		ssid, pass = creds.SSID, creds.Password
	}

	if err := wizard.ValidateSSID(ssid); err != nil {
		return fmt.Errorf("%w: %v", gongerrors.ErrCredentialsRequired, err)
	}

	if err := newClient().SetWiFi(cmd.Context(), ssid, pass); err != nil {
		return fmt.Errorf("failed to save WiFi settings: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "saved", "ssid": ssid})
	}
	fmt.Printf("Saved WiFi settings for %s. The gong is restarting.\n", styles.Highlight.Render(ssid))
	return nil
}
