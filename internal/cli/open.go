package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tessro/gong/internal/browser"
)

var openCmd = &cobra.Command{
	Use:       "open [page]",
	Short:     "Open the gong's web pages in a browser",
	Long:      `Open the gong's web interface. Page is one of: home, audio, wifi, status.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"home", "audio", "wifi", "status"},
	RunE:      runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	page := "home"
	if len(args) == 1 {
		page = args[0]
	}
	path, err := pagePath(page)
	if err != nil {
		return err
	}

	url := newClient().BaseURL() + path
	if err := browser.Open(url); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	fmt.Println("Opened " + url)
	return nil
}

func pagePath(page string) (string, error) {
	switch page {
	case "home", "":
		return "/", nil
	case "audio", "wifi", "status":
		return "/" + page, nil
	default:
		return "", fmt.Errorf("unknown page %q (want home, audio, wifi or status)", page)
	}
}
