package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tessro/gong/internal/client"
	"github.com/tessro/gong/internal/config"
	gongerrors "github.com/tessro/gong/internal/errors"
)

// ExitRestart is the exit status asking the service manager for a restart.
const ExitRestart = 75

var (
	cfgFile   string
	deviceURL string
	jsonOut   bool
	verbose   bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gong",
	Short: "Run and control a networked gong",
	Long: `Gong runs the firmware of a WiFi-connected gong (serve) and controls a
running gong over its HTTP API (play, stop, volume, alarms, ...).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: /etc/gong/gong.toml or ~/.config/gong/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&deviceURL, "device", "d", "", "gong address (default: [client] device_url)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("%w: %v", gongerrors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", gongerrors.ErrInvalidConfig, err)
	}

	return nil
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	if gongerrors.IsRestart(err) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitRestart)
	}
	fmt.Fprintln(os.Stderr, gongerrors.Format(err))
	os.Exit(1)
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}

// newClient returns a client for the gong named by --device or the config.
func newClient() *client.Client {
	url := deviceURL
	if url == "" {
		url = cfg.Client.DeviceURL
	}
	c := client.New(url, config.Millis(cfg.Client.Timeout*1000))
	if Verbose() {
		c.SetVerbose(true, func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		})
	}
	return c
}
