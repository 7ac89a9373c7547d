package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/tessro/gong/internal/device"
	gongerrors "github.com/tessro/gong/internal/errors"
)

var (
	serveListen string
	serveDriver string
	serveRoot   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gong firmware",
	Long: `Boot the gong and serve its HTTP control surface.

Boot mounts storage, loads WiFi credentials, joins the network, starts the
DFPlayer audio module and the web server, then supervises everything under a
watchdog. When the gong needs a restart (WiFi join failed, new credentials
saved, watchdog expired) serve runs [restart] command, if set, and exits with
status 75 so the service manager starts it again.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "HTTP listen address (overrides [server] listen)")
	serveCmd.Flags().StringVar(&serveDriver, "wifi-driver", "", "WiFi driver: nmcli, host or sim")
	serveCmd.Flags().StringVar(&serveRoot, "storage", "", "storage root (overrides [storage] root)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveListen != "" {
		cfg.Server.Listen = serveListen
	}
	if serveDriver != "" {
		cfg.WiFi.Driver = serveDriver
	}
	if serveRoot != "" {
		cfg.Storage.Root = serveRoot
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", gongerrors.ErrInvalidConfig, err)
	}

	logger, closer, err := newLogger(cfg.Log, Verbose())
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dev, err := device.New(device.Options{Config: cfg, Logger: logger})
	if err != nil {
		return err
	}

	err = dev.Boot(ctx)
	if err == nil {
		err = dev.Run(ctx)
	}

	err = supervise(err)
	if gongerrors.IsRestart(err) {
		logger.Error("restarting", "error", err)
		if cfg.Restart.Command != "" {
			if cerr := runRestartCommand(cfg.Restart.Command); cerr != nil {
				logger.Error("restart command failed", "command", cfg.Restart.Command, "error", cerr)
			}
		}
	}
	return err
}

// supervise maps a Run outcome onto what the process should do: nil for a
// clean shutdown, a RestartError for anything the device can only clear by
// restarting, and any other error as fatal.
func supervise(err error) error {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return nil
	case gongerrors.IsRestart(err):
		return err
	case errors.Is(err, gongerrors.ErrWatchdogExpired):
		return gongerrors.Restart("watchdog", err)
	default:
		return err
	}
}

// splitCommand splits a [restart] command line the way a shell would.
func splitCommand(line string) ([]string, error) {
	argv, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parse restart command: %w", err)
	}
	if len(argv) == 0 {
		return nil, errors.New("restart command is empty")
	}
	return argv, nil
}

func runRestartCommand(line string) error {
	argv, err := splitCommand(line)
	if err != nil {
		return err
	}
	c := exec.Command(argv[0], argv[1:]...)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
