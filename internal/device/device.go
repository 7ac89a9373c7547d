// Package device assembles the gong from its parts and supervises it.
package device

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tessro/gong/internal/alarm"
	"github.com/tessro/gong/internal/audio"
	"github.com/tessro/gong/internal/audio/dfplayer"
	"github.com/tessro/gong/internal/config"
	"github.com/tessro/gong/internal/core"
	"github.com/tessro/gong/internal/credentials"
	"github.com/tessro/gong/internal/discovery"
	gongerrors "github.com/tessro/gong/internal/errors"
	"github.com/tessro/gong/internal/mqtt"
	"github.com/tessro/gong/internal/watchdog"
	"github.com/tessro/gong/internal/web"
	"github.com/tessro/gong/internal/wifi"
)

// Options configures a Device. Radio, Player and Listener override what the
// configuration would open, mostly for tests.
type Options struct {
	Config   *config.Config
	Radio    wifi.Radio
	Player   core.Player
	Listener net.Listener
	Logger   *slog.Logger
	Now      func() time.Time
}

// Device is the running gong.
type Device struct {
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time

	store     *credentials.Store
	creds     *credentials.Holder
	connector *wifi.Connector
	player    core.Player
	audio     *audio.Controller
	alarms    *alarm.Store
	scheduler *alarm.Scheduler
	watchdog  *watchdog.Watchdog
	server    *web.Server
	bridge    *mqtt.Bridge
	responder *discovery.Responder
	listener  net.Listener

	startedAt time.Time
	restart   chan error
}

// New creates a device from configuration. Nothing touches the hardware
// until Boot.
func New(opts Options) (*Device, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	radio := opts.Radio
	if radio == nil {
		var err error
		radio, err = wifi.Open(cfg.WiFi.Driver, cfg.WiFi.Interface, cfg.WiFi.Command)
		if err != nil {
			return nil, err
		}
	}

	defaults := credentials.WifiCredentials{
		SSID:     cfg.WiFi.DefaultSSID,
		Password: cfg.WiFi.DefaultPassword,
	}

	return &Device{
		cfg:       cfg,
		logger:    logger.With("component", "device"),
		now:       now,
		store:     credentials.NewStore(cfg.Storage.Root, cfg.Storage.CredentialsFile, defaults),
		connector: wifi.NewConnector(radio, logger),
		player:    opts.Player,
		listener:  opts.Listener,
		watchdog:  watchdog.New(time.Duration(cfg.Watchdog.Timeout)*time.Second, logger),
		restart:   make(chan error, 1),
	}, nil
}

// Policy returns the WiFi join policy from configuration.
func (d *Device) Policy() wifi.Policy {
	return wifi.Policy{
		Attempts:     d.cfg.WiFi.Attempts,
		AttemptDelay: config.Millis(d.cfg.WiFi.AttemptDelay),
		Rounds:       d.cfg.WiFi.Rounds,
		RoundPause:   config.Millis(d.cfg.WiFi.RoundPause),
		RestartDelay: config.Millis(d.cfg.WiFi.RestartDelay),
	}
}

// Connector returns the WiFi connector.
func (d *Device) Connector() *wifi.Connector {
	return d.connector
}

// Audio returns the audio controller. It is nil before Boot.
func (d *Device) Audio() *audio.Controller {
	return d.audio
}

// Credentials returns the credentials in use. It is nil before Boot.
func (d *Device) Credentials() *credentials.Holder {
	return d.creds
}

// Boot brings the device up: storage, credentials, WiFi, audio and the HTTP
// surface. A storage failure is fatal; a WiFi failure is a RestartError.
func (d *Device) Boot(ctx context.Context) error {
	d.startedAt = d.now()

	if err := d.store.Mount(); err != nil {
		d.logger.Error("storage mount failed", "root", d.cfg.Storage.Root, "error", err)
		return err
	}
	if wrote, err := d.store.EnsureDefaults(); err != nil {
		d.logger.Warn("could not write default credentials", "error", err)
	} else if wrote {
		d.logger.Info("wrote default credentials", "path", d.store.Path())
	}
	d.creds = credentials.NewHolder(d.store)

	if err := d.connector.Join(ctx, d.creds.Current(), d.Policy()); err != nil {
		return err
	}

	d.bootAudio(ctx)

	alarms, err := alarm.NewStore(d.cfg.Storage.Root, d.cfg.Storage.AlarmsFile)
	if err != nil {
		d.logger.Warn("alarms unavailable", "error", err)
	} else {
		d.alarms = alarms
		d.scheduler = alarm.NewScheduler(alarms, d.audio, time.Second, d.logger)
	}

	d.server, err = web.New(web.Deps{
		Credentials:  d.creds,
		Audio:        d.audio,
		Alarms:       d.alarms,
		Status:       d,
		Restart:      d.RequestRestart,
		RestartDelay: config.Millis(d.cfg.Restart.Delay),
		Logger:       d.logger,
		Now:          d.now,
	})
	if err != nil {
		return err
	}

	if d.cfg.MQTT.Enabled {
		d.bridge = mqtt.New(d.cfg.MQTT, d.audio, d.logger)
	}

	if !d.cfg.Discovery.Disabled {
		d.responder = discovery.NewResponder(d.cfg.Device.Name, d.UUID(), d.Location, d.logger)
	}

	d.logger.Info("boot complete", "name", d.cfg.Device.Name, "listen", d.cfg.Server.Listen)
	return nil
}

func (d *Device) bootAudio(ctx context.Context) {
	player := d.player
	if player == nil {
		dp, err := dfplayer.Open(d.cfg.Audio.Port, d.cfg.Audio.Baud,
			dfplayer.WithAckTimeout(config.Millis(d.cfg.Audio.AckTimeout)),
			dfplayer.WithLogger(d.logger))
		if err != nil {
			d.logger.Warn("audio port unavailable", "port", d.cfg.Audio.Port, "error", err)
			player = audio.Detached{}
		} else {
			if !dp.Begin(ctx) {
				d.logger.Warn("DFPlayer not found", "port", d.cfg.Audio.Port)
			}
			player = dp
		}
		d.player = player
	}

	d.audio = audio.NewController(player, d.logger)
	if player.Available() {
		d.audio.SetVolume(ctx, d.cfg.Audio.InitialVolume)
		d.logger.Info("DFPlayer ready", "volume", d.cfg.Audio.InitialVolume)
	}
}

// RequestRestart asks Run to stop with a RestartError.
func (d *Device) RequestRestart(reason string) {
	err := gongerrors.Restart(reason, nil)
	select {
	case d.restart <- err:
	default:
	}
}

// Tick runs one main loop iteration: reconnect when the link is down.
func (d *Device) Tick(ctx context.Context) {
	if d.connector.Radio().Status(ctx) == wifi.Connected {
		return
	}
	d.logger.Warn("wifi disconnected, reconnecting")
	d.connector.Connect(ctx, d.creds.Current(), d.cfg.WiFi.Attempts, config.Millis(d.cfg.WiFi.AttemptDelay))
}

// Run serves until ctx is done or a task fails. It returns a RestartError
// when a restart was requested and a watchdog error when a task stalls.
func (d *Device) Run(ctx context.Context) error {
	if d.server == nil {
		return fmt.Errorf("device not booted")
	}

	g, ctx := errgroup.WithContext(ctx)

	loop := d.watchdog.Register("main")
	g.Go(func() error {
		ticker := time.NewTicker(config.Millis(d.cfg.Watchdog.LoopInterval))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				loop.Kick()
				d.Tick(ctx)
			}
		}
	})

	if d.scheduler != nil {
		d.scheduler.SetKicker(d.watchdog.Register("alarms"))
		g.Go(func() error { return d.scheduler.Run(ctx) })
	}

	g.Go(func() error { return d.watchdog.Run(ctx) })

	g.Go(func() error {
		if d.listener != nil {
			return d.server.ServeListener(ctx, d.listener)
		}
		return d.server.Serve(ctx, d.cfg.Server.Listen)
	})

	if d.bridge != nil {
		g.Go(func() error { return d.bridge.Run(ctx) })
	}

	if d.responder != nil {
		g.Go(func() error { return d.responder.Run(ctx) })
	}

	g.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case err := <-d.restart:
			d.logger.Warn("restart requested", "error", err)
			return err
		}
	})

	return g.Wait()
}

// UUID identifies the device in SSDP answers.
func (d *Device) UUID() string {
	if d.cfg.Discovery.UUID != "" {
		return d.cfg.Discovery.UUID
	}
	return "gong-" + d.cfg.Device.Name
}

// Location returns the status URL advertised over SSDP, or "" while the
// device has no address.
func (d *Device) Location() string {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ip := d.connector.Radio().LocalIP(ctx)
	if ip == nil {
		return ""
	}
	port := "80"
	if d.listener != nil {
		if _, p, err := net.SplitHostPort(d.listener.Addr().String()); err == nil {
			port = p
		}
	} else if _, p, err := net.SplitHostPort(d.cfg.Server.Listen); err == nil && p != "" {
		port = p
	}
	return "http://" + net.JoinHostPort(ip.String(), port) + "/api/status"
}

// Status reports the live device status.
func (d *Device) Status(ctx context.Context) core.DeviceStatus {
	radio := d.connector.Radio()
	link := radio.Status(ctx)

	status := core.DeviceStatus{
		Name:      d.cfg.Device.Name,
		StartedAt: d.startedAt,
		Time:      d.now(),
		WiFi: core.WiFiStatus{
			Connected: link == wifi.Connected,
			State:     link.String(),
		},
	}
	if link == wifi.Connected {
		if ip := radio.LocalIP(ctx); ip != nil {
			status.WiFi.IP = ip.String()
		}
		if d.creds != nil {
			status.WiFi.SSID = d.creds.Current().SSID
		}
	}
	if d.audio != nil {
		status.Audio = core.AudioStatus{
			Available: d.audio.Available(),
			State:     d.audio.State(),
		}
	}
	return status
}

var _ web.StatusSource = (*Device)(nil)
