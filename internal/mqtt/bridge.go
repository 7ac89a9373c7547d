// Package mqtt bridges the gong's audio controls to an MQTT broker.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/tessro/gong/internal/audio"
	"github.com/tessro/gong/internal/config"
	"github.com/tessro/gong/internal/core"
)

// Availability payloads.
const (
	Online  = "online"
	Offline = "offline"
)

// Audio is the part of the audio controller the bridge drives.
type Audio interface {
	Apply(ctx context.Context, cmd core.AudioCommand) (core.State, error)
	State() core.State
	Subscribe(l audio.Listener)
}

// Topics are the bridge's topic names under a prefix.
type Topics struct {
	Command      string
	State        string
	Availability string
}

// NewTopics derives topic names from prefix.
func NewTopics(prefix string) Topics {
	prefix = strings.TrimSuffix(prefix, "/")
	return Topics{
		Command:      prefix + "/audio/set",
		State:        prefix + "/state",
		Availability: prefix + "/availability",
	}
}

type publishFunc func(topic string, retained bool, payload []byte) error

// Bridge applies commands from the broker and publishes retained state.
type Bridge struct {
	cfg    config.MQTTConfig
	audio  Audio
	topics Topics
	logger *slog.Logger

	client  paho.Client
	publish publishFunc

	mu       sync.Mutex
	lastHash uint64
	hashed   bool
}

// New creates a bridge. Nothing connects until Run.
func New(cfg config.MQTTConfig, a Audio, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bridge{
		cfg:    cfg,
		audio:  a,
		topics: NewTopics(cfg.TopicPrefix),
		logger: logger.With("component", "mqtt"),
	}
	b.publish = b.clientPublish
	return b
}

// Topics returns the topic names in use.
func (b *Bridge) Topics() Topics {
	return b.topics
}

// Run connects, serves until ctx is done and then announces offline.
func (b *Bridge) Run(ctx context.Context) error {
	opts := paho.NewClientOptions()
	opts.AddBroker(b.cfg.Broker)
	opts.SetClientID(b.cfg.ClientID)
	if b.cfg.User != "" {
		opts.SetUsername(b.cfg.User)
		opts.SetPassword(b.cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetWill(b.topics.Availability, Offline, 1, true)
	opts.SetOnConnectHandler(func(c paho.Client) {
		b.logger.Info("connected to broker", "broker", b.cfg.Broker)
		c.Publish(b.topics.Availability, 1, true, Online)
		if t := c.Subscribe(b.topics.Command, 1, b.onMessage); t.Wait() && t.Error() != nil {
			b.logger.Error("subscribe failed", "topic", b.topics.Command, "error", t.Error())
		}
		b.forget()
		b.PublishState(b.audio.State())
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		b.logger.Warn("broker connection lost", "error", err)
	})

	b.client = paho.NewClient(opts)
	b.audio.Subscribe(b.PublishState)

	// With connect retry enabled the token completes once the first attempt
	// is made; later attempts continue in the background.
	if t := b.client.Connect(); t.WaitTimeout(10*time.Second) && t.Error() != nil {
		b.logger.Warn("broker not reachable yet", "broker", b.cfg.Broker, "error", t.Error())
	}

	<-ctx.Done()

	if b.client.IsConnected() {
		b.client.Publish(b.topics.Availability, 1, true, Offline).WaitTimeout(time.Second)
	}
	b.client.Disconnect(250)
	return nil
}

func (b *Bridge) clientPublish(topic string, retained bool, payload []byte) error {
	if b.client == nil || !b.client.IsConnected() {
		return nil
	}
	t := b.client.Publish(topic, 1, retained, payload)
	if !t.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish %s: timed out", topic)
	}
	return t.Error()
}

func (b *Bridge) onMessage(_ paho.Client, msg paho.Message) {
	b.HandleCommand(context.Background(), msg.Payload())
}

// HandleCommand parses and applies one command payload.
func (b *Bridge) HandleCommand(ctx context.Context, payload []byte) {
	cmd, err := ParseCommand(payload)
	if err != nil {
		b.logger.Warn("ignoring command", "payload", string(payload), "error", err)
		return
	}
	if _, err := b.audio.Apply(ctx, cmd); err != nil {
		b.logger.Warn("command rejected", "action", cmd.Action, "error", err)
	}
}

// PublishState publishes state as retained JSON unless it matches the last
// state published.
func (b *Bridge) PublishState(state core.State) {
	hash, err := hashstructure.Hash(state, hashstructure.FormatV2, nil)
	if err != nil {
		b.logger.Warn("hash state", "error", err)
		return
	}

	b.mu.Lock()
	if b.hashed && hash == b.lastHash {
		b.mu.Unlock()
		return
	}
	b.lastHash = hash
	b.hashed = true
	b.mu.Unlock()

	payload, err := json.Marshal(state)
	if err != nil {
		return
	}
	if err := b.publish(b.topics.State, true, payload); err != nil {
		b.logger.Warn("publish state failed", "error", err)
		b.forget()
	}
}

func (b *Bridge) forget() {
	b.mu.Lock()
	b.hashed = false
	b.mu.Unlock()
}

// ParseCommand decodes a command payload. JSON objects use the AudioCommand
// shape; plain text is "<action> [value]", e.g. "volume 12".
func ParseCommand(payload []byte) (core.AudioCommand, error) {
	text := strings.TrimSpace(string(payload))
	if text == "" {
		return core.AudioCommand{}, fmt.Errorf("empty command")
	}

	if strings.HasPrefix(text, "{") {
		var raw struct {
			Action string `json:"action"`
			Value  *int   `json:"value"`
		}
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return core.AudioCommand{}, fmt.Errorf("invalid command JSON: %w", err)
		}
		action, err := core.ParseAction(raw.Action)
		if err != nil {
			return core.AudioCommand{}, err
		}
		return core.AudioCommand{Action: action, Value: raw.Value}, nil
	}

	fields := strings.Fields(text)
	action, err := core.ParseAction(fields[0])
	if err != nil {
		return core.AudioCommand{}, err
	}
	cmd := core.AudioCommand{Action: action}
	if len(fields) > 1 {
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			return core.AudioCommand{}, fmt.Errorf("invalid value %q", fields[1])
		}
		cmd.Value = core.IntValue(v)
	}
	return cmd, nil
}
