// Package web serves the gong's HTTP control surface.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/tessro/gong/internal/alarm"
	"github.com/tessro/gong/internal/audio"
	"github.com/tessro/gong/internal/core"
	"github.com/tessro/gong/internal/credentials"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultRestartDelay is the pause between answering a WiFi change and
// asking for a restart.
const DefaultRestartDelay = time.Second

// StatusSource reports the live device status.
type StatusSource interface {
	Status(ctx context.Context) core.DeviceStatus
}

// StatusFunc adapts a function to StatusSource.
type StatusFunc func(ctx context.Context) core.DeviceStatus

// Status calls f.
func (f StatusFunc) Status(ctx context.Context) core.DeviceStatus {
	return f(ctx)
}

// Deps are the pieces of the device the handlers act on.
type Deps struct {
	Credentials *credentials.Holder
	Audio       *audio.Controller
	Alarms      *alarm.Store
	Status      StatusSource

	// Restart is called RestartDelay after new credentials were saved.
	Restart      func(reason string)
	RestartDelay time.Duration

	Logger *slog.Logger
	Now    func() time.Time
}

// Server is the HTTP control surface.
type Server struct {
	deps   Deps
	logger *slog.Logger
	pages  *template.Template
	hub    *Hub
	mux    *http.ServeMux
}

// New creates a server. Audio state changes are pushed to websocket clients.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.RestartDelay < 0 {
		deps.RestartDelay = 0
	}

	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	logger := deps.Logger.With("component", "web")
	s := &Server{
		deps:   deps,
		logger: logger,
		pages:  pages,
		hub:    NewHub(logger),
		mux:    http.NewServeMux(),
	}
	s.hub.SetGreeting(func() any { return s.status(context.Background()) })
	if deps.Audio != nil {
		deps.Audio.Subscribe(func(core.State) {
			s.hub.Broadcast(s.status(context.Background()))
		})
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /wifi", s.handleWiFiForm)
	s.mux.HandleFunc("POST /api/wifi", s.handleWiFiSave)
	s.mux.HandleFunc("GET /status", s.handleStatusPage)
	s.mux.HandleFunc("GET /api/status", s.handleStatus)
	s.mux.HandleFunc("GET /audio", s.handleAudioPage)

	s.mux.HandleFunc("POST /api/audio/play", s.handlePlay)
	s.mux.HandleFunc("POST /api/audio/stop", s.handleStop)
	s.mux.HandleFunc("POST /api/audio/volume", s.handleVolume)
	s.mux.HandleFunc("POST /api/audio/track", s.handleTrack)

	s.mux.HandleFunc("GET /api/alarms", s.handleListAlarms)
	s.mux.HandleFunc("POST /api/alarms", s.handleCreateAlarm)
	s.mux.HandleFunc("PUT /api/alarms/{id}", s.handleUpdateAlarm)
	s.mux.HandleFunc("PATCH /api/alarms/{id}", s.handleUpdateAlarm)
	s.mux.HandleFunc("DELETE /api/alarms/{id}", s.handleDeleteAlarm)
	s.mux.HandleFunc("GET /api/time", s.handleTime)

	s.mux.Handle("GET /ws", s.hub)
	s.mux.HandleFunc("/", s.handleNotFound)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Serve listens on addr until ctx is done.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is done.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.logger.Info("http server listening", "addr", ln.Addr().String())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) status(ctx context.Context) core.DeviceStatus {
	if s.deps.Status == nil {
		return core.DeviceStatus{Time: s.deps.Now()}
	}
	return s.deps.Status.Status(ctx)
}

func (s *Server) scheduleRestart(reason string) {
	if s.deps.Restart == nil {
		s.logger.Warn("no restart hook installed", "reason", reason)
		return
	}
	go func() {
		time.Sleep(s.deps.RestartDelay)
		s.deps.Restart(reason)
	}()
}
