package web

import (
	"net/http"

	"github.com/tessro/gong/internal/core"
	"github.com/tessro/gong/internal/credentials"
	gongerrors "github.com/tessro/gong/internal/errors"
)

type page struct {
	Title  string
	Status core.DeviceStatus
	WiFi   credentials.WifiCredentials
	State  core.State
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("render failed", "template", name, "error", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "index.html", page{Title: "Gong", Status: s.status(r.Context())})
}

func (s *Server) handleStatusPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "status.html", page{Title: "System status", Status: s.status(r.Context())})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.status(r.Context()))
}

func (s *Server) handleAudioPage(w http.ResponseWriter, r *http.Request) {
	data := page{Title: "Audio control"}
	if s.deps.Audio != nil {
		data.State = s.deps.Audio.State()
	}
	s.render(w, http.StatusOK, "audio.html", data)
}

func (s *Server) handleWiFiForm(w http.ResponseWriter, r *http.Request) {
	data := page{Title: "WiFi settings"}
	if s.deps.Credentials != nil {
		data.WiFi = s.deps.Credentials.Current()
	}
	s.render(w, http.StatusOK, "wifi.html", data)
}

func (s *Server) handleWiFiSave(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	creds := credentials.WifiCredentials{
		SSID:     r.Form.Get("ssid"),
		Password: r.Form.Get("pass"),
	}
	if !creds.Valid() {
		writeText(w, http.StatusBadRequest, gongerrors.ErrCredentialsRequired.Error())
		return
	}
	if s.deps.Credentials == nil {
		writeText(w, http.StatusInternalServerError, gongerrors.ErrConfigWrite.Error())
		return
	}
	if err := s.deps.Credentials.Set(creds); err != nil {
		s.logger.Error("saving wifi credentials failed", "error", err)
		writeText(w, http.StatusInternalServerError, gongerrors.ErrConfigWrite.Error())
		return
	}

	s.logger.Info("wifi credentials saved", "ssid", creds.SSID)
	s.render(w, http.StatusOK, "saved.html", page{Title: "WiFi saved", WiFi: creds})
	s.scheduleRestart("wifi credentials changed")
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusNotFound, "notfound.html", page{Title: "404 - Page not found"})
}
