package web

import (
	"net/http"

	gongerrors "github.com/tessro/gong/internal/errors"
)

type statusBody struct {
	Status string `json:"status"`
}

type volumeBody struct {
	Status string `json:"status"`
	Volume int    `json:"volume"`
}

type trackBody struct {
	Status string `json:"status"`
	Track  int    `json:"track"`
}

func (s *Server) audioReady(w http.ResponseWriter) bool {
	if s.deps.Audio == nil {
		writeError(w, http.StatusServiceUnavailable, gongerrors.ErrAudioUnavailable.Error())
		return false
	}
	return true
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	if !s.audioReady(w) {
		return
	}
	s.deps.Audio.Play(r.Context())
	writeJSON(w, http.StatusOK, statusBody{Status: "playing"})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if !s.audioReady(w) {
		return
	}
	s.deps.Audio.Stop(r.Context())
	writeJSON(w, http.StatusOK, statusBody{Status: "stopped"})
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	if !s.audioReady(w) {
		return
	}
	v, ok := formInt(r, "value")
	if !ok {
		writeError(w, http.StatusBadRequest, gongerrors.ErrVolumeRequired.Error())
		return
	}
	state := s.deps.Audio.SetVolume(r.Context(), v)
	writeJSON(w, http.StatusOK, volumeBody{Status: "ok", Volume: state.Volume})
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	if !s.audioReady(w) {
		return
	}
	n, ok := formInt(r, "num")
	if !ok {
		writeError(w, http.StatusBadRequest, gongerrors.ErrTrackRequired.Error())
		return
	}
	if n <= 0 {
		writeError(w, http.StatusBadRequest, gongerrors.ErrInvalidTrack.Error())
		return
	}
	if _, err := s.deps.Audio.PlayTrack(r.Context(), n); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, trackBody{Status: "playing", Track: n})
}
