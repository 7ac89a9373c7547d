package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/tessro/gong/internal/alarm"
	gongerrors "github.com/tessro/gong/internal/errors"
)

type alarmList struct {
	Alarms []alarm.Alarm `json:"alarms"`
}

type deletedBody struct {
	Status string `json:"status"`
	ID     int    `json:"id"`
}

// TimeResponse is the body of GET /api/time.
type TimeResponse struct {
	Time string `json:"time"`
	ISO  string `json:"iso"`
}

func (s *Server) alarmsReady(w http.ResponseWriter) bool {
	if s.deps.Alarms == nil {
		writeError(w, http.StatusServiceUnavailable, gongerrors.ErrStorageUnavailable.Error())
		return false
	}
	return true
}

func (s *Server) alarmError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gongerrors.ErrAlarmNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, gongerrors.ErrInvalidAlarm):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("alarm store failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func alarmID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	return id, err == nil
}

func (s *Server) handleListAlarms(w http.ResponseWriter, r *http.Request) {
	if !s.alarmsReady(w) {
		return
	}
	writeJSON(w, http.StatusOK, alarmList{Alarms: s.deps.Alarms.List()})
}

func (s *Server) handleCreateAlarm(w http.ResponseWriter, r *http.Request) {
	if !s.alarmsReady(w) {
		return
	}
	var a alarm.Alarm
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	created, err := s.deps.Alarms.Create(a)
	if err != nil {
		s.alarmError(w, err)
		return
	}
	s.logger.Info("alarm created", "id", created.ID, "time", created.Time)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateAlarm(w http.ResponseWriter, r *http.Request) {
	if !s.alarmsReady(w) {
		return
	}
	id, ok := alarmID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	var p alarm.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	updated, err := s.deps.Alarms.Update(id, p)
	if err != nil {
		s.alarmError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAlarm(w http.ResponseWriter, r *http.Request) {
	if !s.alarmsReady(w) {
		return
	}
	id, ok := alarmID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	if err := s.deps.Alarms.Delete(id); err != nil {
		s.alarmError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deletedBody{Status: "deleted", ID: id})
}

func (s *Server) handleTime(w http.ResponseWriter, r *http.Request) {
	now := s.deps.Now()
	writeJSON(w, http.StatusOK, TimeResponse{
		Time: now.Format("15:04:05"),
		ISO:  now.Format(time.RFC3339),
	})
}
