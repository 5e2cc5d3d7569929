package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/claude/flowfocus/internal/models"
)

func (s *Server) handleTimerState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	sessionType := models.TypeFocus

	var body struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if body.Type != "" {
		t, err := models.ParseSessionType(body.Type)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		sessionType = t
	}

	s.writeTransition(w, s.engine.Start(sessionType))
}

func (s *Server) handleTimerPause(w http.ResponseWriter, r *http.Request) {
	s.writeTransition(w, s.engine.Pause())
}

func (s *Server) handleTimerAccept(w http.ResponseWriter, r *http.Request) {
	s.writeTransition(w, s.engine.Accept(r.Context()))
}

func (s *Server) handleTimerReject(w http.ResponseWriter, r *http.Request) {
	s.writeTransition(w, s.engine.Reject())
}

func (s *Server) handleTimerOpenSettings(w http.ResponseWriter, r *http.Request) {
	s.writeTransition(w, s.engine.OpenSettings())
}

func (s *Server) handleTimerCloseSettings(w http.ResponseWriter, r *http.Request) {
	s.writeTransition(w, s.engine.CloseSettings())
}

func (s *Server) handleGetTimerSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.db.GetTimerSettings(r.Context(), userIDFromContext(r), models.DefaultTimerSettings)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// handleTimerSettings persists new interval durations and applies them to
// the running engine in one step.
func (s *Server) handleTimerSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.TimerSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if settings.FocusSec <= 0 || settings.ShortBreakSec <= 0 || settings.LongBreakSec <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "durations must be positive"})
		return
	}

	if err := s.db.UpsertTimerSettings(r.Context(), userIDFromContext(r), settings); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.engine.ApplySettings(settings)
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

// writeTransition reports the outcome of a timer state transition.
// Transition errors mean the engine was not in a state that allows the
// request, which maps to a conflict rather than a bad request.
func (s *Server) writeTransition(w http.ResponseWriter, err error) {
	if err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}
