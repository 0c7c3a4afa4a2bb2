package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/umputun/kibbler/pkg/clock"
	"github.com/umputun/kibbler/pkg/device"
	"github.com/umputun/kibbler/pkg/schedule"
)

// statusHandler returns device status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	st, err := s.controller.Status(r.Context())
	if err != nil {
		log.Printf("[ERROR] failed to get status: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, struct {
		device.Status
		Version string `json:"version"`
	}{Status: st, Version: s.version})
}

// getScheduleHandler returns the configured feed times
func (s *Server) getScheduleHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := s.controller.Entries(r.Context())
	if err != nil {
		log.Printf("[ERROR] failed to get schedule: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"schedule": entries})
}

// addScheduleHandler adds a feed time to the schedule
func (s *Server) addScheduleHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var entry schedule.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}

	if !entry.Valid() {
		renderError(w, r, fmt.Errorf("invalid feed time %02d:%02d x%d", entry.Hour, entry.Minute, entry.Rotations),
			http.StatusBadRequest)
		return
	}

	if err := s.controller.AddEntry(ctx, entry); err != nil {
		if errors.Is(err, schedule.ErrFull) {
			renderError(w, r, err, http.StatusConflict)
			return
		}
		log.Printf("[ERROR] failed to add feed time: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	entries, err := s.controller.Entries(ctx)
	if err != nil {
		log.Printf("[ERROR] failed to get schedule after add: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusCreated, map[string]interface{}{"schedule": entries})
}

// removeScheduleHandler deletes the feed time at the given index
func (s *Server) removeScheduleHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		renderError(w, r, fmt.Errorf("invalid schedule index"), http.StatusBadRequest)
		return
	}

	if err := s.controller.RemoveEntry(ctx, index); err != nil {
		if errors.Is(err, schedule.ErrNoEntry) {
			renderError(w, r, err, http.StatusNotFound)
			return
		}
		log.Printf("[ERROR] failed to remove feed time: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	entries, err := s.controller.Entries(ctx)
	if err != nil {
		log.Printf("[ERROR] failed to get schedule after remove: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"schedule": entries})
}

// feedNowHandler dispenses food immediately, outside the schedule
func (s *Server) feedNowHandler(w http.ResponseWriter, r *http.Request) {
	if !s.feedLimiter.Allow() {
		renderError(w, r, fmt.Errorf("feeding too often, try later"), http.StatusTooManyRequests)
		return
	}

	req := struct {
		Rotations int `json:"rotations"`
	}{Rotations: 1}

	// body is optional, default is a single rotation
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
			return
		}
	}

	if req.Rotations < schedule.MinRotations || req.Rotations > schedule.MaxRotations {
		renderError(w, r, fmt.Errorf("rotations %d out of range %d..%d",
			req.Rotations, schedule.MinRotations, schedule.MaxRotations), http.StatusBadRequest)
		return
	}

	if err := s.controller.FeedNow(r.Context(), req.Rotations); err != nil {
		log.Printf("[ERROR] failed to feed: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, map[string]interface{}{"status": "ok", "rotations": req.Rotations})
}

// historyHandler returns recent dispensing events, newest first
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			renderError(w, r, fmt.Errorf("invalid limit"), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	events, err := s.history.RecentEvents(r.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] failed to get history: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"events": events})
}

// setClockHandler sets the device wall clock
func (s *Server) setClockHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Hour   int `json:"hour"`
		Minute int `json:"minute"`
		Second int `json:"second"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}

	target := clock.Snapshot{Hour: req.Hour, Minute: req.Minute, Second: req.Second}
	if !target.Valid() {
		renderError(w, r, fmt.Errorf("invalid time %02d:%02d:%02d", req.Hour, req.Minute, req.Second),
			http.StatusBadRequest)
		return
	}

	if err := s.controller.SetClock(r.Context(), target); err != nil {
		log.Printf("[ERROR] failed to set clock: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, map[string]interface{}{"status": "ok", "time": target.String()})
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
