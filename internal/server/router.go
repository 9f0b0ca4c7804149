package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/bradymd/trading212/internal/calendar"
	"github.com/bradymd/trading212/internal/logger"
	"github.com/bradymd/trading212/internal/model"
	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Monitor is the part of the refresh runner exposed over HTTP.
type Monitor interface {
	Refresh(ctx context.Context, force bool) model.CycleResult
	Last() (model.CycleResult, bool)
	ResetAlerts(day string) int
}

type handlers struct {
	monitor Monitor
	logger  logger.Logger
}

func NewRouter(monitor Monitor, logger logger.Logger) http.Handler {
	h := &handlers{
		monitor: monitor,
		logger:  logger.With("component", "http"),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.logRequests)

	r.Get("/healthz", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.state)
		r.Post("/refresh", h.refresh)
		r.Post("/alerts/reset", h.resetAlerts)
	})

	return r
}

func (h *handlers) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		h.logger.Debugf("%s %s %d %s request_id=%s",
			r.Method, r.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
	})
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) state(w http.ResponseWriter, _ *http.Request) {
	res, ok := h.monitor.Last()
	if !ok {
		h.writeError(w, http.StatusNotFound, "no refresh has completed yet")
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// refresh runs a cycle synchronously. ?force=false allows a fresh stored
// snapshot to be served instead of calling the API.
func (h *handlers) refresh(w http.ResponseWriter, r *http.Request) {
	force := true
	if v := r.URL.Query().Get("force"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "force must be a boolean")
			return
		}
		force = parsed
	}

	res := h.monitor.Refresh(r.Context(), force)
	if res.Err != nil {
		h.writeJSON(w, http.StatusBadGateway, res)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

func (h *handlers) resetAlerts(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if day != "" && !calendar.Valid(day) {
		h.writeError(w, http.StatusBadRequest, "day must be YYYY-MM-DD")
		return
	}

	cleared := h.monitor.ResetAlerts(day)
	h.writeJSON(w, http.StatusOK, map[string]int{"cleared": cleared})
}

func (h *handlers) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := sonic.ConfigStd.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warnf("%s: can't write response", err)
	}
}
