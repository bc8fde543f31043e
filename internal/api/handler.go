package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/johanlk/kvitt/internal/ledger"
	"github.com/johanlk/kvitt/internal/service"
)

// Handler holds all HTTP handler dependencies.
type Handler struct {
	svc *service.Service
	mux *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(svc *service.Service) http.Handler {
	h := &Handler{svc: svc, mux: http.NewServeMux()}

	h.mux.HandleFunc("POST /api/v1/users", h.registerOwner)
	h.mux.HandleFunc("POST /api/v1/events", h.createEvent)
	h.mux.HandleFunc("GET /api/v1/events", h.listEvents)
	h.mux.HandleFunc("PATCH /api/v1/events/{id}", h.editEvent)
	h.mux.HandleFunc("DELETE /api/v1/events/{id}", h.deleteEvent)
	h.mux.HandleFunc("GET /api/v1/totals", h.totals)
	h.mux.HandleFunc("GET /api/v1/status", h.status)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

type registerOwnerRequest struct {
	Name string `json:"name"`
}

// POST /api/v1/users — register a new owner.
func (h *Handler) registerOwner(w http.ResponseWriter, r *http.Request) {
	var req registerOwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	u, err := h.svc.RegisterOwner(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

type createEventRequest struct {
	Owner     string          `json:"owner"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Kind      ledger.Kind     `json:"kind"`
	Timestamp time.Time       `json:"timestamp"`
}

// POST /api/v1/events — record an income or expense event.
func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	ev, err := h.svc.CreateEvent(r.Context(), service.CreateParams{
		Owner:     req.Owner,
		Title:     req.Title,
		Amount:    req.Amount,
		Kind:      req.Kind,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

// GET /api/v1/events?owner=NAME — list an owner's events.
func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeError(w, http.StatusBadRequest, "owner query parameter is required")
		return
	}
	events, err := h.svc.GetEvents(r.Context(), owner)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if events == nil {
		events = []ledger.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"owner":  owner,
		"events": events,
	})
}

type editEventRequest struct {
	Title     *string          `json:"title"`
	Amount    *decimal.Decimal `json:"amount"`
	Kind      *ledger.Kind     `json:"kind"`
	Timestamp *time.Time       `json:"timestamp"`
}

// PATCH /api/v1/events/{id} — edit an event; omitted fields are unchanged.
func (h *Handler) editEvent(w http.ResponseWriter, r *http.Request) {
	var req editEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	ev, err := h.svc.EditEvent(r.Context(), r.PathValue("id"), service.EditParams{
		Title:     req.Title,
		Amount:    req.Amount,
		Kind:      req.Kind,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// DELETE /api/v1/events/{id} — remove an event.
func (h *Handler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/totals?owner=NAME — income, expense and balance totals.
func (h *Handler) totals(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeError(w, http.StatusBadRequest, "owner query parameter is required")
		return
	}
	totals, err := h.svc.GetTotals(r.Context(), owner)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// GET /api/v1/status?owner=NAME — how far behind the owner is.
func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeError(w, http.StatusBadRequest, "owner query parameter is required")
		return
	}
	status, err := h.svc.GetStatus(r.Context(), owner)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// GET /healthz — always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
