package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/logger"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/reminder"
	"github.com/julianstephens/dosely/internal/resolver"
)

// Handler holds the dependencies of the HTTP handlers. Scheduler may be nil when the
// server runs without reminders.
type Handler struct {
	Resolver  *resolver.Resolver
	Scheduler *reminder.Scheduler
}

func NewHandler(res *resolver.Resolver, sched *reminder.Scheduler) *Handler {
	return &Handler{Resolver: res, Scheduler: sched}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetToday resolves and returns today's view. A store failure still answers 200 with
// the last known view flagged stale.
func (h *Handler) GetToday(w http.ResponseWriter, r *http.Request) {
	v, err := h.Resolver.ResolveToday(r.Context(), nil)
	if err != nil {
		logger.Warn("Serving stale view", "error", err)
	}
	writeJSON(w, http.StatusOK, toTodayResponse(v))
}

func (h *Handler) SetCheck(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	part, err := models.ParseDayPart(req.DayPart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid day_part", err)
		return
	}
	if req.ItemID <= 0 {
		writeError(w, http.StatusBadRequest, "item_id must be positive", nil)
		return
	}

	if err := h.Resolver.Toggle(r.Context(), part, req.ItemID, req.Checked); err != nil {
		writeStoreError(w, err)
		return
	}
	h.writeLast(w)
}

func (h *Handler) SetWorkout(w http.ResponseWriter, r *http.Request) {
	var req WorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.Resolver.SetWorkoutDayFlag(r.Context(), req.On); err != nil {
		writeStoreError(w, err)
		return
	}
	h.writeLast(w)
}

func (h *Handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	var armed map[reminder.SlotID]time.Time
	if h.Scheduler != nil {
		armed = h.Scheduler.Armed()
	}

	out := make([]ReminderDTO, 0, len(reminder.Slots))
	for _, slot := range reminder.Slots {
		dto := ReminderDTO{Slot: slot.Name, ID: int(slot.ID), At: slot.At()}
		if at, ok := armed[slot.ID]; ok {
			dto.NextAt = at
		}
		out = append(out, dto)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) writeLast(w http.ResponseWriter) {
	v, ok := h.Resolver.Last()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toTodayResponse(v))
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, apperrors.ErrStoreUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "store unavailable", err)
		return
	}
	writeError(w, http.StatusBadRequest, "request failed", err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
