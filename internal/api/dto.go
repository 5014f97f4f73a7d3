package api

import (
	"time"

	"github.com/julianstephens/dosely/internal/resolver"
)

type CheckRequest struct {
	DayPart string `json:"day_part"`
	ItemID  int64  `json:"item_id"`
	Checked bool   `json:"checked"`
}

type WorkoutRequest struct {
	On bool `json:"on"`
}

// TodayResponse is the view snapshot plus derived counters.
type TodayResponse struct {
	resolver.View
	Remaining int `json:"remaining"`
}

type ReminderDTO struct {
	Slot   string    `json:"slot"`
	ID     int       `json:"id"`
	At     string    `json:"at"`
	NextAt time.Time `json:"next_at,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toTodayResponse(v resolver.View) TodayResponse {
	return TodayResponse{View: v, Remaining: resolver.Remaining(v)}
}
