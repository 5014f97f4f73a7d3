package models

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/julianstephens/dosely/internal/errors"
)

// Item is a trackable supplement or medication.
type Item struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	SortDefault    int    `json:"sort_default"`
	SortWorkout    *int   `json:"sort_workout,omitempty"`
	WorkoutRelated bool   `json:"workout_related"`
}

// EffectiveSort returns the ordering key for the item. On an active workout day the
// workout sort is used when set, otherwise the default sort.
func (i Item) EffectiveSort(workoutDay bool) int {
	if workoutDay && i.SortWorkout != nil {
		return *i.SortWorkout
	}
	return i.SortDefault
}

func (i *Item) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("item name cannot be empty")
	}
	return nil
}

// Assignment binds an item to a day-part slot, optionally limited to some weekdays.
type Assignment struct {
	ItemID    int64   `json:"item_id"`
	DayPart   DayPart `json:"day_part"`
	SlotIndex int     `json:"slot_index"`
	DaysJSON  *string `json:"days_json,omitempty"` // JSON array of weekday abbreviations; nil means every day
}

func (a *Assignment) Validate() error {
	if a.ItemID <= 0 {
		return fmt.Errorf("assignment item id must be positive")
	}
	if !a.DayPart.Valid() {
		return fmt.Errorf("invalid day part %d", int(a.DayPart))
	}
	if a.SlotIndex < 0 {
		return fmt.Errorf("slot index cannot be negative")
	}
	return nil
}

// Days decodes the weekday filter. It returns nil when the assignment has no filter.
func (a Assignment) Days() ([]Weekday, error) {
	if a.DaysJSON == nil {
		return nil, nil
	}
	var raw []string
	if err := json.Unmarshal([]byte(*a.DaysJSON), &raw); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", apperrors.ErrMalformedDaysFilter, *a.DaysJSON, err)
	}
	days := make([]Weekday, 0, len(raw))
	for _, r := range raw {
		w, err := ParseWeekday(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", apperrors.ErrMalformedDaysFilter, *a.DaysJSON, err)
		}
		days = append(days, w)
	}
	return days, nil
}

// ActiveOn reports whether the assignment applies on weekday w. A filter that cannot be
// decoded fails open: the assignment is active and the decode error is returned alongside.
func (a Assignment) ActiveOn(w Weekday) (bool, error) {
	days, err := a.Days()
	if err != nil {
		return true, err
	}
	if a.DaysJSON == nil {
		return true, nil
	}
	for _, d := range days {
		if d == w {
			return true, nil
		}
	}
	return false, nil
}

// EncodeDays builds a DaysJSON value from a weekday list. An empty list yields nil.
func EncodeDays(days []Weekday) (*string, error) {
	if len(days) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(days)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// DailyCheck records whether an item was taken in a day-part on a given date.
type DailyCheck struct {
	DateKey string  `json:"date_key"` // YYYY-MM-DD in the reference timezone
	ItemID  int64   `json:"item_id"`
	DayPart DayPart `json:"day_part"`
	Checked bool    `json:"checked"`
}
