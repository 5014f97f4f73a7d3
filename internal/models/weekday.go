package models

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is a three-letter weekday abbreviation as stored in day filters.
type Weekday string

const (
	Monday    Weekday = "MON"
	Tuesday   Weekday = "TUE"
	Wednesday Weekday = "WED"
	Thursday  Weekday = "THU"
	Friday    Weekday = "FRI"
	Saturday  Weekday = "SAT"
	Sunday    Weekday = "SUN"
)

var weekdayByTime = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

var weekdayByName = map[string]Weekday{
	"MONDAY":    Monday,
	"TUESDAY":   Tuesday,
	"WEDNESDAY": Wednesday,
	"THURSDAY":  Thursday,
	"FRIDAY":    Friday,
	"SATURDAY":  Saturday,
	"SUNDAY":    Sunday,
}

// WorkoutWeekdays are the days on which the workout toggle is offered.
var WorkoutWeekdays = []Weekday{Monday, Wednesday, Friday}

// WeekdayOf returns the abbreviation for t's weekday in t's own location.
func WeekdayOf(t time.Time) Weekday {
	return weekdayByTime[t.Weekday()]
}

// ParseWeekday accepts abbreviations or full English names, any case.
func ParseWeekday(s string) (Weekday, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if w, ok := weekdayByName[v]; ok {
		return w, nil
	}
	switch w := Weekday(v); w {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return w, nil
	}
	return "", fmt.Errorf("invalid weekday: %s", s)
}

// IsWorkoutWeekday reports whether w is one of MON, WED, FRI.
func (w Weekday) IsWorkoutWeekday() bool {
	for _, d := range WorkoutWeekdays {
		if d == w {
			return true
		}
	}
	return false
}
