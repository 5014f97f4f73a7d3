// Package clock supplies "now" in the fixed reference timezone used for date keys,
// weekday filters and reminder times, so behavior does not depend on the host locale.
package clock

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata" // reference zone must resolve even on hosts without a zoneinfo database

	"github.com/julianstephens/dosely/internal/constants"
	"github.com/julianstephens/dosely/internal/models"
)

// Moment is a wall-clock instant broken down in the reference timezone.
type Moment struct {
	Time    time.Time
	DateKey string
	Weekday models.Weekday
	Hour    int
	Minute  int
}

// Clock is the calendar adapter consumed by the resolver and the reminder scheduler.
type Clock interface {
	Now() Moment
	Location() *time.Location
}

// Reference is a Clock pinned to one timezone.
type Reference struct {
	loc    *time.Location
	source func() time.Time
}

// New returns a Reference clock for the given IANA timezone backed by the system time.
// An empty timezone selects the application's reference timezone.
func New(timezone string) (*Reference, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &Reference{loc: loc, source: time.Now}, nil
}

// NewWithSource returns a Reference clock reading instants from source.
func NewWithSource(loc *time.Location, source func() time.Time) *Reference {
	return &Reference{loc: loc, source: source}
}

func (r *Reference) Location() *time.Location {
	return r.loc
}

func (r *Reference) Now() Moment {
	return At(r.source(), r.loc)
}

// At breaks t down in loc.
func At(t time.Time, loc *time.Location) Moment {
	local := t.In(loc)
	return Moment{
		Time:    local,
		DateKey: local.Format(constants.DateFormat),
		Weekday: models.WeekdayOf(local),
		Hour:    local.Hour(),
		Minute:  local.Minute(),
	}
}

// LoadLocation loads a timezone location from an IANA timezone name.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		timezone = constants.ReferenceTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// ParseDateKey parses a YYYY-MM-DD key as midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q (expected YYYY-MM-DD): %w", key, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// AddDays shifts a date key by n calendar days.
func AddDays(key string, n int) (string, error) {
	t, err := time.Parse(constants.DateFormat, key)
	if err != nil {
		return "", fmt.Errorf("invalid date key %q (expected YYYY-MM-DD): %w", key, err)
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// NextOccurrence returns the first instant strictly after `after` whose wall-clock time in
// loc is hour:minute:00.000. Days are stepped by calendar date, not by 24h, so DST
// transitions do not shift the target.
func NextOccurrence(after time.Time, hour, minute int, loc *time.Location) time.Time {
	local := after.In(loc)
	t := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	for !t.After(after) {
		local = local.AddDate(0, 0, 1)
		t = time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	}
	return t
}

// Manual is a settable time source for tests and dry runs.
type Manual struct {
	mu sync.Mutex
	t  time.Time
}

func NewManual(t time.Time) *Manual {
	return &Manual{t: t}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.t
}

func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.t = t
}
