package models

import (
	"fmt"
	"strings"
)

// DayPart is one of the four tracked periods of a day, in display order.
type DayPart int

const (
	DayPartWake DayPart = iota
	DayPartMorning
	DayPartEvening
	DayPartNight
)

// DayPartEncodingVersion identifies the storage encoding table below. Bump it (and add a
// migration) if a stored name ever changes.
const DayPartEncodingVersion = 1

var dayPartNames = [...]string{
	DayPartWake:    "WAKE",
	DayPartMorning: "MORNING",
	DayPartEvening: "EVENING",
	DayPartNight:   "NIGHT",
}

// AllDayParts returns the day-parts in their fixed order.
func AllDayParts() []DayPart {
	return []DayPart{DayPartWake, DayPartMorning, DayPartEvening, DayPartNight}
}

func (p DayPart) Valid() bool {
	return p >= DayPartWake && p <= DayPartNight
}

func (p DayPart) String() string {
	if !p.Valid() {
		return fmt.Sprintf("DayPart(%d)", int(p))
	}
	return dayPartNames[p]
}

// Encode returns the persisted name of the day-part.
func (p DayPart) Encode() (string, error) {
	if !p.Valid() {
		return "", fmt.Errorf("invalid day part %d", int(p))
	}
	return dayPartNames[p], nil
}

// ParseDayPart decodes a persisted or user-supplied day-part name (case-insensitive).
func ParseDayPart(s string) (DayPart, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range dayPartNames {
		if n == name {
			return DayPart(i), nil
		}
	}
	return 0, fmt.Errorf("invalid day part: %q (expected one of WAKE, MORNING, EVENING, NIGHT)", s)
}

func (p DayPart) MarshalText() ([]byte, error) {
	s, err := p.Encode()
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func (p *DayPart) UnmarshalText(b []byte) error {
	parsed, err := ParseDayPart(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
