package reminder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/dosely/internal/constants"
)

// SlotID identifies a daily reminder. It doubles as the notification id.
type SlotID int

const (
	EveningCheck SlotID = constants.EveningCheckSlotID
	LateCheck    SlotID = constants.LateCheckSlotID
)

// Slot is a reminder that fires once a day at a fixed wall-clock time.
type Slot struct {
	ID     SlotID
	Name   string
	Hour   int
	Minute int
	Title  string
	Body   string
}

var Slots = []Slot{
	{
		ID:     EveningCheck,
		Name:   "EVENING_CHECK",
		Hour:   constants.EveningCheckHour,
		Minute: constants.EveningCheckMinute,
		Title:  constants.EveningCheckTitle,
		Body:   constants.EveningCheckBody,
	},
	{
		ID:     LateCheck,
		Name:   "LATE_CHECK",
		Hour:   constants.LateCheckHour,
		Minute: constants.LateCheckMinute,
		Title:  constants.LateCheckTitle,
		Body:   constants.LateCheckBody,
	},
}

func SlotByID(id SlotID) (Slot, bool) {
	for _, s := range Slots {
		if s.ID == id {
			return s, true
		}
	}
	return Slot{}, false
}

// ParseSlot accepts a slot name ("evening", "late", "EVENING_CHECK") or numeric id.
func ParseSlot(s string) (Slot, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if id, err := strconv.Atoi(name); err == nil {
		if slot, ok := SlotByID(SlotID(id)); ok {
			return slot, nil
		}
	}
	for _, slot := range Slots {
		if name == slot.Name || name+"_CHECK" == slot.Name {
			return slot, nil
		}
	}
	return Slot{}, fmt.Errorf("unknown reminder slot %q (expected evening or late)", s)
}

func (id SlotID) String() string {
	if s, ok := SlotByID(id); ok {
		return s.Name
	}
	return fmt.Sprintf("SLOT(%d)", int(id))
}

// At returns the wall-clock time of the slot formatted as HH:MM.
func (s Slot) At() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// FireEvent is delivered by a Timer when a slot's wake time is reached.
type FireEvent struct {
	ID      uuid.UUID
	Slot    SlotID
	FiredAt time.Time
	Target  time.Time
}

func NewFireEvent(slot SlotID, target, firedAt time.Time) FireEvent {
	return FireEvent{
		ID:      uuid.New(),
		Slot:    slot,
		FiredAt: firedAt,
		Target:  target,
	}
}
