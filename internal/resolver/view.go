package resolver

import "github.com/julianstephens/dosely/internal/models"

// Entry is one resolved item in a day-part, with the sort key that placed it.
type Entry struct {
	Item    models.Item    `json:"item"`
	DayPart models.DayPart `json:"day_part"`
	Sort    int            `json:"sort"`
}

// View is an immutable snapshot of today's routine. Consumers must not modify the maps
// or slices it holds; a new View is built for every refresh.
type View struct {
	DateKey                 string                            `json:"date_key"`
	Weekday                 models.Weekday                    `json:"weekday"`
	Entries                 map[models.DayPart][]Entry        `json:"entries"`
	Checked                 map[models.DayPart]map[int64]bool `json:"checked"`
	WorkoutDayActive        bool                              `json:"workout_day_active"`
	IsSpecialWorkoutWeekday bool                              `json:"is_special_workout_weekday"`
	Stale                   bool                              `json:"stale"`
}

func emptyView(dateKey string, weekday models.Weekday) View {
	v := View{
		DateKey:                 dateKey,
		Weekday:                 weekday,
		Entries:                 make(map[models.DayPart][]Entry, 4),
		Checked:                 make(map[models.DayPart]map[int64]bool, 4),
		IsSpecialWorkoutWeekday: weekday.IsWorkoutWeekday(),
	}
	for _, p := range models.AllDayParts() {
		v.Entries[p] = []Entry{}
		v.Checked[p] = map[int64]bool{}
	}
	return v
}

// IsChecked reports whether itemID is checked in part.
func (v View) IsChecked(part models.DayPart, itemID int64) bool {
	return v.Checked[part][itemID]
}

// Remaining counts resolved entries that are not checked yet.
func Remaining(v View) int {
	n := 0
	for part, entries := range v.Entries {
		for _, e := range entries {
			if !v.IsChecked(part, e.Item.ID) {
				n++
			}
		}
	}
	return n
}
