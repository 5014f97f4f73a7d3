package resolver

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/logger"
	"github.com/julianstephens/dosely/internal/models"
)

// workoutMarker tags catalog names of workout-related supplements.
const workoutMarker = "(workout)"

var seedCatalog = []string{
	"Multivitamin",
	"Vitamin D",
	"Vitamin C",
	"Magnesium",
	"Omega 3",
	"Zinc",
	"Turmeric",
	"Iron",
	"B Complex",
	"Probiotic",
	"Medication 1",
	"Medication 2",
	"Caffeine (workout)",
	"Creatine (workout)",
	"Beta-Alanine (workout)",
	"Glucosamine",
	"CoQ10",
}

type seedAssignment struct {
	name string
	part models.DayPart
	slot int
	days []models.Weekday
}

var seedRoutine = []seedAssignment{
	{name: "Multivitamin", part: models.DayPartWake},
	{name: "Vitamin D", part: models.DayPartMorning},
	{name: "Vitamin C", part: models.DayPartMorning},
	{name: "Vitamin C", part: models.DayPartNight, slot: 1, days: models.WorkoutWeekdays},
	{name: "Magnesium", part: models.DayPartNight},
	{name: "Omega 3", part: models.DayPartEvening},
	{name: "Zinc", part: models.DayPartNight},
	{name: "Turmeric", part: models.DayPartMorning},
	{name: "Iron", part: models.DayPartMorning},
	{name: "B Complex", part: models.DayPartMorning},
	{name: "Probiotic", part: models.DayPartMorning},
	{name: "Medication 1", part: models.DayPartMorning},
	{name: "Medication 2", part: models.DayPartNight},
	{name: "Caffeine (workout)", part: models.DayPartWake},
	{name: "Creatine (workout)", part: models.DayPartWake},
	{name: "Beta-Alanine (workout)", part: models.DayPartWake},
	{name: "Glucosamine", part: models.DayPartEvening},
	{name: "CoQ10", part: models.DayPartMorning},
}

// SeedItems builds the first-run catalog. The default sort is the catalog index; workout
// items also use their index as the workout sort.
func SeedItems() []models.Item {
	items := make([]models.Item, 0, len(seedCatalog))
	for i, name := range seedCatalog {
		it := models.Item{Name: name, SortDefault: i}
		if strings.Contains(name, workoutMarker) {
			idx := i
			it.SortWorkout = &idx
			it.WorkoutRelated = true
		}
		items = append(items, it)
	}
	return items
}

// Seed inserts the fixed catalog and routine when the item table is empty. It returns
// the number of items inserted, zero when the store was already seeded.
func (r *Resolver) Seed(ctx context.Context) (int, error) {
	existing, err := r.store.GetAllItems(ctx)
	if err != nil {
		return 0, apperrors.StoreUnavailable(err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	items := SeedItems()
	ids, err := r.store.InsertItems(ctx, items)
	if err != nil {
		return 0, apperrors.StoreUnavailable(fmt.Errorf("failed to insert seed items: %w", err))
	}

	idByName := make(map[string]int64, len(ids))
	for i, id := range ids {
		idByName[items[i].Name] = id
	}

	assignments := make([]models.Assignment, 0, len(seedRoutine))
	for _, sa := range seedRoutine {
		id, ok := idByName[sa.name]
		if !ok {
			continue
		}
		days, err := models.EncodeDays(sa.days)
		if err != nil {
			return 0, err
		}
		assignments = append(assignments, models.Assignment{
			ItemID:    id,
			DayPart:   sa.part,
			SlotIndex: sa.slot,
			DaysJSON:  days,
		})
	}

	if err := r.store.InsertAssignments(ctx, assignments); err != nil {
		return 0, apperrors.StoreUnavailable(fmt.Errorf("failed to insert seed routine: %w", err))
	}

	logger.Info("Seeded catalog", "items", len(ids), "assignments", len(assignments))
	return len(ids), nil
}
