package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/julianstephens/dosely/internal/constants"
	"github.com/julianstephens/dosely/internal/models"
)

// TestStore_Integration tests the PostgreSQL store with a real database.
// Set POSTGRES_TEST_URL to run this test, for example
// POSTGRES_TEST_URL="postgres://dosely@localhost:5432/dosely_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	if err := store.ClearAssignments(ctx); err != nil {
		t.Fatalf("Failed to clear assignments: %v", err)
	}
	if err := store.ClearItems(ctx); err != nil {
		t.Fatalf("Failed to clear items: %v", err)
	}

	t.Run("Settings", func(t *testing.T) {
		settings, err := store.GetSettings(ctx)
		if err != nil {
			t.Fatalf("Failed to get settings: %v", err)
		}
		if settings.Timezone != constants.DefaultTimezone {
			t.Errorf("Expected timezone %s, got %s", constants.DefaultTimezone, settings.Timezone)
		}

		settings.RetentionDays = 30
		if err := store.SaveSettings(ctx, settings); err != nil {
			t.Fatalf("Failed to save settings: %v", err)
		}
		updated, err := store.GetSettings(ctx)
		if err != nil {
			t.Fatalf("Failed to get updated settings: %v", err)
		}
		if updated.RetentionDays != 30 {
			t.Errorf("Expected retention 30, got %d", updated.RetentionDays)
		}
	})

	t.Run("ItemsAndAssignments", func(t *testing.T) {
		ids, err := store.InsertItems(ctx, []models.Item{
			{Name: "Creatine", SortDefault: 0, WorkoutRelated: true},
			{Name: "Vitamin D", SortDefault: 1},
		})
		if err != nil {
			t.Fatalf("Failed to insert items: %v", err)
		}
		if len(ids) != 2 || ids[0] >= ids[1] {
			t.Fatalf("Expected two ascending ids, got %v", ids)
		}

		days, err := models.EncodeDays([]models.Weekday{models.Monday})
		if err != nil {
			t.Fatalf("Failed to encode days: %v", err)
		}
		err = store.InsertAssignments(ctx, []models.Assignment{
			{ItemID: ids[1], DayPart: models.DayPartMorning, SlotIndex: 0},
			{ItemID: ids[0], DayPart: models.DayPartMorning, SlotIndex: 1, DaysJSON: days},
		})
		if err != nil {
			t.Fatalf("Failed to insert assignments: %v", err)
		}

		got, err := store.GetAllAssignments(ctx)
		if err != nil {
			t.Fatalf("Failed to get assignments: %v", err)
		}
		if len(got) != 2 || got[0].ItemID != ids[1] || got[1].ItemID != ids[0] {
			t.Errorf("Assignments not returned in insertion order: %+v", got)
		}

		if err := store.DeleteItem(ctx, ids[0]); err != nil {
			t.Fatalf("Failed to delete item: %v", err)
		}
		got, _ = store.GetAllAssignments(ctx)
		if len(got) != 1 {
			t.Errorf("Expected 1 assignment after delete, got %d", len(got))
		}
	})

	t.Run("Checks", func(t *testing.T) {
		check := models.DailyCheck{DateKey: "2000-01-05", ItemID: 1, DayPart: models.DayPartNight, Checked: true}
		if err := store.UpsertCheck(ctx, check); err != nil {
			t.Fatalf("Failed to upsert check: %v", err)
		}
		check.Checked = false
		if err := store.UpsertCheck(ctx, check); err != nil {
			t.Fatalf("Failed to upsert check: %v", err)
		}
		checks, err := store.GetChecksForDayPart(ctx, "2000-01-05", models.DayPartNight)
		if err != nil {
			t.Fatalf("Failed to get checks: %v", err)
		}
		if len(checks) != 1 || checks[0].Checked {
			t.Errorf("Expected a single unchecked record, got %+v", checks)
		}
		if _, err := store.PurgeChecksBefore(ctx, "2000-01-06"); err != nil {
			t.Fatalf("Failed to purge: %v", err)
		}
	})

	t.Run("WorkoutFlag", func(t *testing.T) {
		on, err := store.GetWorkoutFlag(ctx, "1999-12-31")
		if err != nil || on {
			t.Fatalf("Expected missing flag to read false, got %v %v", on, err)
		}
		if err := store.SetWorkoutFlag(ctx, "1999-12-31", true); err != nil {
			t.Fatalf("Failed to set flag: %v", err)
		}
		on, _ = store.GetWorkoutFlag(ctx, "1999-12-31")
		if !on {
			t.Error("Expected flag to be on")
		}
	})
}
