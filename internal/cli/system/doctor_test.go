package system

import (
	"context"
	"testing"

	"github.com/julianstephens/dosely/internal/models"
)

func TestDoctorCmd_HealthyDatabase(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor reported problems on a fresh database: %v", err)
	}
}

func TestDoctorCmd_BrokenReference(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	err := ctx.Store.InsertAssignments(context.Background(), []models.Assignment{
		{ItemID: 9999, DayPart: models.DayPartWake},
	})
	if err != nil {
		t.Fatalf("failed to insert assignment: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail on a broken reference")
	}
}

func TestDoctorCmd_UninitializedDatabase(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail when the database does not exist")
	}
}
