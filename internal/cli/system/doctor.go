package system

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/dosely/internal/backup"
	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/notifier"
)

type checkLevel int

const (
	levelFail checkLevel = iota
	levelWarn
)

type diagnostic struct {
	name    string
	level   checkLevel
	needsDB bool
	check   func(context.Context, *cli.Context) error
}

var diagnostics = []diagnostic{
	{"Schema version", levelFail, true, checkSchemaVersion},
	{"Migrations complete", levelFail, true, checkMigrationsComplete},
	{"Settings", levelFail, true, checkSettings},
	{"Item catalog", levelWarn, true, checkCatalogPresent},
	{"Assignment references", levelFail, true, checkReferences},
	{"Day filters", levelFail, true, checkDayFilters},
	{"Clock/timezone", levelFail, true, checkClockTimezone},
	{"Backups present", levelWarn, false, checkBackupsPresent},
	{"Tray notifier", levelWarn, false, checkTrayNotifier},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	background := context.Background()
	hasError := false

	dbReachable := true
	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, d := range diagnostics {
		if d.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", d.name)
			continue
		}
		err := d.check(background, ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", d.name)
		case d.level == levelWarn:
			fmt.Printf("⚠ %s: WARNING\n", d.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", d.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		return errors.New("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkSchemaVersion(_ context.Context, ctx *cli.Context) error {
	store, ok := ctx.Store.(migratable)
	if !ok {
		return nil
	}
	runner, err := store.MigrationRunner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func checkMigrationsComplete(_ context.Context, ctx *cli.Context) error {
	store, ok := ctx.Store.(migratable)
	if !ok {
		return nil
	}
	runner, err := store.MigrationRunner()
	if err != nil {
		return err
	}
	pending, err := runner.Pending()
	if err != nil {
		return err
	}
	if pending > 0 {
		return fmt.Errorf("%d pending migration(s), run 'dosely migrate'", pending)
	}
	return nil
}

func checkSettings(background context.Context, ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings(background)
	if err != nil {
		return err
	}
	if settings.RetentionDays < 1 {
		return fmt.Errorf("retention_days must be at least 1, got %d", settings.RetentionDays)
	}
	if settings.FireTimeoutSec < 1 {
		return fmt.Errorf("fire_timeout_sec must be at least 1, got %d", settings.FireTimeoutSec)
	}
	return nil
}

func checkCatalogPresent(background context.Context, ctx *cli.Context) error {
	items, err := ctx.Store.GetAllItems(background)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return errors.New("no items found, run 'dosely init' to seed the default catalog")
	}
	return nil
}

func checkReferences(background context.Context, ctx *cli.Context) error {
	items, err := ctx.Store.GetAllItems(background)
	if err != nil {
		return err
	}
	known := make(map[int64]bool, len(items))
	for _, item := range items {
		known[item.ID] = true
	}

	assignments, err := ctx.Store.GetAllAssignments(background)
	if err != nil {
		return err
	}
	broken := 0
	for _, a := range assignments {
		if !known[a.ItemID] {
			broken++
		}
	}
	if broken > 0 {
		return fmt.Errorf("%d assignment(s) reference missing items", broken)
	}
	return nil
}

func checkDayFilters(background context.Context, ctx *cli.Context) error {
	assignments, err := ctx.Store.GetAllAssignments(background)
	if err != nil {
		return err
	}
	var malformed []string
	for _, a := range assignments {
		if _, err := a.Days(); err != nil {
			malformed = append(malformed, fmt.Sprintf("item %d in %s", a.ItemID, a.DayPart))
		}
	}
	if len(malformed) > 0 {
		return fmt.Errorf("malformed day filters (treated as every day): %v", malformed)
	}
	return nil
}

func checkClockTimezone(background context.Context, ctx *cli.Context) error {
	clk, err := ctx.Clock(background)
	if err != nil {
		return err
	}
	now := clk.Now()
	if now.Time.Year() < 2000 {
		return fmt.Errorf("system clock looks wrong: %s", now.Time)
	}
	if now.Weekday != models.WeekdayOf(now.Time) {
		return fmt.Errorf("weekday mismatch for %s", now.DateKey)
	}
	return nil
}

func checkBackupsPresent(_ context.Context, ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if errors.Is(err, backup.ErrNotSQLite) {
		return nil
	}
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return errors.New("no backups found, run 'dosely backup create'")
	}
	return nil
}

func checkTrayNotifier(_ context.Context, _ *cli.Context) error {
	return notifier.New().Reachable()
}
