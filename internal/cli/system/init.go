package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/logger"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/storage"
	"github.com/julianstephens/dosely/internal/storage/postgres"
	"github.com/julianstephens/dosely/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing SQLite database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
	NoSeed bool   `name:"no-seed" help:"Do not insert the default item catalog."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.removeExisting(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized dosely storage at: %s\n", ctx.Store.GetConfigPath())

	background := context.Background()
	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(background, ctx.Store, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
		return nil
	}

	if c.NoSeed {
		return nil
	}
	res, err := ctx.Resolver(background)
	if err != nil {
		return err
	}
	n, err := res.Seed(background)
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	if n > 0 {
		fmt.Printf("Seeded %d items\n", n)
	}
	return nil
}

func (c *InitCmd) removeExisting(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return errors.New("--force is only supported for SQLite databases")
	}

	dbPath := ctx.Store.GetConfigPath()
	if abs, err := filepath.Abs(dbPath); err == nil {
		dbPath = abs
	}
	if c.Source != "" {
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func openSource(source string) (storage.Provider, error) {
	if postgres.IsConnString(source) {
		if valid, err := postgres.ValidateConnString(source); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return nil, err
		}
		return postgres.New(source), nil
	}
	return sqlite.NewStore(source), nil
}

// migrateData copies settings, items, assignments and checks from source into dest.
// Item ids are reassigned by the destination; references are remapped accordingly.
func (c *InitCmd) migrateData(ctx context.Context, dest storage.Provider, source string) error {
	src, err := openSource(source)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	fmt.Println("  Migrating settings...")
	settings, err := src.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := dest.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Migrating items...")
	items, err := src.GetAllItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to get items from source: %w", err)
	}
	newIDs, err := dest.InsertItems(ctx, items)
	if err != nil {
		return fmt.Errorf("failed to insert items: %w", err)
	}
	idMap := make(map[int64]int64, len(items))
	for i, item := range items {
		idMap[item.ID] = newIDs[i]
	}
	fmt.Printf("    Migrated %d items\n", len(items))

	fmt.Println("  Migrating assignments...")
	assignments, err := src.GetAllAssignments(ctx)
	if err != nil {
		return fmt.Errorf("failed to get assignments from source: %w", err)
	}
	mapped := make([]models.Assignment, 0, len(assignments))
	for _, a := range assignments {
		id, ok := idMap[a.ItemID]
		if !ok {
			logger.Warn("Skipping assignment with broken reference", "item_id", a.ItemID, "day_part", a.DayPart)
			continue
		}
		a.ItemID = id
		mapped = append(mapped, a)
	}
	if err := dest.InsertAssignments(ctx, mapped); err != nil {
		return fmt.Errorf("failed to insert assignments: %w", err)
	}
	fmt.Printf("    Migrated %d assignments\n", len(mapped))

	fmt.Println("  Migrating daily checks...")
	checks, err := src.GetAllChecks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get checks from source: %w", err)
	}
	migrated := 0
	for _, check := range checks {
		id, ok := idMap[check.ItemID]
		if !ok {
			continue
		}
		check.ItemID = id
		if err := dest.UpsertCheck(ctx, check); err != nil {
			return fmt.Errorf("failed to copy check for %s: %w", check.DateKey, err)
		}
		migrated++
	}
	fmt.Printf("    Migrated %d checks\n", migrated)

	return nil
}
