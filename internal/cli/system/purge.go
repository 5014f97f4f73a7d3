package system

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/clock"
	"github.com/julianstephens/dosely/internal/logger"
)

// PurgeCmd deletes daily checks older than the retention window.
type PurgeCmd struct {
	KeepDays int  `name:"keep-days" help:"Days of history to keep (defaults to the retention_days setting)."`
	Yes      bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *PurgeCmd) Run(ctx *cli.Context) error {
	background := context.Background()

	keep := c.KeepDays
	if keep == 0 {
		settings, err := ctx.Store.GetSettings(background)
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		keep = settings.RetentionDays
	}
	if keep < 1 {
		return fmt.Errorf("keep-days must be at least 1")
	}

	clk, err := ctx.Clock(background)
	if err != nil {
		return err
	}
	keepFrom, err := clock.AddDays(clk.Now().DateKey, -keep)
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		if err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete daily checks recorded before %s?", keepFrom)).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Purge cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	n, err := ctx.Store.PurgeChecksBefore(background, keepFrom)
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}
	logger.Info("Purged daily checks", "before", keepFrom, "count", n)
	fmt.Printf("✓ Deleted %d check(s) recorded before %s\n", n, keepFrom)
	return nil
}
