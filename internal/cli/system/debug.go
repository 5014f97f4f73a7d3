package system

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/clock"
	"github.com/julianstephens/dosely/internal/models"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings as JSON."`
	DumpChecks   *DebugDumpChecksCmd   `cmd:"" help:"Dump the daily checks of a date as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(settings)
}

type DebugDumpChecksCmd struct {
	Date string `arg:"" help:"Date to dump (YYYY-MM-DD or 'today')."`
}

func (cmd *DebugDumpChecksCmd) Run(ctx *cli.Context) error {
	background := context.Background()
	clk, err := ctx.Clock(background)
	if err != nil {
		return err
	}

	date := cmd.Date
	if date == "today" {
		date = clk.Now().DateKey
	}
	if _, err := clock.ParseDateKey(date, clk.Location()); err != nil {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD or 'today')", date)
	}

	checks := make(map[models.DayPart][]models.DailyCheck)
	for _, part := range models.AllDayParts() {
		list, err := ctx.Store.GetChecksForDayPart(background, date, part)
		if err != nil {
			return fmt.Errorf("failed to get checks: %w", err)
		}
		checks[part] = list
	}
	workout, err := ctx.Store.GetWorkoutFlag(background, date)
	if err != nil {
		return fmt.Errorf("failed to get workout flag: %w", err)
	}

	return printJSON(map[string]any{
		"date":    date,
		"workout": workout,
		"checks":  checks,
	})
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
