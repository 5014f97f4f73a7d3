package routine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/dosely/internal/cli"
	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/resolver"
)

type TodayCmd struct {
	Workout string `help:"Workout-day override: auto uses the stored flag." enum:"auto,on,off" default:"auto"`
	JSON    bool   `help:"Print the view as JSON."`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	background := cmdContext()
	res, err := ctx.Resolver(background)
	if err != nil {
		return err
	}

	var override *bool
	switch c.Workout {
	case "on":
		on := true
		override = &on
	case "off":
		off := false
		override = &off
	}

	v, err := res.ResolveToday(background, override)
	if err != nil {
		if !errors.Is(err, apperrors.ErrStoreUnavailable) {
			return err
		}
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if c.JSON {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal view: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printView(v)
	return nil
}

func printView(v resolver.View) {
	fmt.Printf("%s (%s)", v.DateKey, v.Weekday)
	if v.IsSpecialWorkoutWeekday {
		if v.WorkoutDayActive {
			fmt.Print("  workout day")
		} else {
			fmt.Print("  rest day")
		}
	}
	fmt.Println()
	if v.Stale {
		fmt.Println("(showing last known state)")
	}

	for _, part := range models.AllDayParts() {
		entries := v.Entries[part]
		fmt.Printf("\n%s\n", part)
		if len(entries) == 0 {
			fmt.Println("  -")
			continue
		}
		for _, e := range entries {
			box := "[ ]"
			if v.IsChecked(part, e.Item.ID) {
				box = "[x]"
			}
			fmt.Printf("  %s %3d  %s\n", box, e.Item.ID, e.Item.Name)
		}
	}

	fmt.Printf("\n%d remaining\n", resolver.Remaining(v))
}
