package routine

import (
	"fmt"

	"github.com/julianstephens/dosely/internal/cli"
)

type WorkoutCmd struct {
	State string `arg:"" help:"Turn today's workout flag on or off." enum:"on,off"`
}

func (c *WorkoutCmd) Run(ctx *cli.Context) error {
	background := cmdContext()
	res, err := ctx.Resolver(background)
	if err != nil {
		return err
	}

	on := c.State == "on"
	if err := res.SetWorkoutDayFlag(background, on); err != nil {
		return err
	}

	now := res.Clock().Now()
	fmt.Printf("✓ Workout flag for %s set to %s\n", now.DateKey, c.State)
	if !now.Weekday.IsWorkoutWeekday() {
		fmt.Printf("  Note: %s is not a workout weekday; the flag has no effect today.\n", now.Weekday)
	}
	return nil
}
