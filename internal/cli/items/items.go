package items

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/models"
)

type ItemListCmd struct{}

func (c *ItemListCmd) Run(ctx *cli.Context) error {
	background := context.Background()
	items, err := ctx.Store.GetAllItems(background)
	if err != nil {
		return err
	}
	assignments, err := ctx.Store.GetAllAssignments(background)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No items. Run 'dosely init' to seed the default catalog or 'dosely items add'.")
		return nil
	}

	byItem := make(map[int64][]string)
	for _, a := range assignments {
		byItem[a.ItemID] = append(byItem[a.ItemID], describeAssignment(a))
	}

	for _, item := range items {
		sort := fmt.Sprintf("%d", item.SortDefault)
		if item.SortWorkout != nil {
			sort += fmt.Sprintf("/%d", *item.SortWorkout)
		}
		fmt.Printf("%4d  %-32s sort %-6s %s\n", item.ID, item.Name, sort, strings.Join(byItem[item.ID], ", "))
	}
	return nil
}

func describeAssignment(a models.Assignment) string {
	desc := a.DayPart.String()
	if a.SlotIndex > 0 {
		desc += fmt.Sprintf("#%d", a.SlotIndex)
	}
	days, err := a.Days()
	if err != nil {
		return desc + " (invalid days)"
	}
	if len(days) > 0 {
		names := make([]string, 0, len(days))
		for _, d := range days {
			names = append(names, string(d))
		}
		desc += " [" + strings.Join(names, ",") + "]"
	}
	return desc
}

type ItemAddCmd struct {
	Name        string   `help:"Item name." required:""`
	Part        []string `help:"Day parts the item is taken in (wake, morning, evening, night)." required:"" sep:","`
	Days        []string `help:"Limit to these weekdays (MON,TUE,...). Empty means every day." sep:","`
	Slot        int      `help:"Slot index of the new assignments within each day part."`
	Sort        int      `help:"Ordering key within a day part (lower first)."`
	WorkoutSort *int     `name:"workout-sort" help:"Ordering key on active workout days."`
	Workout     bool     `help:"Mark the item as workout related."`
}

func (c *ItemAddCmd) Run(ctx *cli.Context) error {
	item := models.Item{
		Name:           strings.TrimSpace(c.Name),
		SortDefault:    c.Sort,
		SortWorkout:    c.WorkoutSort,
		WorkoutRelated: c.Workout,
	}
	if err := item.Validate(); err != nil {
		return err
	}

	parts, err := parseParts(c.Part)
	if err != nil {
		return err
	}
	days, err := parseDays(c.Days)
	if err != nil {
		return err
	}

	background := context.Background()
	ids, err := ctx.Store.InsertItems(background, []models.Item{item})
	if err != nil {
		return err
	}

	if err := ctx.Store.InsertAssignments(background, buildAssignments(ids[0], parts, c.Slot, days)); err != nil {
		// Roll the item back so it does not linger unassigned.
		if delErr := ctx.Store.DeleteItem(background, ids[0]); delErr != nil {
			return fmt.Errorf("failed to add assignments: %w (cleanup failed: %v)", err, delErr)
		}
		return fmt.Errorf("failed to add assignments: %w", err)
	}

	fmt.Printf("✓ Added item %d: %s\n", ids[0], item.Name)
	return nil
}

// ItemAssignCmd adds assignments to an existing item. A second slot in the same day
// part lets an item follow a different weekday filter there.
type ItemAssignCmd struct {
	ID   int64    `arg:"" help:"Id of the item."`
	Part []string `help:"Day parts to assign (wake, morning, evening, night)." required:"" sep:","`
	Days []string `help:"Limit to these weekdays (MON,TUE,...). Empty means every day." sep:","`
	Slot int      `help:"Slot index within each day part." required:""`
}

func (c *ItemAssignCmd) Run(ctx *cli.Context) error {
	background := context.Background()
	item, err := findItem(background, ctx, c.ID)
	if err != nil {
		return err
	}
	parts, err := parseParts(c.Part)
	if err != nil {
		return err
	}
	days, err := parseDays(c.Days)
	if err != nil {
		return err
	}

	if err := ctx.Store.InsertAssignments(background, buildAssignments(item.ID, parts, c.Slot, days)); err != nil {
		return fmt.Errorf("failed to add assignments: %w", err)
	}
	fmt.Printf("✓ Assigned %s to %d day part(s) in slot %d\n", item.Name, len(parts), c.Slot)
	return nil
}

// ItemEditCmd changes an item in place. Passing --part replaces all of its assignments.
type ItemEditCmd struct {
	ID            int64    `arg:"" help:"Id of the item to edit."`
	Name          *string  `help:"New name."`
	Sort          *int     `help:"Ordering key within a day part."`
	WorkoutSort   *int     `name:"workout-sort" help:"Ordering key on active workout days."`
	NoWorkoutSort bool     `name:"no-workout-sort" help:"Drop the workout ordering key."`
	Workout       string   `help:"Mark the item as workout related (on|off)." enum:",on,off" default:""`
	Part          []string `help:"Replace assignments with these day parts." sep:","`
	Days          []string `help:"Weekday filter for the replacement assignments." sep:","`
	Slot          int      `help:"Slot index for the replacement assignments."`
}

func (c *ItemEditCmd) Run(ctx *cli.Context) error {
	if c.WorkoutSort != nil && c.NoWorkoutSort {
		return fmt.Errorf("--workout-sort and --no-workout-sort are mutually exclusive")
	}
	if len(c.Part) == 0 && len(c.Days) > 0 {
		return fmt.Errorf("--days requires --part")
	}

	background := context.Background()
	item, err := findItem(background, ctx, c.ID)
	if err != nil {
		return err
	}

	if c.Name != nil {
		item.Name = strings.TrimSpace(*c.Name)
	}
	if c.Sort != nil {
		item.SortDefault = *c.Sort
	}
	if c.WorkoutSort != nil {
		item.SortWorkout = c.WorkoutSort
	}
	if c.NoWorkoutSort {
		item.SortWorkout = nil
	}
	if c.Workout != "" {
		item.WorkoutRelated = c.Workout == "on"
	}

	var assignments []models.Assignment
	if len(c.Part) > 0 {
		parts, err := parseParts(c.Part)
		if err != nil {
			return err
		}
		days, err := parseDays(c.Days)
		if err != nil {
			return err
		}
		assignments = buildAssignments(item.ID, parts, c.Slot, days)
	}

	if err := ctx.Store.UpdateItem(background, item); err != nil {
		return err
	}
	if assignments != nil {
		if err := ctx.Store.DeleteAssignmentsForItem(background, item.ID); err != nil {
			return fmt.Errorf("failed to clear assignments: %w", err)
		}
		if err := ctx.Store.InsertAssignments(background, assignments); err != nil {
			return fmt.Errorf("failed to add assignments: %w", err)
		}
	}

	fmt.Printf("✓ Updated item %d: %s\n", item.ID, item.Name)
	return nil
}

func findItem(background context.Context, ctx *cli.Context, id int64) (models.Item, error) {
	items, err := ctx.Store.GetAllItems(background)
	if err != nil {
		return models.Item{}, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return models.Item{}, fmt.Errorf("item %d not found", id)
}

// parseParts decodes day-part names, dropping repeats.
func parseParts(names []string) ([]models.DayPart, error) {
	parts := make([]models.DayPart, 0, len(names))
	for _, p := range names {
		part, err := models.ParseDayPart(p)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(parts, part) {
			parts = append(parts, part)
		}
	}
	return parts, nil
}

func parseDays(names []string) (*string, error) {
	var weekdays []models.Weekday
	for _, d := range names {
		w, err := models.ParseWeekday(d)
		if err != nil {
			return nil, err
		}
		weekdays = append(weekdays, w)
	}
	days, err := models.EncodeDays(weekdays)
	if err != nil {
		return nil, fmt.Errorf("failed to encode days: %w", err)
	}
	return days, nil
}

func buildAssignments(itemID int64, parts []models.DayPart, slot int, days *string) []models.Assignment {
	out := make([]models.Assignment, 0, len(parts))
	for _, part := range parts {
		out = append(out, models.Assignment{ItemID: itemID, DayPart: part, SlotIndex: slot, DaysJSON: days})
	}
	return out
}

type ItemDeleteCmd struct {
	ID int64 `arg:"" help:"Id of the item to delete."`
}

func (c *ItemDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.DeleteItem(context.Background(), c.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted item %d and its assignments\n", c.ID)
	return nil
}
