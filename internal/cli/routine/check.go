package routine

import (
	"context"
	"fmt"

	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/models"
)

// cmdContext is the context for one-shot commands.
func cmdContext() context.Context {
	return context.Background()
}

type CheckCmd struct {
	Part   string `arg:"" help:"Day part (wake, morning, evening, night)."`
	ItemID int64  `arg:"" name:"item-id" help:"Item id as shown by 'dosely today'."`
}

func (c *CheckCmd) Run(ctx *cli.Context) error {
	return setCheck(ctx, c.Part, c.ItemID, true)
}

type UncheckCmd struct {
	Part   string `arg:"" help:"Day part (wake, morning, evening, night)."`
	ItemID int64  `arg:"" name:"item-id" help:"Item id as shown by 'dosely today'."`
}

func (c *UncheckCmd) Run(ctx *cli.Context) error {
	return setCheck(ctx, c.Part, c.ItemID, false)
}

func setCheck(ctx *cli.Context, partName string, itemID int64, checked bool) error {
	part, err := models.ParseDayPart(partName)
	if err != nil {
		return err
	}

	background := cmdContext()
	res, err := ctx.Resolver(background)
	if err != nil {
		return err
	}
	if err := res.Toggle(background, part, itemID, checked); err != nil {
		return err
	}

	verb := "Checked"
	if !checked {
		verb = "Unchecked"
	}
	fmt.Printf("✓ %s item %d in %s\n", verb, itemID, part)
	return nil
}
