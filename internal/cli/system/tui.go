package system

import (
	"context"

	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	background := context.Background()
	res, err := ctx.Resolver(background)
	if err != nil {
		return err
	}
	return tui.Run(background, res)
}
