package reminders

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/logger"
	"github.com/julianstephens/dosely/internal/notifier"
	"github.com/julianstephens/dosely/internal/reminder"
)

// FireCmd runs one reminder evaluation. It is the entry point for external schedulers
// such as a cron job or a systemd timer.
type FireCmd struct {
	Slot   string `help:"Reminder slot to fire (evening, late)." required:""`
	DryRun bool   `help:"Print the notification instead of sending it to the tray app."`
}

func (c *FireCmd) Run(ctx *cli.Context) error {
	slot, err := reminder.ParseSlot(c.Slot)
	if err != nil {
		return err
	}

	background := context.Background()
	timer := reminder.NewDeferredTimer()
	sched, err := ctx.NewScheduler(background, timer, newNotifier(c.DryRun))
	if err != nil {
		return err
	}

	res, err := ctx.Resolver(background)
	if err != nil {
		return err
	}
	now := res.Clock().Now().Time
	notified, err := sched.OnFire(background, reminder.NewFireEvent(slot.ID, now, now))
	if err != nil {
		logger.Warn("Reminder evaluation failed", "slot", slot.Name, "error", err)
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if notified {
		fmt.Printf("✓ %s: notification sent\n", slot.Name)
	} else {
		fmt.Printf("%s: nothing to remind\n", slot.Name)
	}
	if next, ok := timer.Armed(slot.ID); ok {
		fmt.Printf("  next fire: %s\n", next.Format(time.RFC3339))
	}
	return nil
}

func newNotifier(dryRun bool) reminder.Notifier {
	if dryRun {
		return notifier.NewPrinter(os.Stdout)
	}
	return notifier.New()
}

// BootCmd re-arms both reminder slots after a restart and prints their next fire times.
type BootCmd struct{}

func (c *BootCmd) Run(ctx *cli.Context) error {
	background := context.Background()
	timer := reminder.NewDeferredTimer()
	sched, err := ctx.NewScheduler(background, timer, notifier.New())
	if err != nil {
		return err
	}
	if err := sched.OnDeviceRestart(background); err != nil {
		return err
	}

	for _, slot := range reminder.Slots {
		if next, ok := timer.Armed(slot.ID); ok {
			fmt.Printf("%-14s %s  (%s)\n", slot.Name, next.Format(time.RFC3339), slot.At())
		}
	}
	return nil
}
