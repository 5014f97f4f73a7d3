package settings

import (
	"context"
	"fmt"

	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/clock"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone             *string `help:"IANA timezone for date keys and reminder times."`
	NotificationsEnabled *bool   `help:"Enable or disable reminder notifications."`
	RetentionDays        *int    `help:"Days of check history kept by 'dosely purge'."`
	FireTimeoutSec       *int    `name:"fire-timeout-sec" help:"Seconds a reminder evaluation may take before it is abandoned."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	background := context.Background()
	settings, err := ctx.Store.GetSettings(background)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Timezone:              %s\n", settings.Timezone)
		fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		fmt.Printf("  Retention:             %d days\n", settings.RetentionDays)
		fmt.Printf("  Fire Timeout:          %d s\n", settings.FireTimeoutSec)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if !clock.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone: %s", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.RetentionDays != nil {
		if *c.RetentionDays < 1 {
			return fmt.Errorf("retention days must be at least 1")
		}
		settings.RetentionDays = *c.RetentionDays
		updated = true
	}
	if c.FireTimeoutSec != nil {
		if *c.FireTimeoutSec < 1 {
			return fmt.Errorf("fire timeout must be at least 1 second")
		}
		settings.FireTimeoutSec = *c.FireTimeoutSec
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(background, settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
