package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/dosely/internal/backup"
	"github.com/julianstephens/dosely/internal/clock"
	"github.com/julianstephens/dosely/internal/logger"
	"github.com/julianstephens/dosely/internal/reminder"
	"github.com/julianstephens/dosely/internal/resolver"
	"github.com/julianstephens/dosely/internal/storage"
	"github.com/julianstephens/dosely/internal/storage/sqlite"
)

// Context is passed to every command's Run method.
type Context struct {
	Store storage.Provider
	// Timezone overrides the stored timezone setting when non-empty.
	Timezone string
	Debug    bool

	resolver *resolver.Resolver
}

// Clock returns the reference clock. The --timezone flag wins over the stored setting.
func (c *Context) Clock(ctx context.Context) (*clock.Reference, error) {
	tz := c.Timezone
	if tz == "" && c.Store != nil {
		settings, err := c.Store.GetSettings(ctx)
		if err != nil {
			logger.Warn("Failed to read timezone setting, using default", "error", err)
		} else {
			tz = settings.Timezone
		}
	}
	return clock.New(tz)
}

// Resolver returns the resolver shared by the command, creating it on first use.
func (c *Context) Resolver(ctx context.Context) (*resolver.Resolver, error) {
	if c.resolver != nil {
		return c.resolver, nil
	}
	clk, err := c.Clock(ctx)
	if err != nil {
		return nil, err
	}
	c.resolver = resolver.New(c.Store, clk)
	return c.resolver, nil
}

// NewScheduler wires a reminder scheduler to the resolver, the stored settings and the
// given timer and notifier.
func (c *Context) NewScheduler(ctx context.Context, timer reminder.Timer, notifier reminder.Notifier) (*reminder.Scheduler, error) {
	res, err := c.Resolver(ctx)
	if err != nil {
		return nil, err
	}
	sched := reminder.NewScheduler(res, c.Store, res.Clock(), timer, notifier)

	settings, err := c.Store.GetSettings(ctx)
	if err != nil {
		logger.Warn("Failed to read fire timeout, using default", "error", err)
	} else if settings.FireTimeoutSec > 0 {
		sched.SetFireTimeout(time.Duration(settings.FireTimeoutSec) * time.Second)
	}
	return sched, nil
}

// BackupManager returns a backup manager for the sqlite database file.
func (c *Context) BackupManager() (*backup.Manager, error) {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return nil, backup.ErrNotSQLite
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.BackupManager()
	if err != nil {
		logger.Debug("Skipping automatic backup", "reason", err)
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
