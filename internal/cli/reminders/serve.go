package reminders

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/dosely/internal/api"
	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/logger"
	"github.com/julianstephens/dosely/internal/reminder"
)

const shutdownTimeout = 5 * time.Second

// ServeCmd runs the reminder daemon: in-process timers for both slots plus the HTTP api.
type ServeCmd struct {
	Addr    string   `help:"HTTP listen address." default:"127.0.0.1:8765" env:"DOSELY_ADDR"`
	NoAPI   bool     `name:"no-api" help:"Run the reminder scheduler without the HTTP api."`
	DryRun  bool     `help:"Print notifications instead of sending them to the tray app."`
	Origins []string `help:"Allowed CORS origins for the api." sep:","`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := ctx.Resolver(sigCtx)
	if err != nil {
		return err
	}

	timer := reminder.NewLocalTimer()
	defer timer.Stop()
	sched, err := ctx.NewScheduler(sigCtx, timer, newNotifier(c.DryRun))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		if err := sched.OnDeviceRestart(gctx); err != nil {
			return fmt.Errorf("failed to arm reminders: %w", err)
		}
		<-gctx.Done()
		return nil
	})

	if !c.NoAPI {
		srv := api.NewServer(c.Addr, api.NewRouter(api.NewHandler(res, sched), c.Origins))

		g.Go(func() error {
			logger.Info("HTTP api listening", "addr", c.Addr)
			fmt.Printf("Serving api on http://%s\n", c.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server failed: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if _, err := res.ResolveToday(gctx, nil); err != nil {
		logger.Warn("Initial resolve failed", "error", err)
	}

	err = g.Wait()
	logger.Info("Daemon stopped")
	return err
}
