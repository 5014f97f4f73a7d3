// Package reminder arms the two daily reminder slots and decides, when one fires,
// whether a notification is due.
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/dosely/internal/clock"
	"github.com/julianstephens/dosely/internal/constants"
	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/logger"
	"github.com/julianstephens/dosely/internal/models"
)

// Notifier delivers user-visible notifications.
type Notifier interface {
	EnsureChannel(id, name, importance string) error
	Emit(ctx context.Context, notificationID int, title, body string) error
}

// UncheckedDetector reports whether any day-part still lacks a checked record.
type UncheckedDetector interface {
	AnyUnchecked(ctx context.Context, dateKey string) (bool, error)
}

type SettingsSource interface {
	GetSettings(ctx context.Context) (models.Settings, error)
}

type Scheduler struct {
	detector UncheckedDetector
	settings SettingsSource
	clock    clock.Clock
	timer    Timer
	notifier Notifier

	fireTimeout time.Duration

	mu    sync.Mutex
	armed map[SlotID]time.Time
}

func NewScheduler(detector UncheckedDetector, settings SettingsSource, clk clock.Clock, timer Timer, notifier Notifier) *Scheduler {
	return &Scheduler{
		detector:    detector,
		settings:    settings,
		clock:       clk,
		timer:       timer,
		notifier:    notifier,
		fireTimeout: constants.DefaultFireTimeoutSec * time.Second,
		armed:       make(map[SlotID]time.Time),
	}
}

// SetFireTimeout bounds the work done for a single fire. Non-positive values are ignored.
func (s *Scheduler) SetFireTimeout(d time.Duration) {
	if d > 0 {
		s.fireTimeout = d
	}
}

// ScheduleDaily arms every slot for its next wall-clock occurrence. Calling it again
// re-arms the same targets.
func (s *Scheduler) ScheduleDaily(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := s.clock.Now().Time
	for _, slot := range Slots {
		s.arm(slot, now)
	}
	return nil
}

// OnDeviceRestart re-arms the reminders after the host comes back up.
func (s *Scheduler) OnDeviceRestart(ctx context.Context) error {
	logger.Info("Re-arming reminders after restart")
	return s.ScheduleDaily(ctx)
}

// Armed returns the next registered fire time of each slot.
func (s *Scheduler) Armed() map[SlotID]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[SlotID]time.Time, len(s.armed))
	for id, at := range s.armed {
		out[id] = at
	}
	return out
}

func (s *Scheduler) arm(slot Slot, after time.Time) time.Time {
	target := clock.NextOccurrence(after, slot.Hour, slot.Minute, s.clock.Location())
	s.timer.ArmExactWake(target, slot.ID, s.handle)

	s.mu.Lock()
	s.armed[slot.ID] = target
	s.mu.Unlock()

	logger.Info("Reminder armed", "slot", slot.Name, "at", target.Format(time.RFC3339))
	return target
}

func (s *Scheduler) handle(ev FireEvent) {
	if _, err := s.OnFire(context.Background(), ev); err != nil {
		logger.Error("Reminder fire failed", "slot", ev.Slot, "event", ev.ID, "error", err)
	}
}

type fireResult struct {
	notified bool
	err      error
}

// OnFire handles one fire of a slot: it decides whether to notify, then re-arms the slot
// for its next occurrence. The decision runs under the fire timeout and inside its own
// panic boundary; re-arming happens whatever the outcome. It reports whether a
// notification was emitted.
func (s *Scheduler) OnFire(ctx context.Context, ev FireEvent) (bool, error) {
	slot, ok := SlotByID(ev.Slot)
	if !ok {
		return false, fmt.Errorf("unknown reminder slot %d", int(ev.Slot))
	}
	defer s.rearm(slot, ev.FiredAt)

	logger.Info("Reminder fired", "slot", slot.Name, "event", ev.ID, "target", ev.Target.Format(time.RFC3339))

	ctx, cancel := context.WithTimeout(ctx, s.fireTimeout)
	defer cancel()

	done := make(chan fireResult, 1)
	go func() {
		notified, err := s.evaluate(ctx, slot)
		done <- fireResult{notified: notified, err: err}
	}()

	select {
	case res := <-done:
		return res.notified, res.err
	case <-ctx.Done():
		return false, fmt.Errorf("reminder %s timed out: %w", slot.Name, ctx.Err())
	}
}

func (s *Scheduler) rearm(slot Slot, firedAt time.Time) {
	after := s.clock.Now().Time
	if firedAt.After(after) {
		after = firedAt
	}
	s.arm(slot, after)
}

func (s *Scheduler) evaluate(ctx context.Context, slot Slot) (notified bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reminder %s panicked: %v", slot.Name, r)
		}
	}()

	now := s.clock.Now()

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return false, apperrors.StoreUnavailable(fmt.Errorf("failed to read settings: %w", err))
	}
	if !settings.NotificationsEnabled {
		logger.Debug("Notifications disabled, skipping", "slot", slot.Name)
		return false, nil
	}

	due := false
	switch slot.ID {
	case LateCheck:
		due, err = s.detector.AnyUnchecked(ctx, now.DateKey)
		if err != nil {
			return false, err
		}
	case EveningCheck:
		due = now.Hour < constants.EveningNudgeCutoffHour
	}

	if !due {
		logger.Info("No reminder needed", "slot", slot.Name, "date", now.DateKey)
		return false, nil
	}

	if err := s.notifier.EnsureChannel(constants.ReminderChannelID, constants.ReminderChannelName, constants.ReminderChannelImportance); err != nil {
		logger.Warn("Failed to register notification channel", "error", err)
	}
	if err := s.notifier.Emit(ctx, int(slot.ID), slot.Title, slot.Body); err != nil {
		return false, fmt.Errorf("failed to emit %s notification: %w", slot.Name, err)
	}
	return true, nil
}
