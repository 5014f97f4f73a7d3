// Package resolver computes today's routine: which items are active in each day-part,
// in what order, and which of them are already checked.
package resolver

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/julianstephens/dosely/internal/clock"
	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/logger"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/storage"
)

type Resolver struct {
	store storage.Provider
	clock clock.Clock

	// refreshMu serializes snapshot builds so published views follow store order.
	refreshMu sync.Mutex

	mu      sync.Mutex
	last    *View
	subs    map[int]chan View
	nextSub int
}

func New(store storage.Provider, clk clock.Clock) *Resolver {
	return &Resolver{
		store: store,
		clock: clk,
		subs:  make(map[int]chan View),
	}
}

// ResolveToday builds today's view. A non-nil override replaces the stored workout flag
// for this resolution only. When the store fails, the last good view for today (or an
// empty one) is returned marked stale, together with an ErrStoreUnavailable error.
func (r *Resolver) ResolveToday(ctx context.Context, override *bool) (View, error) {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	now := r.clock.Now()
	v, err := r.resolve(ctx, now, override)
	if err != nil {
		logger.Error("Failed to resolve today", "date", now.DateKey, "error", err)
		stale := r.fallback(now)
		r.broadcast(stale)
		return stale, apperrors.StoreUnavailable(err)
	}

	r.publish(v)
	return v, nil
}

func (r *Resolver) resolve(ctx context.Context, now clock.Moment, override *bool) (View, error) {
	v := emptyView(now.DateKey, now.Weekday)

	flag := false
	if override != nil {
		flag = *override
	} else if v.IsSpecialWorkoutWeekday {
		stored, err := r.store.GetWorkoutFlag(ctx, now.DateKey)
		if err != nil {
			return View{}, fmt.Errorf("failed to read workout flag: %w", err)
		}
		flag = stored
	}
	v.WorkoutDayActive = v.IsSpecialWorkoutWeekday && flag

	items, err := r.store.GetAllItems(ctx)
	if err != nil {
		return View{}, fmt.Errorf("failed to load items: %w", err)
	}
	assignments, err := r.store.GetAllAssignments(ctx)
	if err != nil {
		return View{}, fmt.Errorf("failed to load assignments: %w", err)
	}

	byID := make(map[int64]models.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	for _, a := range assignments {
		active, err := a.ActiveOn(now.Weekday)
		if err != nil {
			logger.Warn("Treating assignment as active every day", "item_id", a.ItemID, "day_part", a.DayPart, "error", err)
		}
		if !active {
			continue
		}
		item, ok := byID[a.ItemID]
		if !ok {
			logger.Warn("Skipping assignment", "item_id", a.ItemID, "day_part", a.DayPart, "error", apperrors.ErrBrokenReference)
			continue
		}
		v.Entries[a.DayPart] = append(v.Entries[a.DayPart], Entry{
			Item:    item,
			DayPart: a.DayPart,
			Sort:    item.EffectiveSort(v.WorkoutDayActive),
		})
	}

	for _, entries := range v.Entries {
		slices.SortStableFunc(entries, func(a, b Entry) int {
			return cmp.Compare(a.Sort, b.Sort)
		})
	}

	checked, err := r.loadChecked(ctx, now.DateKey)
	if err != nil {
		return View{}, err
	}
	v.Checked = checked

	return v, nil
}

func (r *Resolver) loadChecked(ctx context.Context, dateKey string) (map[models.DayPart]map[int64]bool, error) {
	checked := make(map[models.DayPart]map[int64]bool, 4)
	for _, part := range models.AllDayParts() {
		checks, err := r.store.GetChecksForDayPart(ctx, dateKey, part)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s checks: %w", part, err)
		}
		set := make(map[int64]bool, len(checks))
		for _, c := range checks {
			if c.Checked {
				set[c.ItemID] = true
			}
		}
		checked[part] = set
	}
	return checked, nil
}

func (r *Resolver) fallback(now clock.Moment) View {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.last != nil && r.last.DateKey == now.DateKey {
		v := *r.last
		v.Stale = true
		return v
	}
	v := emptyView(now.DateKey, now.Weekday)
	v.Stale = true
	return v
}

// Toggle records the check state of an item in a day-part for today and pushes a
// refreshed snapshot to subscribers.
func (r *Resolver) Toggle(ctx context.Context, part models.DayPart, itemID int64, checked bool) error {
	if !part.Valid() {
		return fmt.Errorf("invalid day part %d", int(part))
	}

	now := r.clock.Now()
	err := r.store.UpsertCheck(ctx, models.DailyCheck{
		DateKey: now.DateKey,
		ItemID:  itemID,
		DayPart: part,
		Checked: checked,
	})
	if err != nil {
		return apperrors.StoreUnavailable(fmt.Errorf("failed to save check: %w", err))
	}

	logger.Debug("Toggled check", "date", now.DateKey, "day_part", part, "item_id", itemID, "checked", checked)
	return r.refreshChecks(ctx, now)
}

// refreshChecks reloads only the check sets when a view for the same day exists.
func (r *Resolver) refreshChecks(ctx context.Context, now clock.Moment) error {
	r.mu.Lock()
	base := r.last
	r.mu.Unlock()

	if base == nil || base.DateKey != now.DateKey {
		_, err := r.ResolveToday(ctx, nil)
		return err
	}

	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	checked, err := r.loadChecked(ctx, now.DateKey)
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}

	r.mu.Lock()
	v := *r.last
	r.mu.Unlock()
	v.Checked = checked
	v.Stale = false
	r.publish(v)
	return nil
}

// SetWorkoutDayFlag stores today's workout flag and republishes the view.
func (r *Resolver) SetWorkoutDayFlag(ctx context.Context, on bool) error {
	now := r.clock.Now()
	if err := r.store.SetWorkoutFlag(ctx, now.DateKey, on); err != nil {
		return apperrors.StoreUnavailable(fmt.Errorf("failed to save workout flag: %w", err))
	}
	logger.Info("Workout flag updated", "date", now.DateKey, "on", on)

	_, err := r.ResolveToday(ctx, nil)
	return err
}

// AnyUnchecked reports whether at least one day-part has no checked record on dateKey.
// A day-part without assignments also counts as unchecked.
func (r *Resolver) AnyUnchecked(ctx context.Context, dateKey string) (bool, error) {
	for _, part := range models.AllDayParts() {
		checks, err := r.store.GetChecksForDayPart(ctx, dateKey, part)
		if err != nil {
			return false, apperrors.StoreUnavailable(fmt.Errorf("failed to load %s checks: %w", part, err))
		}
		if !slices.ContainsFunc(checks, func(c models.DailyCheck) bool { return c.Checked }) {
			return true, nil
		}
	}
	return false, nil
}

// Clock returns the calendar the resolver computes "today" with.
func (r *Resolver) Clock() clock.Clock {
	return r.clock
}
