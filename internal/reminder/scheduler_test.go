package reminder

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/dosely/internal/clock"
	apperrors "github.com/julianstephens/dosely/internal/errors"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/resolver"
	"github.com/julianstephens/dosely/internal/storage/sqlite"
)

type emitted struct {
	id    int
	title string
	body  string
}

type fakeNotifier struct {
	mu       sync.Mutex
	channels []string
	sent     []emitted
	err      error
}

func (n *fakeNotifier) EnsureChannel(id, name, importance string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.channels = append(n.channels, id)
	return nil
}

func (n *fakeNotifier) Emit(ctx context.Context, notificationID int, title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, emitted{id: notificationID, title: title, body: body})
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type fakeDetector struct {
	unchecked bool
	err       error
	panics    bool
	block     chan struct{}
}

func (d *fakeDetector) AnyUnchecked(ctx context.Context, dateKey string) (bool, error) {
	if d.block != nil {
		<-d.block
	}
	if d.panics {
		panic("boom")
	}
	return d.unchecked, d.err
}

type fakeSettings struct {
	settings models.Settings
	err      error
}

func (f *fakeSettings) GetSettings(ctx context.Context) (models.Settings, error) {
	return f.settings, f.err
}

type fixture struct {
	manual   *clock.Manual
	loc      *time.Location
	timer    *DeferredTimer
	notifier *fakeNotifier
	detector *fakeDetector
	settings *fakeSettings
	sched    *Scheduler
}

func newFixture(t *testing.T, at string) *fixture {
	t.Helper()
	loc, err := clock.LoadLocation("")
	require.NoError(t, err)
	start, err := time.ParseInLocation("2006-01-02 15:04", at, loc)
	require.NoError(t, err)

	f := &fixture{
		manual:   clock.NewManual(start),
		loc:      loc,
		timer:    NewDeferredTimer(),
		notifier: &fakeNotifier{},
		detector: &fakeDetector{},
		settings: &fakeSettings{settings: models.DefaultSettings()},
	}
	f.sched = NewScheduler(f.detector, f.settings, clock.NewWithSource(loc, f.manual.Now), f.timer, f.notifier)
	return f
}

func (f *fixture) at(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.ParseInLocation("2006-01-02 15:04", s, f.loc)
	require.NoError(t, err)
	return v
}

// fire moves the clock to the given time and fires slot as the timer would.
func (f *fixture) fire(t *testing.T, slot SlotID, at string) (bool, error) {
	t.Helper()
	now := f.at(t, at)
	f.manual.Set(now)
	return f.sched.OnFire(context.Background(), NewFireEvent(slot, now, now))
}

func TestScheduleDaily(t *testing.T) {
	f := newFixture(t, "2025-03-04 10:00")
	require.NoError(t, f.sched.ScheduleDaily(context.Background()))

	evening, ok := f.timer.Armed(EveningCheck)
	require.True(t, ok)
	assert.True(t, evening.Equal(f.at(t, "2025-03-04 20:30")))
	late, ok := f.timer.Armed(LateCheck)
	require.True(t, ok)
	assert.True(t, late.Equal(f.at(t, "2025-03-04 23:20")))

	// Idempotent: same targets when armed again.
	require.NoError(t, f.sched.ScheduleDaily(context.Background()))
	again, _ := f.timer.Armed(EveningCheck)
	assert.True(t, again.Equal(evening))
}

func TestScheduleDaily_PassedSlotsMoveToTomorrow(t *testing.T) {
	f := newFixture(t, "2025-03-04 22:00")
	require.NoError(t, f.sched.OnDeviceRestart(context.Background()))

	armed := f.sched.Armed()
	assert.True(t, armed[EveningCheck].Equal(f.at(t, "2025-03-05 20:30")))
	assert.True(t, armed[LateCheck].Equal(f.at(t, "2025-03-04 23:20")))
}

func TestScheduleDaily_CancelledContext(t *testing.T) {
	f := newFixture(t, "2025-03-04 10:00")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, f.sched.ScheduleDaily(ctx))
	_, ok := f.timer.Armed(LateCheck)
	assert.False(t, ok)
}

func TestOnFire_LateCheck(t *testing.T) {
	tests := []struct {
		name      string
		unchecked bool
		notified  bool
	}{
		{name: "unchecked day-part notifies", unchecked: true, notified: true},
		{name: "everything checked stays quiet", unchecked: false, notified: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "2025-03-04 23:20")
			f.detector.unchecked = tt.unchecked

			notified, err := f.fire(t, LateCheck, "2025-03-04 23:20")
			require.NoError(t, err)
			assert.Equal(t, tt.notified, notified)

			if tt.notified {
				require.Equal(t, 1, f.notifier.count())
				assert.Equal(t, int(LateCheck), f.notifier.sent[0].id)
				assert.Contains(t, f.notifier.channels, "reminders")
			} else {
				assert.Zero(t, f.notifier.count())
			}

			next, ok := f.timer.Armed(LateCheck)
			require.True(t, ok)
			assert.True(t, next.Equal(f.at(t, "2025-03-05 23:20")), "re-armed for tomorrow, got %s", next)
		})
	}
}

func TestOnFire_EveningCheck(t *testing.T) {
	f := newFixture(t, "2025-03-04 20:30")
	f.detector.unchecked = false

	notified, err := f.fire(t, EveningCheck, "2025-03-04 20:30")
	require.NoError(t, err)
	assert.True(t, notified, "early nudge ignores check state")

	// A fire delivered late, after the cutoff hour, does not nudge.
	notified, err = f.fire(t, EveningCheck, "2025-03-04 21:05")
	require.NoError(t, err)
	assert.False(t, notified)
	assert.Equal(t, 1, f.notifier.count())

	next, _ := f.timer.Armed(EveningCheck)
	assert.True(t, next.Equal(f.at(t, "2025-03-05 20:30")))
}

func TestOnFire_NotificationsDisabled(t *testing.T) {
	f := newFixture(t, "2025-03-04 23:20")
	f.detector.unchecked = true
	f.settings.settings.NotificationsEnabled = false

	notified, err := f.fire(t, LateCheck, "2025-03-04 23:20")
	require.NoError(t, err)
	assert.False(t, notified)
	_, ok := f.timer.Armed(LateCheck)
	assert.True(t, ok)
}

func TestOnFire_FailuresStillRearm(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *fixture)
		wantErr error
	}{
		{
			name:    "settings unavailable",
			setup:   func(f *fixture) { f.settings.err = errors.New("locked") },
			wantErr: apperrors.ErrStoreUnavailable,
		},
		{
			name: "checks unavailable",
			setup: func(f *fixture) {
				f.detector.err = apperrors.StoreUnavailable(errors.New("io"))
			},
			wantErr: apperrors.ErrStoreUnavailable,
		},
		{
			name:  "detector panics",
			setup: func(f *fixture) { f.detector.panics = true },
		},
		{
			name: "notifier fails",
			setup: func(f *fixture) {
				f.detector.unchecked = true
				f.notifier.err = errors.New("tray not running")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "2025-03-04 23:20")
			tt.setup(f)

			notified, err := f.fire(t, LateCheck, "2025-03-04 23:20")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.False(t, notified)

			next, ok := f.timer.Armed(LateCheck)
			require.True(t, ok, "slot must stay armed")
			assert.True(t, next.After(f.manual.Now()))
		})
	}
}

func TestOnFire_Timeout(t *testing.T) {
	f := newFixture(t, "2025-03-04 23:20")
	f.detector.block = make(chan struct{})
	defer close(f.detector.block)
	f.sched.SetFireTimeout(20 * time.Millisecond)

	_, err := f.fire(t, LateCheck, "2025-03-04 23:20")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, ok := f.timer.Armed(LateCheck)
	assert.True(t, ok)
}

func TestOnFire_RearmIsStrictlyFuture(t *testing.T) {
	f := newFixture(t, "2025-03-07 09:00")

	// An event delivered days after its target re-arms relative to now.
	stale := f.at(t, "2025-03-04 23:20")
	_, err := f.sched.OnFire(context.Background(), NewFireEvent(LateCheck, stale, stale))
	require.NoError(t, err)

	next, ok := f.timer.Armed(LateCheck)
	require.True(t, ok)
	assert.True(t, next.After(f.manual.Now()))
	assert.True(t, next.Equal(f.at(t, "2025-03-07 23:20")))
}

func TestOnFire_UnknownSlot(t *testing.T) {
	f := newFixture(t, "2025-03-04 10:00")
	_, err := f.sched.OnFire(context.Background(), NewFireEvent(SlotID(7), time.Now(), time.Now()))
	assert.Error(t, err)
}

func TestDeferredTimer_TriggerRunsOnFire(t *testing.T) {
	f := newFixture(t, "2025-03-04 10:00")
	f.detector.unchecked = true
	require.NoError(t, f.sched.ScheduleDaily(context.Background()))

	target, _ := f.timer.Armed(LateCheck)
	f.manual.Set(target)
	require.True(t, f.timer.Trigger(LateCheck, target))
	assert.Equal(t, 1, f.notifier.count())

	next, ok := f.timer.Armed(LateCheck)
	require.True(t, ok)
	assert.True(t, next.Equal(target.AddDate(0, 0, 1)))

	assert.False(t, NewDeferredTimer().Trigger(LateCheck, target))
}

func TestLocalTimer_FiresOnWallClock(t *testing.T) {
	loc, err := clock.LoadLocation("")
	require.NoError(t, err)
	src := clock.NewManual(time.Date(2025, 3, 4, 10, 0, 0, 0, loc))
	timer := NewLocalTimerWithSource(src.Now, time.Hour)
	defer timer.Stop()

	var fired []FireEvent
	cb := func(ev FireEvent) { fired = append(fired, ev) }

	target := time.Date(2025, 3, 4, 20, 30, 0, 0, loc)
	timer.ArmExactWake(target.Add(time.Hour), EveningCheck, cb)
	timer.ArmExactWake(target, EveningCheck, cb)

	assert.Zero(t, timer.Poll())

	// A suspended host wakes with the wall clock far ahead: the wake is due
	// immediately rather than after the remaining monotonic delay.
	src.Set(src.Now().Add(10*time.Hour + 31*time.Minute))
	assert.Equal(t, 1, timer.Poll())
	require.Len(t, fired, 1)
	assert.Equal(t, EveningCheck, fired[0].Slot)
	assert.True(t, fired[0].Target.Equal(target))
	assert.Equal(t, 20, fired[0].FiredAt.In(loc).Hour())

	src.Set(src.Now().Add(2 * time.Hour))
	assert.Zero(t, timer.Poll(), "replaced registration should not fire")
}

func TestLocalTimer_SchedulerRearmsOnPoll(t *testing.T) {
	f := newFixture(t, "2025-03-04 10:00")
	timer := NewLocalTimerWithSource(f.manual.Now, time.Hour)
	defer timer.Stop()
	sched := NewScheduler(f.detector, f.settings, clock.NewWithSource(f.loc, f.manual.Now), timer, f.notifier)
	require.NoError(t, sched.ScheduleDaily(context.Background()))

	evening := sched.Armed()[EveningCheck]
	f.manual.Set(evening.Add(time.Minute))
	assert.Equal(t, 1, timer.Poll())
	assert.Equal(t, 1, f.notifier.count())
	assert.True(t, sched.Armed()[EveningCheck].Equal(evening.AddDate(0, 0, 1)))
}

func TestLocalTimer_BackgroundLoop(t *testing.T) {
	timer := NewLocalTimerWithSource(time.Now, 5*time.Millisecond)
	defer timer.Stop()

	fired := make(chan FireEvent, 1)
	target := time.Now().Add(10 * time.Millisecond)
	timer.ArmExactWake(target, LateCheck, func(ev FireEvent) { fired <- ev })

	select {
	case ev := <-fired:
		assert.Equal(t, LateCheck, ev.Slot)
		assert.False(t, ev.FiredAt.Before(target.Round(0)))
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestParseSlot(t *testing.T) {
	tests := []struct {
		in      string
		want    SlotID
		wantErr bool
	}{
		{in: "evening", want: EveningCheck},
		{in: "LATE", want: LateCheck},
		{in: "late_check", want: LateCheck},
		{in: "1001", want: EveningCheck},
		{in: "noon", wantErr: true},
		{in: "42", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			slot, err := ParseSlot(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, slot.ID)
		})
	}
}

// TestOnFire_WithStore exercises the late check against real check records.
func TestOnFire_WithStore(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, store.Init())
	defer store.Close()
	ctx := context.Background()

	loc, err := clock.LoadLocation("")
	require.NoError(t, err)
	now, err := time.ParseInLocation("2006-01-02 15:04", "2025-03-04 23:20", loc)
	require.NoError(t, err)
	clk := clock.NewWithSource(loc, func() time.Time { return now })

	res := resolver.New(store, clk)
	notifier := &fakeNotifier{}
	sched := NewScheduler(res, store, clk, NewDeferredTimer(), notifier)

	notified, err := sched.OnFire(ctx, NewFireEvent(LateCheck, now, now))
	require.NoError(t, err)
	assert.True(t, notified, "no checks today")

	for _, part := range models.AllDayParts() {
		require.NoError(t, res.Toggle(ctx, part, 1, true))
	}
	notified, err = sched.OnFire(ctx, NewFireEvent(LateCheck, now, now))
	require.NoError(t, err)
	assert.False(t, notified, "every day-part has a check")
	assert.Equal(t, 1, notifier.count())
}
