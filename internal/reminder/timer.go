package reminder

import (
	"sync"
	"time"
)

// Timer arranges for cb to run at or after at. Arming a slot that is already armed
// replaces the earlier registration.
type Timer interface {
	ArmExactWake(at time.Time, slot SlotID, cb func(FireEvent))
}

// WallClockPollInterval is how often LocalTimer compares armed wakes to the wall clock.
const WallClockPollInterval = 5 * time.Second

// LocalTimer runs callbacks in-process. Wakes are compared against the wall clock on
// every poll instead of waiting on a runtime timer, whose monotonic delay stops while the
// host is suspended and would land a 20:30 wake hours late after a sleep.
type LocalTimer struct {
	now      func() time.Time
	interval time.Duration

	mu      sync.Mutex
	wakes   map[SlotID]deferredWake
	started bool
	stop    chan struct{}
	stopped bool
}

func NewLocalTimer() *LocalTimer {
	return NewLocalTimerWithSource(time.Now, WallClockPollInterval)
}

// NewLocalTimerWithSource polls now every interval.
func NewLocalTimerWithSource(now func() time.Time, interval time.Duration) *LocalTimer {
	return &LocalTimer{
		now:      now,
		interval: interval,
		wakes:    make(map[SlotID]deferredWake),
		stop:     make(chan struct{}),
	}
}

func (t *LocalTimer) ArmExactWake(at time.Time, slot SlotID, cb func(FireEvent)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.wakes[slot] = deferredWake{at: at, cb: cb}
	if !t.started && !t.stopped {
		t.started = true
		go t.loop()
	}
}

func (t *LocalTimer) loop() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.Poll()
		}
	}
}

// Poll fires every wake whose time has passed on the wall clock and returns how many
// fired. Callbacks run on the calling goroutine and may re-arm.
func (t *LocalTimer) Poll() int {
	// Round(0) drops the monotonic reading so the comparison is wall time only.
	now := t.now().Round(0)

	t.mu.Lock()
	type due struct {
		slot SlotID
		wake deferredWake
	}
	var fire []due
	for slot, w := range t.wakes {
		if !w.at.After(now) {
			fire = append(fire, due{slot: slot, wake: w})
			delete(t.wakes, slot)
		}
	}
	t.mu.Unlock()

	for _, d := range fire {
		d.wake.cb(NewFireEvent(d.slot, d.wake.at, now))
	}
	return len(fire)
}

// Stop cancels every pending wake and ends polling.
func (t *LocalTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.wakes)
	if !t.stopped {
		t.stopped = true
		close(t.stop)
	}
}

// DeferredTimer records wake requests without acting on them. It backs one-shot runs
// where an external scheduler (cron, a systemd timer) invokes the fire command, and
// lets callers inspect or trigger armed slots.
type DeferredTimer struct {
	mu      sync.Mutex
	pending map[SlotID]deferredWake
}

type deferredWake struct {
	at time.Time
	cb func(FireEvent)
}

func NewDeferredTimer() *DeferredTimer {
	return &DeferredTimer{pending: make(map[SlotID]deferredWake)}
}

func (t *DeferredTimer) ArmExactWake(at time.Time, slot SlotID, cb func(FireEvent)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[slot] = deferredWake{at: at, cb: cb}
}

// Armed returns the registered wake time for slot.
func (t *DeferredTimer) Armed(slot SlotID) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, ok := t.pending[slot]
	return w.at, ok
}

// Trigger removes the pending wake for slot and runs its callback as if it fired at
// firedAt. It reports false when nothing was armed.
func (t *DeferredTimer) Trigger(slot SlotID, firedAt time.Time) bool {
	t.mu.Lock()
	w, ok := t.pending[slot]
	if ok {
		delete(t.pending, slot)
	}
	t.mu.Unlock()

	if !ok {
		return false
	}
	w.cb(NewFireEvent(slot, w.at, firedAt))
	return true
}
