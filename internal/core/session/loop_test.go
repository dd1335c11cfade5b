package session

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoopRunsQueuedTask(t *testing.T) {
	timer := newTestTimer(t, nil)
	loop := NewLoop(timer, time.Hour, zerolog.Nop())
	loop.Start()
	defer loop.Stop()

	done := make(chan struct{})
	loop.Do(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("queued task never ran")
	}
}

// Control requests queued at a wake-up apply before that wake-up's tick:
// a pause followed by a reset delivered "at the same moment" as a
// boundary tick leaves the timer freshly running, not mid-transition.
func TestControlRequestsApplyBeforeTick(t *testing.T) {
	timer := newTestTimer(t, nil)
	loop := NewLoop(timer, time.Hour, zerolog.Nop())

	timer.Tick(24*time.Minute + 59*time.Second)
	loop.Do(timer.TogglePause)
	loop.Do(timer.Reset)

	// One loop iteration, driven by hand.
	loop.drainTasks()
	timer.Tick(time.Second)

	snapshot := timer.Snapshot()
	if snapshot.State != StateRunning {
		t.Errorf("State = %v, want running (reset wins over pause)", snapshot.State)
	}
	if snapshot.PhaseIndex != 0 {
		t.Errorf("PhaseIndex = %d, want 0", snapshot.PhaseIndex)
	}
	if snapshot.Elapsed != time.Second {
		t.Errorf("Elapsed = %v, want 1s (tick applied after the reset)", snapshot.Elapsed)
	}
}

func TestScheduleFires(t *testing.T) {
	timer := newTestTimer(t, nil)
	loop := NewLoop(timer, time.Hour, zerolog.Nop())
	loop.Start()
	defer loop.Stop()

	done := make(chan struct{})
	loop.Schedule(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled callback never fired")
	}
}

func TestScheduleCancel(t *testing.T) {
	timer := newTestTimer(t, nil)
	loop := NewLoop(timer, time.Hour, zerolog.Nop())
	loop.Start()
	defer loop.Stop()

	fired := make(chan struct{}, 1)
	cancel := loop.Schedule(50*time.Millisecond, func() { fired <- struct{}{} })
	cancel()

	select {
	case <-fired:
		t.Fatal("cancelled callback fired")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestStopIsIdempotent(t *testing.T) {
	timer := newTestTimer(t, nil)
	loop := NewLoop(timer, time.Hour, zerolog.Nop())
	loop.Start()
	loop.Stop()
	loop.Stop()

	// Do after Stop must not block.
	loop.Do(func() {})
}

func TestLoopTicksTimer(t *testing.T) {
	timer := newTestTimer(t, nil)
	loop := NewLoop(timer, 10*time.Millisecond, zerolog.Nop())
	loop.Start()
	defer loop.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if timer.Snapshot().Elapsed > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timer never advanced under the loop")
}
