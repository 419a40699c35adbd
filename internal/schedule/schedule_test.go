package schedule_test

import (
	"testing"
	"time"

	"github.com/nikbrunner/linkdeck/internal/schedule"
	"gotest.tools/v3/assert"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClock_FiresInDeadlineOrder(t *testing.T) {
	clock := schedule.NewFakeClock(epoch)
	var order []string

	clock.AfterFunc(300*time.Millisecond, func() { order = append(order, "b") })
	clock.AfterFunc(100*time.Millisecond, func() { order = append(order, "a") })
	clock.AfterFunc(300*time.Millisecond, func() { order = append(order, "c") })

	clock.Advance(200 * time.Millisecond)
	assert.DeepEqual(t, order, []string{"a"})

	clock.Advance(100 * time.Millisecond)
	assert.DeepEqual(t, order, []string{"a", "b", "c"})
	assert.Equal(t, clock.Pending(), 0)
	assert.Equal(t, clock.Now(), epoch.Add(300*time.Millisecond))
}

func TestFakeClock_Stop(t *testing.T) {
	clock := schedule.NewFakeClock(epoch)
	fired := false

	timer := clock.AfterFunc(time.Second, func() { fired = true })
	assert.Assert(t, timer.Stop())
	assert.Assert(t, !timer.Stop(), "second stop should report false")

	clock.Advance(2 * time.Second)
	assert.Assert(t, !fired)
}

func TestFakeClock_NestedTimersWithinAdvance(t *testing.T) {
	clock := schedule.NewFakeClock(epoch)
	var at []time.Duration

	clock.AfterFunc(100*time.Millisecond, func() {
		at = append(at, clock.Now().Sub(epoch))
		clock.AfterFunc(50*time.Millisecond, func() {
			at = append(at, clock.Now().Sub(epoch))
		})
	})

	clock.Advance(time.Second)
	assert.DeepEqual(t, at, []time.Duration{100 * time.Millisecond, 150 * time.Millisecond})
}

func TestDebouncer_TrailingEdge(t *testing.T) {
	clock := schedule.NewFakeClock(epoch)
	d := schedule.NewDebouncer(clock, 750*time.Millisecond)

	var calls []string
	var firedAt time.Duration

	replaced := d.Schedule(func() { calls = append(calls, "first") })
	assert.Assert(t, !replaced)

	clock.Advance(200 * time.Millisecond)
	replaced = d.Schedule(func() {
		calls = append(calls, "second")
		firedAt = clock.Now().Sub(epoch)
	})
	assert.Assert(t, replaced)

	clock.Advance(749 * time.Millisecond)
	assert.Equal(t, len(calls), 0)
	assert.Assert(t, d.Pending())

	clock.Advance(time.Millisecond)
	assert.DeepEqual(t, calls, []string{"second"})
	assert.Equal(t, firedAt, 950*time.Millisecond)
	assert.Assert(t, !d.Pending())
}

func TestDebouncer_CancelPending(t *testing.T) {
	clock := schedule.NewFakeClock(epoch)
	d := schedule.NewDebouncer(clock, time.Second)
	fired := false

	assert.Assert(t, !d.CancelPending())
	d.Schedule(func() { fired = true })
	assert.Assert(t, d.CancelPending())

	clock.Advance(2 * time.Second)
	assert.Assert(t, !fired)
}

func TestDebouncer_RealClock(t *testing.T) {
	d := schedule.NewDebouncer(nil, 10*time.Millisecond)
	done := make(chan string, 2)

	d.Schedule(func() { done <- "stale" })
	d.Schedule(func() { done <- "latest" })

	select {
	case got := <-done:
		assert.Equal(t, got, "latest")
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never fired")
	}

	select {
	case got := <-done:
		t.Fatalf("unexpected second call %q", got)
	case <-time.After(50 * time.Millisecond):
	}
}
