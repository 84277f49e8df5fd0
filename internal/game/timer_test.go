package game

import (
	"testing"
	"time"
)

func TestTurnTimerFires(t *testing.T) {
	t.Parallel()

	timer := NewTurnTimer()
	fired := make(chan struct{})
	timer.Arm(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatalf("timer never fired")
	}
}

func TestTurnTimerCancelPreventsFire(t *testing.T) {
	t.Parallel()

	timer := NewTurnTimer()
	fired := make(chan struct{}, 1)
	timer.Arm(20*time.Millisecond, func() { fired <- struct{}{} })
	timer.Cancel()

	select {
	case <-fired:
		t.Fatalf("cancelled timer fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTurnTimerRearmDropsOldCountdown(t *testing.T) {
	t.Parallel()

	timer := NewTurnTimer()
	got := make(chan string, 2)
	timer.Arm(20*time.Millisecond, func() { got <- "first" })
	timer.Arm(40*time.Millisecond, func() { got <- "second" })

	select {
	case which := <-got:
		if which != "second" {
			t.Fatalf("stale countdown fired: %s", which)
		}
	case <-time.After(time.Second):
		t.Fatalf("re-armed timer never fired")
	}

	select {
	case which := <-got:
		t.Fatalf("extra fire: %s", which)
	case <-time.After(100 * time.Millisecond):
	}
}
