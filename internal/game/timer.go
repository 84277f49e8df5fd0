package game

import (
	"sync"
	"time"
)

// TurnTimer is the per-match countdown that forces EndTurn when the acting
// side runs out of time. It is re-armed at every turn start and cancelled by
// any action that legitimately ends the turn early. Expiry is the only
// engine-initiated transition.
type TurnTimer struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewTurnTimer returns an unarmed timer.
func NewTurnTimer() *TurnTimer {
	return &TurnTimer{}
}

// Arm schedules fire after d, replacing any pending countdown. A countdown
// cancelled or re-armed before expiry never fires.
func (t *TurnTimer) Arm(d time.Duration, fire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		live := t.gen == gen
		t.mu.Unlock()
		if live {
			fire()
		}
	})
}

// Cancel stops any pending countdown.
func (t *TurnTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
