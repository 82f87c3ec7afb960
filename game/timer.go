/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// ResetTimer is the single one-shot timer that ends a round. It never runs
// a callback itself: the owner selects on C() so expiry is handled on the
// same goroutine as every other event.
type ResetTimer struct {
	clock    clockwork.Clock
	timer    clockwork.Timer
	deadline time.Time
}

func NewResetTimer(clock clockwork.Clock) *ResetTimer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &ResetTimer{clock: clock}
}

// Arm schedules expiry after d. It does nothing and returns false if a
// timer is already armed.
func (t *ResetTimer) Arm(d time.Duration) bool {
	if t.timer != nil {
		return false
	}

	t.timer = t.clock.NewTimer(d)
	t.deadline = t.clock.Now().Add(d)

	return true
}

func (t *ResetTimer) Armed() bool {
	return t.timer != nil
}

// C returns the expiry channel of the armed timer, or nil when disarmed.
// Receiving from a nil channel blocks forever, so it is safe in a select.
func (t *ResetTimer) C() <-chan time.Time {
	if t.timer == nil {
		return nil
	}
	return t.timer.Chan()
}

// Deadline reports when the armed timer will fire.
func (t *ResetTimer) Deadline() (time.Time, bool) {
	if t.timer == nil {
		return time.Time{}, false
	}
	return t.deadline, true
}

// Disarm forgets the timer after its expiry has been received.
func (t *ResetTimer) Disarm() {
	t.timer = nil
	t.deadline = time.Time{}
}

// Cancel stops an armed timer. Any pending expiry is discarded with it.
func (t *ResetTimer) Cancel() bool {
	if t.timer == nil {
		return false
	}

	stopAndDrainTimer(t.timer)
	t.Disarm()

	return true
}

func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
