package game_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duplinskyp/buzzerAPP/game"
)

func TestResetTimer_ArmOnce(t *testing.T) {
	fc := clockwork.NewFakeClock()
	timer := game.NewResetTimer(fc)

	assert.False(t, timer.Armed())
	assert.Nil(t, timer.C())

	require.True(t, timer.Arm(5*time.Second))
	assert.False(t, timer.Arm(time.Second), "second arm must not replace the first")

	deadline, ok := timer.Deadline()
	require.True(t, ok)
	assert.Equal(t, fc.Now().Add(5*time.Second), deadline)
}

func TestResetTimer_FiresAfterDuration(t *testing.T) {
	fc := clockwork.NewFakeClock()
	timer := game.NewResetTimer(fc)
	require.True(t, timer.Arm(5*time.Second))

	fc.Advance(4 * time.Second)
	select {
	case <-timer.C():
		t.Fatal("timer fired early")
	default:
	}

	fc.Advance(time.Second)
	select {
	case <-timer.C():
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}

	timer.Disarm()
	assert.False(t, timer.Armed())
	assert.Nil(t, timer.C())
}

func TestResetTimer_CancelDiscardsExpiry(t *testing.T) {
	fc := clockwork.NewFakeClock()
	timer := game.NewResetTimer(fc)
	require.True(t, timer.Arm(time.Second))

	stale := timer.C()
	fc.Advance(2 * time.Second)

	assert.True(t, timer.Cancel())
	assert.False(t, timer.Cancel())
	assert.False(t, timer.Armed())

	select {
	case <-stale:
		t.Fatal("cancelled timer delivered an expiry")
	default:
	}

	require.True(t, timer.Arm(time.Second), "a cancelled timer can be armed again")
}
