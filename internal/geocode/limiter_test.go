package geocode

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressLimiter_AllowsUnknownAddress(t *testing.T) {
	l := newAddressLimiter(10, time.Minute, clockwork.NewFakeClock())

	assert.True(t, l.allow("123 main street"))
}

func TestAddressLimiter_RefusesAtMax(t *testing.T) {
	l := newAddressLimiter(10, time.Minute, clockwork.NewFakeClock())

	for i := 0; i < 10; i++ {
		require.True(t, l.allow("123 main street"), "lookup %d should be allowed", i+1)
		l.increment("123 main street")
	}

	assert.False(t, l.allow("123 main street"))
}

func TestAddressLimiter_QuotasAreIndependentPerAddress(t *testing.T) {
	l := newAddressLimiter(2, time.Minute, clockwork.NewFakeClock())

	l.increment("first address")
	l.increment("first address")

	assert.False(t, l.allow("first address"))
	assert.True(t, l.allow("second address"))
}

func TestAddressLimiter_RefusalsLeaveCounterUntouched(t *testing.T) {
	l := newAddressLimiter(1, time.Minute, clockwork.NewFakeClock())
	l.increment("123 main street")

	// Repeated refused checks must not extend the counter's life or
	// raise its count.
	for i := 0; i < 5; i++ {
		assert.False(t, l.allow("123 main street"))
	}

	l.mu.Lock()
	count := l.counts["123 main street"].count
	l.mu.Unlock()
	assert.Equal(t, 1, count)
}

func TestAddressLimiter_CounterExpiresAfterIdleWindow(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := newAddressLimiter(1, time.Minute, clock)
	l.increment("123 main street")
	require.False(t, l.allow("123 main street"))

	clock.Advance(time.Minute)

	// The deletion callback runs in its own goroutine.
	assert.Eventually(t, func() bool {
		return l.allow("123 main street")
	}, time.Second, time.Millisecond)
}

func TestAddressLimiter_IncrementReschedulesExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := newAddressLimiter(3, time.Minute, clock)

	// Increments spaced under the window keep rescheduling deletion, so
	// the counter survives well past one window from first use.
	l.increment("123 main street")
	clock.Advance(30 * time.Second)
	l.increment("123 main street")
	clock.Advance(30 * time.Second)
	l.increment("123 main street")
	clock.Advance(30 * time.Second)

	assert.False(t, l.allow("123 main street"),
		"counter should still be alive 90s after first increment")

	// A full idle window finally lets it die.
	clock.Advance(time.Minute)
	assert.Eventually(t, func() bool {
		return l.allow("123 main street")
	}, time.Second, time.Millisecond)
}
