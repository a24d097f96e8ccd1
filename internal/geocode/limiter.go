package geocode

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// addressLimiter counts completed provider lookups per normalized address
// within a rolling window. Each address has its own independent quota; there
// is no shared budget across addresses.
//
// A counter's expiry timer is (re)scheduled from the time of each increment,
// not from the window's first use, so a steady trickle of lookups spaced
// under the window apart keeps a counter alive indefinitely.
type addressLimiter struct {
	mu     sync.Mutex
	counts map[string]*limiterEntry
	max    int
	window time.Duration
	clock  clockwork.Clock
}

type limiterEntry struct {
	count         int
	lastIncrement time.Time
	timer         clockwork.Timer
}

func newAddressLimiter(max int, window time.Duration, clock clockwork.Clock) *addressLimiter {
	return &addressLimiter{
		counts: make(map[string]*limiterEntry),
		max:    max,
		window: window,
		clock:  clock,
	}
}

// allow reports whether another provider lookup for key is permitted.
// Refusals leave the counter untouched: they are not recorded, so a later
// call re-checks whatever state the window has decayed to.
func (l *addressLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.counts[key]
	if !ok {
		return true
	}
	return e.count < l.max
}

// increment records one completed lookup for key and schedules the counter's
// deletion one window from now, replacing any previously scheduled deletion.
func (l *addressLimiter) increment(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.counts[key]
	if !ok {
		e = &limiterEntry{}
		e.timer = l.clock.AfterFunc(l.window, func() { l.expire(key) })
		l.counts[key] = e
	} else {
		e.timer.Reset(l.window)
	}
	e.count++
	e.lastIncrement = l.clock.Now()
}

// expire removes key's counter once a full window has passed since the last
// increment. The elapsed check guards against a fire that raced with a
// concurrent Reset.
func (l *addressLimiter) expire(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.counts[key]
	if !ok {
		return
	}
	if l.clock.Since(e.lastIncrement) < l.window {
		return
	}
	delete(l.counts, key)
}
