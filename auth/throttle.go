package auth

import (
	"math"
	"strings"
	"sync"
	"time"
)

const (
	throttleCooldownCap = 30 * time.Second
	// An entry whose cooldown ended this long ago starts over from zero fails.
	throttleRetention = 15 * time.Minute
)

// CooldownForFailCount returns min(30s, 2^failCount seconds).
func CooldownForFailCount(failCount int) time.Duration {
	if failCount >= 5 {
		return throttleCooldownCap
	}
	d := time.Duration(math.Pow(2, float64(failCount))) * time.Second
	if d > throttleCooldownCap {
		return throttleCooldownCap
	}
	return d
}

type throttleEntry struct {
	fails int
	until time.Time
}

func (e *throttleEntry) stale(now time.Time) bool {
	return now.After(e.until.Add(throttleRetention))
}

// Throttle slows down repeated failed logins per account key. State is kept
// in process and lost on restart.
type Throttle struct {
	mu        sync.Mutex
	entries   map[string]*throttleEntry
	now       func() time.Time
	lastSweep time.Time
}

func NewThrottle() *Throttle {
	return &Throttle{entries: make(map[string]*throttleEntry), now: time.Now}
}

// Wait returns how long the key must wait before trying again, 0 if it may try now.
func (t *Throttle) Wait(key string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[normalizeKey(key)]
	if !ok {
		return 0
	}
	if wait := e.until.Sub(t.now()); wait > 0 {
		return wait
	}
	return 0
}

func (t *Throttle) RecordFailure(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	t.sweep(now)
	key = normalizeKey(key)
	e, ok := t.entries[key]
	if !ok || e.stale(now) {
		e = &throttleEntry{}
		t.entries[key] = e
	}
	e.fails++
	e.until = now.Add(CooldownForFailCount(e.fails))
}

// sweep drops stale entries, at most once per retention period. Callers hold mu.
func (t *Throttle) sweep(now time.Time) {
	if now.Sub(t.lastSweep) < throttleRetention {
		return
	}
	t.lastSweep = now
	for key, e := range t.entries {
		if e.stale(now) {
			delete(t.entries, key)
		}
	}
}

func (t *Throttle) RecordSuccess(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, normalizeKey(key))
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
