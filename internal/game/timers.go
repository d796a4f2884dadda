package game

import (
	"sync"
	"time"
)

func turnKey(gameID string) string  { return "turn:" + gameID }
func pauseKey(gameID string) string { return "pause:" + gameID }
func graceKey(gameID string, c Color) string {
	return "grace:" + gameID + ":" + string(c)
}
func retainKey(gameID string) string { return "retain:" + gameID }

// timerSet owns every pending deadline keyed by game and family.
// Scheduling a key replaces any timer already armed under it; cancel
// is idempotent. Handlers re-check game state under the game lock, so
// a timer that fires after its cancel lost the race is harmless.
type timerSet struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newTimerSet() *timerSet {
	return &timerSet{timers: map[string]*time.Timer{}}
}

func (ts *timerSet) schedule(key string, d time.Duration, fn func()) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if t, ok := ts.timers[key]; ok {
		t.Stop()
	}
	ts.timers[key] = time.AfterFunc(d, func() {
		ts.mu.Lock()
		delete(ts.timers, key)
		ts.mu.Unlock()
		fn()
	})
}

func (ts *timerSet) cancel(key string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if t, ok := ts.timers[key]; ok {
		t.Stop()
		delete(ts.timers, key)
	}
}

func (ts *timerSet) cancelGame(gameID string) {
	ts.cancel(turnKey(gameID))
	ts.cancel(pauseKey(gameID))
	ts.cancel(graceKey(gameID, White))
	ts.cancel(graceKey(gameID, Black))
	ts.cancel(retainKey(gameID))
}
