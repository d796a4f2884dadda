package game

import (
	"testing"
	"time"
)

func TestTimerSetRescheduleReplaces(t *testing.T) {
	ts := newTimerSet()
	fired := make(chan string, 4)

	ts.schedule("turn:g1", 30*time.Millisecond, func() { fired <- "first" })
	ts.schedule("turn:g1", 60*time.Millisecond, func() { fired <- "second" })

	select {
	case got := <-fired:
		if got != "second" {
			t.Fatalf("fired %q, want second", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
	select {
	case got := <-fired:
		t.Fatalf("replaced timer fired anyway: %q", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTimerSetCancelIsIdempotent(t *testing.T) {
	ts := newTimerSet()
	fired := make(chan struct{}, 1)

	ts.schedule("pause:g1", 30*time.Millisecond, func() { fired <- struct{}{} })
	ts.cancel("pause:g1")
	ts.cancel("pause:g1")
	ts.cancel("never:armed")

	select {
	case <-fired:
		t.Fatal("cancelled timer fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTimerSetCancelGame(t *testing.T) {
	ts := newTimerSet()
	fired := make(chan struct{}, 4)

	for _, key := range []string{turnKey("g1"), pauseKey("g1"), graceKey("g1", White), retainKey("g1")} {
		ts.schedule(key, 30*time.Millisecond, func() { fired <- struct{}{} })
	}
	ts.schedule(turnKey("g2"), 30*time.Millisecond, func() { fired <- struct{}{} })
	ts.cancelGame("g1")

	time.Sleep(150 * time.Millisecond)
	if n := len(fired); n != 1 {
		t.Fatalf("fired %d timers, want only g2's", n)
	}
}
