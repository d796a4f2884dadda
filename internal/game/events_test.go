package game

import (
	"testing"
	"time"
)

func TestEventBufferReplayAfter(t *testing.T) {
	b := NewEventBuffer(16)
	b.Append(EventMatchStarted, "g1", nil)
	second := b.Append(EventDepositConfirmed, "g1", nil)
	b.Append(EventGameStarted, "g1", nil)

	all := b.ReplayAfter("")
	if len(all) != 3 {
		t.Fatalf("replay all = %d events, want 3", len(all))
	}
	tail := b.ReplayAfter(second.EventID)
	if len(tail) != 1 || tail[0].Event != EventGameStarted {
		t.Fatalf("unexpected tail: %+v", tail)
	}
}

func TestEventBufferDropsOldest(t *testing.T) {
	b := NewEventBuffer(2)
	b.Append(EventMatchStarted, "g1", nil)
	b.Append(EventDepositConfirmed, "g1", nil)
	b.Append(EventGameStarted, "g1", nil)

	all := b.ReplayAfter("")
	if len(all) != 2 || all[0].Event != EventDepositConfirmed {
		t.Fatalf("unexpected buffer contents: %+v", all)
	}
}

func TestEventBufferSubscribe(t *testing.T) {
	b := NewEventBuffer(16)
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Append(EventMoveApplied, "g1", map[string]any{"uci": "e2e4"})
	select {
	case ev := <-ch:
		if ev.Event != EventMoveApplied || ev.GameID != "g1" {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber never received event")
	}
}

func TestEventBufferCloseStopsWatchers(t *testing.T) {
	b := NewEventBuffer(16)
	ch := b.Subscribe()
	b.Close()

	if _, open := <-ch; open {
		t.Fatal("watcher channel should be closed")
	}
	if ev := b.Append(EventGameOver, "g1", nil); ev.EventID != "" {
		t.Fatal("append after close should be a no-op")
	}
}
