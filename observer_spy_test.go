package mockcache

import "testing"

type spyEvent struct {
	op  string
	key string
	hit bool
}

func TestObserverReceivesOperationEvents(t *testing.T) {
	var events []spyEvent
	mc := NewWith(WithObserver(ObserverFunc(func(op, key string, hit bool) {
		events = append(events, spyEvent{op: op, key: key, hit: hit})
	})))

	mc.Get("a")
	mc.Set("a", Text("1"), 0)
	mc.Add("a", Text("2"), 0)
	mc.Increment("a", 1)
	mc.Delete("a", 0)

	want := []spyEvent{
		{"get", "a", false},
		{"set", "a", true},
		{"add", "a", false},
		{"incr", "a", true},
		{"delete", "a", true},
	}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(events), events)
	}
	for i, e := range events {
		if e != want[i] {
			t.Fatalf("event %d: got %+v, want %+v", i, e, want[i])
		}
	}
}

func TestObserverEachVerbReportsOnce(t *testing.T) {
	var count int
	mc := NewWith(WithObserver(ObserverFunc(func(op, key string, hit bool) {
		count++
	})))

	// Add and the delete hold branch reuse Set's write path internally;
	// each verb must still report exactly one event.
	mc.Add("a", Text("1"), 0)
	mc.Delete("a", 60)
	if count != 2 {
		t.Fatalf("expected 2 events, got %d", count)
	}
}

func TestObserverFuncNilIsSafe(t *testing.T) {
	var f ObserverFunc
	f.OnCacheOp("get", "a", false)
}
