package cachefake

import (
	"sync"
	"testing"

	"github.com/goforj/mockcache"
)

// Op identifies a client operation for assertions. The values match the op
// names the client reports to its observer.
type Op string

const (
	OpGet      Op = "get"
	OpGetMulti Op = "get_multi"
	OpSet      Op = "set"
	OpAdd      Op = "add"
	OpReplace  Op = "replace"
	OpAppend   Op = "append"
	OpPrepend  Op = "prepend"
	OpIncr     Op = "incr"
	OpDecr     Op = "decr"
	OpDelete   Op = "delete"
	OpTouch    Op = "touch"
	OpFlushAll Op = "flush_all"
)

// Fake exposes a mock client plus assertion helpers for verifying how code
// under test touched the cache. It records through the client's observer
// hook, so counts cover every verb including misses.
type Fake struct {
	client *mockcache.Client
	counts map[Op]map[string]int
	mu     sync.Mutex
}

// New creates a Fake around a fresh client.
func New() *Fake {
	f := &Fake{counts: make(map[Op]map[string]int)}
	f.client = mockcache.NewWith(mockcache.WithObserver(mockcache.ObserverFunc(
		func(op, key string, hit bool) {
			f.record(Op(op), key)
		},
	)))
	return f
}

// Client returns the mock client to inject into code under test.
func (f *Fake) Client() *mockcache.Client { return f.client }

// Reset clears recorded counts. Stored entries are untouched.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts = make(map[Op]map[string]int)
}

// AssertCalled verifies key was touched by op the expected number of times.
func (f *Fake) AssertCalled(t *testing.T, op Op, key string, times int) {
	t.Helper()
	if got := f.Count(op, key); got != times {
		t.Fatalf("expected %s %q called %d times, got %d", op, key, times, got)
	}
}

// AssertNotCalled ensures key was never touched by op.
func (f *Fake) AssertNotCalled(t *testing.T, op Op, key string) {
	t.Helper()
	if got := f.Count(op, key); got != 0 {
		t.Fatalf("expected %s %q not called, got %d", op, key, got)
	}
}

// AssertTotal ensures the total call count for an op matches times.
func (f *Fake) AssertTotal(t *testing.T, op Op, times int) {
	t.Helper()
	if got := f.Total(op); got != times {
		t.Fatalf("expected %s total=%d, got %d", op, times, got)
	}
}

// Count returns calls for op+key.
func (f *Fake) Count(op Op, key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts[op] == nil {
		return 0
	}
	return f.counts[op][key]
}

// Total returns total calls for an op across keys.
func (f *Fake) Total(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int
	for _, v := range f.counts[op] {
		sum += v
	}
	return sum
}

func (f *Fake) record(op Op, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts[op] == nil {
		f.counts[op] = make(map[string]int)
	}
	f.counts[op][key]++
}
