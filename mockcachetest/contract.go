package mockcachetest

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// Client is the memcached client contract required by RunClientContract.
// It is satisfied by both memclient.Client and *memcache.Client, so the
// same suite can run against the mock and a real server.
type Client interface {
	Get(key string) (*memcache.Item, error)
	GetMulti(keys []string) (map[string]*memcache.Item, error)
	Set(item *memcache.Item) error
	Add(item *memcache.Item) error
	Replace(item *memcache.Item) error
	Append(item *memcache.Item) error
	Prepend(item *memcache.Item) error
	Delete(key string) error
	DeleteAll() error
	FlushAll() error
	Increment(key string, delta uint64) (uint64, error)
	Decrement(key string, delta uint64) (uint64, error)
	Touch(key string, seconds int32) error
	Ping() error
}

// Options configures shared client contract checks.
type Options struct {
	// CaseName is used to namespace keys. Defaults to t.Name().
	CaseName string
	// TTLSeconds is the expiry used in the TTL test. Memcached ttls have
	// second granularity, so the default is 1.
	TTLSeconds int32
	// TTLWait is how long the harness waits for expiry to occur.
	TTLWait time.Duration
	// SkipTTL disables the expiry assertion for callers that cannot wait.
	SkipTTL bool
	// SkipFlush disables the flush assertion for shared servers.
	SkipFlush bool
}

// RunClientContract runs a backend-agnostic memcached behavior suite: the
// round-trip, add/replace, append/prepend, counter, delete, multi-get, and
// expiry laws every memcached-style client is expected to obey.
func RunClientContract(t *testing.T, c Client, opts Options) {
	t.Helper()

	caseName := opts.CaseName
	if caseName == "" {
		caseName = t.Name()
	}
	ttl := opts.TTLSeconds
	if ttl <= 0 {
		ttl = 1
	}
	wait := opts.TTLWait
	if wait <= 0 {
		wait = 3 * time.Second
	}
	key := func(s string) string {
		return sanitize(caseName) + ":" + s
	}

	if err := c.Ping(); err != nil {
		t.Fatalf("ping failed: %v", err)
	}

	// Miss before any write.
	if _, err := c.Get(key("absent")); !errors.Is(err, memcache.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss for absent key, got %v", err)
	}

	// Set/Get round-trip.
	if err := c.Set(&memcache.Item{Key: key("alpha"), Value: []byte("value")}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	item, err := c.Get(key("alpha"))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(item.Value) != "value" {
		t.Fatalf("unexpected get result: %q", item.Value)
	}

	// Add only when missing.
	if err := c.Add(&memcache.Item{Key: key("once"), Value: []byte("first")}); err != nil {
		t.Fatalf("add first failed: %v", err)
	}
	if err := c.Add(&memcache.Item{Key: key("once"), Value: []byte("second")}); !errors.Is(err, memcache.ErrNotStored) {
		t.Fatalf("expected duplicate add to return ErrNotStored, got %v", err)
	}
	item, err = c.Get(key("once"))
	if err != nil || string(item.Value) != "first" {
		t.Fatalf("expected first add to win, got %q err=%v", itemValue(item), err)
	}

	// Replace only when present.
	if err := c.Replace(&memcache.Item{Key: key("missing"), Value: []byte("x")}); !errors.Is(err, memcache.ErrNotStored) {
		t.Fatalf("expected replace on absent key to return ErrNotStored, got %v", err)
	}
	if _, err := c.Get(key("missing")); !errors.Is(err, memcache.ErrCacheMiss) {
		t.Fatalf("expected rejected replace to create nothing, got %v", err)
	}
	if err := c.Replace(&memcache.Item{Key: key("once"), Value: []byte("swapped")}); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	// Append and prepend ordering.
	if err := c.Append(&memcache.Item{Key: key("nowhere"), Value: []byte("x")}); !errors.Is(err, memcache.ErrNotStored) {
		t.Fatalf("expected append on absent key to return ErrNotStored, got %v", err)
	}
	if err := c.Set(&memcache.Item{Key: key("concat"), Value: []byte("mid")}); err != nil {
		t.Fatalf("set concat failed: %v", err)
	}
	if err := c.Append(&memcache.Item{Key: key("concat"), Value: []byte(">")}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := c.Prepend(&memcache.Item{Key: key("concat"), Value: []byte("<")}); err != nil {
		t.Fatalf("prepend failed: %v", err)
	}
	item, err = c.Get(key("concat"))
	if err != nil || string(item.Value) != "<mid>" {
		t.Fatalf("expected \"<mid>\", got %q err=%v", itemValue(item), err)
	}

	// Counters: increment then decrement restores the start value.
	if _, err := c.Increment(key("nocounter"), 1); !errors.Is(err, memcache.ErrCacheMiss) {
		t.Fatalf("expected increment on absent key to return ErrCacheMiss, got %v", err)
	}
	if err := c.Set(&memcache.Item{Key: key("counter"), Value: []byte("10")}); err != nil {
		t.Fatalf("set counter failed: %v", err)
	}
	n, err := c.Increment(key("counter"), 5)
	if err != nil || n != 15 {
		t.Fatalf("expected increment=15, got %d err=%v", n, err)
	}
	n, err = c.Decrement(key("counter"), 5)
	if err != nil || n != 10 {
		t.Fatalf("expected decrement=10, got %d err=%v", n, err)
	}

	// Delete.
	if err := c.Delete(key("counter")); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := c.Delete(key("counter")); !errors.Is(err, memcache.ErrCacheMiss) {
		t.Fatalf("expected delete on absent key to return ErrCacheMiss, got %v", err)
	}

	// GetMulti returns only present keys.
	if err := c.Set(&memcache.Item{Key: key("m1"), Value: []byte("1")}); err != nil {
		t.Fatalf("set m1 failed: %v", err)
	}
	if err := c.Set(&memcache.Item{Key: key("m2"), Value: []byte("2")}); err != nil {
		t.Fatalf("set m2 failed: %v", err)
	}
	items, err := c.GetMulti([]string{key("m1"), key("m2"), key("m3")})
	if err != nil {
		t.Fatalf("getmulti failed: %v", err)
	}
	if len(items) != 2 || string(items[key("m1")].Value) != "1" || string(items[key("m2")].Value) != "2" {
		t.Fatalf("unexpected getmulti result: %v", items)
	}

	// Touch.
	if err := c.Touch(key("m1"), 60); err != nil {
		t.Fatalf("touch failed: %v", err)
	}
	if err := c.Touch(key("m3"), 60); !errors.Is(err, memcache.ErrCacheMiss) {
		t.Fatalf("expected touch on absent key to return ErrCacheMiss, got %v", err)
	}

	// TTL expiry.
	if !opts.SkipTTL {
		if err := c.Set(&memcache.Item{Key: key("ttl"), Value: []byte("v"), Expiration: ttl}); err != nil {
			t.Fatalf("set ttl failed: %v", err)
		}
		if err := waitForMiss(c, key("ttl"), wait); err != nil {
			t.Fatalf("expected ttl expiry: %v", err)
		}
	}

	// Flush.
	if !opts.SkipFlush {
		if err := c.Set(&memcache.Item{Key: key("flush"), Value: []byte("x")}); err != nil {
			t.Fatalf("set flush failed: %v", err)
		}
		if err := c.FlushAll(); err != nil {
			t.Fatalf("flush failed: %v", err)
		}
		if _, err := c.Get(key("flush")); !errors.Is(err, memcache.ErrCacheMiss) {
			t.Fatalf("expected flush to clear key, got %v", err)
		}
	}
}

func waitForMiss(c Client, key string, wait time.Duration) error {
	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		_, err := c.Get(key)
		if errors.Is(err, memcache.ErrCacheMiss) {
			return nil
		}
		if err != nil {
			return err
		}
		time.Sleep(50 * time.Millisecond)
	}
	_, err := c.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("key %q still present after %s", key, wait)
}

func itemValue(item *memcache.Item) string {
	if item == nil {
		return "<nil>"
	}
	return string(item.Value)
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
