package mockcache

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// secondsInThirtyDays is the memcached expiration pivot: a ttl below it is a
// relative offset in seconds from now, a ttl at or above it is an absolute
// Unix timestamp.
const secondsInThirtyDays = 60 * 60 * 24 * 30

// timeNow is the clock consulted for every expiration decision.
// Tests override it to exercise expiry without sleeping.
var timeNow = time.Now

// entry pairs a stored value with its absolute expiration.
// A zero expiresAt means the entry never expires.
type entry struct {
	value     Value
	expiresAt time.Time
}

// Client is a map-backed mock memcached client. It connects to nothing and
// keeps every entry in process, emulating the observable behavior of a real
// memcached client so code written against one can run in tests unchanged.
//
// Expiration is lazy: an expired entry stays in the map until Get reads it
// or a write overwrites it. Nothing sweeps in the background.
//
// Client is not safe for concurrent use. Callers that share one across
// goroutines must serialize access themselves.
type Client struct {
	entries  map[string]entry
	observer Observer
}

// New creates an empty client. Server addresses are accepted and ignored so
// call sites configured for a networked client keep working unchanged.
// @group Constructors
//
// Example: drop-in construction
//
//	mc := mockcache.New("127.0.0.1:11211")
//	fmt.Println(mc.Set("a", mockcache.Text("1234"), 0)) // 1
func New(servers ...string) *Client {
	return NewWithConfig(Config{Servers: servers})
}

// NewWith builds a client from functional options.
// @group Constructors
func NewWith(opts ...Option) *Client {
	cfg := Config{}
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig builds a client from an explicit config. Config.Servers is
// compatibility-only and never dialed.
// @group Constructors
func NewWithConfig(cfg Config) *Client {
	return &Client{
		entries:  make(map[string]entry),
		observer: cfg.Observer,
	}
}

// WithObserver attaches an observer to receive operation events.
func (c *Client) WithObserver(o Observer) *Client {
	c.observer = o
	return c
}

// SetServers does nothing. Retained for interface compatibility with
// networked clients; it never fails.
func (c *Client) SetServers(servers ...string) {}

// DisconnectAll does nothing. There is no connection to drop.
func (c *Client) DisconnectAll() {}

// Set stores val under key, overwriting any previous entry, and returns 1.
//
// ttl semantics follow memcached: 0 never expires, a value below 2592000
// (30 days) is a relative offset in seconds from now, and anything at or
// above that is an absolute Unix timestamp.
// @group Verbs
//
// Example: set with relative ttl
//
//	mc := mockcache.New()
//	fmt.Println(mc.Set("session", mockcache.Text("tok"), 300)) // 1
func (c *Client) Set(key string, val Value, ttl int64) int {
	c.store(key, val, ttl)
	c.observe("set", key, true)
	return 1
}

// Add stores val only when key is absent from the map and returns 1, else 0.
// Presence is checked before any expiry evaluation, so an expired entry that
// no read has evicted yet still blocks the add.
// @group Verbs
func (c *Client) Add(key string, val Value, ttl int64) int {
	if _, ok := c.entries[key]; ok {
		c.observe("add", key, false)
		return 0
	}
	c.store(key, val, ttl)
	c.observe("add", key, true)
	return 1
}

// Replace stores val only when key is present in the map and returns 1,
// else 0. Mirrors Add's raw presence check.
// @group Verbs
func (c *Client) Replace(key string, val Value, ttl int64) int {
	if _, ok := c.entries[key]; !ok {
		c.observe("replace", key, false)
		return 0
	}
	c.store(key, val, ttl)
	c.observe("replace", key, true)
	return 1
}

// Get returns the value stored under key. The second return is false on a
// miss, which is the only way to tell "no value" apart from a stored zero
// or empty string.
//
// Get is the one verb that evicts: an entry whose expiration is strictly
// before now is removed from the map and reported as a miss.
// @group Verbs
//
// Example: miss versus empty value
//
//	mc := mockcache.New()
//	_, ok := mc.Get("absent")
//	fmt.Println(ok) // false
func (c *Client) Get(key string) (Value, bool) {
	e, ok := c.entries[key]
	if !ok {
		c.observe("get", key, false)
		return Value{}, false
	}
	if !e.expiresAt.IsZero() && e.expiresAt.Before(timeNow()) {
		delete(c.entries, key)
		c.observe("get", key, false)
		return Value{}, false
	}
	c.observe("get", key, true)
	return e.value, true
}

// GetMulti returns the live values for the requested keys, keyed by key.
// Absent and expired keys are silently omitted. One "now" is captured at
// call start so the whole batch is judged against the same instant, and
// unlike Get nothing is evicted.
// @group Verbs
func (c *Client) GetMulti(keys ...string) map[string]Value {
	now := timeNow()
	values := make(map[string]Value, len(keys))
	for _, key := range keys {
		e, ok := c.entries[key]
		live := ok && (e.expiresAt.IsZero() || e.expiresAt.After(now))
		c.observe("get_multi", key, live)
		if live {
			values[key] = e.value
		}
	}
	return values
}

// Delete removes key when holdTime < 1, returning 1 if it existed.
//
// With holdTime >= 1 it emulates memcached's delete-with-hold-time: the
// entry is rewritten with holdTime as its new ttl and 0 is returned. The
// key is never removed on that branch and future writes are not blocked;
// the partial emulation is kept because callers may rely on it.
// @group Verbs
func (c *Client) Delete(key string, holdTime int64) int {
	e, ok := c.entries[key]
	if !ok {
		c.observe("delete", key, false)
		return 0
	}
	if holdTime < 1 {
		delete(c.entries, key)
		c.observe("delete", key, true)
		return 1
	}
	c.store(key, e.value, holdTime)
	c.observe("delete", key, false)
	return 0
}

// Increment coerces the value under key to an integer, adds delta, stores
// the integer back with the expiration untouched, and returns the result.
// A miss returns ok=false without creating the key. Content that cannot be
// coerced fails the call with an error.
// @group Verbs
//
// Example: counter
//
//	mc := mockcache.New()
//	mc.Set("hits", mockcache.Text("41"), 0)
//	n, ok, _ := mc.Increment("hits", 1)
//	fmt.Println(n, ok) // 42 true
func (c *Client) Increment(key string, delta int64) (int64, bool, error) {
	return c.addDelta("incr", key, delta)
}

// Decrement is Increment with a negated delta.
// @group Verbs
func (c *Client) Decrement(key string, delta int64) (int64, bool, error) {
	return c.addDelta("decr", key, -delta)
}

func (c *Client) addDelta(op, key string, delta int64) (int64, bool, error) {
	e, ok := c.entries[key]
	if !ok {
		c.observe(op, key, false)
		return 0, false, nil
	}
	n, err := e.value.Int64()
	if err != nil {
		c.observe(op, key, false)
		return 0, false, fmt.Errorf("mockcache: %s %q: %w", op, key, err)
	}
	n += delta
	c.entries[key] = entry{value: Integer(n), expiresAt: e.expiresAt}
	c.observe(op, key, true)
	return n, true, nil
}

// Append concatenates suffix after the string form of the existing value,
// leaving the expiration unchanged, and returns 1. Returns 0 when key is
// absent; nothing is created.
// @group Verbs
func (c *Client) Append(key, suffix string) int {
	e, ok := c.entries[key]
	if !ok {
		c.observe("append", key, false)
		return 0
	}
	c.entries[key] = entry{value: Text(e.value.String() + suffix), expiresAt: e.expiresAt}
	c.observe("append", key, true)
	return 1
}

// Prepend concatenates prefix before the string form of the existing value,
// leaving the expiration unchanged, and returns 1. Returns 0 when key is
// absent.
// @group Verbs
func (c *Client) Prepend(key, prefix string) int {
	e, ok := c.entries[key]
	if !ok {
		c.observe("prepend", key, false)
		return 0
	}
	c.entries[key] = entry{value: Text(prefix + e.value.String()), expiresAt: e.expiresAt}
	c.observe("prepend", key, true)
	return 1
}

// Touch refreshes the expiration of a live entry, using the same ttl
// semantics as Set, and returns 1. Returns 0 when key is absent or already
// expired.
// @group Verbs
func (c *Client) Touch(key string, ttl int64) int {
	e, ok := c.entries[key]
	if !ok || (!e.expiresAt.IsZero() && e.expiresAt.Before(timeNow())) {
		c.observe("touch", key, false)
		return 0
	}
	c.store(key, e.value, ttl)
	c.observe("touch", key, true)
	return 1
}

// FlushAll drops every entry and returns 1.
// @group Verbs
func (c *Client) FlushAll() int {
	c.entries = make(map[string]entry)
	c.observe("flush_all", "", true)
	return 1
}

// Contains reports raw presence of key, without evaluating or evicting
// expired entries. It exposes the "present but expired" state that Add and
// Replace base their decisions on.
// @group Verbs
func (c *Client) Contains(key string) bool {
	_, ok := c.entries[key]
	return ok
}

// Len returns the number of entries in the map, expired ones included.
func (c *Client) Len() int {
	return len(c.entries)
}

// String renders a tagged dump of the key to (value, expiration) mapping,
// sorted by key for deterministic output.
//
// Example: diagnostics dump
//
//	mc := mockcache.New()
//	mc.Set("a", mockcache.Text("1234"), 0)
//	fmt.Println(mc) // mockcache.Client{"a": ("1234", never)}
func (c *Client) String() string {
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("mockcache.Client{")
	for i, key := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		e := c.entries[key]
		exp := "never"
		if !e.expiresAt.IsZero() {
			exp = e.expiresAt.Format(time.RFC3339)
		}
		fmt.Fprintf(&b, "%q: (%s, %s)", key, e.value.dump(), exp)
	}
	b.WriteString("}")
	return b.String()
}

// store writes the entry; it backs Set, Add, Replace, Touch and the
// delete-hold branch so each verb reports its own observer event exactly
// once. It always writes to this client's own map.
func (c *Client) store(key string, val Value, ttl int64) {
	c.entries[key] = entry{value: val, expiresAt: resolveExpiry(ttl)}
}

func resolveExpiry(ttl int64) time.Time {
	switch {
	case ttl == 0:
		return time.Time{}
	case ttl < secondsInThirtyDays:
		return timeNow().Add(time.Duration(ttl) * time.Second)
	default:
		return time.Unix(ttl, 0)
	}
}

func (c *Client) observe(op, key string, hit bool) {
	if c.observer == nil {
		return
	}
	c.observer.OnCacheOp(op, key, hit)
}
