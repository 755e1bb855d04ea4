package memclient_test

import (
	"errors"
	"testing"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/goforj/mockcache"
	"github.com/goforj/mockcache/memclient"
)

// surface is the method set shared with the networked gomemcache client.
// Both implementations must satisfy it, which is the drop-in guarantee.
type surface interface {
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

var (
	_ surface = (*memclient.Client)(nil)
	_ surface = (*memcache.Client)(nil)
)

func TestClientMissMapsToErrCacheMiss(t *testing.T) {
	c := memclient.New()
	if _, err := c.Get("absent"); !errors.Is(err, memcache.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
	if err := c.Delete("absent"); !errors.Is(err, memcache.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss for delete, got %v", err)
	}
	if _, err := c.Increment("absent", 1); !errors.Is(err, memcache.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss for increment, got %v", err)
	}
	if err := c.Touch("absent", 60); !errors.Is(err, memcache.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss for touch, got %v", err)
	}
}

func TestClientRejectionsMapToErrNotStored(t *testing.T) {
	c := memclient.New()
	if err := c.Add(&memcache.Item{Key: "a", Value: []byte("1")}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := c.Add(&memcache.Item{Key: "a", Value: []byte("2")}); !errors.Is(err, memcache.ErrNotStored) {
		t.Fatalf("expected ErrNotStored for duplicate add, got %v", err)
	}
	if err := c.Replace(&memcache.Item{Key: "b", Value: []byte("x")}); !errors.Is(err, memcache.ErrNotStored) {
		t.Fatalf("expected ErrNotStored for replace on absent key, got %v", err)
	}
	if err := c.Append(&memcache.Item{Key: "b", Value: []byte("x")}); !errors.Is(err, memcache.ErrNotStored) {
		t.Fatalf("expected ErrNotStored for append on absent key, got %v", err)
	}
	if err := c.Prepend(&memcache.Item{Key: "b", Value: []byte("x")}); !errors.Is(err, memcache.ErrNotStored) {
		t.Fatalf("expected ErrNotStored for prepend on absent key, got %v", err)
	}
}

func TestClientRoundTripAndCounters(t *testing.T) {
	c := memclient.New("127.0.0.1:11211")
	if err := c.Set(&memcache.Item{Key: "n", Value: []byte("10"), Expiration: 3600}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	item, err := c.Get("n")
	if err != nil || string(item.Value) != "10" {
		t.Fatalf("expected \"10\", got %q err=%v", item.Value, err)
	}
	n, err := c.Increment("n", 5)
	if err != nil || n != 15 {
		t.Fatalf("expected 15, got %d err=%v", n, err)
	}
	n, err = c.Decrement("n", 5)
	if err != nil || n != 10 {
		t.Fatalf("expected 10, got %d err=%v", n, err)
	}
}

func TestClientGetMultiOmitsMissingKeys(t *testing.T) {
	c := memclient.New()
	for _, kv := range [][2]string{{"a", "1"}, {"b", "2"}} {
		if err := c.Set(&memcache.Item{Key: kv[0], Value: []byte(kv[1])}); err != nil {
			t.Fatalf("set %s failed: %v", kv[0], err)
		}
	}
	items, err := c.GetMulti([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("getmulti failed: %v", err)
	}
	if len(items) != 2 || string(items["a"].Value) != "1" || string(items["b"].Value) != "2" {
		t.Fatalf("unexpected result: %v", items)
	}
}

func TestClientWrapSharesEntries(t *testing.T) {
	mock := mockcache.New()
	c := memclient.Wrap(mock)
	if err := c.Set(&memcache.Item{Key: "shared", Value: []byte("v")}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if v, ok := mock.Get("shared"); !ok || v.String() != "v" {
		t.Fatalf("expected write to land in the wrapped mock, got %q ok=%v", v.String(), ok)
	}
	if c.Mock() != mock {
		t.Fatalf("expected Mock to return the wrapped client")
	}
}

func TestClientFlushAndDeleteAll(t *testing.T) {
	c := memclient.New()
	if err := c.Set(&memcache.Item{Key: "a", Value: []byte("1")}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := c.FlushAll(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if _, err := c.Get("a"); !errors.Is(err, memcache.ErrCacheMiss) {
		t.Fatalf("expected miss after flush, got %v", err)
	}
	if err := c.Set(&memcache.Item{Key: "b", Value: []byte("2")}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := c.DeleteAll(); err != nil {
		t.Fatalf("delete all failed: %v", err)
	}
	if _, err := c.Get("b"); !errors.Is(err, memcache.ErrCacheMiss) {
		t.Fatalf("expected miss after delete all, got %v", err)
	}
}
