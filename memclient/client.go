package memclient

import (
	"github.com/bradfitz/gomemcache/memcache"

	"github.com/goforj/mockcache"
)

// Client adapts a mockcache.Client to the gomemcache client surface.
// Like the client it wraps, it is not safe for concurrent use.
type Client struct {
	mock *mockcache.Client
}

// New builds an adapter around a fresh empty mock. Server addresses are
// accepted and ignored, mirroring memcache.New.
func New(servers ...string) *Client {
	return Wrap(mockcache.New(servers...))
}

// Wrap builds an adapter around an existing mock, sharing its entries.
func Wrap(mock *mockcache.Client) *Client {
	return &Client{mock: mock}
}

// Mock returns the wrapped client for direct inspection in tests.
func (c *Client) Mock() *mockcache.Client {
	return c.mock
}

// Ping always succeeds; there is no server to reach.
func (c *Client) Ping() error {
	return nil
}

// Close does nothing. There is no connection to release.
func (c *Client) Close() error {
	return nil
}

// Get returns the item for key or ErrCacheMiss.
func (c *Client) Get(key string) (*memcache.Item, error) {
	v, ok := c.mock.Get(key)
	if !ok {
		return nil, memcache.ErrCacheMiss
	}
	return &memcache.Item{Key: key, Value: v.Bytes()}, nil
}

// GetMulti returns the live items among keys. Missing keys are simply
// absent from the result, never an error.
func (c *Client) GetMulti(keys []string) (map[string]*memcache.Item, error) {
	values := c.mock.GetMulti(keys...)
	items := make(map[string]*memcache.Item, len(values))
	for key, v := range values {
		items[key] = &memcache.Item{Key: key, Value: v.Bytes()}
	}
	return items, nil
}

// Set writes item unconditionally.
func (c *Client) Set(item *memcache.Item) error {
	c.mock.Set(item.Key, mockcache.Bytes(item.Value), int64(item.Expiration))
	return nil
}

// Add writes item only if the key is not already present.
func (c *Client) Add(item *memcache.Item) error {
	if c.mock.Add(item.Key, mockcache.Bytes(item.Value), int64(item.Expiration)) == 0 {
		return memcache.ErrNotStored
	}
	return nil
}

// Replace writes item only if the key is already present.
func (c *Client) Replace(item *memcache.Item) error {
	if c.mock.Replace(item.Key, mockcache.Bytes(item.Value), int64(item.Expiration)) == 0 {
		return memcache.ErrNotStored
	}
	return nil
}

// Append concatenates item.Value after the existing value.
func (c *Client) Append(item *memcache.Item) error {
	if c.mock.Append(item.Key, string(item.Value)) == 0 {
		return memcache.ErrNotStored
	}
	return nil
}

// Prepend concatenates item.Value before the existing value.
func (c *Client) Prepend(item *memcache.Item) error {
	if c.mock.Prepend(item.Key, string(item.Value)) == 0 {
		return memcache.ErrNotStored
	}
	return nil
}

// Delete removes key immediately or reports ErrCacheMiss.
func (c *Client) Delete(key string) error {
	if c.mock.Delete(key, 0) == 0 {
		return memcache.ErrCacheMiss
	}
	return nil
}

// DeleteAll removes every entry.
func (c *Client) DeleteAll() error {
	c.mock.FlushAll()
	return nil
}

// FlushAll removes every entry.
func (c *Client) FlushAll() error {
	c.mock.FlushAll()
	return nil
}

// Increment adds delta to the numeric value under key and returns the
// result. Misses are ErrCacheMiss; non-numeric content fails the call.
func (c *Client) Increment(key string, delta uint64) (uint64, error) {
	n, ok, err := c.mock.Increment(key, int64(delta))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, memcache.ErrCacheMiss
	}
	return uint64(n), nil
}

// Decrement subtracts delta from the numeric value under key and returns
// the result.
func (c *Client) Decrement(key string, delta uint64) (uint64, error) {
	n, ok, err := c.mock.Decrement(key, int64(delta))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, memcache.ErrCacheMiss
	}
	return uint64(n), nil
}

// Touch refreshes the expiration of a live key or reports ErrCacheMiss.
func (c *Client) Touch(key string, seconds int32) error {
	if c.mock.Touch(key, int64(seconds)) == 0 {
		return memcache.ErrCacheMiss
	}
	return nil
}
