// Package memclient exposes the mock cache through the method surface of
// github.com/bradfitz/gomemcache/memcache.Client, so code written against
// that client can be handed an in-process stand-in without modification.
//
// The adapter speaks gomemcache's vocabulary: misses are ErrCacheMiss,
// rejected Add/Replace/Append/Prepend calls are ErrNotStored, and values
// travel as *memcache.Item. Item.Flags and compare-and-swap are not
// emulated, and Decrement does not clamp underflow at zero the way a real
// server does.
package memclient
