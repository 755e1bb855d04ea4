// Package mockcachetest provides a reusable memcached client behavior
// suite. The contract is expressed against the gomemcache client surface,
// so it runs unmodified against the in-process mock (via memclient) and
// against a real memcached server — which is how the mock's fidelity is
// verified in the integration tests.
package mockcachetest
