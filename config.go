package mockcache

// Config controls how a Client is constructed.
type Config struct {
	// Servers is accepted and ignored. Real memcached clients take an
	// address list here; keeping the field lets configuration written for
	// one carry over unchanged.
	Servers []string

	// Observer receives an event after each operation when non-nil.
	Observer Observer
}
