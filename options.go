package mockcache

// Option mutates Config when constructing a client.
type Option func(Config) Config

// WithServers records server addresses for constructor-signature
// compatibility. The addresses are never dialed.
func WithServers(servers ...string) Option {
	return func(cfg Config) Config {
		cfg.Servers = servers
		return cfg
	}
}

// WithObserver sets the observer notified after each operation.
func WithObserver(o Observer) Option {
	return func(cfg Config) Config {
		cfg.Observer = o
		return cfg
	}
}
