package mockcache

// Observer receives events for client operations.
// It is called synchronously after each verb completes.
type Observer interface {
	OnCacheOp(op string, key string, hit bool)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(op string, key string, hit bool)

// OnCacheOp implements Observer.
func (f ObserverFunc) OnCacheOp(op string, key string, hit bool) {
	if f == nil {
		return
	}
	f(op, key, hit)
}
