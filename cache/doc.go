// Package cache provides a concurrent memoizing wrapper around a key to value
// computation.
//
// Concurrent guarantees that for any key at most one computation runs at a
// time and that all callers observe the identical published value. Entries
// are kept for the lifetime of the cache; there is no eviction.
//
//	classes := cache.New(cache.MapperFunc[string, *classes.Class](load))
//	classes.AddKeyListener(cache.KeyListenerFunc[string](func(name string) {
//	    // runs once per name, before any waiter for name returns
//	}))
//	cls, err := classes.Map("java.lang.Object")
package cache
