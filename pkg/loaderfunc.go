package cache

// loaderfunc.go defines LoaderFunc, the user-supplied callback that
// produces a value when Cache.GetOrLoad misses. Kept in its own file so
// it can be referenced from cache.go without clutter.
//
// © 2025 clockpro-cache authors. MIT License.

import "context"

// LoaderFunc is invoked by GetOrLoad when a key is absent. It should
// honour ctx for cancellation. If it returns an error the value is not
// inserted into the cache and the error is propagated to the caller.
type LoaderFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)
