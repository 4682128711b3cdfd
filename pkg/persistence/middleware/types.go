// Package middleware wraps cache stores with extra behavior.
package middleware

import "github.com/aretw0/fixtures/pkg/ports"

// Middleware allows wrapping a CacheStore to add behavior.
type Middleware func(ports.CacheStore) ports.CacheStore

// Chain applies middlewares so that the first one is outermost.
func Chain(store ports.CacheStore, mws ...Middleware) ports.CacheStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
