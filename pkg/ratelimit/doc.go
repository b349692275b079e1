// Package ratelimit provides a fixed-window rate limiter with pluggable
// counter storage.
//
// A FixedWindow limiter tracks one counter per key; the counter starts a
// window on first use and resets when the window expires. Two Store backends
// are provided: MemoryStore for single-instance deployments and RedisStore
// for sharing one budget across replicas.
//
//	store := ratelimit.NewMemoryStore()
//	limiter, _ := ratelimit.NewFixedWindow(store, 10, 15*time.Minute)
//	r.Use(ratelimit.Middleware(limiter, ratelimit.ByClientIP()))
package ratelimit
