// Package observability provides hooks for metrics, tracing, and logging.
//
// The packer, the cache, and the HTTP server emit events through hook
// interfaces instead of depending on a metrics backend. main registers
// concrete implementations at startup; everything else calls the registry.
//
// # Usage
//
//	func main() {
//	    observability.SetPackHooks(&myPackHooks{})
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pack().OnPackStart(ctx, len(sizes))
//	layout, err := packer.Pack(sizes)
//	observability.Pack().OnPackComplete(ctx, dim, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pack Hooks
// =============================================================================

// PackHooks receives events from the atlas pipeline.
type PackHooks interface {
	// Layout events
	OnPackStart(ctx context.Context, sprites int)
	OnPackComplete(ctx context.Context, dimension uint32, duration time.Duration, err error)

	// Artifact events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPackHooks is a no-op implementation of PackHooks.
type NoopPackHooks struct{}

func (NoopPackHooks) OnPackStart(context.Context, int)                                 {}
func (NoopPackHooks) OnPackComplete(context.Context, uint32, time.Duration, error)     {}
func (NoopPackHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPackHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                       {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	packHooks  PackHooks  = NoopPackHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetPackHooks registers custom pack hooks.
// This should be called once at application startup before any packing.
func SetPackHooks(h PackHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		packHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pack returns the registered pack hooks.
func Pack() PackHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return packHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	packHooks = NoopPackHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
