// Package observability provides hooks for metrics, tracing, and logging.
//
// Library code reports events through small hook interfaces; the binary
// decides what to do with them. Nothing here depends on a metrics or tracing
// framework.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEmitHooks(&myEmitHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Emit().OnEmitStart(ctx, cell, view, l.Len())
//	// ... emit ...
//	observability.Emit().OnEmitComplete(ctx, cell, view, figures, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Emit Hooks
// =============================================================================

// EmitHooks receives events from the emission pipeline.
type EmitHooks interface {
	// OnEmitStart is called after the design is opened.
	OnEmitStart(ctx context.Context, cell, view string, entities int)

	// OnEntitySkipped is called for every entity dropped by a lookup miss.
	OnEntitySkipped(ctx context.Context, kind string, index int, code string)

	// OnEmitComplete is called once per run, with the number of create calls
	// issued and the terminal error, if any.
	OnEmitComplete(ctx context.Context, cell, view string, figures int, duration time.Duration, err error)
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

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnError records a request that failed with an error.
	OnError(ctx context.Context, method, route string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEmitHooks is a no-op implementation of EmitHooks.
type NoopEmitHooks struct{}

func (NoopEmitHooks) OnEmitStart(context.Context, string, string, int)                          {}
func (NoopEmitHooks) OnEntitySkipped(context.Context, string, int, string)                      {}
func (NoopEmitHooks) OnEmitComplete(context.Context, string, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	emitHooks  EmitHooks  = NoopEmitHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetEmitHooks registers custom emission hooks.
// This should be called once at application startup before any emission.
func SetEmitHooks(h EmitHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		emitHooks = h
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

// Emit returns the registered emission hooks.
func Emit() EmitHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return emitHooks
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
	emitHooks = NoopEmitHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
