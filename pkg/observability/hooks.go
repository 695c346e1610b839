// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about designer operations, layout persistence, blob store
// access and API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, which keeps the engine
// free of observability frameworks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDesignerHooks(&myDesignerHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	err := session.Move(ctx, id, to)
//	observability.Designer().OnOperation(ctx, "move", time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Designer Hooks
// =============================================================================

// DesignerHooks receives events from designer sessions.
type DesignerHooks interface {
	// OnOperation records a completed designer operation (drop, move, assign, ...).
	// err is nil on success and carries the rejection reason otherwise.
	OnOperation(ctx context.Context, op string, duration time.Duration, err error)

	// OnUndo records a snapshot restore; depth is the remaining stack depth.
	OnUndo(ctx context.Context, depth int)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the save/load/export pipeline.
type PipelineHooks interface {
	OnSaveStart(ctx context.Context, key string, items int)
	OnSaveComplete(ctx context.Context, key string, duration time.Duration, err error)

	OnLoadComplete(ctx context.Context, key string, items int, duration time.Duration, err error)

	OnExportStart(ctx context.Context, format string)
	OnExportComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from blob store operations.
type StoreHooks interface {
	// OnStoreHit records a successful read.
	OnStoreHit(ctx context.Context, keyType string)

	// OnStoreMiss records a read of a missing key.
	OnStoreMiss(ctx context.Context, keyType string)

	// OnStoreSet records a write.
	OnStoreSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the response to a request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDesignerHooks is a no-op implementation of DesignerHooks.
type NoopDesignerHooks struct{}

func (NoopDesignerHooks) OnOperation(context.Context, string, time.Duration, error) {}
func (NoopDesignerHooks) OnUndo(context.Context, int)                               {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnSaveStart(context.Context, string, int)                           {}
func (NoopPipelineHooks) OnSaveComplete(context.Context, string, time.Duration, error)       {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnExportStart(context.Context, string)                              {}
func (NoopPipelineHooks) OnExportComplete(context.Context, string, int, time.Duration, error) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreHit(context.Context, string)      {}
func (NoopStoreHooks) OnStoreMiss(context.Context, string)     {}
func (NoopStoreHooks) OnStoreSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                          {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	designerHooks DesignerHooks = NoopDesignerHooks{}
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	storeHooks    StoreHooks    = NoopStoreHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetDesignerHooks registers custom designer hooks.
func SetDesignerHooks(h DesignerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		designerHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
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

// Designer returns the registered designer hooks.
func Designer() DesignerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return designerHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
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
	designerHooks = NoopDesignerHooks{}
	pipelineHooks = NoopPipelineHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
