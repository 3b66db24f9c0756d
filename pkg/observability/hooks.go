// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about frame rendering, GPU
// synchronization, and marker store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the viewport engine dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, plain logs, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetFrameHooks(&myFrameHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Frame().OnGPUWaitComplete(areaCount, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Frame Hooks
// =============================================================================

// FrameHooks receives events from the per-frame render sequence.
type FrameHooks interface {
	// OnFrameStart is called at the top of each group render.
	OnFrameStart(areaCount int)

	// OnFrameComplete is called when the group finishes a frame.
	OnFrameComplete(areaCount int, duration time.Duration)

	// OnToneMapDispatch is called once per frame when the tone-map pass
	// fans out across all areas.
	OnToneMapDispatch(areaCount int)

	// OnGPUWaitComplete is called after a device-wide idle barrier on the
	// deferred area close path, with the number of areas reaped and the
	// time spent blocked.
	OnGPUWaitComplete(reaped int, waited time.Duration)

	// OnPersistenceCleared is called when the persistence flag is consumed.
	OnPersistenceCleared()
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from marker store operations.
type StoreHooks interface {
	// OnMarkerLoad records a marker collection read.
	OnMarkerLoad(ctx context.Context, backend string, count int, err error)

	// OnMarkerSave records a marker collection write.
	OnMarkerSave(ctx context.Context, backend string, count int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopFrameHooks is a no-op implementation of FrameHooks.
type NoopFrameHooks struct{}

func (NoopFrameHooks) OnFrameStart(int)                     {}
func (NoopFrameHooks) OnFrameComplete(int, time.Duration)   {}
func (NoopFrameHooks) OnToneMapDispatch(int)                {}
func (NoopFrameHooks) OnGPUWaitComplete(int, time.Duration) {}
func (NoopFrameHooks) OnPersistenceCleared()                {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnMarkerLoad(context.Context, string, int, error) {}
func (NoopStoreHooks) OnMarkerSave(context.Context, string, int, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	frameHooks FrameHooks = NoopFrameHooks{}
	storeHooks StoreHooks = NoopStoreHooks{}
	hooksMu    sync.RWMutex
)

// SetFrameHooks registers custom frame hooks.
// This should be called once at application startup before rendering begins.
func SetFrameHooks(h FrameHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		frameHooks = h
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

// Frame returns the registered frame hooks.
func Frame() FrameHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return frameHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	frameHooks = NoopFrameHooks{}
	storeHooks = NoopStoreHooks{}
}
