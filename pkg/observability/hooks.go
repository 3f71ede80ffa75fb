// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events from the core packages and the self checks.
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
//	    observability.SetFlipHooks(&myFlipHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	// ... flip ...
//	observability.Flip().OnFlip(session, index, time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Sampler Hooks
// =============================================================================

// SamplerHooks receives events from the random generators.
type SamplerHooks interface {
	// OnSample records one generated structure. kind is "path", "tree" or
	// "dissection"; size is its step, node or side count.
	OnSample(kind string, size int, duration time.Duration)
}

// =============================================================================
// Flip Hooks
// =============================================================================

// FlipHooks receives events from flip sessions.
type FlipHooks interface {
	// OnFlip records an applied flip.
	OnFlip(session string, index int, duration time.Duration)

	// OnNotifyError records a flip whose notification could not be delivered.
	OnNotifyError(session string, index int, err error)
}

// =============================================================================
// Check Hooks
// =============================================================================

// CheckHooks receives events from self-check runs.
type CheckHooks interface {
	OnCheckStart(ctx context.Context, check string, trials int)
	OnCheckComplete(ctx context.Context, check string, trials int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSamplerHooks is a no-op implementation of SamplerHooks.
type NoopSamplerHooks struct{}

func (NoopSamplerHooks) OnSample(string, int, time.Duration) {}

// NoopFlipHooks is a no-op implementation of FlipHooks.
type NoopFlipHooks struct{}

func (NoopFlipHooks) OnFlip(string, int, time.Duration)  {}
func (NoopFlipHooks) OnNotifyError(string, int, error) {}

// NoopCheckHooks is a no-op implementation of CheckHooks.
type NoopCheckHooks struct{}

func (NoopCheckHooks) OnCheckStart(context.Context, string, int)                           {}
func (NoopCheckHooks) OnCheckComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	samplerHooks SamplerHooks = NoopSamplerHooks{}
	flipHooks    FlipHooks    = NoopFlipHooks{}
	checkHooks   CheckHooks   = NoopCheckHooks{}
	hooksMu      sync.RWMutex
)

// SetSamplerHooks registers custom sampler hooks.
// This should be called once at application startup.
func SetSamplerHooks(h SamplerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		samplerHooks = h
	}
}

// SetFlipHooks registers custom flip hooks.
// This should be called once at application startup.
func SetFlipHooks(h FlipHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		flipHooks = h
	}
}

// SetCheckHooks registers custom check hooks.
// This should be called once at application startup.
func SetCheckHooks(h CheckHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		checkHooks = h
	}
}

// Sampler returns the registered sampler hooks.
func Sampler() SamplerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return samplerHooks
}

// Flip returns the registered flip hooks.
func Flip() FlipHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return flipHooks
}

// Check returns the registered check hooks.
func Check() CheckHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return checkHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	samplerHooks = NoopSamplerHooks{}
	flipHooks = NoopFlipHooks{}
	checkHooks = NoopCheckHooks{}
}
