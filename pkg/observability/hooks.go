// Package observability lets the idef0 libraries report what they do without
// depending on a metrics or tracing backend.
//
// Four hook interfaces cover the event sources: [PipelineHooks] (conversions
// and previews), [CacheHooks], [StoreHooks] (stored document lookups) and
// [HTTPHooks]. Each has a no-op implementation, which is what the accessors
// return until something is registered. [LogHooks] implements all four on a
// charmbracelet/log logger; `idef0 serve` registers it at startup:
//
//	observability.NewLogHooks(logger).Register()
//
// Emitting sites fetch the current hooks on every call:
//
//	start := time.Now()
//	observability.Pipeline().OnConvertStart(ctx, d.Name(), d.NodeCount(), d.EdgeCount())
//	doc, err := mxgraph.Convert(d, opts)
//	observability.Pipeline().OnConvertComplete(ctx, d.Name(), len(doc), time.Since(start), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the conversion pipeline.
type PipelineHooks interface {
	// Convert events (layout, routing and XML emission)
	OnConvertStart(ctx context.Context, diagram string, nodeCount, edgeCount int)
	OnConvertComplete(ctx context.Context, diagram string, size int, duration time.Duration, err error)

	// Preview events (Graphviz rendering)
	OnPreviewStart(ctx context.Context, diagram, format string)
	OnPreviewComplete(ctx context.Context, diagram, format string, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// keyType is "document", "preview" or "variant".
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// StoreHooks receives events from artifact lookups.
type StoreHooks interface {
	// OnLookup records a completed lookup. size is zero on error.
	OnLookup(ctx context.Context, backend, variant string, size int, duration time.Duration, err error)
}

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnConvertStart(context.Context, string, int, int) {}
func (NoopPipelineHooks) OnConvertComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnPreviewStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnPreviewComplete(context.Context, string, string, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLookup(context.Context, string, string, int, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                     {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// hookSet is swapped as a whole so readers never lock.
type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
	store    StoreHooks
	http     HTTPHooks
}

var current atomic.Pointer[hookSet]

func init() { Reset() }

// update applies fn to a copy of the current set and publishes it.
func update(fn func(*hookSet)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks registers pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(s *hookSet) { s.pipeline = h })
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *hookSet) { s.cache = h })
	}
}

// SetStoreHooks registers store hooks. A nil h is ignored.
func SetStoreHooks(h StoreHooks) {
	if h != nil {
		update(func(s *hookSet) { s.store = h })
	}
}

// SetHTTPHooks registers HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(s *hookSet) { s.http = h })
	}
}

func Pipeline() PipelineHooks { return current.Load().pipeline }
func Cache() CacheHooks       { return current.Load().cache }
func Store() StoreHooks       { return current.Load().store }
func HTTP() HTTPHooks         { return current.Load().http }

// Reset restores the no-op hooks. Tests call it to undo registrations.
func Reset() {
	current.Store(&hookSet{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		store:    NoopStoreHooks{},
		http:     NoopHTTPHooks{},
	})
}
