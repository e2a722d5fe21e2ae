package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/PigStep/vibe-idef0-front/pkg/cache"
	"github.com/PigStep/vibe-idef0-front/pkg/graph"
	"github.com/PigStep/vibe-idef0-front/pkg/idef0"
	"github.com/PigStep/vibe-idef0-front/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeDocument = "document"
	keyTypePreview  = "preview"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching and instrumentation behave the same.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Convert renders d as an mxGraph document, reusing a cached document when
// the same diagram was converted with the same options before.
func (r *Runner) Convert(ctx context.Context, d *idef0.Diagram, opts Options) (result *Result, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnConvertStart(ctx, d.Name(), d.NodeCount(), d.EdgeCount())
	defer func() {
		size := 0
		if result != nil {
			size = len(result.Document)
		}
		hooks.OnConvertComplete(ctx, d.Name(), size, time.Since(start), err)
	}()

	hash, err := DiagramHash(d)
	if err != nil {
		return nil, err
	}
	result = &Result{
		Diagram:     d,
		DiagramHash: hash,
		Stats:       Stats{NodeCount: d.NodeCount(), EdgeCount: d.EdgeCount()},
	}

	key := r.Keyer.DocumentKey(hash, opts.DocumentKeyOpts())
	if data, hit := r.lookup(ctx, key, keyTypeDocument, opts.Refresh); hit {
		result.Document = data
		result.CacheHit = true
	} else {
		doc, err := RenderDocument(d, opts)
		if err != nil {
			return nil, err
		}
		result.Document = doc
		r.store(ctx, key, keyTypeDocument, doc, cache.ArtifactTTL)
	}

	result.Stats.Bytes = len(result.Document)
	result.Stats.RenderTime = time.Since(start)

	opts.Logger.Debug("converted diagram",
		"name", d.Name(),
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"bytes", result.Stats.Bytes,
		"cached", result.CacheHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// PreviewWithCacheInfo renders a Graphviz preview with caching and returns
// cache hit info.
func (r *Runner) PreviewWithCacheInfo(ctx context.Context, d *idef0.Diagram, opts Options) (data []byte, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForPreview(); err != nil {
		return nil, false, err
	}

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnPreviewStart(ctx, d.Name(), opts.Format)
	defer func() {
		hooks.OnPreviewComplete(ctx, d.Name(), opts.Format, time.Since(start), err)
	}()

	hash, err := DiagramHash(d)
	if err != nil {
		return nil, false, err
	}

	key := r.Keyer.PreviewKey(hash, opts.PreviewKeyOpts())
	if cached, ok := r.lookup(ctx, key, keyTypePreview, opts.Refresh); ok {
		return cached, true, nil
	}

	data, err = RenderPreview(d, opts)
	if err != nil {
		return nil, false, err
	}
	r.store(ctx, key, keyTypePreview, data, cache.PreviewTTL)

	opts.Logger.Debug("rendered preview",
		"name", d.Name(),
		"format", opts.Format,
		"bytes", len(data),
		"duration", time.Since(start))

	return data, false, nil
}

// Preview is a convenience wrapper that calls PreviewWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Preview(ctx context.Context, d *idef0.Diagram, opts Options) ([]byte, error) {
	data, _, err := r.PreviewWithCacheInfo(ctx, d, opts)
	return data, err
}

// Layout computes the geometry of d. Layouts are not cached.
func (r *Runner) Layout(_ context.Context, d *idef0.Diagram, opts Options) (graph.Layout, error) {
	l, err := ComputeLayout(d, opts)
	if err != nil {
		return graph.Layout{}, fmt.Errorf("layout: %w", err)
	}
	return l, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup reads key from the cache. Cache failures are logged and treated
// as misses so a broken backend never fails a conversion.
func (r *Runner) lookup(ctx context.Context, key, keyType string, refresh bool) ([]byte, bool) {
	if refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
