package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by logging at debug level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that write to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l}
}

// Register installs h for every event category.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetStoreHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnConvertStart(_ context.Context, diagram string, nodeCount, edgeCount int) {
	h.Logger.Debug("convert start", "diagram", diagram, "nodes", nodeCount, "edges", edgeCount)
}

func (h *LogHooks) OnConvertComplete(_ context.Context, diagram string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("convert failed", "diagram", diagram, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("convert done", "diagram", diagram, "bytes", size, "duration", d)
}

func (h *LogHooks) OnPreviewStart(_ context.Context, diagram, format string) {
	h.Logger.Debug("preview start", "diagram", diagram, "format", format)
}

func (h *LogHooks) OnPreviewComplete(_ context.Context, diagram, format string, d time.Duration, err error) {
	h.Logger.Debug("preview done", "diagram", diagram, "format", format, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnLookup(_ context.Context, backend, variant string, size int, d time.Duration, err error) {
	h.Logger.Debug("lookup", "backend", backend, "variant", variant, "bytes", size, "duration", d, "err", err)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ StoreHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
