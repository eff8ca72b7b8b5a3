package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failed
// operations are logged at warn level. It implements all hook interfaces.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to l, or to log.Default() when nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{Logger: l}
}

// Register installs h for every event category.
func (h *LogHooks) Register() {
	SetRenderHooks(h)
	SetCacheHooks(h)
	SetStoreHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnDecode(_ context.Context, elements, skipped, dangling int) {
	lvl := log.DebugLevel
	if skipped > 0 || dangling > 0 {
		lvl = log.WarnLevel
	}
	h.Logger.Log(lvl, "decoded document", "elements", elements, "skipped", skipped, "dangling", dangling)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("render failed", "formats", formats, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("render complete", "formats", formats, "duration", d)
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

func (h *LogHooks) OnStoreOp(_ context.Context, backend, op, name string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("store "+op, "backend", backend, "name", name, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("store "+op, "backend", backend, "name", name, "duration", d)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Info("request", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ RenderHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ StoreHooks  = (*LogHooks)(nil)
	_ HTTPHooks   = (*LogHooks)(nil)
)
