package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines to a
// charm logger. The CLI installs it with --verbose.
type LogHooks struct {
	Logger *log.Logger
}

// Install registers h for all hook categories.
func (h *LogHooks) Install() {
	SetPackHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnPackStart(_ context.Context, sprites int) {
	h.Logger.Debug("pack start", "sprites", sprites)
}

func (h *LogHooks) OnPackComplete(_ context.Context, dimension uint32, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("pack failed", "elapsed", d, "err", err)
		return
	}
	h.Logger.Debug("pack complete", "dimension", dimension, "elapsed", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("render complete", "formats", formats, "elapsed", d, "err", err)
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

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "route", route, "status", status, "elapsed", d)
}
