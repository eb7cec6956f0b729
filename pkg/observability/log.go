package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level entries
// to a charmbracelet logger. Failures are logged at warn level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger. A nil logger uses the
// package default.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger.WithPrefix("obs")}
}

func (h *LogHooks) done(msg string, err error, kv ...any) {
	if err != nil {
		h.Logger.Warn(msg, append(kv, "err", err)...)
		return
	}
	h.Logger.Debug(msg, kv...)
}

func (h *LogHooks) OnGenerateStart(_ context.Context, nodes int) {
	h.Logger.Debug("generate start", "nodes", nodes)
}

func (h *LogHooks) OnGenerateComplete(_ context.Context, nodes, edges int, d time.Duration, err error) {
	h.done("generate done", err, "nodes", nodes, "edges", edges, "took", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, algorithm string, nodeCount int) {
	h.Logger.Debug("layout start", "algorithm", algorithm, "nodes", nodeCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, algorithm string, d time.Duration, err error) {
	h.done("layout done", err, "algorithm", algorithm, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string) {
	h.Logger.Debug("render start", "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, writes int, d time.Duration, err error) {
	h.done("render done", err, "format", format, "writes", writes, "took", d)
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

func (h *LogHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Info("request", "method", method, "route", route, "status", status, "took", d)
}

func (h *LogHooks) OnStreamFrame(_ context.Context, graphID string, frame, mutations int) {
	h.Logger.Debug("frame", "graph", graphID, "frame", frame, "mutations", mutations)
}

func (h *LogHooks) OnStreamClosed(_ context.Context, graphID string, frames int, err error) {
	h.done("stream closed", err, "graph", graphID, "frames", frames)
}

// Install registers h for all hook categories.
func (h *LogHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetServerHooks(h)
}
