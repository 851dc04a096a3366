// Package bridge implements the host-side translation orchestrator: it
// owns the dictionary engine, tracks running/stopped lifecycle, and
// aggregates the hit/miss/latency statistics around every lookup.
package bridge

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gamestringer/gsbridge/internal/apperrors"
	"github.com/gamestringer/gsbridge/internal/dictionary"
	"github.com/gamestringer/gsbridge/internal/logger"
	"github.com/gamestringer/gsbridge/internal/protocol"
)

// Stats is a snapshot of bridge counters. Observability only.
type Stats struct {
	TotalRequests     uint64  `json:"total_requests"`
	CacheHits         uint64  `json:"cache_hits"`
	CacheMisses       uint64  `json:"cache_misses"`
	Errors            uint64  `json:"errors"`
	AvgResponseTimeUs float64 `json:"avg_response_time_us"`
	UptimeSeconds     uint64  `json:"uptime_seconds"`
}

// Bridge owns one dictionary engine for its lifetime. There is no global
// instance: each monitored game process gets its own bridge, constructed
// and torn down with it.
//
// The engine, the statistics block and the lifecycle flag are independent
// resources with independent locks. Statistics are updated strictly after
// the engine read lock is released, so the two are never held together.
type Bridge struct {
	id string

	engineMu sync.RWMutex
	engine   *dictionary.Engine

	statsMu sync.Mutex
	stats   Stats

	running   atomic.Bool
	startTime time.Time

	watchMu sync.Mutex
	watcher *watcher
}

// New creates a stopped bridge with an empty dictionary engine.
func New() *Bridge {
	return &Bridge{
		id:     uuid.NewString(),
		engine: dictionary.NewEngine(),
	}
}

// ID returns the bridge instance identifier used in logs.
func (b *Bridge) ID() string {
	return b.id
}

// Start begins servicing lookups. Starting an already-running bridge is
// an error: it almost always indicates a caller bug worth surfacing.
func (b *Bridge) Start() error {
	if !b.running.CompareAndSwap(false, true) {
		return apperrors.New(apperrors.KindLifecycle, "translation bridge is already running", nil)
	}
	b.startTime = time.Now()
	logger.Info("Translation bridge started", "bridge_id", b.id)
	return nil
}

// Stop halts the bridge. Stopping an already-stopped bridge is a no-op.
func (b *Bridge) Stop() {
	if !b.running.CompareAndSwap(true, false) {
		return
	}
	b.Unwatch()
	b.startTime = time.Time{}
	logger.Info("Translation bridge stopped", "bridge_id", b.id)
}

// IsRunning reports whether Start has been called without a matching Stop.
func (b *Bridge) IsRunning() bool {
	return b.running.Load()
}

// SetActiveLanguages switches the pair untargeted lookups resolve against.
func (b *Bridge) SetActiveLanguages(source, target string) {
	b.engineMu.Lock()
	defer b.engineMu.Unlock()
	b.engine.SetActiveLanguages(source, target)
}

// LoadDictionary bulk-loads pairs. Safe at any time, including while
// requests are in flight: the engine is extended under the write lock
// while readers wait, never swapped out from under them.
func (b *Bridge) LoadDictionary(source, target string, pairs [][2]string) int {
	b.engineMu.Lock()
	defer b.engineMu.Unlock()
	return b.engine.LoadTranslations(source, target, pairs)
}

// LoadDictionaryFromJSON hot-loads a dictionary file.
func (b *Bridge) LoadDictionaryFromJSON(path string) (int, error) {
	b.engineMu.Lock()
	defer b.engineMu.Unlock()
	return b.engine.LoadFromJSON(path)
}

// LoadDictionaryFromCSV hot-loads a CSV dictionary file.
func (b *Bridge) LoadDictionaryFromCSV(path string, sourceCol, targetCol int) (int, error) {
	b.engineMu.Lock()
	defer b.engineMu.Unlock()
	return b.engine.LoadFromCSV(path, sourceCol, targetCol)
}

// AddTranslation inserts one entry into the active pair.
func (b *Bridge) AddTranslation(original, translated string) {
	b.engineMu.Lock()
	defer b.engineMu.Unlock()
	b.engine.AddTranslation(original, translated)
}

// ExportToJSON writes the active pair's dictionary to path.
func (b *Bridge) ExportToJSON(path string) error {
	b.engineMu.RLock()
	defer b.engineMu.RUnlock()
	return b.engine.ExportToJSON(path)
}

// ClearAll evicts every loaded dictionary.
func (b *Bridge) ClearAll() {
	b.engineMu.Lock()
	defer b.engineMu.Unlock()
	b.engine.ClearAll()
}

// Translate resolves text against the active pair and records statistics.
// A false return is the normal "no translation" outcome.
func (b *Bridge) Translate(text string) (string, bool) {
	resp := b.Resolve(protocol.NewRequest(text))
	return resp.TranslatedText, resp.FromCache
}

// Resolve serves a protocol-level request, reusing its precomputed hash.
// This is the operation the transport invokes for every pending slot.
func (b *Bridge) Resolve(req protocol.Request) protocol.Response {
	start := time.Now()

	b.engineMu.RLock()
	translated, found := b.engine.GetTranslation(req.Hash, req.OriginalText)
	b.engineMu.RUnlock()

	elapsed := float64(time.Since(start).Microseconds())

	b.statsMu.Lock()
	b.stats.TotalRequests++
	if found {
		b.stats.CacheHits++
	} else {
		b.stats.CacheMisses++
	}
	n := float64(b.stats.TotalRequests)
	b.stats.AvgResponseTimeUs = (b.stats.AvgResponseTimeUs*(n-1) + elapsed) / n
	b.statsMu.Unlock()

	return protocol.Response{
		TranslatedText:   translated,
		FromCache:        found,
		ProcessingTimeUs: uint64(elapsed),
	}
}

// RecordError counts an irrecoverable slot failure (corrupt offsets,
// oversized payload). Called by the transport.
func (b *Bridge) RecordError() {
	b.statsMu.Lock()
	b.stats.Errors++
	b.statsMu.Unlock()
}

// GetStats returns a snapshot with uptime computed at call time.
func (b *Bridge) GetStats() Stats {
	b.statsMu.Lock()
	snapshot := b.stats
	b.statsMu.Unlock()

	if b.running.Load() && !b.startTime.IsZero() {
		snapshot.UptimeSeconds = uint64(time.Since(b.startTime).Seconds())
	}
	return snapshot
}

// EngineStats returns the dictionary engine's observability snapshot.
func (b *Bridge) EngineStats() dictionary.Stats {
	b.engineMu.RLock()
	defer b.engineMu.RUnlock()
	return b.engine.GetStats()
}
