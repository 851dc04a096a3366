package shmring

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/gamestringer/gsbridge/internal/apperrors"
	"github.com/gamestringer/gsbridge/internal/bridge"
	"github.com/gamestringer/gsbridge/internal/logger"
	"github.com/gamestringer/gsbridge/internal/protocol"
)

// Config tunes the host serve loop.
type Config struct {
	// RequestTimeout is the age past which an unanswered slot is
	// reclaimed so an abandoned request can never deadlock the ring.
	RequestTimeout time.Duration
	// PollInterval is the sleep between serve passes when the ring is idle.
	PollInterval time.Duration
}

const (
	DefaultRequestTimeout = 5 * time.Second
	DefaultPollInterval   = 500 * time.Microsecond
)

func (c *Config) applyDefaults() {
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
}

// InitRegion formats a fresh region: header plus zeroed slots.
// slotCount must be a power of two.
func InitRegion(region Region, slotCount uint32) error {
	if slotCount == 0 || slotCount&(slotCount-1) != 0 {
		return apperrors.New(apperrors.KindValidation,
			fmt.Sprintf("slot count must be a power of two, got %d", slotCount), nil)
	}
	buf := region.Bytes()
	if len(buf) < protocol.RegionSize(slotCount) {
		return apperrors.New(apperrors.KindValidation,
			fmt.Sprintf("region too small: %d bytes, need %d", len(buf), protocol.RegionSize(slotCount)), nil)
	}
	if err := protocol.EncodeHeader(buf, protocol.NewHeader(slotCount)); err != nil {
		return err
	}
	empty := protocol.Slot{}
	for i := uint32(0); i < slotCount; i++ {
		if err := protocol.EncodeSlot(buf[protocol.SlotOffset(i):], empty); err != nil {
			return err
		}
	}
	return nil
}

// Host services one shared region on behalf of one bridge.
type Host struct {
	region    Region
	buf       []byte
	bridge    *bridge.Bridge
	cfg       Config
	slotCount uint32
	mask      uint32
	dataOff   int
	stride    int
}

// Attach validates the region and marks the server active. A wrong magic
// or version is fatal for the buffer: the host refuses rather than guess
// at a compatible layout.
func Attach(region Region, b *bridge.Bridge, cfg Config) (*Host, error) {
	cfg.applyDefaults()
	buf := region.Bytes()

	header, err := protocol.DecodeHeader(buf)
	if err != nil {
		return nil, apperrors.New(apperrors.KindProtocol, "region too small for a protocol header", err)
	}
	if header.Magic != protocol.Magic {
		return nil, apperrors.New(apperrors.KindProtocol,
			fmt.Sprintf("bad magic %#x, want %#x: not a translation bridge buffer", header.Magic, protocol.Magic), nil)
	}
	if header.Version != protocol.Version {
		return nil, apperrors.New(apperrors.KindProtocol,
			fmt.Sprintf("protocol version %d, host speaks %d: incompatible producer", header.Version, protocol.Version), nil)
	}
	if header.SlotCount == 0 || header.SlotCount&(header.SlotCount-1) != 0 {
		return nil, apperrors.New(apperrors.KindProtocol,
			fmt.Sprintf("slot count %d is not a power of two", header.SlotCount), nil)
	}
	if len(buf) < protocol.RegionSize(header.SlotCount) {
		return nil, apperrors.New(apperrors.KindProtocol,
			fmt.Sprintf("region truncated: %d bytes for %d slots", len(buf), header.SlotCount), nil)
	}

	buf[protocol.OffServerActive] = 1

	return &Host{
		region:    region,
		buf:       buf,
		bridge:    b,
		cfg:       cfg,
		slotCount: header.SlotCount,
		mask:      header.SlotCount - 1,
		dataOff:   protocol.DataOffset(header.SlotCount),
		stride:    protocol.DataRegionSize / int(header.SlotCount),
	}, nil
}

// Detach clears the server-active flag. The region stays mapped; the
// caller closes it.
func (h *Host) Detach() {
	h.buf[protocol.OffServerActive] = 0
}

// Serve pumps the ring until ctx is done.
func (h *Host) Serve(ctx context.Context) error {
	logger.Info("Serving translation ring",
		"bridge_id", h.bridge.ID(), "slots", h.slotCount, "timeout", h.cfg.RequestTimeout)
	defer h.Detach()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n := h.ProcessPending()
		h.Reclaim(time.Now())
		h.mirrorStats()

		if n == 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(h.cfg.PollInterval):
			}
		}
	}
}

// ProcessPending answers every slot the producer has submitted, advancing
// the read cursor. Returns the number of requests answered.
func (h *Host) ProcessPending() int {
	w := loadUint32(h.buf, protocol.OffWriteIndex)
	r := loadUint32(h.buf, protocol.OffReadIndex)

	processed := 0
	for r != w {
		idx := r & h.mask
		off := protocol.SlotOffset(idx)

		state := protocol.SlotStateFromByte(uint8(loadUint32(h.buf, off)))
		switch state {
		case protocol.SlotPendingRequest:
			if !casUint32(h.buf, off, uint32(protocol.SlotPendingRequest), uint32(protocol.SlotProcessing)) {
				// Lost the slot (reclaimed between load and claim); rescan.
				return processed
			}
			h.serveSlot(idx, off)
			processed++
		case protocol.SlotEmpty, protocol.SlotError, protocol.SlotPendingResponse:
			// Reclaimed or already answered; nothing left to serve here.
		case protocol.SlotProcessing:
			// Left claimed by a host that died mid-lookup. Reclaim frees it
			// by timeout; until then the cursor must not skip it.
			return processed
		}

		r++
		storeUint32(h.buf, protocol.OffReadIndex, r)
	}
	return processed
}

// serveSlot resolves one claimed slot and publishes the response.
func (h *Host) serveSlot(idx uint32, off int) {
	slot, err := protocol.DecodeSlot(h.buf[off:])
	if err != nil {
		h.failSlot(off)
		return
	}

	text, ok := h.readOriginal(slot)
	if !ok {
		h.failSlot(off)
		return
	}

	resp := h.bridge.Resolve(protocol.Request{OriginalText: text, Hash: slot.OriginalHash})

	translatedOff := slot.TranslatedOffset
	if translatedOff == 0 {
		// Producer left the response placement to the host: second half of
		// the slot's data window.
		translatedOff = idx*uint32(h.stride) + uint32(h.stride/2)
	}

	translatedLen := uint32(0)
	if resp.FromCache {
		data := []byte(resp.TranslatedText)
		if !h.fitsWindow(translatedOff, len(data)) {
			h.failSlot(off)
			return
		}
		copy(h.buf[h.dataOff+int(translatedOff):], data)
		translatedLen = uint32(len(data))
	}

	// Publish the response fields, then hand ownership back with the
	// atomic state store. The producer only reads them after observing
	// the PendingResponse state.
	binary.LittleEndian.PutUint32(h.buf[off+protocol.SlotOffTranslatedOffset:], translatedOff)
	binary.LittleEndian.PutUint32(h.buf[off+protocol.SlotOffTranslatedLen:], translatedLen)
	storeUint32(h.buf, off, uint32(protocol.SlotPendingResponse))
}

// failSlot marks a slot irrecoverable. The producer treats it exactly
// like "no translation available".
func (h *Host) failSlot(off int) {
	storeUint32(h.buf, off, uint32(protocol.SlotError))
	h.bridge.RecordError()
}

func (h *Host) readOriginal(slot protocol.Slot) (string, bool) {
	if slot.OriginalLen == 0 || slot.OriginalLen > protocol.MaxStringSize {
		return "", false
	}
	if !h.fitsWindow(slot.OriginalOffset, int(slot.OriginalLen)) {
		return "", false
	}
	start := h.dataOff + int(slot.OriginalOffset)
	return string(h.buf[start : start+int(slot.OriginalLen)]), true
}

// fitsWindow bounds-checks a data-region range.
func (h *Host) fitsWindow(off uint32, length int) bool {
	if length < 0 || length > protocol.MaxStringSize {
		return false
	}
	end := int64(off) + int64(length)
	return end <= int64(protocol.DataRegionSize) && h.dataOff+int(end) <= len(h.buf)
}

// Reclaim resets slots whose request aged past the timeout, so a crashed
// or stalled peer can never wedge the ring. Returns the number reclaimed.
func (h *Host) Reclaim(now time.Time) int {
	cutoff := now.Add(-h.cfg.RequestTimeout).UnixMicro()
	if cutoff < 0 {
		return 0
	}

	reclaimed := 0
	for i := uint32(0); i < h.slotCount; i++ {
		off := protocol.SlotOffset(i)
		state := protocol.SlotStateFromByte(uint8(loadUint32(h.buf, off)))
		if state == protocol.SlotEmpty {
			continue
		}
		ts := loadUint64(h.buf, off+protocol.SlotOffTimestamp)
		if ts == 0 || int64(ts) > cutoff {
			continue
		}
		storeUint32(h.buf, off, uint32(protocol.SlotEmpty))
		reclaimed++
	}
	if reclaimed > 0 {
		logger.Warn("Reclaimed stale ring slots", "count", reclaimed, "timeout", h.cfg.RequestTimeout)
	}
	return reclaimed
}

// mirrorStats copies bridge counters into the header for producer-side
// observability. Never authoritative for protocol correctness.
func (h *Host) mirrorStats() {
	stats := h.bridge.GetStats()
	storeUint64(h.buf, protocol.OffTotalRequests, stats.TotalRequests)
	storeUint64(h.buf, protocol.OffCacheHits, stats.CacheHits)
	storeUint64(h.buf, protocol.OffCacheMisses, stats.CacheMisses)
}
