package shmring

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/gamestringer/gsbridge/internal/apperrors"
	"github.com/gamestringer/gsbridge/internal/protocol"
)

// ErrRingFull is returned when every slot between the cursors is still
// owned by the host. The producer drops rather than blocks: stalling a
// game frame is worse than one untranslated string.
var ErrRingFull = errors.New("translation ring is full")

// ErrNotReady is returned by TryConsume while the host still owns the slot.
var ErrNotReady = errors.New("response not ready")

// Result is a consumed response.
type Result struct {
	TranslatedText string
	Found          bool
}

// Producer is the submitting side of the ring. The real producer is the
// injected game-side component; this implementation backs tests and
// same-process embedding, and documents the contract that component
// must follow.
//
// Single-producer discipline: exactly one Producer per region.
type Producer struct {
	buf       []byte
	slotCount uint32
	mask      uint32
	dataOff   int
	stride    int
}

// NewProducer attaches to an initialized region.
func NewProducer(region Region) (*Producer, error) {
	buf := region.Bytes()
	header, err := protocol.DecodeHeader(buf)
	if err != nil {
		return nil, apperrors.New(apperrors.KindProtocol, "region too small for a protocol header", err)
	}
	if !header.Valid() {
		return nil, apperrors.New(apperrors.KindProtocol,
			fmt.Sprintf("bad magic/version %#x/%d: not a translation bridge buffer", header.Magic, header.Version), nil)
	}
	return &Producer{
		buf:       buf,
		slotCount: header.SlotCount,
		mask:      header.SlotCount - 1,
		dataOff:   protocol.DataOffset(header.SlotCount),
		stride:    protocol.DataRegionSize / int(header.SlotCount),
	}, nil
}

// ServerActive reports whether a host is servicing the buffer.
func (p *Producer) ServerActive() bool {
	return p.buf[protocol.OffServerActive] != 0
}

// Submit writes a request into the slot under the write cursor and
// publishes it. Returns the slot index to poll for the response.
func (p *Producer) Submit(text string) (uint32, error) {
	if len(text) == 0 || len(text) > p.stride/2 || len(text) > protocol.MaxStringSize {
		return 0, apperrors.New(apperrors.KindValidation,
			fmt.Sprintf("payload of %d bytes does not fit a slot window", len(text)), nil)
	}

	w := loadUint32(p.buf, protocol.OffWriteIndex)
	r := loadUint32(p.buf, protocol.OffReadIndex)
	if w-r >= p.slotCount {
		return 0, ErrRingFull
	}

	idx := w & p.mask
	off := protocol.SlotOffset(idx)
	if protocol.SlotStateFromByte(uint8(loadUint32(p.buf, off))) != protocol.SlotEmpty {
		// Cursor distance allows it but the slot is still being consumed.
		return 0, ErrRingFull
	}

	originalOff := idx * uint32(p.stride)
	copy(p.buf[p.dataOff+int(originalOff):], text)

	binary.LittleEndian.PutUint64(p.buf[off+protocol.SlotOffOriginalHash:], protocol.Hash(text))
	binary.LittleEndian.PutUint32(p.buf[off+protocol.SlotOffOriginalLen:], uint32(len(text)))
	binary.LittleEndian.PutUint32(p.buf[off+protocol.SlotOffTranslatedLen:], 0)
	binary.LittleEndian.PutUint32(p.buf[off+protocol.SlotOffOriginalOffset:], originalOff)
	binary.LittleEndian.PutUint32(p.buf[off+protocol.SlotOffTranslatedOffset:], originalOff+uint32(p.stride/2))
	storeUint64(p.buf, off+protocol.SlotOffTimestamp, uint64(time.Now().UnixMicro()))

	// Publish: state first, then the cursor, both atomic. The host may
	// pick the slot up the instant either lands.
	storeUint32(p.buf, off, uint32(protocol.SlotPendingRequest))
	storeUint32(p.buf, protocol.OffWriteIndex, w+1)
	return idx, nil
}

// TryConsume collects the response for a submitted slot. ErrNotReady
// means the host has not answered yet. An Error state counts as "no
// translation available"; either way the slot returns to the ring.
func (p *Producer) TryConsume(idx uint32) (Result, error) {
	off := protocol.SlotOffset(idx & p.mask)
	state := protocol.SlotStateFromByte(uint8(loadUint32(p.buf, off)))

	switch state {
	case protocol.SlotPendingResponse:
		length := binary.LittleEndian.Uint32(p.buf[off+protocol.SlotOffTranslatedLen:])
		result := Result{}
		if length > 0 {
			dataOff := binary.LittleEndian.Uint32(p.buf[off+protocol.SlotOffTranslatedOffset:])
			start := p.dataOff + int(dataOff)
			result = Result{TranslatedText: string(p.buf[start : start+int(length)]), Found: true}
		}
		storeUint32(p.buf, off, uint32(protocol.SlotEmpty))
		return result, nil
	case protocol.SlotError:
		storeUint32(p.buf, off, uint32(protocol.SlotEmpty))
		return Result{}, nil
	default:
		return Result{}, ErrNotReady
	}
}

// Consume polls until the host answers or the timeout passes. A timeout
// is reported as a plain miss, exactly like an Error slot: the producer
// must treat no-response identically to no-translation.
func (p *Producer) Consume(idx uint32, timeout time.Duration) Result {
	deadline := time.Now().Add(timeout)
	for {
		result, err := p.TryConsume(idx)
		if err == nil {
			return result
		}
		if time.Now().After(deadline) {
			return Result{}
		}
		time.Sleep(50 * time.Microsecond)
	}
}
