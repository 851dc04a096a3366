// Package protocol defines the shared-memory wire contract between the
// injected game-side producer and the host bridge. The layout mirrors a
// C struct layout byte for byte: the producer may be compiled by a
// different toolchain, so every field is fixed-width little-endian at a
// fixed offset.
package protocol

import "fmt"

// Magic identifies a translation bridge buffer ("GSTR").
const Magic uint32 = 0x47535452

// Version is the protocol version. A mismatch means an incompatible
// producer and the host must refuse to attach.
const Version uint8 = 1

// MaxSlots is the default ring buffer capacity.
const MaxSlots = 1024

// MaxStringSize caps a single payload string (64 KiB).
const MaxStringSize = 64 * 1024

// DataRegionSize is the size of the variable-length text region that
// follows the slot array (4 MiB).
const DataRegionSize = 4 * 1024 * 1024

// SlotState is the ownership token for a ring slot. Whichever side is
// allowed to write a slot is determined solely by its current state.
type SlotState uint8

const (
	// SlotEmpty: slot is free, producer may claim it.
	SlotEmpty SlotState = iota
	// SlotPendingRequest: producer wrote a request, host may claim it.
	SlotPendingRequest
	// SlotProcessing: host is resolving the lookup.
	SlotProcessing
	// SlotPendingResponse: host wrote a response, producer may consume it.
	SlotPendingResponse
	// SlotError: resolution failed irrecoverably. The producer treats this
	// like "no translation available" and resets the slot to empty.
	SlotError
)

// SlotStateFromByte normalizes unknown values to SlotEmpty, matching the
// producer-side decoder.
func SlotStateFromByte(b uint8) SlotState {
	if b > uint8(SlotError) {
		return SlotEmpty
	}
	return SlotState(b)
}

func (s SlotState) String() string {
	switch s {
	case SlotEmpty:
		return "empty"
	case SlotPendingRequest:
		return "pending_request"
	case SlotProcessing:
		return "processing"
	case SlotPendingResponse:
		return "pending_response"
	case SlotError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Header describes the buffer state at the start of the shared region.
//
// Wire layout (48 bytes, little-endian):
//
//	offset  0  u32  magic
//	offset  4  u8   version
//	offset  5  u8   serverActive (1 = host is servicing the buffer)
//	offset  6  u16  reserved
//	offset  8  u32  writeIndex   (producer-owned cursor)
//	offset 12  u32  readIndex    (host-owned cursor)
//	offset 16  u32  slotCount
//	offset 20  u32  reserved (u64 alignment)
//	offset 24  u64  totalRequests
//	offset 32  u64  cacheHits
//	offset 40  u64  cacheMisses
//
// The counters are host-owned and observability-only; protocol
// correctness never depends on them.
type Header struct {
	Magic         uint32
	Version       uint8
	ServerActive  bool
	WriteIndex    uint32
	ReadIndex     uint32
	SlotCount     uint32
	TotalRequests uint64
	CacheHits     uint64
	CacheMisses   uint64
}

// NewHeader returns a header for a freshly formatted region.
func NewHeader(slotCount uint32) Header {
	return Header{
		Magic:     Magic,
		Version:   Version,
		SlotCount: slotCount,
	}
}

// Valid reports whether the region carries a compatible translation buffer.
func (h Header) Valid() bool {
	return h.Magic == Magic && h.Version == Version
}

// Slot is one fixed-size request/response record in the ring.
//
// Wire layout (40 bytes, little-endian):
//
//	offset  0  u8   state
//	offset  1  u8x3 reserved
//	offset  4  u32  reserved (u64 alignment)
//	offset  8  u64  originalHash
//	offset 16  u32  originalLen
//	offset 20  u32  translatedLen
//	offset 24  u32  originalOffset   (into the data region)
//	offset 28  u32  translatedOffset (into the data region)
//	offset 32  u64  timestamp        (unix microseconds, producer clock)
//
// The state byte shares its 4-byte word with reserved padding so both
// sides can transition it with a single 32-bit compare-and-swap.
type Slot struct {
	State            SlotState
	OriginalHash     uint64
	OriginalLen      uint32
	TranslatedLen    uint32
	OriginalOffset   uint32
	TranslatedOffset uint32
	Timestamp        uint64
}

// Request is the in-process representation of a producer lookup.
type Request struct {
	OriginalText string  `json:"original_text"`
	Hash         uint64  `json:"hash"`
	Context      *string `json:"context,omitempty"`
	SourceLang   *string `json:"source_lang,omitempty"`
}

// NewRequest builds a request with its hash precomputed.
func NewRequest(text string) Request {
	return Request{OriginalText: text, Hash: Hash(text)}
}

// Response is the in-process representation of a lookup result.
type Response struct {
	TranslatedText   string `json:"translated_text"`
	FromCache        bool   `json:"from_cache"`
	ProcessingTimeUs uint64 `json:"processing_time_us"`
}

// NotFound is the response for a miss. Not an error: the game text simply
// stays untranslated.
func NotFound() Response {
	return Response{}
}
