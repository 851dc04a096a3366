package protocol

import (
	"encoding/binary"
	"testing"
)

func TestHeaderValidation(t *testing.T) {
	h := NewHeader(MaxSlots)
	if !h.Valid() {
		t.Fatalf("fresh header must be valid")
	}

	bad := h
	bad.Magic = 0x12345678
	if bad.Valid() {
		t.Errorf("wrong magic must invalidate the header")
	}

	bad = h
	bad.Version = Version + 1
	if bad.Valid() {
		t.Errorf("wrong version must invalidate the header")
	}
}

func TestHeaderCodec_FixedOffsets(t *testing.T) {
	h := Header{
		Magic:         Magic,
		Version:       Version,
		ServerActive:  true,
		WriteIndex:    17,
		ReadIndex:     9,
		SlotCount:     1024,
		TotalRequests: 100,
		CacheHits:     70,
		CacheMisses:   30,
	}
	buf := make([]byte, HeaderSize)
	if err := EncodeHeader(buf, h); err != nil {
		t.Fatalf("EncodeHeader: %v", err)
	}

	// The producer reads raw offsets, not our decoder. Pin them.
	if got := binary.LittleEndian.Uint32(buf[OffMagic:]); got != Magic {
		t.Errorf("magic at offset %d = %#x, want %#x", OffMagic, got, Magic)
	}
	if buf[OffVersion] != Version {
		t.Errorf("version at offset %d = %d, want %d", OffVersion, buf[OffVersion], Version)
	}
	if buf[OffServerActive] != 1 {
		t.Errorf("serverActive at offset %d = %d, want 1", OffServerActive, buf[OffServerActive])
	}
	if got := binary.LittleEndian.Uint32(buf[OffWriteIndex:]); got != 17 {
		t.Errorf("writeIndex = %d, want 17", got)
	}
	if got := binary.LittleEndian.Uint64(buf[OffCacheMisses:]); got != 30 {
		t.Errorf("cacheMisses = %d, want 30", got)
	}

	back, err := DecodeHeader(buf)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if back != h {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, h)
	}
}

func TestSlotCodec_FixedOffsets(t *testing.T) {
	s := Slot{
		State:            SlotPendingRequest,
		OriginalHash:     0xdeadbeefcafef00d,
		OriginalLen:      11,
		TranslatedLen:    0,
		OriginalOffset:   4096,
		TranslatedOffset: 4096 + MaxStringSize,
		Timestamp:        1700000000000000,
	}
	buf := make([]byte, SlotSize)
	if err := EncodeSlot(buf, s); err != nil {
		t.Fatalf("EncodeSlot: %v", err)
	}

	if buf[SlotOffState] != uint8(SlotPendingRequest) {
		t.Errorf("state byte = %d, want %d", buf[SlotOffState], SlotPendingRequest)
	}
	if got := binary.LittleEndian.Uint64(buf[SlotOffOriginalHash:]); got != s.OriginalHash {
		t.Errorf("originalHash = %#x, want %#x", got, s.OriginalHash)
	}
	if got := binary.LittleEndian.Uint64(buf[SlotOffTimestamp:]); got != s.Timestamp {
		t.Errorf("timestamp = %d, want %d", got, s.Timestamp)
	}

	back, err := DecodeSlot(buf)
	if err != nil {
		t.Fatalf("DecodeSlot: %v", err)
	}
	if back != s {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, s)
	}
}

func TestCodec_RejectsShortBuffers(t *testing.T) {
	if err := EncodeHeader(make([]byte, HeaderSize-1), NewHeader(16)); err == nil {
		t.Errorf("EncodeHeader must reject short buffers")
	}
	if _, err := DecodeHeader(make([]byte, 10)); err == nil {
		t.Errorf("DecodeHeader must reject short buffers")
	}
	if err := EncodeSlot(make([]byte, SlotSize-1), Slot{}); err == nil {
		t.Errorf("EncodeSlot must reject short buffers")
	}
	if _, err := DecodeSlot(nil); err == nil {
		t.Errorf("DecodeSlot must reject short buffers")
	}
}

func TestSlotStateFromByte_NormalizesUnknown(t *testing.T) {
	if got := SlotStateFromByte(200); got != SlotEmpty {
		t.Errorf("unknown state byte must normalize to empty, got %v", got)
	}
	for b := uint8(0); b <= uint8(SlotError); b++ {
		if got := SlotStateFromByte(b); got != SlotState(b) {
			t.Errorf("valid state byte %d changed to %v", b, got)
		}
	}
}

func TestRegionSize(t *testing.T) {
	slotCount := uint32(64)
	want := HeaderSize + 64*SlotSize + DataRegionSize
	if got := RegionSize(slotCount); got != want {
		t.Errorf("RegionSize(64) = %d, want %d", got, want)
	}
	if got := SlotOffset(0); got != HeaderSize {
		t.Errorf("SlotOffset(0) = %d, want %d", got, HeaderSize)
	}
	if got := DataOffset(slotCount); got != HeaderSize+64*SlotSize {
		t.Errorf("DataOffset = %d, want %d", got, HeaderSize+64*SlotSize)
	}
}
