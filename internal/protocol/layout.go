package protocol

import (
	"encoding/binary"
	"fmt"
)

// Header field offsets. These are referenced by the transport for atomic
// single-field access and must stay in sync with Header's documented layout.
const (
	HeaderSize = 48

	OffMagic         = 0
	OffVersion       = 4
	OffServerActive  = 5
	OffWriteIndex    = 8
	OffReadIndex     = 12
	OffSlotCount     = 16
	OffTotalRequests = 24
	OffCacheHits     = 32
	OffCacheMisses   = 40
)

// Slot field offsets, relative to the slot start.
const (
	SlotSize = 40

	SlotOffState            = 0
	SlotOffOriginalHash     = 8
	SlotOffOriginalLen      = 16
	SlotOffTranslatedLen    = 20
	SlotOffOriginalOffset   = 24
	SlotOffTranslatedOffset = 28
	SlotOffTimestamp        = 32
)

// RegionSize returns the total byte size of a region holding slotCount
// slots plus the data region.
func RegionSize(slotCount uint32) int {
	return HeaderSize + int(slotCount)*SlotSize + DataRegionSize
}

// SlotOffset returns the byte offset of slot i within the region.
func SlotOffset(i uint32) int {
	return HeaderSize + int(i)*SlotSize
}

// DataOffset returns the byte offset of the data region within a region
// holding slotCount slots.
func DataOffset(slotCount uint32) int {
	return HeaderSize + int(slotCount)*SlotSize
}

// EncodeHeader writes h into buf, which must be at least HeaderSize bytes.
func EncodeHeader(buf []byte, h Header) error {
	if len(buf) < HeaderSize {
		return fmt.Errorf("buffer too small for header: %d < %d", len(buf), HeaderSize)
	}
	binary.LittleEndian.PutUint32(buf[OffMagic:], h.Magic)
	buf[OffVersion] = h.Version
	if h.ServerActive {
		buf[OffServerActive] = 1
	} else {
		buf[OffServerActive] = 0
	}
	buf[6], buf[7] = 0, 0
	binary.LittleEndian.PutUint32(buf[OffWriteIndex:], h.WriteIndex)
	binary.LittleEndian.PutUint32(buf[OffReadIndex:], h.ReadIndex)
	binary.LittleEndian.PutUint32(buf[OffSlotCount:], h.SlotCount)
	binary.LittleEndian.PutUint32(buf[20:], 0)
	binary.LittleEndian.PutUint64(buf[OffTotalRequests:], h.TotalRequests)
	binary.LittleEndian.PutUint64(buf[OffCacheHits:], h.CacheHits)
	binary.LittleEndian.PutUint64(buf[OffCacheMisses:], h.CacheMisses)
	return nil
}

// DecodeHeader reads a header from buf.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("buffer too small for header: %d < %d", len(buf), HeaderSize)
	}
	return Header{
		Magic:         binary.LittleEndian.Uint32(buf[OffMagic:]),
		Version:       buf[OffVersion],
		ServerActive:  buf[OffServerActive] != 0,
		WriteIndex:    binary.LittleEndian.Uint32(buf[OffWriteIndex:]),
		ReadIndex:     binary.LittleEndian.Uint32(buf[OffReadIndex:]),
		SlotCount:     binary.LittleEndian.Uint32(buf[OffSlotCount:]),
		TotalRequests: binary.LittleEndian.Uint64(buf[OffTotalRequests:]),
		CacheHits:     binary.LittleEndian.Uint64(buf[OffCacheHits:]),
		CacheMisses:   binary.LittleEndian.Uint64(buf[OffCacheMisses:]),
	}, nil
}

// EncodeSlot writes s into buf, which must be at least SlotSize bytes.
func EncodeSlot(buf []byte, s Slot) error {
	if len(buf) < SlotSize {
		return fmt.Errorf("buffer too small for slot: %d < %d", len(buf), SlotSize)
	}
	buf[SlotOffState] = uint8(s.State)
	buf[1], buf[2], buf[3] = 0, 0, 0
	binary.LittleEndian.PutUint32(buf[4:], 0)
	binary.LittleEndian.PutUint64(buf[SlotOffOriginalHash:], s.OriginalHash)
	binary.LittleEndian.PutUint32(buf[SlotOffOriginalLen:], s.OriginalLen)
	binary.LittleEndian.PutUint32(buf[SlotOffTranslatedLen:], s.TranslatedLen)
	binary.LittleEndian.PutUint32(buf[SlotOffOriginalOffset:], s.OriginalOffset)
	binary.LittleEndian.PutUint32(buf[SlotOffTranslatedOffset:], s.TranslatedOffset)
	binary.LittleEndian.PutUint64(buf[SlotOffTimestamp:], s.Timestamp)
	return nil
}

// DecodeSlot reads a slot from buf.
func DecodeSlot(buf []byte) (Slot, error) {
	if len(buf) < SlotSize {
		return Slot{}, fmt.Errorf("buffer too small for slot: %d < %d", len(buf), SlotSize)
	}
	return Slot{
		State:            SlotStateFromByte(buf[SlotOffState]),
		OriginalHash:     binary.LittleEndian.Uint64(buf[SlotOffOriginalHash:]),
		OriginalLen:      binary.LittleEndian.Uint32(buf[SlotOffOriginalLen:]),
		TranslatedLen:    binary.LittleEndian.Uint32(buf[SlotOffTranslatedLen:]),
		OriginalOffset:   binary.LittleEndian.Uint32(buf[SlotOffOriginalOffset:]),
		TranslatedOffset: binary.LittleEndian.Uint32(buf[SlotOffTranslatedOffset:]),
		Timestamp:        binary.LittleEndian.Uint64(buf[SlotOffTimestamp:]),
	}, nil
}
