// Package shmring serves the translation protocol over a shared byte
// region: a header, a ring of fixed-size slots, and a variable-length
// text region. Slot ownership is handed between the producer and the
// host purely through atomic compare-and-swap on each slot's state word,
// so no cross-process mutex is needed and the producer can be compiled
// by a different toolchain.
package shmring

import (
	"sync/atomic"
	"unsafe"
)

// Region is a contiguous byte view shared between producer and host.
// The mmap-backed implementations cross the process boundary; MemRegion
// backs tests and same-process embedding.
type Region interface {
	Bytes() []byte
	Close() error
}

// MemRegion is a heap-backed region. The backing array is allocated as
// uint64 words so the atomic field accesses are always aligned.
type MemRegion struct {
	words []uint64
	buf   []byte
}

// NewMemRegion allocates a zeroed region of at least size bytes.
func NewMemRegion(size int) *MemRegion {
	words := make([]uint64, (size+7)/8)
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), size)
	return &MemRegion{words: words, buf: buf}
}

func (r *MemRegion) Bytes() []byte {
	return r.buf
}

func (r *MemRegion) Close() error {
	return nil
}

// Atomic accessors into a region. Offsets must be naturally aligned;
// the protocol layout guarantees that for every field accessed here.

func loadUint32(buf []byte, off int) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(&buf[off])))
}

func storeUint32(buf []byte, off int, v uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(&buf[off])), v)
}

func casUint32(buf []byte, off int, old, new uint32) bool {
	return atomic.CompareAndSwapUint32((*uint32)(unsafe.Pointer(&buf[off])), old, new)
}

func loadUint64(buf []byte, off int) uint64 {
	return atomic.LoadUint64((*uint64)(unsafe.Pointer(&buf[off])))
}

func storeUint64(buf []byte, off int, v uint64) {
	atomic.StoreUint64((*uint64)(unsafe.Pointer(&buf[off])), v)
}
