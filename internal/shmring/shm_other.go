//go:build !linux && !windows

package shmring

import (
	"errors"
	"runtime"
)

// ShmRegion placeholder for platforms without a shared memory backend.
// Same-process use goes through MemRegion instead.
type ShmRegion struct{}

func OpenShmRegion(name string, size int, create bool) (*ShmRegion, error) {
	return nil, errors.New("named shared memory is not supported on " + runtime.GOOS)
}

func (r *ShmRegion) Bytes() []byte { return nil }
func (r *ShmRegion) Close() error  { return nil }
func (r *ShmRegion) Unlink() error { return nil }
