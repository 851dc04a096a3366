//go:build linux

package shmring

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ShmRegion is a POSIX shared memory region backed by /dev/shm, so the
// injected producer can map the same bytes by name.
type ShmRegion struct {
	name string
	file *os.File
	buf  []byte
}

// OpenShmRegion creates or opens a named shared memory region of the
// given size and maps it read-write.
func OpenShmRegion(name string, size int, create bool) (*ShmRegion, error) {
	path := "/dev/shm/" + name
	flags := os.O_RDWR
	if create {
		flags |= os.O_CREATE
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open shared memory %q: %w", name, err)
	}

	if create {
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to size shared memory %q: %w", name, err)
		}
	} else {
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, err
		}
		if info.Size() < int64(size) {
			f.Close()
			return nil, fmt.Errorf("shared memory %q is %d bytes, need %d", name, info.Size(), size)
		}
	}

	buf, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to map shared memory %q: %w", name, err)
	}

	return &ShmRegion{name: name, file: f, buf: buf}, nil
}

func (r *ShmRegion) Bytes() []byte {
	return r.buf
}

// Close unmaps the region. The backing object stays until Unlink.
func (r *ShmRegion) Close() error {
	if r.buf != nil {
		if err := unix.Munmap(r.buf); err != nil {
			return err
		}
		r.buf = nil
	}
	return r.file.Close()
}

// Unlink removes the named backing object.
func (r *ShmRegion) Unlink() error {
	return os.Remove("/dev/shm/" + r.name)
}
