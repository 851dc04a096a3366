//go:build windows

package shmring

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// ShmRegion is a named file-mapping object backed by the page file, the
// conventional shared memory channel between the host and an injected
// in-process component on Windows.
type ShmRegion struct {
	name   string
	handle windows.Handle
	addr   uintptr
	size   int
}

// OpenShmRegion creates or opens a named mapping of the given size and
// maps a read-write view of it.
func OpenShmRegion(name string, size int, create bool) (*ShmRegion, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("invalid shared memory name: %w", err)
	}

	var handle windows.Handle
	if create {
		handle, err = windows.CreateFileMapping(windows.InvalidHandle, nil,
			windows.PAGE_READWRITE, uint32(uint64(size)>>32), uint32(size), namePtr)
	} else {
		handle, err = windows.OpenFileMapping(windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, false, namePtr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open shared memory %q: %w", name, err)
	}

	addr, err := windows.MapViewOfFile(handle,
		windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, 0, 0, uintptr(size))
	if err != nil {
		windows.CloseHandle(handle)
		return nil, fmt.Errorf("failed to map shared memory %q: %w", name, err)
	}

	return &ShmRegion{name: name, handle: handle, addr: addr, size: size}, nil
}

func (r *ShmRegion) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(r.addr)), r.size)
}

// Close unmaps the view and releases the mapping handle. The object
// itself disappears when the last handle closes.
func (r *ShmRegion) Close() error {
	if r.addr != 0 {
		if err := windows.UnmapViewOfFile(r.addr); err != nil {
			return err
		}
		r.addr = 0
	}
	return windows.CloseHandle(r.handle)
}

// Unlink is a no-op on Windows; named mappings are reference counted.
func (r *ShmRegion) Unlink() error {
	return nil
}
