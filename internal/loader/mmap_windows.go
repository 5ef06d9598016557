//go:build windows

package loader

import (
	"errors"
	"os"
	"syscall"
	"unsafe"
)

// mmapFile maps size bytes of f read-only.
func mmapFile(f *os.File, size int64) ([]byte, error) {
	handle, err := syscall.CreateFileMapping(
		syscall.Handle(f.Fd()),
		nil,
		syscall.PAGE_READONLY,
		uint32(size>>32), //nolint:gosec // G115: high half of the mapping size
		uint32(size),     //nolint:gosec // G115: low half of the mapping size
		nil,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = syscall.CloseHandle(handle) }()

	addr, err := syscall.MapViewOfFile(handle, syscall.FILE_MAP_READ, 0, 0, uintptr(size))
	if err != nil {
		return nil, err
	}
	//nolint:gosec // G103: addr is a live read-only mapping of exactly size bytes
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(size)), nil
}

func munmapFile(data []byte) error {
	if len(data) == 0 {
		return errors.New("cannot unmap empty data")
	}
	return syscall.UnmapViewOfFile(uintptr(unsafe.Pointer(&data[0])))
}
