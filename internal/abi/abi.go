//go:build wasip1

// Package abi manages guest linear memory for the packed ptr+len calling
// convention shared with the host.
package abi

import (
	"fmt"
	"sync"
	"unsafe"
)

// MaxTotalAllocations caps the bytes pinned at once.
const MaxTotalAllocations = 16 * 1024 * 1024

// pinned keeps allocated buffers reachable so the GC cannot reclaim memory
// the host is still writing to or reading from.
var pinned = struct {
	sync.Mutex
	bufs  map[uint32][]byte
	total int
}{
	bufs: make(map[uint32][]byte),
}

// allocate hands the host a buffer of size bytes. The host calls it to
// place responses in guest memory.
//
//go:wasmexport allocate
func allocate(size uint32) uint32 {
	if size == 0 {
		return 0
	}

	pinned.Lock()
	defer pinned.Unlock()

	if pinned.total+int(size) > MaxTotalAllocations {
		panic(fmt.Sprintf("abi: allocation of %d bytes exceeds limit (%d of %d in use)",
			size, pinned.total, MaxTotalAllocations))
	}

	buf := make([]byte, size)
	//nolint:gosec // G103: linear memory addresses fit in 32 bits
	ptr := uint32(uintptr(unsafe.Pointer(&buf[0])))
	pinned.bufs[ptr] = buf
	pinned.total += int(size)
	return ptr
}

// deallocate unpins a buffer. Unknown pointers are ignored.
//
//go:wasmexport deallocate
func deallocate(ptr uint32, _ uint32) {
	pinned.Lock()
	defer pinned.Unlock()

	buf, ok := pinned.bufs[ptr]
	if !ok {
		return
	}
	delete(pinned.bufs, ptr)
	pinned.total -= len(buf)
}

// Pinned reports the number of bytes currently pinned.
func Pinned() int {
	pinned.Lock()
	defer pinned.Unlock()
	return pinned.total
}

// PtrFromBytes copies data into a pinned buffer and returns it packed.
// Empty data packs to 0, the unit argument.
func PtrFromBytes(data []byte) uint64 {
	if len(data) == 0 {
		return 0
	}
	size := uint32(len(data)) //nolint:gosec // G115: bounded by MaxTotalAllocations
	ptr := allocate(size)
	copy(unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), size), data) //nolint:gosec // G103: linear memory access
	return PackPtrLen(ptr, size)
}

// BytesFromPtr copies out the bytes a packed value points at.
func BytesFromPtr(packed uint64) []byte {
	ptr, length := UnpackPtrLen(packed)
	if ptr == 0 || length == 0 {
		return nil
	}
	out := make([]byte, length)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), length)) //nolint:gosec // G103: linear memory access
	return out
}

// DeallocatePacked unpins the buffer a packed value points at.
func DeallocatePacked(packed uint64) {
	if ptr, length := UnpackPtrLen(packed); ptr != 0 && length > 0 {
		deallocate(ptr, length)
	}
}

// PackPtrLen packs a pointer into the high and a length into the low 32 bits.
func PackPtrLen(ptr, length uint32) uint64 {
	if ptr == 0 && length > 0 {
		panic(fmt.Sprintf("abi: null pointer with length %d", length))
	}
	return (uint64(ptr) << 32) | uint64(length)
}

// UnpackPtrLen reverses PackPtrLen.
func UnpackPtrLen(packed uint64) (ptr, length uint32) {
	ptr = uint32(packed >> 32) //nolint:gosec // G115: high half
	length = uint32(packed)    //nolint:gosec // G115: low half
	if ptr == 0 && length > 0 {
		panic(fmt.Sprintf("abi: null pointer with length %d", length))
	}
	return ptr, length
}
