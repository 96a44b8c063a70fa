//go:build windows

package execmem

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Alloc reserves one block of at least size bytes, rounded up to the page
// size, with read/write permission. The caller writes the code image and
// then seals the block with MakeExecutable. Panics if size is not
// positive.
func Alloc(size int) (*Block, error) {
	if size <= 0 {
		panic(fmt.Sprintf("execmem: invalid allocation size %d", size))
	}

	allocSize := roundUpPage(size, os.Getpagesize())

	addr, err := windows.VirtualAlloc(0, uintptr(allocSize), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, &AllocError{Size: allocSize, Err: err}
	}

	trackAlloc(allocSize)
	return &Block{mem: unsafe.Slice((*byte)(unsafe.Pointer(addr)), allocSize)}, nil
}

// MakeExecutable adds execute permission to the block. Write permission is
// retained: callers patch word-sized data slots in place while the block
// may be executing.
func (b *Block) MakeExecutable() error {
	var old uint32
	if err := windows.VirtualProtect(b.Base(), uintptr(len(b.mem)), windows.PAGE_EXECUTE_READWRITE, &old); err != nil {
		return fmt.Errorf("execmem: VirtualProtect rwx: %w", err)
	}
	return nil
}

// Release returns the block's memory to the system. Exactly one call per
// block; a second call returns ErrReleased.
func (b *Block) Release() error {
	if b.released {
		return ErrReleased
	}
	b.released = true
	trackRelease(len(b.mem))
	if err := windows.VirtualFree(b.Base(), 0, windows.MEM_RELEASE); err != nil {
		return fmt.Errorf("execmem: VirtualFree: %w", err)
	}
	return nil
}
