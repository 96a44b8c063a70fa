//go:build unix

package execmem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Alloc reserves one block of at least size bytes, rounded up to the page
// size, with read/write permission. The caller writes the code image and
// then seals the block with MakeExecutable. Panics if size is not
// positive.
func Alloc(size int) (*Block, error) {
	if size <= 0 {
		panic(fmt.Sprintf("execmem: invalid allocation size %d", size))
	}

	allocSize := roundUpPage(size, unix.Getpagesize())

	mem, err := unix.Mmap(-1, 0, allocSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, &AllocError{Size: allocSize, Err: err}
	}

	trackAlloc(allocSize)
	return &Block{mem: mem}, nil
}

// MakeExecutable adds execute permission to the block. Write permission is
// retained: callers patch word-sized data slots in place while the block
// may be executing.
func (b *Block) MakeExecutable() error {
	if err := unix.Mprotect(b.mem, unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC); err != nil {
		return fmt.Errorf("execmem: mprotect rwx: %w", err)
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
	if err := unix.Munmap(b.mem); err != nil {
		return fmt.Errorf("execmem: munmap: %w", err)
	}
	return nil
}
