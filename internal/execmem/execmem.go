// Package execmem obtains and releases small blocks of executable memory
// for runtime-generated code stubs. Blocks are allocated writable, filled
// by the caller, then sealed with MakeExecutable; they stay writable after
// sealing so in-place patching of data slots remains possible while the
// block is live.
package execmem

import (
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"
)

// AllocError reports that the operating system refused an executable
// memory request. It is the only recoverable failure in this package.
type AllocError struct {
	Size int
	Err  error
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("execmem: allocate %d executable bytes: %v", e.Size, e.Err)
}

func (e *AllocError) Unwrap() error { return e.Err }

// ErrReleased is returned when a block is released more than once.
var ErrReleased = errors.New("execmem: block already released")

// Block is one exclusively-owned region of executable memory. Its base
// address is stable for the block's entire lifetime.
type Block struct {
	mem      []byte
	released bool
}

// Base returns the block's starting address. The address stays valid until
// Release; holding it confers no ownership.
func (b *Block) Base() uintptr {
	return uintptr(unsafe.Pointer(&b.mem[0]))
}

// Bytes returns the writable view of the block. The slice aliases the
// executable region directly.
func (b *Block) Bytes() []byte {
	return b.mem
}

// Size returns the page-rounded size of the block.
func (b *Block) Size() int {
	return len(b.mem)
}

var (
	liveBlocks atomic.Int64
	liveBytes  atomic.Int64
)

// Live reports the number of blocks and bytes currently allocated
// process-wide. Intended for accounting and leak checks.
func Live() (blocks int, bytes int) {
	return int(liveBlocks.Load()), int(liveBytes.Load())
}

func trackAlloc(n int) {
	liveBlocks.Add(1)
	liveBytes.Add(int64(n))
}

func trackRelease(n int) {
	liveBlocks.Add(-1)
	liveBytes.Add(-int64(n))
}

func roundUpPage(n, pageSize int) int {
	return (n + pageSize - 1) / pageSize * pageSize
}
