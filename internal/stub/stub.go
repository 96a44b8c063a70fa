// Package stub encodes the trampoline instruction image for the host
// architecture. The image is write-once: it loads a constant first
// parameter and a target address out of two word-aligned data slots that
// sit behind the code, then tail-calls the target with the remaining
// incoming arguments untouched. Rebinding stores the slots as single
// aligned machine words, so a concurrent invocation can never fetch a
// half-written instruction or dereference a half-written address.
package stub

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

const (
	// Size is the number of bytes a trampoline block must provide.
	Size = 32

	// codeSize is the fixed length of the instruction image. Data slots
	// follow at the next word-aligned offsets.
	codeSize = 16

	slotFirst  = 16
	slotTarget = 24
)

// Emit writes the architecture's instruction image into block and zeroes
// both binding slots. The block must not yet be executable; callers seal
// it afterwards. Panics if block is smaller than Size.
func Emit(block []byte) {
	if len(block) < Size {
		panic(fmt.Sprintf("stub: block of %d bytes is smaller than stub image (%d)", len(block), Size))
	}
	copy(block, image[:])
	storeSlot(block, slotFirst, 0)
	storeSlot(block, slotTarget, 0)
}

// SetBinding encodes the (target, first parameter) pair into a block
// previously prepared by Emit. Each slot is one aligned word store;
// callers serialize concurrent SetBinding calls themselves.
func SetBinding(block []byte, target, first uintptr) {
	storeSlot(block, slotFirst, first)
	storeSlot(block, slotTarget, target)
}

// Binding reads back the pair currently encoded into the block.
func Binding(block []byte) (target, first uintptr) {
	return loadSlot(block, slotTarget), loadSlot(block, slotFirst)
}

func storeSlot(block []byte, offset int, value uintptr) {
	atomic.StoreUintptr((*uintptr)(unsafe.Pointer(&block[offset])), value)
}

func loadSlot(block []byte, offset int) uintptr {
	return atomic.LoadUintptr((*uintptr)(unsafe.Pointer(&block[offset])))
}
