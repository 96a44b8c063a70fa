// Package thunk provides runtime-generated calling-convention trampolines
// for the fixed four-argument native callback shape used by window
// procedures. A Thunk owns a small executable stub that injects a bound
// constant as the callback's first parameter and tail-calls a bound
// target function; the stub's address is a plain function pointer the
// operating system can invoke directly, which lets a rigid callback
// signature carry per-instance context without a side channel.
package thunk

import (
	"fmt"
	"sync/atomic"

	"github.com/ebitengine/purego"

	"github.com/tinyrange/thunk/internal/execmem"
	"github.com/tinyrange/thunk/internal/stub"
)

// allocBlock is replaced in tests to force deterministic allocation
// failure.
var allocBlock = execmem.Alloc

// Thunk is one trampoline. It exclusively owns its executable block; the
// pointer returned by Proc is valid only while the Thunk is live and
// bound.
//
// A Thunk may be shared across goroutines, but Bind must not race with
// another Bind on the same Thunk: callers serialize rebinding themselves.
// Invocations through Proc are always safe concurrently with a single
// rebinder; they observe either the old or the new value of each bound
// word, never a torn one.
type Thunk struct {
	block    *execmem.Block
	bound    atomic.Bool
	released atomic.Bool
}

// New allocates an unbound trampoline. The instruction image is encoded
// and sealed; the binding slots are zero until the first Bind.
func New() (*Thunk, error) {
	block, err := allocBlock(stub.Size)
	if err != nil {
		return nil, fmt.Errorf("allocate thunk block: %w", err)
	}

	stub.Emit(block.Bytes())

	if err := block.MakeExecutable(); err != nil {
		_ = block.Release()
		return nil, fmt.Errorf("seal thunk block: %w", err)
	}

	return &Thunk{block: block}, nil
}

// NewWithProc allocates a trampoline already bound to target with the
// given first parameter. On allocation failure nothing is retained.
func NewWithProc(target, first uintptr) (*Thunk, error) {
	t, err := New()
	if err != nil {
		return nil, err
	}
	t.Bind(target, first)
	return t, nil
}

// Bind encodes (target, first) into the trampoline, replacing any
// previous binding in place. It never fails once the Thunk exists and has
// no allocation cost. A nil target is accepted structurally; invoking a
// trampoline bound to one is the caller's fault and faults at call time.
func (t *Thunk) Bind(target, first uintptr) {
	if t.released.Load() {
		panic("thunk: Bind on released Thunk")
	}
	stub.SetBinding(t.block.Bytes(), target, first)
	t.bound.Store(true)
}

// Proc returns the trampoline's entry pointer, suitable for handing to
// the OS as a callback. The pointer is a weak reference: it does not keep
// the Thunk alive, and it is valid only while the Thunk is unreleased.
// Panics if the Thunk has never been bound or has been released.
func (t *Thunk) Proc() uintptr {
	switch {
	case t.released.Load():
		panic("thunk: Proc on released Thunk")
	case !t.bound.Load():
		panic("thunk: Proc before first Bind")
	}
	return t.block.Base()
}

// Invoke calls the trampoline's entry pointer with the native calling
// convention, exactly as the OS dispatcher would. The bound target
// receives the bound first parameter followed by these four arguments'
// tail (message, w, l), and Invoke returns the target's result.
func (t *Thunk) Invoke(handle, message, w, l uintptr) uintptr {
	r1, _, _ := purego.SyscallN(t.Proc(), handle, message, w, l)
	return r1
}

// Close releases the trampoline's executable block. Exactly one call per
// Thunk; all entry pointers derived from it become invalid immediately.
// A second Close is a contract violation and panics.
func (t *Thunk) Close() error {
	if t.released.Swap(true) {
		panic("thunk: Close called twice")
	}
	if err := t.block.Release(); err != nil {
		return fmt.Errorf("release thunk block: %w", err)
	}
	return nil
}
