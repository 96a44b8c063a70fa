package thunk

import "github.com/ebitengine/purego"

// Callback is the shape a trampoline target must have: the bound first
// parameter, then the three arguments the dispatcher supplied after the
// handle slot, returning one word.
type Callback func(first, message, w, l uintptr) uintptr

// NewCallback returns a native function pointer for fn, suitable as a
// Bind target. The pointer is never released and the process-wide number
// of callbacks is bounded, so callers should create them once and rebind
// thunks rather than mint a callback per binding.
func NewCallback(fn Callback) uintptr {
	if fn == nil {
		panic("thunk: NewCallback with nil function")
	}
	return purego.NewCallback(fn)
}
