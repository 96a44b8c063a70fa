//go:build windows

package thunk

import (
	"fmt"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/windows"
)

var (
	atlthunk = windows.NewLazySystemDLL("atlthunk.dll")

	procAtlThunkAllocateData = atlthunk.NewProc("AtlThunk_AllocateData")
	procAtlThunkInitData     = atlthunk.NewProc("AtlThunk_InitData")
	procAtlThunkDataToCode   = atlthunk.NewProc("AtlThunk_DataToCode")
	procAtlThunkFreeData     = atlthunk.NewProc("AtlThunk_FreeData")
)

// SystemThunk is a trampoline backed by the operating system's ATL thunk
// allocator instead of this module's own encoder. It follows the same
// lifecycle contract as Thunk. Prefer it in processes whose mitigation
// policy forbids private writable-executable pages; the system allocator
// hands out thunks that remain valid there.
type SystemThunk struct {
	data     uintptr
	bound    atomic.Bool
	released atomic.Bool
}

// NewSystem allocates an unbound system thunk. Fails if atlthunk.dll is
// unavailable or the allocator is out of thunk space.
func NewSystem() (*SystemThunk, error) {
	if err := procAtlThunkAllocateData.Find(); err != nil {
		return nil, fmt.Errorf("load atlthunk.dll: %w", err)
	}
	data, _, callErr := procAtlThunkAllocateData.Call()
	if data == 0 {
		return nil, fmt.Errorf("AtlThunk_AllocateData: %w", callErr)
	}
	return &SystemThunk{data: data}, nil
}

// NewSystemWithProc allocates a system thunk already bound to target with
// the given first parameter.
func NewSystemWithProc(target, first uintptr) (*SystemThunk, error) {
	t, err := NewSystem()
	if err != nil {
		return nil, err
	}
	t.Bind(target, first)
	return t, nil
}

// Bind encodes (target, first) into the thunk, replacing any previous
// binding in place.
func (t *SystemThunk) Bind(target, first uintptr) {
	if t.released.Load() {
		panic("thunk: Bind on released SystemThunk")
	}
	_, _, _ = procAtlThunkInitData.Call(t.data, target, first)
	t.bound.Store(true)
}

// Proc returns the thunk's entry pointer. Panics if the thunk has never
// been bound or has been released.
func (t *SystemThunk) Proc() uintptr {
	switch {
	case t.released.Load():
		panic("thunk: Proc on released SystemThunk")
	case !t.bound.Load():
		panic("thunk: Proc before first Bind")
	}
	code, _, _ := procAtlThunkDataToCode.Call(t.data)
	return code
}

// Invoke calls the thunk's entry pointer with the native calling
// convention, exactly as the OS dispatcher would.
func (t *SystemThunk) Invoke(handle, message, w, l uintptr) uintptr {
	r1, _, _ := syscall.SyscallN(t.Proc(), handle, message, w, l)
	return r1
}

// Close frees the thunk through the OS allocator. Exactly one call per
// SystemThunk; a second Close panics.
func (t *SystemThunk) Close() error {
	if t.released.Swap(true) {
		panic("thunk: Close called twice")
	}
	_, _, _ = procAtlThunkFreeData.Call(t.data)
	return nil
}
