//go:build windows && (amd64 || arm64)

package thunk

import "testing"

func TestSystemThunkInvokesBoundTarget(t *testing.T) {
	cb1 := NewCallback(func(first, message, w, l uintptr) uintptr {
		if first != 2 || message != 3 || w != 5 || l != 7 {
			t.Errorf("callback saw (%d, %d, %d, %d), want (2, 3, 5, 7)", first, message, w, l)
		}
		return 11
	})
	cb2 := NewCallback(func(first, message, w, l uintptr) uintptr {
		if first != 13 || message != 17 || w != 19 || l != 23 {
			t.Errorf("callback saw (%d, %d, %d, %d), want (13, 17, 19, 23)", first, message, w, l)
		}
		return 29
	})

	th, err := NewSystemWithProc(cb1, 2)
	if err != nil {
		t.Skipf("system thunk allocator unavailable: %v", err)
	}
	defer func() {
		if err := th.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	if got, want := th.Invoke(99, 3, 5, 7), uintptr(11); got != want {
		t.Fatalf("Invoke()=%d, want %d", got, want)
	}

	th.Bind(cb2, 13)
	if got, want := th.Invoke(99, 17, 19, 23), uintptr(29); got != want {
		t.Fatalf("Invoke() after rebind = %d, want %d", got, want)
	}
}

func TestSystemThunkProcBeforeBindPanics(t *testing.T) {
	th, err := NewSystem()
	if err != nil {
		t.Skipf("system thunk allocator unavailable: %v", err)
	}
	defer func() { _ = th.Close() }()

	defer func() {
		if recover() == nil {
			t.Fatal("Proc on an unbound system thunk did not panic")
		}
	}()
	th.Proc()
}
