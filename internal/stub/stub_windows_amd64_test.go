//go:build windows && amd64

package stub

import "testing"

func TestImageWindowsAMD64(t *testing.T) {
	block := make([]byte, Size)
	Emit(block)

	// mov rcx, [rip+9]; jmp [rip+11]; int3 padding.
	expectImage(t, block, "488b0d09000000ff250b000000cccccc")
}
