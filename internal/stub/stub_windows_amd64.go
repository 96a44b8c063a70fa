//go:build windows && amd64

package stub

// Microsoft x64: the first argument travels in RCX, which is where a
// window procedure receives its HWND. Both loads are RIP-relative reads
// of the data slots, so the instruction bytes never change after Emit.
// (Intel syntax.)
//
//	mov rcx, [rip+9]    ; first parameter <- slot at +16
//	jmp qword [rip+11]  ; tail call       <- slot at +24
//	int3 padding
var image = [codeSize]byte{
	0x48, 0x8B, 0x0D, 0x09, 0x00, 0x00, 0x00,
	0xFF, 0x25, 0x0B, 0x00, 0x00, 0x00,
	0xCC, 0xCC, 0xCC,
}
