//go:build amd64 && !windows

package stub

// System V AMD64: the first integer argument travels in RDI. Both loads
// are RIP-relative reads of the data slots, so the instruction bytes
// never change after Emit. (Intel syntax.)
//
//	mov rdi, [rip+9]    ; first parameter <- slot at +16
//	jmp qword [rip+11]  ; tail call       <- slot at +24
//	int3 padding
var image = [codeSize]byte{
	0x48, 0x8B, 0x3D, 0x09, 0x00, 0x00, 0x00,
	0xFF, 0x25, 0x0B, 0x00, 0x00, 0x00,
	0xCC, 0xCC, 0xCC,
}
