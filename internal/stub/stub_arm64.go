//go:build arm64

package stub

import "encoding/binary"

// AAPCS64 (and Windows ARM64): the first argument travels in x0; x16 is
// IP0, the scratch register reserved for exactly this kind of veneer.
// The literal loads are data-path reads of the slots, so rebinding needs
// no instruction-cache maintenance.
//
//	ldr x0,  .+16  ; first parameter <- slot at +16
//	ldr x16, .+20  ; target          <- slot at +24
//	br  x16
//	brk #0 padding
var image = makeImage(
	0x58000000|(4<<5)|0,   // LDR (literal) x0, imm19=4
	0x58000000|(5<<5)|16,  // LDR (literal) x16, imm19=5
	0xD61F0000|(16<<5),    // BR x16
	0xD4200000,            // BRK #0
)

func makeImage(instrs ...uint32) [codeSize]byte {
	var out [codeSize]byte
	for i, instr := range instrs {
		binary.LittleEndian.PutUint32(out[i*4:], instr)
	}
	return out
}
