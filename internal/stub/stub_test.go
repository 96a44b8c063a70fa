package stub

import (
	"bytes"
	"encoding/hex"
	"testing"
	"unsafe"
)

func TestLayoutIsWordAligned(t *testing.T) {
	word := int(unsafe.Sizeof(uintptr(0)))
	if slotFirst%word != 0 {
		t.Fatalf("slotFirst=%d is not %d-byte aligned", slotFirst, word)
	}
	if slotTarget%word != 0 {
		t.Fatalf("slotTarget=%d is not %d-byte aligned", slotTarget, word)
	}
	if slotTarget+word > Size {
		t.Fatalf("target slot ends at %d, past block size %d", slotTarget+word, Size)
	}
	if codeSize > slotFirst {
		t.Fatalf("code of %d bytes overlaps first slot at %d", codeSize, slotFirst)
	}
}

func TestEmitRejectsShortBlock(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Emit accepted a short block")
		}
	}()
	Emit(make([]byte, Size-1))
}

func TestEmitZeroesSlots(t *testing.T) {
	block := make([]byte, Size)
	for i := range block {
		block[i] = 0xff
	}

	Emit(block)

	target, first := Binding(block)
	if target != 0 || first != 0 {
		t.Fatalf("Binding after Emit = (%#x, %#x), want zero slots", target, first)
	}
	if !bytes.Equal(block[:codeSize], image[:]) {
		t.Fatalf("code bytes = %x, want %x", block[:codeSize], image[:])
	}
}

func TestBindingRoundTrip(t *testing.T) {
	block := make([]byte, Size)
	Emit(block)

	SetBinding(block, 0xdeadbeef, 42)
	target, first := Binding(block)
	if target != 0xdeadbeef || first != 42 {
		t.Fatalf("Binding = (%#x, %d), want (0xdeadbeef, 42)", target, first)
	}

	SetBinding(block, 0xcafebabe, 7)
	target, first = Binding(block)
	if target != 0xcafebabe || first != 7 {
		t.Fatalf("Binding after rebind = (%#x, %d), want (0xcafebabe, 7)", target, first)
	}

	if !bytes.Equal(block[:codeSize], image[:]) {
		t.Fatal("rebinding touched the instruction bytes")
	}
}

func expectImage(t *testing.T, code []byte, wantHex string) {
	t.Helper()
	want, err := hex.DecodeString(wantHex)
	if err != nil {
		t.Fatalf("invalid hex image %q: %v", wantHex, err)
	}
	if !bytes.Equal(code[:len(want)], want) {
		t.Fatalf("unexpected instruction image:\n got: %x\nwant: %x", code[:len(want)], want)
	}
}
