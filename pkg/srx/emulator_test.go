package srx

import (
	"testing"
)

func TestEmulatorLockBitsBlockWrites(t *testing.T) {
	src := filledDump(SRIX4K)
	src.SetBlock(SystemBlock, u32Block(0xFEFFFFFF)) // bit 24: blocks 0x07 and 0x08
	tag := NewEmulator(SRIX4K, src)

	for _, addr := range []byte{0x07, 0x08, 0x09} {
		if err := WriteBlock(tag, addr, [BlockSize]byte{0xAA, 0xAA, 0xAA, 0xAA}); err != nil {
			t.Fatalf("WriteBlock(0x%02X) returned error: %v", addr, err)
		}
	}

	got := tag.Contents()
	if got.Block(0x07) != src.Block(0x07) || got.Block(0x08) != src.Block(0x08) {
		t.Fatal("locked blocks were modified")
	}
	if got.Block(0x09) != [BlockSize]byte{0xAA, 0xAA, 0xAA, 0xAA} {
		t.Fatal("unlocked block was not written")
	}
}

func TestEmulatorOTPAndSystemBitsOnlyClear(t *testing.T) {
	src := filledDump(SRIX4K)
	src.SetBlock(0x01, [BlockSize]byte{0x0F, 0x0F, 0x0F, 0x0F})
	tag := NewEmulator(SRIX4K, src)

	_ = WriteBlock(tag, 0x01, [BlockSize]byte{0xFF, 0x00, 0x03, 0xF0})
	_ = WriteBlock(tag, SystemBlock, [BlockSize]byte{0xFF, 0xFF, 0xFF, 0x12})
	_ = WriteBlock(tag, SystemBlock, [BlockSize]byte{0xFF, 0xFF, 0xFF, 0xFF})

	got := tag.Contents()
	if b := got.Block(0x01); b != [BlockSize]byte{0x0F, 0x00, 0x03, 0x00} {
		t.Fatalf("OTP block = %X, want 0F000300", b)
	}
	if sys := got.Uint32(SystemBlock); sys != 0xFFFFFF12 {
		t.Fatalf("system block = 0x%08X, want 0xFFFFFF12", sys)
	}
}

func TestEmulatorCounterReloadErasesOTP(t *testing.T) {
	src := NewDump(SRIX4K)
	tag := NewEmulator(SRIX4K, src)

	if err := WriteBlock(tag, CounterBlock2, u32Block(0x00200000)); err != nil {
		t.Fatalf("WriteBlock returned error: %v", err)
	}
	got := tag.Contents()
	for addr := byte(OTPFirstBlock); addr <= OTPLastBlock; addr++ {
		if got.Uint32(addr) != 0xFFFFFFFF {
			t.Fatalf("OTP block 0x%02X not erased: 0x%08X", addr, got.Uint32(addr))
		}
	}
	if got.Uint32(CounterBlock2) != 0x00200000 {
		t.Fatalf("counter = 0x%08X", got.Uint32(CounterBlock2))
	}
}

func TestEmulatorRejectsBlocksOutsideGeometry(t *testing.T) {
	tag := NewEmulator(SRI512, nil)
	if _, err := ReadBlock(tag, 0x10); !IsTransceiveError(err) {
		t.Fatalf("expected TransceiveError for block 0x10, got %v", err)
	}
	if _, err := ReadBlock(tag, SystemBlock); err != nil {
		t.Fatalf("system block read failed: %v", err)
	}
}
