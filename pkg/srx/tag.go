package srx

import (
	"bytes"
	"encoding/binary"
)

const (
	BlockSize  = 4
	DumpBlocks = 0x100
	DumpSize   = DumpBlocks * BlockSize

	// SystemBlock holds the OTP lock bits, the ST reserved area and the chip ID.
	SystemBlock = 0xFF

	srix4kEEPROMBlocks = 0x80
	sri512EEPROMBlocks = 0x10
)

// Well-known block addresses.
const (
	CounterBlock1 = 0x05
	CounterBlock2 = 0x06 // writing it may trigger the OTP auto-erase cycle
	OTPFirstBlock = 0x00
	OTPLastBlock  = 0x04
)

// Dump is the full addressable memory of one tag: 256 blocks of 4 bytes.
// The layout is the same for every geometry, only the EEPROM/padding
// boundary moves.
type Dump struct {
	geometry Geometry
	raw      [DumpSize]byte
}

// NewDump returns a zeroed dump for g.
func NewDump(g Geometry) *Dump {
	return &Dump{geometry: g}
}

// Geometry returns the layout the dump was created for.
func (d *Dump) Geometry() Geometry {
	return d.geometry
}

// Block returns the content of the block at addr.
func (d *Dump) Block(addr byte) [BlockSize]byte {
	var b [BlockSize]byte
	off := int(addr) * BlockSize
	copy(b[:], d.raw[off:off+BlockSize])
	return b
}

// SetBlock replaces the content of the block at addr.
func (d *Dump) SetBlock(addr byte, b [BlockSize]byte) {
	off := int(addr) * BlockSize
	copy(d.raw[off:off+BlockSize], b[:])
}

// Uint32 returns the block at addr as a big-endian 32-bit value.
func (d *Dump) Uint32(addr byte) uint32 {
	off := int(addr) * BlockSize
	return binary.BigEndian.Uint32(d.raw[off : off+BlockSize])
}

// SystemBlock returns the content of block 0xFF.
func (d *Dump) SystemBlock() [BlockSize]byte {
	return d.Block(SystemBlock)
}

// IsEEPROM reports whether addr is a user block for the dump's geometry.
func (d *Dump) IsEEPROM(addr byte) bool {
	return int(addr) < d.geometry.EEPROMBlocks()
}

// IsPadding reports whether addr lies between the EEPROM and the system block.
func (d *Dump) IsPadding(addr byte) bool {
	return !d.IsEEPROM(addr) && addr != SystemBlock
}

// FillPadding sets every padding byte to 0xFF. All-ones padding lets an SRI512
// dump be written onto an SRIX4K tag without clearing lock or OTP bits.
func (d *Dump) FillPadding() {
	start := d.geometry.EEPROMBlocks() * BlockSize
	end := SystemBlock * BlockSize
	for i := start; i < end; i++ {
		d.raw[i] = 0xFF
	}
}

// Bytes returns a copy of the raw 1024-byte image.
func (d *Dump) Bytes() []byte {
	out := make([]byte, DumpSize)
	copy(out, d.raw[:])
	return out
}

// Equal reports whether both dumps hold the same bytes.
func (d *Dump) Equal(other *Dump) bool {
	return bytes.Equal(d.raw[:], other.raw[:])
}

// Addresses returns the block addresses the tag engine touches for g, in
// order: every EEPROM block followed by the system block.
func Addresses(g Geometry) []byte {
	n := g.EEPROMBlocks()
	addrs := make([]byte, 0, n+1)
	for i := 0; i < n; i++ {
		addrs = append(addrs, byte(i))
	}
	return append(addrs, SystemBlock)
}
