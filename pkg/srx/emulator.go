package srx

import (
	"errors"
	"fmt"
)

// Emulator is an in-memory SRx tag. It implements Transceiver so the dump
// engine can run against a dump file instead of a reader, and it doubles as
// the tag used in tests.
//
// Write semantics follow the datasheet closely enough for dry-run checks:
// blocks protected by a cleared lock bit ignore writes, the system block and
// the resettable OTP blocks can only clear bits, and changing the 11 most
// significant bits of counter block 6 erases the OTP blocks back to all ones.
type Emulator struct {
	mem    *Dump
	chipID byte
	uid    []byte

	// Absent makes the tag ignore every command, as if out of the field.
	Absent bool
	// Fail, when set, is consulted before each command; a non-nil error is
	// returned as the transceive failure.
	Fail func(cmd []byte) error

	Reads  int
	Writes int
	Log    [][]byte
}

var errEmulatorSilent = errors.New("no answer from tag")

// NewEmulator returns a tag holding a copy of d. A nil d starts from an
// erased tag (all bytes 0xFF).
func NewEmulator(g Geometry, d *Dump) *Emulator {
	mem := NewDump(g)
	if d != nil {
		mem.raw = d.raw
	} else {
		for i := range mem.raw {
			mem.raw[i] = 0xFF
		}
	}
	return &Emulator{
		mem:    mem,
		chipID: 0x2A,
		uid:    []byte{0x8C, 0x5E, 0x21, 0x1A, 0x0B, 0x33, 0x02, 0xD0},
	}
}

// Contents returns a copy of the tag memory.
func (e *Emulator) Contents() *Dump {
	d := NewDump(e.mem.geometry)
	d.raw = e.mem.raw
	return d
}

// Transceive answers one SRx frame (implements Transceiver).
func (e *Emulator) Transceive(cmd []byte) ([]byte, error) {
	e.Log = append(e.Log, append([]byte(nil), cmd...))
	if e.Fail != nil {
		if err := e.Fail(cmd); err != nil {
			return nil, err
		}
	}
	if e.Absent || len(cmd) == 0 {
		return nil, errEmulatorSilent
	}

	switch cmd[0] {
	case CmdInitiate:
		return []byte{e.chipID}, nil
	case CmdSelect:
		if len(cmd) != 2 || cmd[1] != e.chipID {
			return nil, errEmulatorSilent
		}
		return []byte{e.chipID}, nil
	case CmdGetUID:
		return append([]byte(nil), e.uid...), nil
	case CmdReadBlock:
		if len(cmd) != 2 {
			return nil, fmt.Errorf("READ_BLOCK: bad frame length %d", len(cmd))
		}
		if !e.addressable(cmd[1]) {
			return nil, errEmulatorSilent
		}
		e.Reads++
		b := e.mem.Block(cmd[1])
		return b[:], nil
	case CmdWriteBlock:
		if len(cmd) != 6 {
			return nil, fmt.Errorf("WRITE_BLOCK: bad frame length %d", len(cmd))
		}
		if !e.addressable(cmd[1]) {
			return nil, errEmulatorSilent
		}
		e.Writes++
		var data [BlockSize]byte
		copy(data[:], cmd[2:])
		e.write(cmd[1], data)
		return []byte{0x00}, nil
	default:
		return nil, errEmulatorSilent
	}
}

func (e *Emulator) addressable(addr byte) bool {
	return e.mem.IsEEPROM(addr) || addr == SystemBlock
}

func (e *Emulator) write(addr byte, data [BlockSize]byte) {
	if e.locked(addr) {
		return
	}
	old := e.mem.Block(addr)
	switch {
	case addr == SystemBlock || addr <= OTPLastBlock:
		for i := range data {
			data[i] &= old[i]
		}
	case addr == CounterBlock2:
		oldVal := e.mem.Uint32(addr)
		e.mem.SetBlock(addr, data)
		if (oldVal^e.mem.Uint32(addr))&autoEraseMask != 0 {
			for otp := byte(OTPFirstBlock); otp <= OTPLastBlock; otp++ {
				e.mem.SetBlock(otp, [BlockSize]byte{0xFF, 0xFF, 0xFF, 0xFF})
			}
		}
		return
	}
	e.mem.SetBlock(addr, data)
}

// locked reports whether a cleared OTP lock bit protects addr.
func (e *Emulator) locked(addr byte) bool {
	sys := e.mem.Uint32(SystemBlock)
	for i := lockBitFirst; i <= lockBitLast; i++ {
		if sys>>i&1 != 0 {
			continue
		}
		if int(addr) == i-16 || (i == lockBitFirst && addr == 0x07) {
			return true
		}
	}
	return false
}
