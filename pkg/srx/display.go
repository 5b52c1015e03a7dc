package srx

import (
	"fmt"
	"io"
)

// regionLabel returns the memory region addr belongs to in d.
func regionLabel(d *Dump, addr byte) string {
	switch {
	case addr == SystemBlock:
		return "system"
	case d.IsPadding(addr):
		return "padding"
	case addr <= OTPLastBlock:
		return "otp"
	case addr == CounterBlock1 || addr == CounterBlock2:
		return "counter"
	default:
		return "eeprom"
	}
}

// PrintDump prints every EEPROM block and the system block of d as hex and
// ASCII. Padding blocks are summarized in a single line.
func PrintDump(w io.Writer, d *Dump) {
	fmt.Fprintf(w, "  %s dump, %d EEPROM blocks\n", d.Geometry(), d.Geometry().EEPROMBlocks())
	for _, addr := range Addresses(d.Geometry()) {
		if addr == SystemBlock && d.Geometry().EEPROMBlocks() < SystemBlock {
			fmt.Fprintf(w, "  [%02X..%02X] %-8s (not on tag)\n", d.Geometry().EEPROMBlocks(), SystemBlock-1, "padding")
		}
		b := d.Block(addr)
		fmt.Fprintf(w, "  [%02X] %-8s %02X %02X %02X %02X  |%s|\n",
			addr, regionLabel(d, addr), b[0], b[1], b[2], b[3], printable(b[:]))
	}

	sys := d.Uint32(SystemBlock)
	fmt.Fprintf(w, "  System block:  OTP lock 0x%02X, reserved 0x%04X, chip ID 0x%02X\n",
		sys>>24, sys>>8&0xFFFF, sys&chipIDMask)
	fmt.Fprintf(w, "  Counters:      block 05 = 0x%08X, block 06 = 0x%08X\n",
		d.Uint32(CounterBlock1), d.Uint32(CounterBlock2))
}

// PrintFindings prints a dry-run report.
func PrintFindings(w io.Writer, r Report) {
	if r.Safe() {
		fmt.Fprintln(w, "  No irreversible changes detected")
		return
	}
	for _, f := range r.Findings {
		fmt.Fprintf(w, "  [%-15s] %s\n", f.Kind, f.Message)
	}
	if r.AutoErase {
		fmt.Fprintln(w, "  WARNING: the resettable OTP area (blocks 00-04) will be auto-erased")
	}
}
