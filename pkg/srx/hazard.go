package srx

import (
	"fmt"
)

// System block bit layout.
const (
	lockBitFirst     = 24
	lockBitLast      = 31
	reservedBitFirst = 8
	reservedBitLast  = 23
	chipIDMask       = 0x000000FF

	// A change in the 11 most significant bits of counter block 6 reloads the
	// counter and erases the resettable OTP area.
	autoEraseMask = 0xFFE00000
)

// FindingKind classifies a hazard reported by Analyze.
type FindingKind string

const (
	FindingLockBlock      FindingKind = "lock-block"
	FindingReservedChange FindingKind = "reserved-change"
	FindingChipID         FindingKind = "chip-id"
	FindingCounterUpdate  FindingKind = "counter-update"
	FindingOTPAutoErase   FindingKind = "otp-auto-erase"
	FindingOTPUpdate      FindingKind = "otp-update"
)

// Finding is one consequence of committing a candidate dump.
type Finding struct {
	Kind    FindingKind
	Block   byte   // block the finding is about
	Value   uint32 // chip ID for FindingChipID, new counter value for FindingCounterUpdate
	Message string
}

func (f Finding) String() string {
	return f.Message
}

// Report is the outcome of a dry run. Findings are advisories, not errors.
type Report struct {
	Findings []Finding
	// AutoErase is set when the candidate's counter block 6 triggers an OTP
	// auto-erase cycle.
	AutoErase bool
}

// Safe reports whether committing the candidate has no flagged consequence.
func (r Report) Safe() bool {
	return len(r.Findings) == 0
}

// Count returns the number of findings of kind k.
func (r Report) Count(k FindingKind) int {
	n := 0
	for _, f := range r.Findings {
		if f.Kind == k {
			n++
		}
	}
	return n
}

func (r *Report) add(kind FindingKind, block byte, value uint32, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Kind:    kind,
		Block:   block,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	})
}

// DryRun reads the tag once and reports what writing candidate would do.
// It never issues a write command.
func (s *Session) DryRun(candidate *Dump) (Report, error) {
	if candidate == nil {
		return Report{}, fmt.Errorf("dump cannot be nil")
	}
	current, err := s.Read()
	if err != nil {
		return Report{}, fmt.Errorf("dry run: %w", err)
	}
	return Analyze(current, candidate), nil
}

// Analyze compares the tag's current content with a candidate dump and lists
// every irreversible or undocumented change committing the candidate implies.
//
// Steps:
//  1. System block: OTP lock bits, ST reserved area, chip ID
//  2. Counter blocks 5 and 6, including the auto-erase trigger of block 6
//  3. Resettable OTP blocks 0-4
func Analyze(tag, candidate *Dump) Report {
	var r Report
	analyzeSystemBlock(&r, tag.Uint32(SystemBlock), candidate.Uint32(SystemBlock))
	analyzeCounters(&r, tag, candidate)
	analyzeOTP(&r, tag, candidate)
	return r
}

func analyzeSystemBlock(r *Report, tagSys, fileSys uint32) {
	if fileSys&tagSys == tagSys {
		return
	}

	// Lock bit i protects block i-16; bit 24 also covers block 7.
	for i := lockBitFirst; i <= lockBitLast; i++ {
		if fileSys>>i&1 != 0 {
			continue
		}
		if i == lockBitFirst {
			r.add(FindingLockBlock, 0x07, 0, "block 0x07 will be irreversibly write-protected (lock bit %d)", i)
		}
		block := byte(i - 16)
		r.add(FindingLockBlock, block, 0, "block 0x%02X will be irreversibly write-protected (lock bit %d)", block, i)
	}

	for i := reservedBitFirst; i <= reservedBitLast; i++ {
		if fileSys>>i&1 == 0 {
			r.add(FindingReservedChange, SystemBlock, fileSys,
				"ST reserved area of the system block will change (0x%06X), results are unknown", fileSys>>8&0xFFFF)
			break
		}
	}

	if chipID := fileSys & chipIDMask; chipID != chipIDMask {
		r.add(FindingChipID, SystemBlock, chipID, "fixed chip ID will be set to 0x%02X", chipID)
	}
}

func analyzeCounters(r *Report, tag, candidate *Dump) {
	for _, addr := range []byte{CounterBlock1, CounterBlock2} {
		tagVal := tag.Uint32(addr)
		fileVal := candidate.Uint32(addr)
		if tagVal == fileVal {
			continue
		}

		msg := fmt.Sprintf("counter block 0x%02X will be updated from 0x%08X to 0x%08X", addr, tagVal, fileVal)
		if fileVal < tagVal {
			msg += " (value decreases)"
		}
		if addr == CounterBlock2 && (tagVal^fileVal)&autoEraseMask != 0 {
			msg += ", this triggers an auto-erase cycle of the resettable OTP area"
			r.AutoErase = true
		}
		r.add(FindingCounterUpdate, addr, fileVal, "%s", msg)
	}
}

func analyzeOTP(r *Report, tag, candidate *Dump) {
	for addr := byte(OTPFirstBlock); addr <= OTPLastBlock; addr++ {
		tagBlock := tag.Block(addr)
		fileBlock := candidate.Block(addr)
		if tagBlock == fileBlock {
			continue
		}

		if r.AutoErase {
			r.add(FindingOTPAutoErase, addr, 0,
				"resettable OTP block 0x%02X will change due to the auto-erase cycle (%s -> %s)",
				addr, HexUpper(tagBlock[:]), HexUpper(fileBlock[:]))
			continue
		}

		cleared, set := false, false
		for i := range tagBlock {
			if tagBlock[i]&fileBlock[i] != tagBlock[i] {
				cleared = true
			}
			if tagBlock[i]|fileBlock[i] != tagBlock[i] {
				set = true
			}
		}
		switch {
		case cleared:
			r.add(FindingOTPUpdate, addr, 0,
				"resettable OTP block 0x%02X will be updated, cleared bits stay cleared until an auto-erase (%s -> %s)",
				addr, HexUpper(tagBlock[:]), HexUpper(fileBlock[:]))
		case set:
			r.add(FindingOTPUpdate, addr, 0,
				"resettable OTP block 0x%02X will be updated, but bits can only be set back by an auto-erase (%s -> %s)",
				addr, HexUpper(tagBlock[:]), HexUpper(fileBlock[:]))
		}
	}
}
