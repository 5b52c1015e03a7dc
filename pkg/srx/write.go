package srx

import (
	"fmt"
)

// WriteStats counts the commands a Write issued.
type WriteStats struct {
	Reads   int
	Writes  int
	Skipped int
}

// Write commits d to the tag. Each EEPROM block and the system block is read
// first and written only when its content differs, so writing a dump that is
// already on the tag issues no write commands at all. The first failed read
// or write aborts.
func (s *Session) Write(d *Dump) (WriteStats, error) {
	var stats WriteStats
	if d == nil {
		return stats, fmt.Errorf("dump cannot be nil")
	}
	addrs := Addresses(s.geometry)
	s.logger.Debug("writing tag", "geometry", s.geometry, "blocks", len(addrs))

	for i, addr := range addrs {
		current, err := ReadBlock(s.t, addr)
		if err != nil {
			return stats, fmt.Errorf("read block 0x%02X before write: %w", addr, err)
		}
		stats.Reads++

		want := d.Block(addr)
		wrote := false
		if current == want {
			stats.Skipped++
		} else {
			s.logger.Debug("block differs", "addr", fmt.Sprintf("0x%02X", addr),
				"tag", HexUpper(current[:]), "dump", HexUpper(want[:]))
			if err := WriteBlock(s.t, addr, want); err != nil {
				return stats, fmt.Errorf("write block 0x%02X: %w", addr, err)
			}
			stats.Writes++
			wrote = true
		}
		s.report(Progress{Stage: StageWrite, Addr: addr, Done: i + 1, Total: len(addrs), Wrote: wrote})
	}
	return stats, nil
}

// Verify re-reads the tag and returns the addresses whose content differs
// from d. Padding blocks are not compared.
func (s *Session) Verify(d *Dump) ([]byte, error) {
	addrs := Addresses(s.geometry)
	var mismatched []byte
	for i, addr := range addrs {
		current, err := ReadBlock(s.t, addr)
		if err != nil {
			return nil, fmt.Errorf("verify block 0x%02X: %w", addr, err)
		}
		if current != d.Block(addr) {
			mismatched = append(mismatched, addr)
		}
		s.report(Progress{Stage: StageVerify, Addr: addr, Done: i + 1, Total: len(addrs)})
	}
	return mismatched, nil
}
