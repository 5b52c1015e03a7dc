package srx

import "fmt"

// Read dumps the whole tag: every EEPROM block, then the system block.
// Padding blocks are filled with 0xFF. The first failed read aborts the dump
// and no partial result is returned.
func (s *Session) Read() (*Dump, error) {
	d := NewDump(s.geometry)
	addrs := Addresses(s.geometry)
	s.logger.Debug("reading tag", "geometry", s.geometry, "blocks", len(addrs))

	for i, addr := range addrs {
		block, err := ReadBlock(s.t, addr)
		if err != nil {
			return nil, fmt.Errorf("read block 0x%02X: %w", addr, err)
		}
		d.SetBlock(addr, block)
		s.report(Progress{Stage: StageRead, Addr: addr, Done: i + 1, Total: len(addrs)})
	}
	d.FillPadding()
	return d, nil
}
