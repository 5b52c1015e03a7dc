package srx

import "errors"

// scriptedCard replays canned answers and records every frame sent.
type scriptedCard struct {
	answers [][]byte
	errs    []error
	sent    [][]byte
}

func (c *scriptedCard) Transceive(cmd []byte) ([]byte, error) {
	i := len(c.sent)
	c.sent = append(c.sent, append([]byte(nil), cmd...))
	if i < len(c.errs) && c.errs[i] != nil {
		return nil, c.errs[i]
	}
	if i < len(c.answers) {
		return c.answers[i], nil
	}
	return nil, errors.New("script exhausted")
}

// filledDump returns a dump whose EEPROM block n holds n repeated, with
// padding and system block set to 0xFF.
func filledDump(g Geometry) *Dump {
	d := NewDump(g)
	for i := 0; i < g.EEPROMBlocks(); i++ {
		b := byte(i)
		d.SetBlock(b, [BlockSize]byte{b, b, b, b})
	}
	d.SetBlock(SystemBlock, [BlockSize]byte{0xFF, 0xFF, 0xFF, 0xFF})
	d.FillPadding()
	return d
}

func countCommands(log [][]byte, cmd byte) int {
	n := 0
	for _, frame := range log {
		if len(frame) > 0 && frame[0] == cmd {
			n++
		}
	}
	return n
}
