package srx

import "fmt"

// SRx (ISO 14443B-2 SR) command bytes.
const (
	CmdInitiate   = 0x06
	CmdSelect     = 0x0E
	CmdGetUID     = 0x0B
	CmdReadBlock  = 0x08
	CmdWriteBlock = 0x09
)

// Initiate asks every SRx tag in the field for a random chip ID.
// Command: 06 00. Response: <chipID>.
func Initiate(t Transceiver) (byte, error) {
	resp, err := Transceive(t, []byte{CmdInitiate, 0x00}, noBlock)
	if err != nil {
		return 0, err
	}
	return resp[0], nil
}

// Select moves the tag answering to chipID into the selected state.
// Command: 0E <chipID>. The tag echoes its chip ID.
func Select(t Transceiver, chipID byte) error {
	resp, err := Transceive(t, []byte{CmdSelect, chipID}, noBlock)
	if err != nil {
		return err
	}
	if resp[0] != chipID {
		return &TransceiveError{Cmd: CmdSelect, Addr: noBlock,
			Err: fmt.Errorf("chip ID mismatch: sent 0x%02X, got 0x%02X", chipID, resp[0])}
	}
	return nil
}

// GetUID returns the identification bytes the selected tag replies with.
// Command: 0B.
func GetUID(t Transceiver) ([]byte, error) {
	return Transceive(t, []byte{CmdGetUID}, noBlock)
}

// ReadBlock reads one 4-byte block.
// Command: 08 <addr>. Only the first 4 response bytes are used.
func ReadBlock(t Transceiver, addr byte) ([BlockSize]byte, error) {
	var block [BlockSize]byte
	resp, err := Transceive(t, []byte{CmdReadBlock, addr}, int(addr))
	if err != nil {
		return block, err
	}
	if len(resp) < BlockSize {
		return block, &TransceiveError{Cmd: CmdReadBlock, Addr: int(addr),
			Err: fmt.Errorf("short response: %d bytes", len(resp))}
	}
	copy(block[:], resp)
	return block, nil
}

// WriteBlock writes one 4-byte block.
// Command: 09 <addr> <d0 d1 d2 d3>. The acknowledgement is not inspected.
func WriteBlock(t Transceiver, addr byte, data [BlockSize]byte) error {
	cmd := []byte{CmdWriteBlock, addr, data[0], data[1], data[2], data[3]}
	_, err := Transceive(t, cmd, int(addr))
	return err
}
