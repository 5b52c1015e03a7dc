package srx

import (
	"fmt"
	"runtime"

	"github.com/ebfe/scard"
)

// PN53x frames tunnelled through the reader's escape channel.
const (
	pn53xHostToPN  = 0xD4
	pn53xPNToHost  = 0xD5
	pn53xInCommThu = 0x42
	pn53xInListTgt = 0x4A

	pn53xStatusOK      = 0x00
	pn53xStatusTimeout = 0x01
)

// ioctlEscape returns the SCARD_CTL_CODE(3500) control code for the platform.
func ioctlEscape() uint32 {
	if runtime.GOOS == "windows" {
		return 0x00310000 | 3500<<2
	}
	return 0x42000000 + 3500
}

// Connection wraps a PC/SC connection to a PN53x based reader (ACR122U and
// friends). SRx tags are not ISO 14443-4 compliant, so frames go straight to
// the PN53x with InCommunicateThru instead of through APDUs.
type Connection struct {
	ctx       *scard.Context
	Card      *scard.Card
	Reader    string
	ReaderIdx int
}

// Connect establishes a direct connection to a card reader.
//
// Parameters:
//   - readerIndex: Index of the reader to use (0-based)
//
// Returns:
//   - Connection struct with context and reader handle
//   - Error if connection fails
func Connect(readerIndex int) (*Connection, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("EstablishContext failed: %w", err)
	}

	readers, err := ctx.ListReaders()
	if err != nil || len(readers) == 0 {
		ctx.Release()
		return nil, fmt.Errorf("no readers found: %v", err)
	}
	if readerIndex < 0 || readerIndex >= len(readers) {
		ctx.Release()
		return nil, fmt.Errorf("reader index out of range (0..%d)", len(readers)-1)
	}

	reader := readers[readerIndex]
	card, err := ctx.Connect(reader, scard.ShareDirect, scard.ProtocolUndefined)
	if err != nil {
		ctx.Release()
		return nil, fmt.Errorf("connect failed: %w", err)
	}

	c := &Connection{
		ctx:       ctx,
		Card:      card,
		Reader:    reader,
		ReaderIdx: readerIndex,
	}
	// ISO14443B-2 SR tags are only found once the RF front end has been set up
	// for type B by a passive target scan. Its result does not matter.
	_, _ = c.escape([]byte{pn53xHostToPN, pn53xInListTgt, 0x01, 0x03, 0x00})
	return c, nil
}

// Close disconnects the reader and releases the PC/SC context.
func (c *Connection) Close() {
	if c == nil {
		return
	}
	if c.Card != nil {
		_ = c.Card.Disconnect(scard.LeaveCard)
	}
	if c.ctx != nil {
		_ = c.ctx.Release()
	}
}

// Transceive sends one SRx frame to the tag (implements Transceiver).
func (c *Connection) Transceive(cmd []byte) ([]byte, error) {
	if c == nil || c.Card == nil {
		return nil, fmt.Errorf("connection not established")
	}
	resp, err := c.escape(buildInCommunicateThru(cmd))
	if err != nil {
		return nil, err
	}
	return parseInCommunicateThru(cmd, resp)
}

func (c *Connection) escape(frame []byte) ([]byte, error) {
	apdu := append([]byte{0xFF, 0x00, 0x00, 0x00, byte(len(frame))}, frame...)
	return c.Card.Control(ioctlEscape(), apdu)
}

// buildInCommunicateThru wraps an SRx frame for the PN53x.
// Frame: D4 42 <cmd...>
func buildInCommunicateThru(cmd []byte) []byte {
	frame := make([]byte, 0, 2+len(cmd))
	frame = append(frame, pn53xHostToPN, pn53xInCommThu)
	return append(frame, cmd...)
}

// parseInCommunicateThru extracts the tag answer from a PN53x response.
// Response: D5 43 <status> <data...> [90 00]
//
// WRITE_BLOCK has no tag answer, so a PN53x timeout is its acknowledgement.
func parseInCommunicateThru(cmd, resp []byte) ([]byte, error) {
	if n := len(resp); n >= 2 && resp[n-2] == 0x90 && resp[n-1] == 0x00 {
		resp = resp[:n-2]
	}
	if len(resp) < 3 {
		return nil, fmt.Errorf("short reader response: %d bytes", len(resp))
	}
	if resp[0] != pn53xPNToHost || resp[1] != pn53xInCommThu+1 {
		return nil, fmt.Errorf("unexpected reader response header %02X %02X", resp[0], resp[1])
	}

	status := resp[2] & 0x3F
	switch {
	case status == pn53xStatusOK:
		data := resp[3:]
		if len(data) == 0 && len(cmd) > 0 && cmd[0] == CmdWriteBlock {
			return []byte{0x00}, nil
		}
		return data, nil
	case status == pn53xStatusTimeout && len(cmd) > 0 && cmd[0] == CmdWriteBlock:
		return []byte{0x00}, nil
	case status == pn53xStatusTimeout:
		return nil, fmt.Errorf("tag did not answer (PN53x timeout)")
	default:
		return nil, fmt.Errorf("PN53x status 0x%02X", status)
	}
}
