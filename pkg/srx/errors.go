package srx

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedInput is returned when a dump source holds fewer than DumpSize bytes.
	ErrTruncatedInput = errors.New("dump input truncated")
	// ErrOversizedInput is returned when a dump source holds more than DumpSize bytes.
	// Such a file is rejected rather than cut short, a misaligned dump can damage a tag.
	ErrOversizedInput = errors.New("dump input oversized")
	// ErrUnsupportedGeometry is returned for an unknown tag type selector.
	ErrUnsupportedGeometry = errors.New("unsupported tag type")
	// ErrTagNotFound is returned when no SRx tag answers during selection.
	ErrTagNotFound = errors.New("no SRx tag found")

	errNoResponse = errors.New("no response")
)

// noBlock marks a TransceiveError that is not tied to a block address.
const noBlock = -1

// TransceiveError represents a failed command round trip.
type TransceiveError struct {
	Cmd  byte // SRx command byte
	Addr int  // block address, or -1
	Err  error
}

func (e *TransceiveError) Error() string {
	if e.Addr == noBlock {
		return fmt.Sprintf("%s (0x%02X) failed: %v", cmdName(e.Cmd), e.Cmd, e.Err)
	}
	return fmt.Sprintf("%s (0x%02X) block 0x%02X failed: %v", cmdName(e.Cmd), e.Cmd, e.Addr, e.Err)
}

func (e *TransceiveError) Unwrap() error { return e.Err }

// cmdName returns a human-readable name for an SRx command byte.
func cmdName(cmd byte) string {
	switch cmd {
	case CmdInitiate:
		return "INITIATE"
	case CmdSelect:
		return "SELECT"
	case CmdGetUID:
		return "GET_UID"
	case CmdReadBlock:
		return "READ_BLOCK"
	case CmdWriteBlock:
		return "WRITE_BLOCK"
	default:
		return "UNKNOWN"
	}
}

// IsTransceiveError checks if err is, or wraps, a failed command round trip.
func IsTransceiveError(err error) bool {
	var tErr *TransceiveError
	return errors.As(err, &tErr)
}

// IsInputSizeError checks if err reports a dump that is not exactly DumpSize bytes.
func IsInputSizeError(err error) bool {
	return errors.Is(err, ErrTruncatedInput) || errors.Is(err, ErrOversizedInput)
}
