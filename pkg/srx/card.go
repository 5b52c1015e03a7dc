package srx

import (
	"encoding/hex"
	"log/slog"
	"strings"
)

// Transceiver abstracts the reader round trip for real PC/SC readers and test doubles.
// Implementations send one SRx frame and return the tag's answer. Only one
// command is ever in flight.
type Transceiver interface {
	Transceive(cmd []byte) ([]byte, error)
}

// Transceive sends cmd and treats an error or an empty answer as a failure of
// that command. addr is only used to annotate the error.
func Transceive(t Transceiver, cmd []byte, addr int) ([]byte, error) {
	resp, err := t.Transceive(cmd)
	if err != nil {
		return nil, &TransceiveError{Cmd: cmd[0], Addr: addr, Err: err}
	}
	if len(resp) == 0 {
		return nil, &TransceiveError{Cmd: cmd[0], Addr: addr, Err: errNoResponse}
	}
	return resp, nil
}

type tracer struct {
	next   Transceiver
	logger *slog.Logger
}

// Trace wraps t so that every frame sent and received is logged at debug level.
func Trace(t Transceiver, logger *slog.Logger) Transceiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &tracer{next: t, logger: logger}
}

func (tr *tracer) Transceive(cmd []byte) ([]byte, error) {
	tr.logger.Debug("sent", "bytes", HexUpper(cmd))
	resp, err := tr.next.Transceive(cmd)
	if err != nil {
		tr.logger.Debug("transceive failed", "error", err)
		return nil, err
	}
	tr.logger.Debug("received", "bytes", HexUpper(resp), "ascii", printable(resp))
	return resp, nil
}

// HexUpper returns b as an upper-case hex string.
func HexUpper(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

func printable(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 0x20 && c < 0x7F {
			out[i] = c
		} else {
			out[i] = '.'
		}
	}
	return string(out)
}
