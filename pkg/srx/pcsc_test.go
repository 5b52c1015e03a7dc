package srx

import (
	"bytes"
	"strings"
	"testing"
)

func TestBuildInCommunicateThru(t *testing.T) {
	got := buildInCommunicateThru([]byte{0x08, 0x7F})
	want := []byte{0xD4, 0x42, 0x08, 0x7F}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected %X, got %X", want, got)
	}
}

func TestParseInCommunicateThru(t *testing.T) {
	read := []byte{CmdReadBlock, 0x00}
	write := []byte{CmdWriteBlock, 0x10, 0, 0, 0, 0}

	tests := []struct {
		name   string
		cmd    []byte
		resp   []byte
		want   []byte
		errSub string
	}{
		{"block with status word", read, []byte{0xD5, 0x43, 0x00, 0xDE, 0xAD, 0xBE, 0xEF, 0x90, 0x00}, []byte{0xDE, 0xAD, 0xBE, 0xEF}, ""},
		{"block without status word", read, []byte{0xD5, 0x43, 0x00, 0x01, 0x02, 0x03, 0x04}, []byte{0x01, 0x02, 0x03, 0x04}, ""},
		{"write timeout is ack", write, []byte{0xD5, 0x43, 0x01, 0x90, 0x00}, []byte{0x00}, ""},
		{"write empty ok is ack", write, []byte{0xD5, 0x43, 0x00, 0x90, 0x00}, []byte{0x00}, ""},
		{"read timeout", read, []byte{0xD5, 0x43, 0x01, 0x90, 0x00}, nil, "did not answer"},
		{"rf error", read, []byte{0xD5, 0x43, 0x02}, nil, "PN53x status 0x02"},
		{"bad header", read, []byte{0xD5, 0x4B, 0x00, 0x01}, nil, "unexpected reader response header"},
		{"short", read, []byte{0x90, 0x00}, nil, "short reader response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInCommunicateThru(tt.cmd, tt.resp)
			if tt.errSub != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errSub) {
					t.Fatalf("expected error containing %q, got %v", tt.errSub, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("expected %X, got %X", tt.want, got)
			}
		})
	}
}

func TestNilConnectionTransceive(t *testing.T) {
	var c *Connection
	if _, err := c.Transceive([]byte{CmdGetUID}); err == nil {
		t.Fatal("expected error from nil connection")
	}
}
