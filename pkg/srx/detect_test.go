package srx

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitForTagSelectsAndReadsUID(t *testing.T) {
	tag := NewEmulator(SRIX4K, nil)
	info, err := WaitForTag(context.Background(), tag, time.Second, nil)
	if err != nil {
		t.Fatalf("WaitForTag returned error: %v", err)
	}
	if info.ChipID != 0x2A || len(info.UID) != 8 {
		t.Fatalf("unexpected tag info %+v", info)
	}
	if len(tag.Log) != 3 || tag.Log[0][0] != CmdInitiate || tag.Log[1][0] != CmdSelect || tag.Log[2][0] != CmdGetUID {
		t.Fatalf("unexpected command sequence %X", tag.Log)
	}
}

func TestWaitForTagRetriesUntilPresent(t *testing.T) {
	tag := NewEmulator(SRIX4K, nil)
	tag.Absent = true
	attempts := 0
	tag.Fail = func(cmd []byte) error {
		if cmd[0] == CmdInitiate {
			attempts++
			if attempts == 2 {
				tag.Absent = false
			}
		}
		return nil
	}

	if _, err := WaitForTag(context.Background(), tag, 5*time.Second, nil); err != nil {
		t.Fatalf("WaitForTag returned error: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 INITIATE attempts, got %d", attempts)
	}
}

func TestWaitForTagNotFound(t *testing.T) {
	tag := NewEmulator(SRIX4K, nil)
	tag.Absent = true

	_, err := WaitForTag(context.Background(), tag, 0, nil)
	if !errors.Is(err, ErrTagNotFound) {
		t.Fatalf("expected ErrTagNotFound, got %v", err)
	}
}
