package srx

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpillora/backoff"
)

// TagInfo identifies the selected tag.
type TagInfo struct {
	ChipID byte
	UID    []byte
}

// WaitForTag polls for an SRx tag until one answers INITIATE and SELECT or
// timeout expires, then confirms the SRx protocol works by reading its UID.
// A zero timeout tries once.
func WaitForTag(ctx context.Context, t Transceiver, timeout time.Duration, logger *slog.Logger) (*TagInfo, error) {
	if logger == nil {
		logger = slog.Default()
	}
	deadline := time.Now().Add(timeout)
	b := &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    2 * time.Second,
		Factor: 2,
		Jitter: false,
	}

	for {
		chipID, err := selectTag(t)
		if err == nil {
			uid, err := GetUID(t)
			if err != nil {
				return nil, fmt.Errorf("get UID: %w", err)
			}
			return &TagInfo{ChipID: chipID, UID: uid}, nil
		}
		logger.Debug("no tag yet", "error", err)

		wait := b.Duration()
		if time.Now().Add(wait).After(deadline) {
			return nil, fmt.Errorf("%w after %v: %v", ErrTagNotFound, timeout, err)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrTagNotFound, ctx.Err())
		case <-time.After(wait):
		}
	}
}

func selectTag(t Transceiver) (byte, error) {
	chipID, err := Initiate(t)
	if err != nil {
		return 0, err
	}
	if err := Select(t, chipID); err != nil {
		return 0, err
	}
	return chipID, nil
}
